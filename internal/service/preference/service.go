package preference

import (
	"context"
	"fmt"

	apperrors "github.com/beqaperanidze/prj-customer-notification/pkg/errors"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
	"github.com/beqaperanidze/prj-customer-notification/internal/repository"
)

type PreferenceService interface {
	ListPreferences(ctx context.Context, customerID int64) ([]*model.NotificationPreference, error)
	GetPreference(ctx context.Context, id, customerID int64) (*model.NotificationPreference, error)
	CreatePreference(ctx context.Context, customerID int64, req *model.CreatePreferenceRequest) (*model.NotificationPreference, error)
	UpdatePreference(ctx context.Context, id, customerID int64, req *model.CreatePreferenceRequest) (*model.NotificationPreference, error)
	DeletePreference(ctx context.Context, id, customerID int64) error
}

type Service struct {
	repo         repository.PreferenceRepository
	customerRepo repository.CustomerRepository
}

func NewService(repo repository.PreferenceRepository, customerRepo repository.CustomerRepository) *Service {
	return &Service{repo: repo, customerRepo: customerRepo}
}

func (s *Service) ListPreferences(ctx context.Context, customerID int64) ([]*model.NotificationPreference, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) GetPreference(ctx context.Context, id, customerID int64) (*model.NotificationPreference, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.GetForCustomer(ctx, id, customerID)
}

// CreatePreference rejects a second preference for the same
// (customer, type, channel) triple.
func (s *Service) CreatePreference(ctx context.Context, customerID int64, req *model.CreatePreferenceRequest) (*model.NotificationPreference, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	dup, err := s.repo.ExistsDuplicate(ctx, customerID, req.Type, req.ChannelType, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicate preference: %w", err)
	}
	if dup {
		return nil, apperrors.Conflict(fmt.Sprintf("preference for %s over %s already exists", req.Type, req.ChannelType))
	}

	pref := &model.NotificationPreference{
		CustomerID:  customerID,
		Type:        req.Type,
		ChannelType: req.ChannelType,
		OptedIn:     req.OptedIn,
	}
	if err := s.repo.Create(ctx, pref); err != nil {
		return nil, fmt.Errorf("failed to create preference: %w", err)
	}
	return pref, nil
}

func (s *Service) UpdatePreference(ctx context.Context, id, customerID int64, req *model.CreatePreferenceRequest) (*model.NotificationPreference, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	pref, err := s.repo.GetForCustomer(ctx, id, customerID)
	if err != nil {
		return nil, err
	}

	dup, err := s.repo.ExistsDuplicate(ctx, customerID, req.Type, req.ChannelType, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicate preference: %w", err)
	}
	if dup {
		return nil, apperrors.Conflict(fmt.Sprintf("preference for %s over %s already exists", req.Type, req.ChannelType))
	}

	pref.Type = req.Type
	pref.ChannelType = req.ChannelType
	pref.OptedIn = req.OptedIn

	if err := s.repo.Update(ctx, pref); err != nil {
		return nil, fmt.Errorf("failed to update preference: %w", err)
	}
	return pref, nil
}

func (s *Service) DeletePreference(ctx context.Context, id, customerID int64) error {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, customerID)
}

func validateRequest(req *model.CreatePreferenceRequest) error {
	if !req.Type.Valid() {
		return apperrors.Validation(fmt.Sprintf("unknown notification type: %s", req.Type))
	}
	if !req.ChannelType.Valid() {
		return apperrors.Validation(fmt.Sprintf("unknown channel type: %s", req.ChannelType))
	}
	return nil
}

func (s *Service) requireCustomer(ctx context.Context, customerID int64) error {
	exists, err := s.customerRepo.Exists(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return apperrors.NotFound("customer", customerID)
	}
	return nil
}
