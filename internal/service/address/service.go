package address

import (
	"context"
	"fmt"

	apperrors "github.com/beqaperanidze/prj-customer-notification/pkg/errors"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
	"github.com/beqaperanidze/prj-customer-notification/internal/repository"
)

type AddressService interface {
	ListAddresses(ctx context.Context, customerID int64) ([]*model.Address, error)
	ListAddressesByType(ctx context.Context, customerID int64, typ model.AddressType) ([]*model.Address, error)
	GetAddress(ctx context.Context, id, customerID int64) (*model.Address, error)
	CreateAddress(ctx context.Context, customerID int64, req *model.CreateAddressRequest) (*model.Address, error)
	UpdateAddress(ctx context.Context, id, customerID int64, req *model.CreateAddressRequest) (*model.Address, error)
	SetPrimaryAddress(ctx context.Context, id, customerID int64) (*model.Address, error)
	SetVerified(ctx context.Context, id, customerID int64, verified bool) (*model.Address, error)
	DeleteAddress(ctx context.Context, id, customerID int64) error
}

type Service struct {
	repo         repository.AddressRepository
	customerRepo repository.CustomerRepository
}

func NewService(repo repository.AddressRepository, customerRepo repository.CustomerRepository) *Service {
	return &Service{repo: repo, customerRepo: customerRepo}
}

func (s *Service) ListAddresses(ctx context.Context, customerID int64) ([]*model.Address, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) ListAddressesByType(ctx context.Context, customerID int64, typ model.AddressType) ([]*model.Address, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	if !typ.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown address type: %s", typ))
	}
	return s.repo.ListByCustomerAndType(ctx, customerID, typ)
}

func (s *Service) GetAddress(ctx context.Context, id, customerID int64) (*model.Address, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.GetForCustomer(ctx, id, customerID)
}

// CreateAddress persists a new address. New addresses always start
// unverified.
func (s *Service) CreateAddress(ctx context.Context, customerID int64, req *model.CreateAddressRequest) (*model.Address, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown address type: %s", req.Type))
	}

	address := &model.Address{
		CustomerID: customerID,
		Type:       req.Type,
		Value:      req.Value,
		Verified:   false,
		Primary:    req.Primary,
	}
	if err := s.repo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return address, nil
}

func (s *Service) UpdateAddress(ctx context.Context, id, customerID int64, req *model.CreateAddressRequest) (*model.Address, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown address type: %s", req.Type))
	}

	address, err := s.repo.GetForCustomer(ctx, id, customerID)
	if err != nil {
		return nil, err
	}

	address.Type = req.Type
	address.Value = req.Value
	address.Primary = req.Primary

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return address, nil
}

func (s *Service) SetPrimaryAddress(ctx context.Context, id, customerID int64) (*model.Address, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	address, err := s.repo.GetForCustomer(ctx, id, customerID)
	if err != nil {
		return nil, err
	}

	if !address.Primary {
		if err := s.repo.MakePrimary(ctx, id, customerID, address.Type); err != nil {
			return nil, fmt.Errorf("failed to set primary address: %w", err)
		}
		address, err = s.repo.GetForCustomer(ctx, id, customerID)
		if err != nil {
			return nil, err
		}
	}
	return address, nil
}

func (s *Service) SetVerified(ctx context.Context, id, customerID int64, verified bool) (*model.Address, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	if err := s.repo.SetVerified(ctx, id, customerID, verified); err != nil {
		return nil, err
	}
	return s.repo.GetForCustomer(ctx, id, customerID)
}

func (s *Service) DeleteAddress(ctx context.Context, id, customerID int64) error {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, customerID)
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
