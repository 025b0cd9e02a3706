package customer

import (
	"context"
	"fmt"

	apperrors "github.com/beqaperanidze/prj-customer-notification/pkg/errors"
	"github.com/beqaperanidze/prj-customer-notification/pkg/httputil"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
	"github.com/beqaperanidze/prj-customer-notification/internal/repository"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req *model.CreateCustomerRequest) (*model.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, req *model.CreateCustomerRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	ListCustomers(ctx context.Context) ([]*model.Customer, error)
	SearchCustomers(ctx context.Context, filter *model.CustomerSearchFilter) (*httputil.Page, error)
}

type Service struct {
	repo repository.CustomerRepository
}

func NewService(repo repository.CustomerRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateCustomer(ctx context.Context, req *model.CreateCustomerRequest) (*model.Customer, error) {
	customer := &model.Customer{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		ExternalID: req.ExternalID,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, req *model.CreateCustomerRequest) (*model.Customer, error) {
	customer, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.ExternalID = req.ExternalID

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// DeleteCustomer removes the customer with its addresses and
// preferences. Logged notifications keep their history, so a customer
// they reference cannot be removed.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return apperrors.NotFound("customer", id)
	}

	hasLogs, err := s.repo.HasNotificationLogs(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check notification logs: %w", err)
	}
	if hasLogs {
		return apperrors.Conflict(fmt.Sprintf("customer %d has notification history and cannot be deleted", id))
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) SearchCustomers(ctx context.Context, filter *model.CustomerSearchFilter) (*httputil.Page, error) {
	filter.Normalize()

	customers, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return httputil.NewPage(customers, filter.Page, filter.Size, total), nil
}
