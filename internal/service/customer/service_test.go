package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/beqaperanidze/prj-customer-notification/pkg/errors"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
)

type fakeCustomerRepo struct {
	customers map[int64]*model.Customer
	withLogs  map[int64]bool
	deleted   []int64

	searchResult []*model.Customer
	searchTotal  int64
	searchFilter *model.CustomerSearchFilter
}

func newFakeCustomerRepo(customers ...*model.Customer) *fakeCustomerRepo {
	f := &fakeCustomerRepo{
		customers: make(map[int64]*model.Customer),
		withLogs:  make(map[int64]bool),
	}
	for _, c := range customers {
		f.customers[c.ID] = c
	}
	return f
}

func (f *fakeCustomerRepo) Create(_ context.Context, customer *model.Customer) error {
	customer.ID = int64(len(f.customers) + 1)
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Get(_ context.Context, id int64) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, apperrors.NotFound("customer", id)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCustomerRepo) Update(_ context.Context, customer *model.Customer) error {
	if _, ok := f.customers[customer.ID]; !ok {
		return apperrors.NotFound("customer", customer.ID)
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Delete(_ context.Context, id int64) error {
	delete(f.customers, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCustomerRepo) List(_ context.Context) ([]*model.Customer, error) {
	var out []*model.Customer
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomerRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.customers[id]
	return ok, nil
}

func (f *fakeCustomerRepo) Search(_ context.Context, filter *model.CustomerSearchFilter) ([]*model.Customer, int64, error) {
	f.searchFilter = filter
	return f.searchResult, f.searchTotal, nil
}

func (f *fakeCustomerRepo) HasNotificationLogs(_ context.Context, id int64) (bool, error) {
	return f.withLogs[id], nil
}

func TestDeleteCustomer(t *testing.T) {
	repo := newFakeCustomerRepo(&model.Customer{Base: model.Base{ID: 7}})
	svc := NewService(repo)

	err := svc.DeleteCustomer(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, repo.deleted)
}

func TestDeleteCustomer_NotFound(t *testing.T) {
	svc := NewService(newFakeCustomerRepo())

	err := svc.DeleteCustomer(context.Background(), 99)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteCustomer_BlockedByNotificationHistory(t *testing.T) {
	repo := newFakeCustomerRepo(&model.Customer{Base: model.Base{ID: 7}})
	repo.withLogs[7] = true
	svc := NewService(repo)

	err := svc.DeleteCustomer(context.Background(), 7)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindConflict, appErr.Kind)
	assert.Empty(t, repo.deleted)
}

func TestUpdateCustomer_AppliesFields(t *testing.T) {
	repo := newFakeCustomerRepo(&model.Customer{Base: model.Base{ID: 7}, FirstName: "Ada"})
	svc := NewService(repo)

	ext := "crm-42"
	updated, err := svc.UpdateCustomer(context.Background(), 7, &model.CreateCustomerRequest{
		FirstName:  "Grace",
		LastName:   "Hopper",
		ExternalID: &ext,
	})

	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.FirstName)
	assert.Equal(t, "Hopper", updated.LastName)
	require.NotNil(t, updated.ExternalID)
	assert.Equal(t, "crm-42", *updated.ExternalID)
}

func TestUpdateCustomer_NotFound(t *testing.T) {
	svc := NewService(newFakeCustomerRepo())

	_, err := svc.UpdateCustomer(context.Background(), 99, &model.CreateCustomerRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSearchCustomers_NormalizesAndPages(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.searchResult = []*model.Customer{{Base: model.Base{ID: 1}}, {Base: model.Base{ID: 2}}}
	repo.searchTotal = 42
	svc := NewService(repo)

	page, err := svc.SearchCustomers(context.Background(), &model.CustomerSearchFilter{
		Name: "ada",
		PageRequest: model.PageRequest{
			Page: 1,
			Size: 500,
		},
	})

	require.NoError(t, err)
	// Size clamps to 100 before the repo sees it
	assert.Equal(t, 100, repo.searchFilter.Size)
	assert.Equal(t, "id", repo.searchFilter.SortBy)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.Size)
	assert.Equal(t, int64(42), page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
}
