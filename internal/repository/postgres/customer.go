package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/beqaperanidze/prj-customer-notification/pkg/errors"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
	"github.com/beqaperanidze/prj-customer-notification/internal/repository"
)

// customerSortColumns is the whitelist for caller-supplied sort fields.
var customerSortColumns = map[string]string{
	"id":         "c.id",
	"firstName":  "c.first_name",
	"first_name": "c.first_name",
	"lastName":   "c.last_name",
	"last_name":  "c.last_name",
	"externalId": "c.external_id",
	"createdAt":  "c.created_at",
	"created_at": "c.created_at",
}

type customerRepository struct {
	BaseRepository
}

func NewCustomerRepository(db *sqlx.DB) repository.CustomerRepository {
	return &customerRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	query := `
		INSERT INTO customers (first_name, last_name, external_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		customer.FirstName,
		customer.LastName,
		customer.ExternalID,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Scan(&customer.ID)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id int64) (*model.Customer, error) {
	query := `SELECT * FROM customers WHERE id = $1`
	var customer model.Customer
	err := r.db.GetContext(ctx, &customer, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("customer", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	customer.UpdatedAt = time.Now()
	query := `
		UPDATE customers
		SET first_name = $1, last_name = $2, external_id = $3, updated_at = $4
		WHERE id = $5
	`
	res, err := r.db.ExecContext(ctx, query,
		customer.FirstName,
		customer.LastName,
		customer.ExternalID,
		customer.UpdatedAt,
		customer.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("customer", customer.ID)
	}
	return nil
}

// Delete removes the customer's addresses and preferences before the
// customer row itself, all inside one transaction.
func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM notification_preferences WHERE customer_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete customer preferences: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM addresses WHERE customer_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete customer addresses: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperrors.NotFound("customer", id)
		}
		return nil
	})
}

func (r *customerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	query := `SELECT * FROM customers ORDER BY id`
	customers := []*model.Customer{}
	if err := r.db.SelectContext(ctx, &customers, query); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (r *customerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check customer existence: %w", err)
	}
	return exists, nil
}

func (r *customerRepository) HasNotificationLogs(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM notification_logs WHERE customer_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check notification logs: %w", err)
	}
	return exists, nil
}

// Search composes the optional criteria into one query. Child-table
// joins (addresses, preferences) force distinct parent rows.
func (r *customerRepository) Search(ctx context.Context, filter *model.CustomerSearchFilter) ([]*model.Customer, int64, error) {
	col, ok := sortColumn(customerSortColumns, filter.SortBy)
	if !ok {
		return nil, 0, apperrors.Validation(fmt.Sprintf("unknown sort field: %s", filter.SortBy))
	}

	f := newFilter("c.*", "customers c")

	if filter.Name != "" {
		pattern := "%" + strings.ToLower(filter.Name) + "%"
		f.where("(LOWER(c.first_name) LIKE ? OR LOWER(c.last_name) LIKE ?)", pattern, pattern)
	}

	if filter.Email != "" {
		f.join("LEFT JOIN addresses ea ON ea.customer_id = c.id").
			where("ea.type = ?", model.AddressTypeEmail).
			where("LOWER(ea.value) LIKE ?", "%"+strings.ToLower(filter.Email)+"%").
			markDistinct()
	}

	if filter.Phone != "" {
		f.join("LEFT JOIN addresses pa ON pa.customer_id = c.id").
			where("pa.type = ?", model.AddressTypeSMS).
			where("pa.value LIKE ?", "%"+filter.Phone+"%").
			markDistinct()
	}

	if len(filter.OptedInTypes) > 0 {
		placeholders := make([]string, len(filter.OptedInTypes))
		args := make([]interface{}, len(filter.OptedInTypes))
		for i, t := range filter.OptedInTypes {
			placeholders[i] = "?"
			args[i] = t
		}
		f.join("LEFT JOIN notification_preferences np ON np.customer_id = c.id").
			where("np.type IN ("+strings.Join(placeholders, ", ")+")", args...).
			where("np.opted_in = ?", true).
			markDistinct()
	}

	countQuery, countArgs := f.buildCount("DISTINCT c.id")
	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	f.order(col, filter.SortDirection).page(filter.Size, filter.Offset())
	query, args := f.build()

	customers := []*model.Customer{}
	if err := r.db.SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search customers: %w", err)
	}
	return customers, total, nil
}
