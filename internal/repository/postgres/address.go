package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/beqaperanidze/prj-customer-notification/pkg/errors"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
	"github.com/beqaperanidze/prj-customer-notification/internal/repository"
)

type addressRepository struct {
	BaseRepository
}

func NewAddressRepository(db *sqlx.DB) repository.AddressRepository {
	return &addressRepository{BaseRepository: NewBaseRepository(db)}
}

// Create persists a new address. A new primary unmarks any existing
// primary of the same (customer, type) pair inside the same transaction.
func (r *addressRepository) Create(ctx context.Context, address *model.Address) error {
	now := time.Now()
	address.CreatedAt = now
	address.UpdatedAt = now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if address.Primary {
			if err := resetPrimary(ctx, tx, address.CustomerID, address.Type, now); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO addresses (customer_id, type, value, verified, is_primary, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, query,
			address.CustomerID,
			address.Type,
			address.Value,
			address.Verified,
			address.Primary,
			address.CreatedAt,
			address.UpdatedAt,
		).Scan(&address.ID)
		if err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
}

func (r *addressRepository) GetForCustomer(ctx context.Context, id, customerID int64) (*model.Address, error) {
	query := `SELECT * FROM addresses WHERE id = $1 AND customer_id = $2`
	var address model.Address
	err := r.db.GetContext(ctx, &address, query, id, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("address", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return &address, nil
}

func (r *addressRepository) Update(ctx context.Context, address *model.Address) error {
	address.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if address.Primary {
			if err := resetPrimaryExcept(ctx, tx, address.CustomerID, address.Type, address.ID, address.UpdatedAt); err != nil {
				return err
			}
		}

		query := `
			UPDATE addresses
			SET type = $1, value = $2, is_primary = $3, updated_at = $4
			WHERE id = $5 AND customer_id = $6
		`
		res, err := tx.ExecContext(ctx, query,
			address.Type,
			address.Value,
			address.Primary,
			address.UpdatedAt,
			address.ID,
			address.CustomerID,
		)
		if err != nil {
			return fmt.Errorf("failed to update address: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperrors.NotFound("address", address.ID)
		}
		return nil
	})
}

func (r *addressRepository) Delete(ctx context.Context, id, customerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1 AND customer_id = $2`, id, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("address", id)
	}
	return nil
}

func (r *addressRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*model.Address, error) {
	query := `SELECT * FROM addresses WHERE customer_id = $1 ORDER BY id`
	addresses := []*model.Address{}
	if err := r.db.SelectContext(ctx, &addresses, query, customerID); err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

func (r *addressRepository) ListByCustomerAndType(ctx context.Context, customerID int64, typ model.AddressType) ([]*model.Address, error) {
	query := `SELECT * FROM addresses WHERE customer_id = $1 AND type = $2 ORDER BY id`
	addresses := []*model.Address{}
	if err := r.db.SelectContext(ctx, &addresses, query, customerID, typ); err != nil {
		return nil, fmt.Errorf("failed to list addresses by type: %w", err)
	}
	return addresses, nil
}

// FirstForCustomer returns the customer's oldest address. The send
// placeholder uses it; there is no channel matching.
func (r *addressRepository) FirstForCustomer(ctx context.Context, customerID int64) (*model.Address, error) {
	query := `SELECT * FROM addresses WHERE customer_id = $1 ORDER BY id LIMIT 1`
	var address model.Address
	err := r.db.GetContext(ctx, &address, query, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Validation("no suitable address found for this notification type")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get first address: %w", err)
	}
	return &address, nil
}

// MakePrimary promotes id to primary for its (customer, type) pair,
// unmarking every other primary first. Both writes share one
// transaction so concurrent requests cannot leave two primaries.
func (r *addressRepository) MakePrimary(ctx context.Context, id, customerID int64, typ model.AddressType) error {
	now := time.Now()
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := resetPrimaryExcept(ctx, tx, customerID, typ, id, now); err != nil {
			return err
		}

		query := `
			UPDATE addresses
			SET is_primary = TRUE, updated_at = $1
			WHERE id = $2 AND customer_id = $3
		`
		res, err := tx.ExecContext(ctx, query, now, id, customerID)
		if err != nil {
			return fmt.Errorf("failed to set primary address: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperrors.NotFound("address", id)
		}
		return nil
	})
}

func (r *addressRepository) SetVerified(ctx context.Context, id, customerID int64, verified bool) error {
	query := `
		UPDATE addresses
		SET verified = $1, updated_at = $2
		WHERE id = $3 AND customer_id = $4
	`
	res, err := r.db.ExecContext(ctx, query, verified, time.Now(), id, customerID)
	if err != nil {
		return fmt.Errorf("failed to update verification status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("address", id)
	}
	return nil
}

func resetPrimary(ctx context.Context, tx *sqlx.Tx, customerID int64, typ model.AddressType, now time.Time) error {
	query := `
		UPDATE addresses
		SET is_primary = FALSE, updated_at = $1
		WHERE customer_id = $2 AND type = $3 AND is_primary = TRUE
	`
	if _, err := tx.ExecContext(ctx, query, now, customerID, typ); err != nil {
		return fmt.Errorf("failed to reset primary addresses: %w", err)
	}
	return nil
}

func resetPrimaryExcept(ctx context.Context, tx *sqlx.Tx, customerID int64, typ model.AddressType, exceptID int64, now time.Time) error {
	query := `
		UPDATE addresses
		SET is_primary = FALSE, updated_at = $1
		WHERE customer_id = $2 AND type = $3 AND is_primary = TRUE AND id <> $4
	`
	if _, err := tx.ExecContext(ctx, query, now, customerID, typ, exceptID); err != nil {
		return fmt.Errorf("failed to reset primary addresses: %w", err)
	}
	return nil
}
