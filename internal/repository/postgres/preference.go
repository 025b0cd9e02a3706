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

type preferenceRepository struct {
	BaseRepository
}

func NewPreferenceRepository(db *sqlx.DB) repository.PreferenceRepository {
	return &preferenceRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *preferenceRepository) Create(ctx context.Context, pref *model.NotificationPreference) error {
	now := time.Now()
	pref.CreatedAt = now
	pref.UpdatedAt = now

	query := `
		INSERT INTO notification_preferences (customer_id, type, channel_type, opted_in, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		pref.CustomerID,
		pref.Type,
		pref.ChannelType,
		pref.OptedIn,
		pref.CreatedAt,
		pref.UpdatedAt,
	).Scan(&pref.ID)
	if err != nil {
		return fmt.Errorf("failed to create preference: %w", err)
	}
	return nil
}

func (r *preferenceRepository) GetForCustomer(ctx context.Context, id, customerID int64) (*model.NotificationPreference, error) {
	query := `SELECT * FROM notification_preferences WHERE id = $1 AND customer_id = $2`
	var pref model.NotificationPreference
	err := r.db.GetContext(ctx, &pref, query, id, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("preference", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	return &pref, nil
}

func (r *preferenceRepository) Update(ctx context.Context, pref *model.NotificationPreference) error {
	pref.UpdatedAt = time.Now()
	query := `
		UPDATE notification_preferences
		SET type = $1, channel_type = $2, opted_in = $3, updated_at = $4
		WHERE id = $5 AND customer_id = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		pref.Type,
		pref.ChannelType,
		pref.OptedIn,
		pref.UpdatedAt,
		pref.ID,
		pref.CustomerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update preference: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("preference", pref.ID)
	}
	return nil
}

func (r *preferenceRepository) Delete(ctx context.Context, id, customerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notification_preferences WHERE id = $1 AND customer_id = $2`, id, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("preference", id)
	}
	return nil
}

func (r *preferenceRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*model.NotificationPreference, error) {
	query := `SELECT * FROM notification_preferences WHERE customer_id = $1 ORDER BY id`
	prefs := []*model.NotificationPreference{}
	if err := r.db.SelectContext(ctx, &prefs, query, customerID); err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	return prefs, nil
}

// ExistsDuplicate reports whether another preference row already covers
// the same (customer, type, channel) triple. excludeID ignores the row
// being updated.
func (r *preferenceRepository) ExistsDuplicate(ctx context.Context, customerID int64, typ model.NotificationType, channel model.AddressType, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM notification_preferences
			WHERE customer_id = $1 AND type = $2 AND channel_type = $3 AND id <> $4
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, customerID, typ, channel, excludeID); err != nil {
		return false, fmt.Errorf("failed to check duplicate preference: %w", err)
	}
	return exists, nil
}
