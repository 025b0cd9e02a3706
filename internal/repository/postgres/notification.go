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

var notificationSortColumns = map[string]string{
	"id":         "n.id",
	"type":       "n.type",
	"status":     "n.status",
	"sentAt":     "n.sent_at",
	"sent_at":    "n.sent_at",
	"createdAt":  "n.created_at",
	"created_at": "n.created_at",
}

const notificationDTOColumns = `
	n.id, n.customer_id, c.first_name || ' ' || c.last_name AS customer_name,
	n.address_id, a.value AS address_value,
	n.type, n.status, n.external_reference_id, n.subject, n.content,
	n.sent_at, n.delivered_at, n.failure_reason, n.created_at, n.updated_at`

const notificationDTOJoins = `JOIN customers c ON c.id = n.customer_id JOIN addresses a ON a.id = n.address_id`

type notificationLogRepository struct {
	BaseRepository
}

func NewNotificationLogRepository(db *sqlx.DB) repository.NotificationLogRepository {
	return &notificationLogRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *notificationLogRepository) Create(ctx context.Context, log *model.NotificationLog) error {
	now := time.Now()
	log.CreatedAt = now
	log.UpdatedAt = now

	query := `
		INSERT INTO notification_logs
			(customer_id, address_id, type, status, external_reference_id,
			 subject, content, sent_at, delivered_at, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		log.CustomerID,
		log.AddressID,
		log.Type,
		log.Status,
		log.ExternalReferenceID,
		log.Subject,
		log.Content,
		log.SentAt,
		log.DeliveredAt,
		log.FailureReason,
		log.CreatedAt,
		log.UpdatedAt,
	).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("failed to create notification log: %w", err)
	}
	return nil
}

func (r *notificationLogRepository) Get(ctx context.Context, id int64) (*model.NotificationLogDTO, error) {
	query := fmt.Sprintf(`SELECT %s FROM notification_logs n %s WHERE n.id = $1`,
		notificationDTOColumns, notificationDTOJoins)
	var dto model.NotificationLogDTO
	err := r.db.GetContext(ctx, &dto, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("notification", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &dto, nil
}

// Transition applies a status change as a read-modify-write in one
// transaction. The row lock serializes concurrent transitions, so
// apply always observes the latest committed state.
func (r *notificationLogRepository) Transition(ctx context.Context, id int64, apply func(*model.NotificationLog)) (*model.NotificationLog, error) {
	var log model.NotificationLog
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &log,
			`SELECT * FROM notification_logs WHERE id = $1 FOR UPDATE`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("notification", id)
		}
		if err != nil {
			return fmt.Errorf("failed to get notification: %w", err)
		}

		apply(&log)
		log.UpdatedAt = time.Now()

		_, err = tx.ExecContext(ctx, `
			UPDATE notification_logs
			SET status = $1, delivered_at = $2, failure_reason = $3, updated_at = $4
			WHERE id = $5
		`,
			log.Status,
			log.DeliveredAt,
			log.FailureReason,
			log.UpdatedAt,
			log.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update notification status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *notificationLogRepository) ListByCustomer(ctx context.Context, customerID int64, page *model.PageRequest) ([]*model.NotificationLogDTO, int64, error) {
	col, ok := sortColumn(notificationSortColumns, page.SortBy)
	if !ok {
		return nil, 0, apperrors.Validation(fmt.Sprintf("unknown sort field: %s", page.SortBy))
	}

	var total int64
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM notification_logs WHERE customer_id = $1`, customerID); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM notification_logs n %s WHERE n.customer_id = $1 ORDER BY %s %s LIMIT $2 OFFSET $3`,
		notificationDTOColumns, notificationDTOJoins, col, page.SortDirection)

	dtos := []*model.NotificationLogDTO{}
	if err := r.db.SelectContext(ctx, &dtos, query, customerID, page.Size, page.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return dtos, total, nil
}

// Search AND-composes the optional criteria. No child collections hang
// off notification_logs, so no distinct handling is needed.
func (r *notificationLogRepository) Search(ctx context.Context, filter *model.NotificationSearchFilter) ([]*model.NotificationLogDTO, int64, error) {
	col, ok := sortColumn(notificationSortColumns, filter.SortBy)
	if !ok {
		return nil, 0, apperrors.Validation(fmt.Sprintf("unknown sort field: %s", filter.SortBy))
	}

	f := newFilter(notificationDTOColumns, "notification_logs n").join(notificationDTOJoins)

	if filter.CustomerID != nil {
		f.where("n.customer_id = ?", *filter.CustomerID)
	}
	if filter.Type != nil {
		f.where("n.type = ?", *filter.Type)
	}
	if filter.Status != nil {
		f.where("n.status = ?", *filter.Status)
	}
	windowConds(f, "n.created_at", filter.DateRange)

	countQuery, countArgs := f.buildCount("*")
	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	f.order(col, filter.SortDirection).page(filter.Size, filter.Offset())
	query, args := f.build()

	dtos := []*model.NotificationLogDTO{}
	if err := r.db.SelectContext(ctx, &dtos, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search notifications: %w", err)
	}
	return dtos, total, nil
}

func (r *notificationLogRepository) CountByStatus(ctx context.Context, window model.DateRange) (map[model.NotificationStatus]int64, error) {
	f := newFilter("n.status, COUNT(*) AS count", "notification_logs n")
	windowConds(f, "n.created_at", window)
	query, args := f.build()
	query += " GROUP BY n.status"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.NotificationStatus]int64)
	for rows.Next() {
		var status model.NotificationStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *notificationLogRepository) CountByTypeAndStatus(ctx context.Context, window model.DateRange) (map[model.NotificationType]map[model.NotificationStatus]int64, error) {
	f := newFilter("n.type, n.status, COUNT(*) AS count", "notification_logs n")
	windowConds(f, "n.created_at", window)
	query, args := f.build()
	query += " GROUP BY n.type, n.status"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count by type and status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.NotificationType]map[model.NotificationStatus]int64)
	for rows.Next() {
		var typ model.NotificationType
		var status model.NotificationStatus
		var count int64
		if err := rows.Scan(&typ, &status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type/status count: %w", err)
		}
		if counts[typ] == nil {
			counts[typ] = make(map[model.NotificationStatus]int64)
		}
		counts[typ][status] = count
	}
	return counts, rows.Err()
}

// CountByDay buckets rows per calendar date. Days without rows are
// absent; callers must not expect zero-filled gaps.
func (r *notificationLogRepository) CountByDay(ctx context.Context, window model.DateRange) ([]model.DailyStat, error) {
	f := newFilter(
		`n.created_at::date AS day,
		COUNT(*) AS total,
		SUM(CASE WHEN n.status = 'DELIVERED' THEN 1 ELSE 0 END) AS delivered,
		SUM(CASE WHEN n.status = 'FAILED' THEN 1 ELSE 0 END) AS failed`,
		"notification_logs n")
	windowConds(f, "n.created_at", window)
	query, args := f.build()
	query += " GROUP BY n.created_at::date ORDER BY n.created_at::date"

	stats := []model.DailyStat{}
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count by day: %w", err)
	}
	return stats, nil
}

func (r *notificationLogRepository) CountDistinctCustomersByType(ctx context.Context, window model.DateRange) (map[model.NotificationType]int64, error) {
	f := newFilter("n.type, COUNT(DISTINCT n.customer_id) AS count", "notification_logs n")
	windowConds(f, "n.created_at", window)
	query, args := f.build()
	query += " GROUP BY n.type"

	return r.scanTypeCounts(ctx, query, args, "distinct customers by type")
}

// SuccessRateByType computes delivered percentage per type. Types with
// zero rows in the window never appear, so no zero division occurs.
func (r *notificationLogRepository) SuccessRateByType(ctx context.Context, window model.DateRange) (map[model.NotificationType]float64, error) {
	f := newFilter(
		"n.type, SUM(CASE WHEN n.status = 'DELIVERED' THEN 1 ELSE 0 END) * 100.0 / COUNT(*) AS rate",
		"notification_logs n")
	windowConds(f, "n.created_at", window)
	query, args := f.build()
	query += " GROUP BY n.type"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to compute success rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[model.NotificationType]float64)
	for rows.Next() {
		var typ model.NotificationType
		var rate float64
		if err := rows.Scan(&typ, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan success rate: %w", err)
		}
		rates[typ] = rate
	}
	return rates, rows.Err()
}

// TopFailureReasonsByType groups FAILED rows by (type, reason) ordered
// by count descending, regrouped per type in Go.
func (r *notificationLogRepository) TopFailureReasonsByType(ctx context.Context, window model.DateRange) (map[model.NotificationType][]model.FailureReasonCount, error) {
	f := newFilter("n.type, n.failure_reason, COUNT(*) AS count", "notification_logs n")
	f.where("n.status = ?", model.NotificationStatusFailed)
	windowConds(f, "n.created_at", window)
	query, args := f.build()
	query += " GROUP BY n.type, n.failure_reason ORDER BY n.type, COUNT(*) DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get failure reasons: %w", err)
	}
	defer rows.Close()

	reasons := make(map[model.NotificationType][]model.FailureReasonCount)
	for rows.Next() {
		var typ model.NotificationType
		var reason sql.NullString
		var count int64
		if err := rows.Scan(&typ, &reason, &count); err != nil {
			return nil, fmt.Errorf("failed to scan failure reason: %w", err)
		}
		reasons[typ] = append(reasons[typ], model.FailureReasonCount{
			Reason: reason.String,
			Count:  count,
		})
	}
	return reasons, rows.Err()
}

func (r *notificationLogRepository) DeliveredCountByType(ctx context.Context, window model.DateRange) (map[model.NotificationType]int64, error) {
	f := newFilter("n.type, COUNT(*) AS count", "notification_logs n")
	f.where("n.status = ?", model.NotificationStatusDelivered)
	windowConds(f, "n.created_at", window)
	query, args := f.build()
	query += " GROUP BY n.type"

	return r.scanTypeCounts(ctx, query, args, "delivered counts by type")
}

func (r *notificationLogRepository) scanTypeCounts(ctx context.Context, query string, args []interface{}, what string) (map[model.NotificationType]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	defer rows.Close()

	counts := make(map[model.NotificationType]int64)
	for rows.Next() {
		var typ model.NotificationType
		var count int64
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		counts[typ] = count
	}
	return counts, rows.Err()
}
