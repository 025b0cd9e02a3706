package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/beqaperanidze/prj-customer-notification/pkg/errors"
	"github.com/beqaperanidze/prj-customer-notification/pkg/httputil"
	"github.com/beqaperanidze/prj-customer-notification/pkg/metrics"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
	"github.com/beqaperanidze/prj-customer-notification/internal/repository"
)

type NotificationService interface {
	GetNotification(ctx context.Context, id int64) (*model.NotificationLogDTO, error)
	ListByCustomer(ctx context.Context, customerID int64, page *model.PageRequest) (*httputil.Page, error)
	SearchNotifications(ctx context.Context, filter *model.NotificationSearchFilter) (*httputil.Page, error)
	Send(ctx context.Context, req *model.SendNotificationRequest) (*model.NotificationLogDTO, error)
	UpdateStatus(ctx context.Context, id int64, status model.NotificationStatus, failureReason string) (*model.NotificationLogDTO, error)
	Statistics(ctx context.Context, window model.DateRange) (*model.NotificationStatistics, error)
	CustomerStatistics(ctx context.Context, customerID int64, window model.DateRange) (*model.CustomerNotificationStatistics, error)
	OptInReport(ctx context.Context, window model.DateRange) (*model.OptInReport, error)
}

type Service struct {
	repo         repository.NotificationLogRepository
	customerRepo repository.CustomerRepository
	addressRepo  repository.AddressRepository
	metrics      *metrics.Metrics
}

func NewService(repo repository.NotificationLogRepository, customerRepo repository.CustomerRepository, addressRepo repository.AddressRepository, m *metrics.Metrics) *Service {
	return &Service{
		repo:         repo,
		customerRepo: customerRepo,
		addressRepo:  addressRepo,
		metrics:      m,
	}
}

func (s *Service) GetNotification(ctx context.Context, id int64) (*model.NotificationLogDTO, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64, page *model.PageRequest) (*httputil.Page, error) {
	page.Normalize()
	dtos, total, err := s.repo.ListByCustomer(ctx, customerID, page)
	if err != nil {
		return nil, err
	}
	return httputil.NewPage(dtos, page.Page, page.Size, total), nil
}

func (s *Service) SearchNotifications(ctx context.Context, filter *model.NotificationSearchFilter) (*httputil.Page, error) {
	filter.Normalize()
	dtos, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return httputil.NewPage(dtos, filter.Page, filter.Size, total), nil
}

// Send records the notification attempt; delivery itself belongs to an
// external service. The log row starts PENDING against the customer's
// first address.
func (s *Service) Send(ctx context.Context, req *model.SendNotificationRequest) (*model.NotificationLogDTO, error) {
	if !req.Type.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown notification type: %s", req.Type))
	}

	exists, err := s.customerRepo.Exists(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("customer", req.CustomerID)
	}

	address, err := s.addressRepo.FirstForCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	log := &model.NotificationLog{
		CustomerID:          req.CustomerID,
		AddressID:           address.ID,
		Type:                req.Type,
		Status:              model.NotificationStatusPending,
		ExternalReferenceID: uuid.New().String(),
		Subject:             req.Subject,
		Content:             req.Content,
		SentAt:              &now,
	}
	if err := s.repo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to log notification: %w", err)
	}
	if s.metrics != nil {
		s.metrics.NotificationsCreated.WithLabelValues(string(req.Type)).Inc()
	}

	return s.repo.Get(ctx, log.ID)
}

// UpdateStatus transitions the log row. DELIVERED stamps delivered_at
// exactly once; FAILED records the reason. deliveredAt is never
// cleared by a later FAILED transition. The read-modify-write runs
// inside one transaction so concurrent transitions cannot overwrite
// each other's stamps.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status model.NotificationStatus, failureReason string) (*model.NotificationLogDTO, error) {
	if !status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown notification status: %s", status))
	}

	_, err := s.repo.Transition(ctx, id, func(log *model.NotificationLog) {
		log.Status = status
		if status == model.NotificationStatusDelivered && log.DeliveredAt == nil {
			now := time.Now()
			log.DeliveredAt = &now
		}
		if status == model.NotificationStatusFailed {
			log.FailureReason = &failureReason
		}
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(status)).Inc()
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Statistics(ctx context.Context, window model.DateRange) (*model.NotificationStatistics, error) {
	statusCounts, err := s.repo.CountByStatus(ctx, window)
	if err != nil {
		return nil, err
	}

	typeStats, err := s.repo.CountByTypeAndStatus(ctx, window)
	if err != nil {
		return nil, err
	}

	daily, err := s.repo.CountByDay(ctx, window)
	if err != nil {
		return nil, err
	}

	return &model.NotificationStatistics{
		StatusCounts:    statusCounts,
		TypeStatistics:  typeStats,
		DailyStatistics: daily,
	}, nil
}

// CustomerStatistics verifies the customer exists and returns the
// statistics payload with the customer id echoed. The aggregates stay
// global.
func (s *Service) CustomerStatistics(ctx context.Context, customerID int64, window model.DateRange) (*model.CustomerNotificationStatistics, error) {
	exists, err := s.customerRepo.Exists(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("customer", customerID)
	}

	stats, err := s.Statistics(ctx, window)
	if err != nil {
		return nil, err
	}
	return &model.CustomerNotificationStatistics{
		CustomerID:             customerID,
		NotificationStatistics: *stats,
	}, nil
}

// OptInReport assembles the per-type delivery aggregates. The
// engagement rate is a fixed 0.0 stub; engagement tracking lives
// outside this system.
func (s *Service) OptInReport(ctx context.Context, window model.DateRange) (*model.OptInReport, error) {
	optInCounts, err := s.repo.CountDistinctCustomersByType(ctx, window)
	if err != nil {
		return nil, err
	}

	successRates, err := s.repo.SuccessRateByType(ctx, window)
	if err != nil {
		return nil, err
	}

	failureReasons, err := s.repo.TopFailureReasonsByType(ctx, window)
	if err != nil {
		return nil, err
	}

	deliveredCounts, err := s.repo.DeliveredCountByType(ctx, window)
	if err != nil {
		return nil, err
	}

	engagement := make(map[model.NotificationType]model.EngagementStat, len(deliveredCounts))
	for typ, count := range deliveredCounts {
		engagement[typ] = model.EngagementStat{DeliveredCount: count, EngagementRate: 0.0}
	}

	return &model.OptInReport{
		OptInCountsByType:    optInCounts,
		SuccessRateByType:    successRates,
		TopFailureReasons:    failureReasons,
		EngagementRateByType: engagement,
	}, nil
}
