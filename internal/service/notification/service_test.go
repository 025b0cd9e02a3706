package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/beqaperanidze/prj-customer-notification/pkg/errors"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
)

type fakeLogRepo struct {
	logs   map[int64]*model.NotificationLog
	nextID int64

	statusCounts    map[model.NotificationStatus]int64
	typeCounts      map[model.NotificationType]map[model.NotificationStatus]int64
	daily           []model.DailyStat
	distinct        map[model.NotificationType]int64
	successRates    map[model.NotificationType]float64
	failureReasons  map[model.NotificationType][]model.FailureReasonCount
	deliveredCounts map[model.NotificationType]int64
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{logs: make(map[int64]*model.NotificationLog), nextID: 1}
}

func (f *fakeLogRepo) Create(_ context.Context, log *model.NotificationLog) error {
	log.ID = f.nextID
	f.nextID++
	stored := *log
	f.logs[log.ID] = &stored
	return nil
}

func (f *fakeLogRepo) Get(_ context.Context, id int64) (*model.NotificationLogDTO, error) {
	log, ok := f.logs[id]
	if !ok {
		return nil, apperrors.NotFound("notification", id)
	}
	return &model.NotificationLogDTO{
		ID:            log.ID,
		CustomerID:    log.CustomerID,
		AddressID:     log.AddressID,
		Type:          log.Type,
		Status:        log.Status,
		SentAt:        log.SentAt,
		DeliveredAt:   log.DeliveredAt,
		FailureReason: log.FailureReason,
	}, nil
}

// Transition mirrors the real repository: apply sees the currently
// stored row, never a stale copy.
func (f *fakeLogRepo) Transition(_ context.Context, id int64, apply func(*model.NotificationLog)) (*model.NotificationLog, error) {
	log, ok := f.logs[id]
	if !ok {
		return nil, apperrors.NotFound("notification", id)
	}
	apply(log)
	copied := *log
	return &copied, nil
}

func (f *fakeLogRepo) ListByCustomer(context.Context, int64, *model.PageRequest) ([]*model.NotificationLogDTO, int64, error) {
	return nil, 0, nil
}

func (f *fakeLogRepo) Search(context.Context, *model.NotificationSearchFilter) ([]*model.NotificationLogDTO, int64, error) {
	return nil, 0, nil
}

func (f *fakeLogRepo) CountByStatus(context.Context, model.DateRange) (map[model.NotificationStatus]int64, error) {
	return f.statusCounts, nil
}

func (f *fakeLogRepo) CountByTypeAndStatus(context.Context, model.DateRange) (map[model.NotificationType]map[model.NotificationStatus]int64, error) {
	return f.typeCounts, nil
}

func (f *fakeLogRepo) CountByDay(context.Context, model.DateRange) ([]model.DailyStat, error) {
	return f.daily, nil
}

func (f *fakeLogRepo) CountDistinctCustomersByType(context.Context, model.DateRange) (map[model.NotificationType]int64, error) {
	return f.distinct, nil
}

func (f *fakeLogRepo) SuccessRateByType(context.Context, model.DateRange) (map[model.NotificationType]float64, error) {
	return f.successRates, nil
}

func (f *fakeLogRepo) TopFailureReasonsByType(context.Context, model.DateRange) (map[model.NotificationType][]model.FailureReasonCount, error) {
	return f.failureReasons, nil
}

func (f *fakeLogRepo) DeliveredCountByType(context.Context, model.DateRange) (map[model.NotificationType]int64, error) {
	return f.deliveredCounts, nil
}

type fakeCustomerRepo struct {
	existing map[int64]bool
}

func (f *fakeCustomerRepo) Exists(_ context.Context, id int64) (bool, error) {
	return f.existing[id], nil
}

func (f *fakeCustomerRepo) Create(context.Context, *model.Customer) error { return nil }
func (f *fakeCustomerRepo) Get(_ context.Context, id int64) (*model.Customer, error) {
	return nil, apperrors.NotFound("customer", id)
}
func (f *fakeCustomerRepo) Update(context.Context, *model.Customer) error { return nil }
func (f *fakeCustomerRepo) Delete(context.Context, int64) error           { return nil }
func (f *fakeCustomerRepo) List(context.Context) ([]*model.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) Search(context.Context, *model.CustomerSearchFilter) ([]*model.Customer, int64, error) {
	return nil, 0, nil
}
func (f *fakeCustomerRepo) HasNotificationLogs(context.Context, int64) (bool, error) {
	return false, nil
}

type fakeAddressRepo struct {
	first *model.Address
}

func (f *fakeAddressRepo) FirstForCustomer(_ context.Context, customerID int64) (*model.Address, error) {
	if f.first == nil {
		return nil, apperrors.Validation("no suitable address found for this notification type")
	}
	return f.first, nil
}

func (f *fakeAddressRepo) Create(context.Context, *model.Address) error { return nil }
func (f *fakeAddressRepo) GetForCustomer(_ context.Context, id, _ int64) (*model.Address, error) {
	return nil, apperrors.NotFound("address", id)
}
func (f *fakeAddressRepo) Update(context.Context, *model.Address) error { return nil }
func (f *fakeAddressRepo) Delete(context.Context, int64, int64) error   { return nil }
func (f *fakeAddressRepo) ListByCustomer(context.Context, int64) ([]*model.Address, error) {
	return nil, nil
}
func (f *fakeAddressRepo) ListByCustomerAndType(context.Context, int64, model.AddressType) ([]*model.Address, error) {
	return nil, nil
}
func (f *fakeAddressRepo) MakePrimary(context.Context, int64, int64, model.AddressType) error {
	return nil
}
func (f *fakeAddressRepo) SetVerified(context.Context, int64, int64, bool) error { return nil }

func newTestService(logs *fakeLogRepo, customers *fakeCustomerRepo, addresses *fakeAddressRepo) *Service {
	return NewService(logs, customers, addresses, nil)
}

func TestSend_CreatesPendingLog(t *testing.T) {
	logs := newFakeLogRepo()
	customers := &fakeCustomerRepo{existing: map[int64]bool{7: true}}
	addresses := &fakeAddressRepo{first: &model.Address{
		Base:       model.Base{ID: 11},
		CustomerID: 7,
		Type:       model.AddressTypeEmail,
		Value:      "ada@example.com",
	}}
	svc := newTestService(logs, customers, addresses)

	dto, err := svc.Send(context.Background(), &model.SendNotificationRequest{
		CustomerID: 7,
		Type:       model.NotificationTypeAlert,
		Subject:    "Outage",
		Content:    "Service degraded",
	})

	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusPending, dto.Status)
	assert.Equal(t, int64(11), dto.AddressID)
	require.NotNil(t, dto.SentAt)

	stored := logs.logs[dto.ID]
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.ExternalReferenceID)
	assert.Nil(t, stored.DeliveredAt)
}

func TestSend_UnknownType(t *testing.T) {
	svc := newTestService(newFakeLogRepo(), &fakeCustomerRepo{}, &fakeAddressRepo{})

	_, err := svc.Send(context.Background(), &model.SendNotificationRequest{
		CustomerID: 7,
		Type:       "SPAM",
	})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
}

func TestSend_CustomerMissing(t *testing.T) {
	svc := newTestService(newFakeLogRepo(), &fakeCustomerRepo{existing: map[int64]bool{}}, &fakeAddressRepo{})

	_, err := svc.Send(context.Background(), &model.SendNotificationRequest{
		CustomerID: 99,
		Type:       model.NotificationTypeAlert,
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSend_NoAddresses(t *testing.T) {
	svc := newTestService(newFakeLogRepo(), &fakeCustomerRepo{existing: map[int64]bool{7: true}}, &fakeAddressRepo{})

	_, err := svc.Send(context.Background(), &model.SendNotificationRequest{
		CustomerID: 7,
		Type:       model.NotificationTypeAlert,
	})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
}

func TestUpdateStatus_DeliveredStampsOnce(t *testing.T) {
	logs := newFakeLogRepo()
	svc := newTestService(logs, &fakeCustomerRepo{}, &fakeAddressRepo{})

	log := &model.NotificationLog{Status: model.NotificationStatusSent}
	require.NoError(t, logs.Create(context.Background(), log))

	dto, err := svc.UpdateStatus(context.Background(), log.ID, model.NotificationStatusDelivered, "")
	require.NoError(t, err)
	require.NotNil(t, dto.DeliveredAt)
	firstStamp := *dto.DeliveredAt

	time.Sleep(5 * time.Millisecond)

	dto, err = svc.UpdateStatus(context.Background(), log.ID, model.NotificationStatusDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, firstStamp, *dto.DeliveredAt)
}

func TestUpdateStatus_FailedRecordsReason(t *testing.T) {
	logs := newFakeLogRepo()
	svc := newTestService(logs, &fakeCustomerRepo{}, &fakeAddressRepo{})

	log := &model.NotificationLog{Status: model.NotificationStatusSent}
	require.NoError(t, logs.Create(context.Background(), log))

	dto, err := svc.UpdateStatus(context.Background(), log.ID, model.NotificationStatusFailed, "mailbox full")
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusFailed, dto.Status)
	require.NotNil(t, dto.FailureReason)
	assert.Equal(t, "mailbox full", *dto.FailureReason)
}

func TestUpdateStatus_FailedKeepsDeliveredAt(t *testing.T) {
	logs := newFakeLogRepo()
	svc := newTestService(logs, &fakeCustomerRepo{}, &fakeAddressRepo{})

	delivered := time.Now().Add(-time.Hour)
	log := &model.NotificationLog{Status: model.NotificationStatusDelivered, DeliveredAt: &delivered}
	require.NoError(t, logs.Create(context.Background(), log))

	dto, err := svc.UpdateStatus(context.Background(), log.ID, model.NotificationStatusFailed, "late bounce")
	require.NoError(t, err)
	require.NotNil(t, dto.DeliveredAt)
	assert.Equal(t, delivered.Unix(), dto.DeliveredAt.Unix())
}

func TestUpdateStatus_FailedAfterDeliveredKeepsStamp(t *testing.T) {
	logs := newFakeLogRepo()
	svc := newTestService(logs, &fakeCustomerRepo{}, &fakeAddressRepo{})

	log := &model.NotificationLog{Status: model.NotificationStatusSent}
	require.NoError(t, logs.Create(context.Background(), log))

	dto, err := svc.UpdateStatus(context.Background(), log.ID, model.NotificationStatusDelivered, "")
	require.NoError(t, err)
	require.NotNil(t, dto.DeliveredAt)
	stamp := *dto.DeliveredAt

	dto, err = svc.UpdateStatus(context.Background(), log.ID, model.NotificationStatusFailed, "timeout")
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusFailed, dto.Status)
	require.NotNil(t, dto.DeliveredAt)
	assert.Equal(t, stamp, *dto.DeliveredAt)
	require.NotNil(t, dto.FailureReason)
	assert.Equal(t, "timeout", *dto.FailureReason)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc := newTestService(newFakeLogRepo(), &fakeCustomerRepo{}, &fakeAddressRepo{})

	_, err := svc.UpdateStatus(context.Background(), 1, "LOST", "")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := newTestService(newFakeLogRepo(), &fakeCustomerRepo{}, &fakeAddressRepo{})

	_, err := svc.UpdateStatus(context.Background(), 99, model.NotificationStatusSent, "")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStatistics_AssemblesAggregates(t *testing.T) {
	logs := newFakeLogRepo()
	logs.statusCounts = map[model.NotificationStatus]int64{model.NotificationStatusDelivered: 10}
	logs.typeCounts = map[model.NotificationType]map[model.NotificationStatus]int64{
		model.NotificationTypeAlert: {model.NotificationStatusDelivered: 10},
	}
	logs.daily = []model.DailyStat{{Total: 10, Delivered: 10}}
	svc := newTestService(logs, &fakeCustomerRepo{}, &fakeAddressRepo{})

	stats, err := svc.Statistics(context.Background(), model.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, logs.statusCounts, stats.StatusCounts)
	assert.Equal(t, logs.typeCounts, stats.TypeStatistics)
	assert.Equal(t, logs.daily, stats.DailyStatistics)
}

func TestCustomerStatistics_EchoesID(t *testing.T) {
	logs := newFakeLogRepo()
	logs.statusCounts = map[model.NotificationStatus]int64{model.NotificationStatusPending: 1}
	customers := &fakeCustomerRepo{existing: map[int64]bool{7: true}}
	svc := newTestService(logs, customers, &fakeAddressRepo{})

	stats, err := svc.CustomerStatistics(context.Background(), 7, model.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.CustomerID)
	assert.Equal(t, logs.statusCounts, stats.StatusCounts)
}

func TestCustomerStatistics_CustomerMissing(t *testing.T) {
	svc := newTestService(newFakeLogRepo(), &fakeCustomerRepo{existing: map[int64]bool{}}, &fakeAddressRepo{})

	_, err := svc.CustomerStatistics(context.Background(), 99, model.DateRange{})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestOptInReport_EngagementRateIsStubbed(t *testing.T) {
	logs := newFakeLogRepo()
	logs.distinct = map[model.NotificationType]int64{model.NotificationTypeMarketing: 4}
	logs.successRates = map[model.NotificationType]float64{model.NotificationTypeMarketing: 75.0}
	logs.failureReasons = map[model.NotificationType][]model.FailureReasonCount{
		model.NotificationTypeMarketing: {{Reason: "mailbox full", Count: 2}},
	}
	logs.deliveredCounts = map[model.NotificationType]int64{
		model.NotificationTypeMarketing: 3,
		model.NotificationTypeAlert:     1,
	}
	svc := newTestService(logs, &fakeCustomerRepo{}, &fakeAddressRepo{})

	report, err := svc.OptInReport(context.Background(), model.DateRange{})
	require.NoError(t, err)

	assert.Equal(t, int64(4), report.OptInCountsByType[model.NotificationTypeMarketing])
	assert.InDelta(t, 75.0, report.SuccessRateByType[model.NotificationTypeMarketing], 0.001)
	assert.Len(t, report.TopFailureReasons[model.NotificationTypeMarketing], 1)

	marketing := report.EngagementRateByType[model.NotificationTypeMarketing]
	assert.Equal(t, int64(3), marketing.DeliveredCount)
	assert.Zero(t, marketing.EngagementRate)

	alert := report.EngagementRateByType[model.NotificationTypeAlert]
	assert.Equal(t, int64(1), alert.DeliveredCount)
	assert.Zero(t, alert.EngagementRate)
}
