package repository

import (
	"context"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
)

// All repository interfaces in one file
type (
	CustomerRepository interface {
		Create(ctx context.Context, customer *model.Customer) error
		Get(ctx context.Context, id int64) (*model.Customer, error)
		Update(ctx context.Context, customer *model.Customer) error
		// Delete removes the customer together with its addresses and
		// preferences in one transaction. Referencing notification logs
		// make the delete fail.
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Customer, error)
		Exists(ctx context.Context, id int64) (bool, error)
		Search(ctx context.Context, filter *model.CustomerSearchFilter) ([]*model.Customer, int64, error)
		HasNotificationLogs(ctx context.Context, id int64) (bool, error)
	}

	AddressRepository interface {
		Create(ctx context.Context, address *model.Address) error
		GetForCustomer(ctx context.Context, id, customerID int64) (*model.Address, error)
		Update(ctx context.Context, address *model.Address) error
		Delete(ctx context.Context, id, customerID int64) error
		ListByCustomer(ctx context.Context, customerID int64) ([]*model.Address, error)
		ListByCustomerAndType(ctx context.Context, customerID int64, typ model.AddressType) ([]*model.Address, error)
		FirstForCustomer(ctx context.Context, customerID int64) (*model.Address, error)
		// MakePrimary unmarks every other primary address of the same
		// (customer, type) pair and sets the flag on id, all in one
		// transaction.
		MakePrimary(ctx context.Context, id, customerID int64, typ model.AddressType) error
		SetVerified(ctx context.Context, id, customerID int64, verified bool) error
	}

	PreferenceRepository interface {
		Create(ctx context.Context, pref *model.NotificationPreference) error
		GetForCustomer(ctx context.Context, id, customerID int64) (*model.NotificationPreference, error)
		Update(ctx context.Context, pref *model.NotificationPreference) error
		Delete(ctx context.Context, id, customerID int64) error
		ListByCustomer(ctx context.Context, customerID int64) ([]*model.NotificationPreference, error)
		ExistsDuplicate(ctx context.Context, customerID int64, typ model.NotificationType, channel model.AddressType, excludeID int64) (bool, error)
	}

	NotificationLogRepository interface {
		Create(ctx context.Context, log *model.NotificationLog) error
		Get(ctx context.Context, id int64) (*model.NotificationLogDTO, error)
		Transition(ctx context.Context, id int64, apply func(*model.NotificationLog)) (*model.NotificationLog, error)
		ListByCustomer(ctx context.Context, customerID int64, page *model.PageRequest) ([]*model.NotificationLogDTO, int64, error)
		Search(ctx context.Context, filter *model.NotificationSearchFilter) ([]*model.NotificationLogDTO, int64, error)

		CountByStatus(ctx context.Context, window model.DateRange) (map[model.NotificationStatus]int64, error)
		CountByTypeAndStatus(ctx context.Context, window model.DateRange) (map[model.NotificationType]map[model.NotificationStatus]int64, error)
		CountByDay(ctx context.Context, window model.DateRange) ([]model.DailyStat, error)
		CountDistinctCustomersByType(ctx context.Context, window model.DateRange) (map[model.NotificationType]int64, error)
		SuccessRateByType(ctx context.Context, window model.DateRange) (map[model.NotificationType]float64, error)
		TopFailureReasonsByType(ctx context.Context, window model.DateRange) (map[model.NotificationType][]model.FailureReasonCount, error)
		DeliveredCountByType(ctx context.Context, window model.DateRange) (map[model.NotificationType]int64, error)
	}

	AdminRepository interface {
		Create(ctx context.Context, admin *model.Admin) error
		GetByUsername(ctx context.Context, username string) (*model.Admin, error)
		ExistsByUsername(ctx context.Context, username string) (bool, error)
	}
)
