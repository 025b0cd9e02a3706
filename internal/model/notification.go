package model

import "time"

type NotificationType string

const (
	NotificationTypeTransactional NotificationType = "TRANSACTIONAL"
	NotificationTypeMarketing     NotificationType = "MARKETING"
	NotificationTypeReminder      NotificationType = "REMINDER"
	NotificationTypeAlert         NotificationType = "ALERT"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeTransactional, NotificationTypeMarketing,
		NotificationTypeReminder, NotificationTypeAlert:
		return true
	}
	return false
}

type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "PENDING"
	NotificationStatusSent      NotificationStatus = "SENT"
	NotificationStatusDelivered NotificationStatus = "DELIVERED"
	NotificationStatusFailed    NotificationStatus = "FAILED"
)

func (s NotificationStatus) Valid() bool {
	switch s {
	case NotificationStatusPending, NotificationStatusSent,
		NotificationStatusDelivered, NotificationStatusFailed:
		return true
	}
	return false
}

// NotificationLog is one outbound notification attempt against a
// customer address. DeliveredAt and FailureReason stay null until the
// corresponding status transition.
type NotificationLog struct {
	Base
	CustomerID          int64              `json:"customer_id" db:"customer_id"`
	AddressID           int64              `json:"address_id" db:"address_id"`
	Type                NotificationType   `json:"type" db:"type"`
	Status              NotificationStatus `json:"status" db:"status"`
	ExternalReferenceID string             `json:"external_reference_id" db:"external_reference_id"`
	Subject             string             `json:"subject" db:"subject"`
	Content             string             `json:"content" db:"content"`
	SentAt              *time.Time         `json:"sent_at,omitempty" db:"sent_at"`
	DeliveredAt         *time.Time         `json:"delivered_at,omitempty" db:"delivered_at"`
	FailureReason       *string            `json:"failure_reason,omitempty" db:"failure_reason"`
}

// NotificationLogDTO is the transfer form for log rows, joined with the
// owning customer's name and address value.
type NotificationLogDTO struct {
	ID                  int64              `json:"id" db:"id"`
	CustomerID          int64              `json:"customer_id" db:"customer_id"`
	CustomerName        string             `json:"customer_name" db:"customer_name"`
	AddressID           int64              `json:"address_id" db:"address_id"`
	AddressValue        string             `json:"address_value" db:"address_value"`
	Type                NotificationType   `json:"type" db:"type"`
	Status              NotificationStatus `json:"status" db:"status"`
	ExternalReferenceID string             `json:"external_reference_id" db:"external_reference_id"`
	Subject             string             `json:"subject" db:"subject"`
	Content             string             `json:"content" db:"content"`
	SentAt              *time.Time         `json:"sent_at,omitempty" db:"sent_at"`
	DeliveredAt         *time.Time         `json:"delivered_at,omitempty" db:"delivered_at"`
	FailureReason       *string            `json:"failure_reason,omitempty" db:"failure_reason"`
	CreatedAt           time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" db:"updated_at"`
}

// SendNotificationRequest is the placeholder send payload. Delivery is
// delegated to an external service; this only records the attempt.
type SendNotificationRequest struct {
	CustomerID int64            `json:"customer_id" binding:"required"`
	Type       NotificationType `json:"type" binding:"required"`
	Subject    string           `json:"subject" binding:"required"`
	Content    string           `json:"content" binding:"required"`
}

// NotificationSearchFilter carries the independently-optional search
// criteria for log rows.
type NotificationSearchFilter struct {
	CustomerID *int64
	Type       *NotificationType
	Status     *NotificationStatus
	DateRange
	PageRequest
}

// DailyStat is one calendar day of log activity. Days with zero rows are
// absent from results.
type DailyStat struct {
	Date      time.Time `json:"date" db:"day"`
	Total     int64     `json:"total" db:"total"`
	Delivered int64     `json:"delivered" db:"delivered"`
	Failed    int64     `json:"failed" db:"failed"`
}

// FailureReasonCount is a distinct failure reason with its occurrence count.
type FailureReasonCount struct {
	Reason string `json:"reason" db:"reason"`
	Count  int64  `json:"count" db:"count"`
}

// NotificationStatistics is the stats endpoint payload.
type NotificationStatistics struct {
	StatusCounts    map[NotificationStatus]int64                          `json:"statusCounts"`
	TypeStatistics  map[NotificationType]map[NotificationStatus]int64     `json:"typeStatistics"`
	DailyStatistics []DailyStat                                           `json:"dailyStatistics"`
}

// CustomerNotificationStatistics echoes the requested customer id next
// to the statistics payload. The aggregates themselves are computed over
// all customers; the id is an annotation only.
type CustomerNotificationStatistics struct {
	CustomerID int64 `json:"customerId"`
	NotificationStatistics
}

// OptInReport aggregates delivery outcomes per notification type.
// EngagementRateByType carries delivered counts with a fixed 0.0 rate;
// true engagement tracking lives outside this system.
type OptInReport struct {
	OptInCountsByType    map[NotificationType]int64                `json:"optInCountsByType"`
	SuccessRateByType    map[NotificationType]float64              `json:"successRateByType"`
	TopFailureReasons    map[NotificationType][]FailureReasonCount `json:"topFailureReasons"`
	EngagementRateByType map[NotificationType]EngagementStat       `json:"engagementRateByType"`
}

// EngagementStat pairs a delivered count with the stubbed engagement rate.
type EngagementStat struct {
	DeliveredCount int64   `json:"deliveredCount"`
	EngagementRate float64 `json:"engagementRate"`
}
