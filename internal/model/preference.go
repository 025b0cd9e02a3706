package model

// NotificationPreference records whether a customer wants a notification
// type over a given channel.
type NotificationPreference struct {
	Base
	CustomerID  int64            `json:"customer_id" db:"customer_id"`
	Type        NotificationType `json:"type" db:"type"`
	ChannelType AddressType      `json:"channel_type" db:"channel_type"`
	OptedIn     bool             `json:"opted_in" db:"opted_in"`
}

type CreatePreferenceRequest struct {
	Type        NotificationType `json:"type" binding:"required"`
	ChannelType AddressType      `json:"channel_type" binding:"required"`
	OptedIn     bool             `json:"opted_in"`
}
