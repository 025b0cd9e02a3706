package model

// Customer is an end user records are kept about. Addresses and
// preferences belong to it and are removed with it.
type Customer struct {
	Base
	FirstName  string  `json:"first_name" db:"first_name"`
	LastName   string  `json:"last_name" db:"last_name"`
	ExternalID *string `json:"external_id,omitempty" db:"external_id"`
}

type CreateCustomerRequest struct {
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	ExternalID *string `json:"external_id"`
}

// CustomerSearchFilter carries the independently-optional search criteria.
// Empty values contribute no constraint.
type CustomerSearchFilter struct {
	Name         string
	Email        string
	Phone        string
	OptedInTypes []NotificationType
	PageRequest
}
