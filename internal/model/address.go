package model

type AddressType string

const (
	AddressTypeEmail AddressType = "EMAIL"
	AddressTypeSMS   AddressType = "SMS"
	AddressTypePush  AddressType = "PUSH"
)

// Valid reports whether t is a known address type.
func (t AddressType) Valid() bool {
	switch t {
	case AddressTypeEmail, AddressTypeSMS, AddressTypePush:
		return true
	}
	return false
}

// Address is a contact point of a single customer. At most one address
// per (customer, type) pair carries Primary=true.
type Address struct {
	Base
	CustomerID int64       `json:"customer_id" db:"customer_id"`
	Type       AddressType `json:"type" db:"type"`
	Value      string      `json:"value" db:"value"`
	Verified   bool        `json:"verified" db:"verified"`
	Primary    bool        `json:"primary" db:"is_primary"`
}

type CreateAddressRequest struct {
	Type    AddressType `json:"type" binding:"required"`
	Value   string      `json:"value" binding:"required"`
	Primary bool        `json:"primary"`
}
