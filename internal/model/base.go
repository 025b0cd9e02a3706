package model

import "time"

// Base contains common fields for all models
type Base struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SortDirection is a validated sort direction string.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortDirection validates a caller-supplied direction string.
func ParseSortDirection(s string) (SortDirection, bool) {
	switch s {
	case "asc", "ASC", "":
		return SortAsc, true
	case "desc", "DESC":
		return SortDesc, true
	default:
		return "", false
	}
}

// PageRequest represents common pagination parameters. Page is zero-based.
type PageRequest struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection SortDirection
}

// Normalize clamps pagination to sane defaults.
func (p *PageRequest) Normalize() {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = 20
	}
	if p.Size > 100 {
		p.Size = 100
	}
	if p.SortBy == "" {
		p.SortBy = "id"
	}
	if p.SortDirection == "" {
		p.SortDirection = SortAsc
	}
}

// Offset returns the row offset for the page.
func (p *PageRequest) Offset() int {
	return p.Page * p.Size
}

// DateRange is an optional [start, end] window; a nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}
