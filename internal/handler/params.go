package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
)

// ParsePageRequest reads page, size, sortBy and sortDirection query
// parameters. Aborts the request with a validation error on malformed input.
func ParsePageRequest(c *gin.Context) (*model.PageRequest, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		FailValidation(c, "page must be a number")
		return nil, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil {
		FailValidation(c, "size must be a number")
		return nil, false
	}

	dir, ok := model.ParseSortDirection(c.DefaultQuery("sortDirection", "asc"))
	if !ok {
		FailValidation(c, "sortDirection must be asc or desc")
		return nil, false
	}

	return &model.PageRequest{
		Page:          page,
		Size:          size,
		SortBy:        c.DefaultQuery("sortBy", "id"),
		SortDirection: dir,
	}, true
}

// ParseDateRange reads optional startDate and endDate query parameters in
// RFC 3339 or plain date form. An end given as a plain date is pushed to the
// end of that day so the range is inclusive.
func ParseDateRange(c *gin.Context) (model.DateRange, bool) {
	var window model.DateRange

	if raw := c.Query("startDate"); raw != "" {
		t, err := parseTimeParam(raw, false)
		if err != nil {
			FailValidation(c, "startDate must be an ISO date or date-time")
			return window, false
		}
		window.Start = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := parseTimeParam(raw, true)
		if err != nil {
			FailValidation(c, "endDate must be an ISO date or date-time")
			return window, false
		}
		window.End = &t
	}
	return window, true
}

func parseTimeParam(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
