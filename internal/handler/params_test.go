package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParsePageRequest_Defaults(t *testing.T) {
	c := testContext(t, "/customers/search")

	page, ok := ParsePageRequest(c)
	require.True(t, ok)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 20, page.Size)
	assert.Equal(t, "id", page.SortBy)
	assert.Equal(t, model.SortAsc, page.SortDirection)
}

func TestParsePageRequest_Explicit(t *testing.T) {
	c := testContext(t, "/customers/search?page=2&size=50&sortBy=lastName&sortDirection=desc")

	page, ok := ParsePageRequest(c)
	require.True(t, ok)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 50, page.Size)
	assert.Equal(t, "lastName", page.SortBy)
	assert.Equal(t, model.SortDesc, page.SortDirection)
}

func TestParsePageRequest_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"bad page", "/search?page=two"},
		{"bad size", "/search?size=many"},
		{"bad direction", "/search?sortDirection=sideways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext(t, tt.target)
			_, ok := ParsePageRequest(c)
			assert.False(t, ok)
			assert.True(t, c.IsAborted())
			assert.NotEmpty(t, c.Errors)
		})
	}
}

func TestParseDateRange_RFC3339(t *testing.T) {
	c := testContext(t, "/stats?startDate=2026-01-01T10:00:00Z&endDate=2026-01-31T22:00:00Z")

	window, ok := ParseDateRange(c)
	require.True(t, ok)
	require.NotNil(t, window.Start)
	require.NotNil(t, window.End)
	assert.Equal(t, 10, window.Start.Hour())
	assert.Equal(t, 22, window.End.Hour())
}

func TestParseDateRange_PlainDates(t *testing.T) {
	c := testContext(t, "/stats?startDate=2026-01-01&endDate=2026-01-31")

	window, ok := ParseDateRange(c)
	require.True(t, ok)
	require.NotNil(t, window.Start)
	require.NotNil(t, window.End)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *window.Start)
	// A plain end date covers its whole day
	assert.Equal(t, 31, window.End.Day())
	assert.Equal(t, 23, window.End.Hour())
}

func TestParseDateRange_OpenBounds(t *testing.T) {
	c := testContext(t, "/stats")

	window, ok := ParseDateRange(c)
	require.True(t, ok)
	assert.Nil(t, window.Start)
	assert.Nil(t, window.End)
}

func TestParseDateRange_Malformed(t *testing.T) {
	c := testContext(t, "/stats?startDate=yesterday")

	_, ok := ParseDateRange(c)
	assert.False(t, ok)
	assert.True(t, c.IsAborted())
}

func TestPathID(t *testing.T) {
	c := testContext(t, "/customers/42")
	c.Params = gin.Params{{Key: "customerId", Value: "42"}}

	id, ok := PathID(c, "customerId")
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestPathID_NonNumeric(t *testing.T) {
	c := testContext(t, "/customers/abc")
	c.Params = gin.Params{{Key: "customerId", Value: "abc"}}

	_, ok := PathID(c, "customerId")
	assert.False(t, ok)
	assert.True(t, c.IsAborted())
}
