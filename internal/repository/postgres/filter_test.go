package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beqaperanidze/prj-customer-notification/internal/model"
)

func TestFilterBuilder_Build(t *testing.T) {
	f := newFilter("c.*", "customers c").
		where("c.first_name = ?", "Ada").
		order("c.id", model.SortAsc).
		page(20, 0)

	query, args := f.build()

	assert.Equal(t,
		"SELECT c.* FROM customers c WHERE c.first_name = $1 ORDER BY c.id ASC LIMIT $2 OFFSET $3",
		query)
	assert.Equal(t, []interface{}{"Ada", 20, 0}, args)
}

func TestFilterBuilder_NoCriteria(t *testing.T) {
	query, args := newFilter("n.status, COUNT(*) AS count", "notification_logs n").build()

	assert.Equal(t, "SELECT n.status, COUNT(*) AS count FROM notification_logs n", query)
	assert.Empty(t, args)
}

func TestFilterBuilder_DistinctWithJoin(t *testing.T) {
	f := newFilter("c.*", "customers c").
		join("LEFT JOIN addresses ea ON ea.customer_id = c.id").
		where("ea.type = ?", model.AddressTypeEmail).
		where("LOWER(ea.value) LIKE ?", "%ada%").
		markDistinct().
		order("c.id", model.SortDesc).
		page(10, 20)

	query, args := f.build()

	assert.Equal(t,
		"SELECT DISTINCT c.* FROM customers c LEFT JOIN addresses ea ON ea.customer_id = c.id"+
			" WHERE ea.type = $1 AND LOWER(ea.value) LIKE $2 ORDER BY c.id DESC LIMIT $3 OFFSET $4",
		query)
	assert.Equal(t, []interface{}{model.AddressTypeEmail, "%ada%", 10, 20}, args)
}

func TestFilterBuilder_BuildCountSharesPredicates(t *testing.T) {
	f := newFilter("c.*", "customers c").
		join("LEFT JOIN addresses pa ON pa.customer_id = c.id").
		where("pa.value LIKE ?", "%555%").
		markDistinct()

	countQuery, countArgs := f.buildCount("DISTINCT c.id")

	assert.Equal(t,
		"SELECT COUNT(DISTINCT c.id) FROM customers c LEFT JOIN addresses pa ON pa.customer_id = c.id"+
			" WHERE pa.value LIKE $1",
		countQuery)
	assert.Equal(t, []interface{}{"%555%"}, countArgs)

	// buildCount must not consume the paging args of a later build
	query, args := f.order("c.id", model.SortAsc).page(20, 0).build()
	assert.Contains(t, query, "LIMIT $2 OFFSET $3")
	assert.Len(t, args, 3)
}

func TestWindowConds(t *testing.T) {
	start := mustTime(t, "2026-01-01T00:00:00Z")
	end := mustTime(t, "2026-01-31T23:59:59Z")

	f := newFilter("*", "notification_logs n")
	windowConds(f, "n.created_at", model.DateRange{Start: &start, End: &end})
	query, args := f.build()

	assert.Equal(t,
		"SELECT * FROM notification_logs n WHERE n.created_at >= $1 AND n.created_at <= $2",
		query)
	assert.Equal(t, []interface{}{start, end}, args)
}

func TestWindowConds_OpenBounds(t *testing.T) {
	start := mustTime(t, "2026-01-01T00:00:00Z")

	f := newFilter("*", "notification_logs n")
	windowConds(f, "n.created_at", model.DateRange{Start: &start})
	query, _ := f.build()
	assert.Equal(t, "SELECT * FROM notification_logs n WHERE n.created_at >= $1", query)

	f = newFilter("*", "notification_logs n")
	windowConds(f, "n.created_at", model.DateRange{})
	query, args := f.build()
	assert.Equal(t, "SELECT * FROM notification_logs n", query)
	assert.Empty(t, args)
}

func TestSortColumn(t *testing.T) {
	col, ok := sortColumn(customerSortColumns, "firstName")
	assert.True(t, ok)
	assert.Equal(t, "c.first_name", col)

	_, ok = sortColumn(customerSortColumns, "password; DROP TABLE customers")
	assert.False(t, ok)
}
