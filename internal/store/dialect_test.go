package store

import (
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func TestPostgresDialectSQL(t *testing.T) {
	d := dialectFor(KindPostgres)

	assert.Equal(t, "CAST(created_at AS DATE)", d.DateOf("created_at"))
	assert.Equal(t, "CURRENT_DATE", d.Today())
	assert.Equal(t, "(CURRENT_DATE - INTERVAL '7 days')", d.DaysAgo(7))
	assert.Equal(t, "CAST(? AS DATE)", d.DayParam())
	assert.Contains(t, d.SeedMerchant(), "ON CONFLICT (id) DO NOTHING")

	q := returningID(`INSERT INTO orders (category, product) VALUES (?, ?)`)
	assert.True(t, strings.HasSuffix(q, " RETURNING id"), q)
	assert.Equal(t, `INSERT INTO orders (category, product) VALUES ($1, $2) RETURNING id`,
		sqlx.Rebind(sqlx.BindType("pgx"), q))

	for _, stmt := range d.Schema() {
		assert.NotContains(t, stmt, "AUTOINCREMENT")
	}
	assert.Contains(t, d.Schema()[1], "id BIGSERIAL PRIMARY KEY")
}

func TestSQLiteDialectSQL(t *testing.T) {
	d := dialectFor(KindMemory)

	assert.Equal(t, "DATE(created_at)", d.DateOf("created_at"))
	assert.Equal(t, "DATE('now')", d.Today())
	assert.Equal(t, "DATE('now', '-7 days')", d.DaysAgo(7))
	assert.Equal(t, "?", d.DayParam())
	assert.True(t, strings.HasPrefix(d.SeedMerchant(), "INSERT OR IGNORE"))
	assert.Equal(t, d, dialectFor(KindSQLite))
}
