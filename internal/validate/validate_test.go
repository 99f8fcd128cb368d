package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"orderly/internal/domain"
	"orderly/internal/validate"
)

func TestStatusFilter(t *testing.T) {
	for _, in := range []string{"", "all", " ALL "} {
		v, ok := validate.StatusFilter(in)
		assert.True(t, ok, in)
		assert.Empty(t, v)
	}
	v, ok := validate.StatusFilter("Completed")
	assert.True(t, ok)
	assert.Equal(t, "completed", v)
	_, ok = validate.StatusFilter("shipped")
	assert.False(t, ok)
}

func TestStatus(t *testing.T) {
	s, ok := validate.Status(" processing ")
	assert.True(t, ok)
	assert.Equal(t, domain.StatusProcessing, s)
	_, ok = validate.Status("")
	assert.False(t, ok)
}

func TestDay(t *testing.T) {
	d, ok := validate.Day("2026-02-28")
	assert.True(t, ok)
	assert.Equal(t, "2026-02-28", d)
	for _, bad := range []string{"2026-02-30", "28/02/2026", "2026-2-8", "x"} {
		_, ok := validate.Day(bad)
		assert.False(t, ok, bad)
	}
}

func TestOrderIDAndLimit(t *testing.T) {
	id, ok := validate.OrderID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	for _, bad := range []string{"0", "-1", "abc", "1.5"} {
		_, ok := validate.OrderID(bad)
		assert.False(t, ok, bad)
	}
	assert.Equal(t, validate.DefaultLimit, validate.Limit(""))
	assert.Equal(t, 10, validate.Limit("10"))
	assert.Equal(t, validate.MaxLimit, validate.Limit("100000"))
	assert.Equal(t, 7, validate.Days("", 7, 90))
	assert.Equal(t, 90, validate.Days("365", 7, 90))
}
