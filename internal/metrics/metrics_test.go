package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderly/internal/metrics"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := metrics.NewRegistry()
	m.OrdersCommitted.Inc()
	m.StatusChanges.WithLabelValues("completed").Inc()
	m.Backend.WithLabelValues("memory").Set(1)
	m.ActiveDrafts(func() int { return 3 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	s := string(body)
	assert.Contains(t, s, "orderly_orders_committed_total 1")
	assert.Contains(t, s, `orderly_status_changes_total{status="completed"} 1`)
	assert.Contains(t, s, `orderly_store_backend{kind="memory"} 1`)
	assert.Contains(t, s, "orderly_drafts_active 3")
}
