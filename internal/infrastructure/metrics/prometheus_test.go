package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.AuditFailed("CREATE")
	m.AuditFailed("CREATE")
	m.StockMoved("STOCK_ADD", 5)
	m.StockMoved("STOCK_ADD", 3)
	m.ObserveRequest("GET", "/api/spaces", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.auditFailures.WithLabelValues("CREATE")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.stockMoved.WithLabelValues("STOCK_ADD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/spaces", "200")))
	assert.Equal(t, 4, testutil.CollectAndCount(reg))
}
