package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLoad(t *testing.T) {
	before := testutil.ToFloat64(loadsTotal.WithLabelValues("ok"))

	RecordLoad("ok", 42, 15*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(loadsTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(42), testutil.ToFloat64(loadedRows))
}

func TestRecordLoad_FailureKeepsRowGauge(t *testing.T) {
	RecordLoad("ok", 7, time.Millisecond)
	RecordLoad("not_found", 0, time.Millisecond)

	assert.Equal(t, float64(7), testutil.ToFloat64(loadedRows))
}

func TestRecordCache(t *testing.T) {
	hits := testutil.ToFloat64(cacheRequests.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheRequests.WithLabelValues("miss"))

	RecordCache(true)
	RecordCache(false)
	RecordCache(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheRequests.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheRequests.WithLabelValues("miss")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordCache(true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "progresso_cache_requests_total"))
}
