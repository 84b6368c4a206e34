package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.Upstream("duffel", OutcomeOK)
	m.Upstream("duffel", OutcomeOK)
	m.Advisor("luxe", "accepted")
	m.Package("base", true)
	m.Booking("cancel", "expired")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("duffel", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AdvisorSelections.WithLabelValues("luxe", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PackagesAssembled.WithLabelValues("base", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Bookings.WithLabelValues("cancel", "expired")))
}

func TestGinMiddlewareObservesRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/api/packages/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/packages/pkg_1", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	count, err := testutil.GatherAndCount(reg, "test_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
