package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/gymcore/pkg/apperr"
)

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("plan p1: %w", apperr.ErrNotFound), "not_found"},
		{apperr.ErrConflict, "conflict"},
		{apperr.ErrMembershipInvalid, "membership_invalid"},
		{apperr.ErrSessionAlreadyOpen, "session_already_open"},
		{apperr.ErrValidation, "validation"},
		{fmt.Errorf("db down"), "error"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, Result(tc.err))
	}
}

func TestObserveAccessEvent(t *testing.T) {
	before := testutil.ToFloat64(accessEvents.WithLabelValues("check_in", "ok"))
	ObserveAccessEvent("check_in", nil)
	require.Equal(t, before+1, testutil.ToFloat64(accessEvents.WithLabelValues("check_in", "ok")))
}

func TestPrometheusMiddleware_CountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	p := NewPrometheus(NewPrometheusOptions{
		Registerer:              reg,
		ReqCntURLLabelMappingFn: func(c *gin.Context) string { return c.FullPath() },
	})
	r := gin.New()
	r.Use(p.HandlerFunc())
	r.GET("/users/:user_id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	require.Equal(t, float64(2), testutil.ToFloat64(p.reqCnt.WithLabelValues("200", "GET", "/users/:user_id", "")))

	h := histogramOf(t, p.reqDur.WithLabelValues("200", "GET", "/users/:user_id", ""))
	require.EqualValues(t, 2, h.GetSampleCount())
	require.Len(t, h.GetBucket(), len(LatencyBuckets))
}

func histogramOf(t *testing.T, o prometheus.Observer) *dto.Histogram {
	t.Helper()
	m, ok := o.(prometheus.Metric)
	require.True(t, ok)
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	require.NotNil(t, out.GetHistogram())
	return out.GetHistogram()
}

func TestObserveBusinessProcess_MillisecondBuckets(t *testing.T) {
	ObserveBusinessProcess("test", "buckets", time.Now().Add(-250*time.Millisecond))

	h := histogramOf(t, bpDur.WithLabelValues("test", "buckets"))
	require.EqualValues(t, 1, h.GetSampleCount())
	require.GreaterOrEqual(t, h.GetSampleSum(), 250.0)

	cumulative := map[float64]uint64{}
	bounds := make([]float64, 0, len(h.GetBucket()))
	for _, b := range h.GetBucket() {
		cumulative[b.GetUpperBound()] = b.GetCumulativeCount()
		bounds = append(bounds, b.GetUpperBound())
	}
	require.Equal(t, LatencyBuckets, bounds)
	require.EqualValues(t, 0, cumulative[100])
	require.EqualValues(t, 1, cumulative[1000])
	require.EqualValues(t, 1, cumulative[30000])
}

func TestNewMetric_UnsupportedType(t *testing.T) {
	require.Panics(t, func() {
		NewMetric(&Metric{Name: "x", Type: "gauge"}, subsystem)
	})
}
