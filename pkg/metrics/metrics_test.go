package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityMetrics_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIdentityMetrics(reg)

	m.Login(OutcomeSuccess)
	m.Login(OutcomeRejected)
	m.Login(OutcomeRejected)
	m.Rejected("authenticate")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Logins.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PipelineRejected.WithLabelValues("authenticate")))

	n, err := testutil.GatherAndCount(reg, "identity_login_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIdentityMetrics_NilSafe(t *testing.T) {
	var m *IdentityMetrics
	assert.NotPanics(t, func() {
		m.Login(OutcomeSuccess)
		m.Rotation(OutcomeError)
		m.Invitation("created")
		m.Rejected("rate_limit")
	})
}

func TestMetrics_RegisterAndServe(t *testing.T) {
	m := New()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "identity_extra_total", Help: "extra collector"})
	require.NoError(t, m.Register(c))
	assert.Error(t, m.Register(c))

	m.Identity.Login(OutcomeSuccess)
	m.Identity.Rejected("rate_limit")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `identity_login_total{outcome="success"} 1`)
	assert.Contains(t, body, `identity_pipeline_rejections_total{stage="rate_limit"} 1`)
	assert.Contains(t, body, "go_goroutines")

	n, err := testutil.GatherAndCount(m.Gatherer(), "identity_extra_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProvideIdentityMetrics(t *testing.T) {
	m := New()
	assert.Same(t, m.Identity, ProvideIdentityMetrics(m))
}
