package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandler_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/agreements/{email}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/agreements/{email}", "403"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/agreements/someone@example.com", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/agreements/{email}", "403"))
	assert.Equal(t, before+1, after)
}

func TestRecordAgreementTransition(t *testing.T) {
	before := testutil.ToFloat64(agreementTransitions.WithLabelValues("checked", "partial"))
	RecordAgreementTransition("checked", "partial")
	assert.Equal(t, before+1, testutil.ToFloat64(agreementTransitions.WithLabelValues("checked", "partial")))
}

func TestRecordReconcile(t *testing.T) {
	before := testutil.ToFloat64(reconcileRepairs.WithLabelValues("user_promoted"))
	RecordReconcile(0, 1, 2, 0, 10*time.Millisecond)
	assert.Equal(t, before+2, testutil.ToFloat64(reconcileRepairs.WithLabelValues("user_promoted")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordTenantReset(true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "bms_tenant_resets_total"))
	assert.True(t, strings.Contains(body, "bms_http_inflight_requests"))
}
