// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sparsh-bit/portfolio/internal/platform/metrics"
)

/*
TestMetrics_Decision verifies the security decision counter labels.
*/
func TestMetrics_Decision(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := metrics.New(registry)

	recorder.Decision(metrics.StageRateLimit, metrics.OutcomeRejected)
	recorder.Decision(metrics.StageRateLimit, metrics.OutcomeRejected)
	recorder.StoreFallback()

	expected := `
# HELP portfolio_security_decisions_total Security pipeline decisions by stage and outcome.
# TYPE portfolio_security_decisions_total counter
portfolio_security_decisions_total{outcome="rejected",stage="ratelimit"} 2
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "portfolio_security_decisions_total"))
	count, err := testutil.GatherAndCount(registry, "portfolio_ratelimit_store_fallbacks_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

/*
TestMetrics_Instrument verifies that requests are labelled by route pattern.
*/
func TestMetrics_Instrument(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := metrics.New(registry)

	router := chi.NewRouter()
	router.Use(recorder.Instrument)
	router.Get("/api/items/{id}", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/api/items/1", "/api/items/2", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP portfolio_http_requests_total Total number of HTTP requests.
# TYPE portfolio_http_requests_total counter
portfolio_http_requests_total{method="GET",route="/api/items/{id}",status="418"} 2
portfolio_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "portfolio_http_requests_total"))

	response := httptest.NewRecorder()
	recorder.Handler().ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "portfolio_http_request_duration_seconds")
}

func TestMetrics_NilSafe(t *testing.T) {
	var recorder *metrics.Metrics

	assert.NotPanics(t, func() {
		recorder.Decision(metrics.StageCORS, metrics.OutcomeAllowed)
		recorder.StoreFallback()
	})

	handler := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, recorder.Instrument(handler))
}
