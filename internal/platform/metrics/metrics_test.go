// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collabconnect/internal/platform/metrics"
)

/*
TestCollector_SessionCounters verifies the session observer counters.
*/
func TestCollector_SessionCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	collector.TrackActiveSessions(func() int { return 3 })

	collector.SessionStarted()
	collector.SessionStarted()
	collector.SessionWarned()
	collector.SessionEnded("timeout")
	collector.SessionEnded("logout")
	collector.SessionEnded("logout")
	collector.RecordLogin(metrics.LoginRejected)

	families, err := registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := family.GetName()
			for _, label := range metric.GetLabel() {
				key += ":" + label.GetValue()
			}
			switch {
			case metric.GetCounter() != nil:
				values[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[key] = metric.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, values["collabconnect_sessions_started_total"])
	assert.Equal(t, 1.0, values["collabconnect_session_warnings_total"])
	assert.Equal(t, 1.0, values["collabconnect_sessions_ended_total:timeout"])
	assert.Equal(t, 2.0, values["collabconnect_sessions_ended_total:logout"])
	assert.Equal(t, 1.0, values["collabconnect_logins_total:invalid_credentials"])
	assert.Equal(t, 3.0, values["collabconnect_sessions_active"])
}

/*
TestCollector_Instrument verifies route pattern labels and the scrape handler.
*/
func TestCollector_Instrument(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	router := chi.NewRouter()
	router.Use(collector.Instrument)
	router.Get("/companies/{id}", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/companies/"+id, nil))
	}

	series, err := testutil.GatherAndCount(registry, "collabconnect_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)

	var body []byte
	recorder := httptest.NewRecorder()
	metrics.Handler(registry).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err = io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `collabconnect_http_requests_total{method="GET",route="/companies/{id}",status="404"} 2`)
}
