package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2beens/notesbox/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestMetrics(t *testing.T) {
	metricsManager := metrics.NewTestManager()

	r := mux.NewRouter()
	r.HandleFunc("/notes", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("GET").Name("list-notes")
	r.Use(RequestMetrics(metricsManager))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/notes", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRequests.WithLabelValues("GET", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(metricsManager.HistogramRequestDuration))
}

func TestDrainAndCloseRequest(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader("title=Buy+groceries")}
	handler := DrainAndCloseRequest()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusSeeOther)
	}))

	req := httptest.NewRequest(http.MethodPost, "/notes", nil)
	req.Body = body
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.True(t, body.closed)
	n, _ := body.Read(make([]byte, 1))
	assert.Zero(t, n)
}

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}
