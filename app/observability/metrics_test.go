package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /catalog/tea/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.InFlight))
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("GET /catalog/teas", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler := m.Middleware(mux)

	for _, path := range []string{"/catalog/tea/a", "/catalog/tea/b", "/catalog/teas", "/nowhere"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "GET /catalog/tea/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "GET /catalog/teas", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
	assert.Equal(t, 3, testutil.CollectAndCount(m.Duration))
}

func TestHandler(t *testing.T) {
	m := NewMetrics(nil)
	m.Requests.WithLabelValues("GET", "GET /catalog/teas", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `teashop_http_requests_total{method="GET",route="GET /catalog/teas",status="200"} 1`))
}

func TestStatusWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := NewStatusWriter(rec)

	sw.WriteHeader(http.StatusSeeOther)
	sw.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusSeeOther, sw.Status())
	assert.Equal(t, rec, sw.Unwrap())
}
