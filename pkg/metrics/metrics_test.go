package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Observe(t *testing.T) {
	c := NewCollector("test")

	c.ObserveHTTP(http.MethodGet, "/api/v1/categories/tree", http.StatusOK, 10*time.Millisecond)
	c.ObserveOperation("create", "success", time.Millisecond)
	c.ObserveOperation("create", "rejected", time.Millisecond)
	c.CacheHit()
	c.CacheMiss()
	c.CacheMiss()
	c.EventPublished("category:created", true)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/v1/categories/tree", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CategoryOperations.WithLabelValues("create", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EventsPublished.WithLabelValues("category:created", "ok")))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.ObserveHTTP(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		c.ObserveOperation("delete", "error", time.Millisecond)
		c.ObserveCascade("delete", 3)
		c.CacheHit()
		c.CacheMiss()
		c.EventPublished("category:deleted", false)
	})
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("test")
	c.ObserveCascade("delete", 4)

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_category_cascade_size")
}
