package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "hello")
	})

	// Baselines before we hit the routes (to avoid interference from other tests)
	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/ok", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/does-not-exist", "404"))

	// Matched route → path label is the route pattern
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /ok -> %d", w.Code)
	}

	// No match → fallback to raw URL path label
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /does-not-exist -> %d", w.Code)
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/ok", "200")); got != baseOK+1 {
		t.Fatalf("counter /ok 200 = %v; want %v", got, baseOK+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/does-not-exist", "404")); got != base404+1 {
		t.Fatalf("counter 404 fallback = %v; want %v", got, base404+1)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0", inFlight)
	}
}

func TestDomainCounters(t *testing.T) {
	baseHot := testutil.ToFloat64(leadsTotal.WithLabelValues("hot"))
	baseSub := testutil.ToFloat64(submissionsTotal)
	baseWH := testutil.ToFloat64(webhookDeliveries.WithLabelValues("pipeline", "success"))

	CountLead("hot")
	CountSubmission()
	CountWebhookDelivery("pipeline", "success")

	if got := testutil.ToFloat64(leadsTotal.WithLabelValues("hot")); got != baseHot+1 {
		t.Fatalf("leads counter = %v; want %v", got, baseHot+1)
	}
	if got := testutil.ToFloat64(submissionsTotal); got != baseSub+1 {
		t.Fatalf("submissions counter = %v; want %v", got, baseSub+1)
	}
	if got := testutil.ToFloat64(webhookDeliveries.WithLabelValues("pipeline", "success")); got != baseWH+1 {
		t.Fatalf("webhook counter = %v; want %v", got, baseWH+1)
	}
}
