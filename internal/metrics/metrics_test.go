package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStockCounters(t *testing.T) {
	m := New()
	m.RecordPurchase(3)
	m.RecordPurchase(2)
	m.RecordRestock(10)
	m.RecordInsufficientStock()

	if got := testutil.ToFloat64(m.stockMoves.WithLabelValues("purchase")); got != 2 {
		t.Errorf("purchase operations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.stockUnits.WithLabelValues("purchase")); got != 5 {
		t.Errorf("purchase units = %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.stockUnits.WithLabelValues("restock")); got != 10 {
		t.Errorf("restock units = %v, want 10", got)
	}
	if got := testutil.ToFloat64(m.stockDenied); got != 1 {
		t.Errorf("insufficient = %v, want 1", got)
	}
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/sweets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sweets/"+id, nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/sweets/{id}", "418")); got != 3 {
		t.Errorf("requests = %v, want 3", got)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "sweetshop_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}
