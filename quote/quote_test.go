package quote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/onlycabs/booking-backend/booking"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stubBackend(t *testing.T, failPath string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/fare", func(w http.ResponseWriter, r *http.Request) {
		if failPath == "/fare" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		if r.URL.Query().Get("cab_type") != "suv" {
			t.Errorf("expected cab_type suv, got %q", r.URL.Query().Get("cab_type"))
		}
		w.Write([]byte(`{"fare": 250.0, "surge_multiplier": 1.5}`))
	})
	mux.HandleFunc("/distance", func(w http.ResponseWriter, r *http.Request) {
		if failPath == "/distance" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"distance_km": 5.2}`))
	})
	mux.HandleFunc("/bmtc", func(w http.ResponseWriter, r *http.Request) {
		if failPath == "/bmtc" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		if r.URL.Query().Get("dropoff") != "" {
			t.Error("bmtc request should be keyed on pickup only")
		}
		w.Write([]byte(`{"bmtc_info": "Take the 500D"}`))
	})
	mux.HandleFunc("/best-route", func(w http.ResponseWriter, r *http.Request) {
		if failPath == "/best-route" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"best_route_info": "Via Old Airport Road"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAll_AllSettle(t *testing.T) {
	srv := stubBackend(t, "")
	c := NewClient(srv.URL, testLogger())

	q, err := c.FetchAll(context.Background(), "Koramangala", "Indiranagar", booking.SUV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.Fare != 250.0 {
		t.Errorf("fare = %v, want 250.0", q.Fare)
	}
	if q.SurgeMultiplier != 1.5 {
		t.Errorf("surge = %v, want 1.5", q.SurgeMultiplier)
	}
	if q.DistanceKM != 5.2 {
		t.Errorf("distance = %v, want 5.2", q.DistanceKM)
	}
	if q.TransitInfo != "Take the 500D" {
		t.Errorf("transit = %q", q.TransitInfo)
	}
	if q.BestRouteInfo != "Via Old Airport Road" {
		t.Errorf("best route = %q", q.BestRouteInfo)
	}
}

func TestFetchAll_OneFailureKeepsPartialResults(t *testing.T) {
	srv := stubBackend(t, "/bmtc")
	c := NewClient(srv.URL, testLogger())

	q, err := c.FetchAll(context.Background(), "Koramangala", "Indiranagar", booking.Mini)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}

	// The other three settled and their results are kept.
	if q.Fare != 250.0 || q.DistanceKM != 5.2 || q.BestRouteInfo == "" {
		t.Errorf("partial results lost: %+v", q)
	}
	if q.TransitInfo != "" {
		t.Errorf("failed request should leave its field empty, got %q", q.TransitInfo)
	}
}

func TestFetchAll_FailureDoesNotCancelOthers(t *testing.T) {
	var served atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/fare", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	for _, path := range []string{"/distance", "/bmtc", "/best-route"} {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			served.Add(1)
			w.Write([]byte(`{}`))
		})
	}
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	_, err := c.FetchAll(context.Background(), "A", "B", booking.Sedan)
	if err == nil {
		t.Fatal("expected an error")
	}

	// FetchAll joins all four; the three healthy requests ran to
	// completion despite the failure.
	if got := served.Load(); got != 3 {
		t.Errorf("expected 3 surviving requests, got %d", got)
	}
}

func TestClient_EndpointContract(t *testing.T) {
	var fareQuery, distanceQuery string

	mux := http.NewServeMux()
	mux.HandleFunc("/fare", func(w http.ResponseWriter, r *http.Request) {
		fareQuery = r.URL.RawQuery
		w.Write([]byte(`{"fare": 1, "surge_multiplier": 1}`))
	})
	mux.HandleFunc("/distance", func(w http.ResponseWriter, r *http.Request) {
		distanceQuery = r.URL.RawQuery
		w.Write([]byte(`{"distance_km": 1}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	ctx := context.Background()

	if _, _, err := c.Fare(ctx, "MG Road", "Hebbal", booking.Sedan); err != nil {
		t.Fatalf("fare: %v", err)
	}
	if fareQuery != "cab_type=sedan&dropoff=Hebbal&pickup=MG+Road" {
		t.Errorf("fare query = %q", fareQuery)
	}

	if _, err := c.Distance(ctx, "MG Road", "Hebbal"); err != nil {
		t.Fatalf("distance: %v", err)
	}
	if distanceQuery != "dropoff=Hebbal&pickup=MG+Road" {
		t.Errorf("distance query = %q", distanceQuery)
	}
}
