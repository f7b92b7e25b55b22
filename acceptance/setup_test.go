package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/onlycabs/booking-backend/api"
	"github.com/onlycabs/booking-backend/driver"
	"github.com/onlycabs/booking-backend/internal/o11y"
	"github.com/onlycabs/booking-backend/quote"
	"github.com/onlycabs/booking-backend/store"
)

type TestServer struct {
	Store  *store.Memory
	Router *gin.Engine

	quoteBackend *httptest.Server

	mu       sync.Mutex
	failPath string
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)

	ts := &TestServer{
		Store: store.NewMemory(),
	}

	// Stub of the remote fare/distance/route backend. Each endpoint
	// returns fixed values; FailQuotePath makes one of them error.
	mux := http.NewServeMux()
	mux.HandleFunc("/fare", ts.quoteStub(`{"fare": 250.0, "surge_multiplier": 1.5}`))
	mux.HandleFunc("/distance", ts.quoteStub(`{"distance_km": 5.2}`))
	mux.HandleFunc("/bmtc", ts.quoteStub(`{"bmtc_info": "Take bus 500D from the nearest stop."}`))
	mux.HandleFunc("/best-route", ts.quoteStub(`{"best_route_info": "Via Outer Ring Road, light traffic."}`))
	ts.quoteBackend = httptest.NewServer(mux)

	obs := &o11y.Observability{
		Logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
	}

	quotes := quote.NewClient(ts.quoteBackend.URL, obs.Logger)
	ts.Router = api.New(ts.Store, quotes, obs, "", "").Router()

	return ts
}

func (ts *TestServer) Close() {
	ts.quoteBackend.Close()
}

// FailQuotePath makes one quote endpoint return 500. Pass "" to restore.
func (ts *TestServer) FailQuotePath(path string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.failPath = path
}

func (ts *TestServer) quoteStub(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		failing := ts.failPath == r.URL.Path
		ts.mu.Unlock()

		if failing {
			http.Error(w, "backend down", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func (ts *TestServer) GET(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) POST(path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

// CreateSession starts a flow session and returns its id.
func (ts *TestServer) CreateSession(t *testing.T) string {
	t.Helper()

	w := ts.POST("/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create session: %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal session response: %v", err)
	}
	return resp.SessionID
}

// AdvanceToSelection walks a fresh session through begin and onboarding.
func (ts *TestServer) AdvanceToSelection(t *testing.T, sessionID string) {
	t.Helper()

	if w := ts.POST("/sessions/"+sessionID+"/begin", nil); w.Code != http.StatusOK {
		t.Fatalf("begin failed: %d: %s", w.Code, w.Body.String())
	}
	w := ts.POST("/sessions/"+sessionID+"/onboarding", map[string]interface{}{
		"name": "Asha", "username": "asha", "password": "secret", "age": 30,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("onboarding failed: %d: %s", w.Code, w.Body.String())
	}
}

// AdvanceToQuote additionally submits a valid booking.
func (ts *TestServer) AdvanceToQuote(t *testing.T, sessionID string) {
	t.Helper()

	ts.AdvanceToSelection(t, sessionID)
	w := ts.POST("/sessions/"+sessionID+"/booking", map[string]interface{}{
		"pickUp": "MG Road", "dropOff": "Hebbal", "selectedRide": "Sedan",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("booking failed: %d: %s", w.Code, w.Body.String())
	}
}

// SeedDriver writes a driver record straight into the store.
func (ts *TestServer) SeedDriver(t *testing.T, name, rating string) {
	t.Helper()

	rec := driver.Record{
		Name:         name,
		License:      "KA01-" + name,
		LicensePlate: "KA 01 AB 1234",
		Model:        "Dzire",
		Phone:        9880000000,
		Rating:       rating,
		Vehicle:      "Sedan",
	}
	if _, err := ts.Store.CreateRecord(context.Background(), driver.Collection, rec.Fields()); err != nil {
		t.Fatalf("failed to seed driver: %v", err)
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to unmarshal response: %v: %s", err, w.Body.String())
	}
}
