package aeroapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "test-key", 5*time.Second, logger.NewNop()).(*Client)
	return client, server
}

func TestSearchLiveFlights(t *testing.T) {
	var gotPath, gotKey string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-apikey")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"flights": []map[string]interface{}{
				{
					"ident":        "BAW74",
					"ident_iata":   "BA74",
					"fa_flight_id": "BAW74-123",
					"origin":       map[string]string{"code": "OTHH", "code_iata": "DOH"},
					"destination":  map[string]string{"code": "EGLL", "code_iata": "LHR"},
					"status":       "Scheduled",
				},
			},
		})
	})

	start := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)
	legs, err := client.SearchLiveFlights(context.Background(), "BA74", start, start.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/flights/BA74" {
		t.Fatalf("path = %q, want /flights/BA74", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("x-apikey = %q, want test-key", gotKey)
	}
	if len(legs) != 1 || legs[0].IdentIATA != "BA74" || legs[0].Destination.Code != "EGLL" {
		t.Fatalf("unexpected legs: %+v", legs)
	}
}

func TestSearchLiveFlightsUnknownIdentIsEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"Unknown ident"}`, http.StatusNotFound)
	})

	legs, err := client.SearchLiveFlights(context.Background(), "ZZ99", time.Now(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("a provider 404 must not be an error, got %v", err)
	}
	if legs != nil {
		t.Fatalf("legs = %+v, want nil", legs)
	}
}

func TestSearchScheduledFlightsParams(t *testing.T) {
	var gotPath, gotAirline, gotNumber string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAirline = r.URL.Query().Get("airline")
		gotNumber = r.URL.Query().Get("flight_number")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"scheduled": []map[string]interface{}{
				{"ident": "BAW74", "ident_iata": "BA74", "origin": "OTHH", "destination": "EGLL"},
			},
		})
	})

	legs, err := client.SearchScheduledFlights(context.Background(), "BA", "74", "2026-09-14", "2026-09-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/schedules/2026-09-14/2026-09-16" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAirline != "BA" || gotNumber != "74" {
		t.Fatalf("params = (%q, %q), want (BA, 74)", gotAirline, gotNumber)
	}
	if len(legs) != 1 || legs[0].Origin.Code != "OTHH" {
		t.Fatalf("unexpected legs: %+v", legs)
	}
}

func TestUpstreamErrorCarriesStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := client.GetAirport(context.Background(), "EGLL")
	var upstream *entity.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %v, want *entity.UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusTooManyRequests || !upstream.RateLimited() {
		t.Fatalf("unexpected upstream error: %+v", upstream)
	}
}

func TestCreateAlertAcceptsNumericID(t *testing.T) {
	var gotBody createAlertRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/alerts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		// Some provider versions return the id as a JSON number.
		w.Write([]byte(`{"alert_id": 12345}`))
	})

	id, err := client.CreateAlert(context.Background(), entity.AlertParams{
		FlightNumber: "BA74",
		Date:         "2026-09-15",
		Destination:  "EGLL",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "12345" {
		t.Fatalf("alert id = %q, want 12345", id)
	}
	if len(gotBody.Events) == 0 {
		t.Fatal("default event list must be sent when none given")
	}
}

func TestDeleteAlert(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteAlert(context.Background(), "alert-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/alerts/alert-1" {
		t.Fatalf("request = %s %s, want DELETE /alerts/alert-1", gotMethod, gotPath)
	}
}
