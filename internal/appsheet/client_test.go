package appsheet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/apperrors"
	"github.com/Monticola-data/backend-kalendar/internal/config"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.AppSheetConfig{
		BaseURL:        server.URL,
		AppID:          "app-1",
		AccessKey:      "key-1",
		JobsTable:      "Jobs",
		TeamsTable:     "Teams",
		TimeoutSeconds: 5,
	}
	return NewClient(cfg, zap.NewNop()), server
}

func TestFetchEnrichedEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/apps/app-1/tables/Teams/Find", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("ApplicationAccessKey"); got != "key-1" {
			t.Errorf("missing access key header, got %q", got)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"Row ID": "T1", "Name": "Alpha", "HEX": "#FF0000"},
			{"Name": "no row id, skipped"},
			{"Row ID": "T2"},
		})
	})
	mux.HandleFunc("/apps/app-1/tables/Jobs/Find", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Select []string `json:"Select"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad find payload: %v", err)
		}
		if len(payload.Select) == 0 {
			t.Error("expected Select columns in find payload")
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"Row ID": "J1", "Title": "Brno", "Date": "01/02/2024",
				"Team": "T1", "Sent": "Y", "Done": "N", "Handed Off": "",
				"Detail":          "dig",
				"SECURITY_filter": "a, a ,b",
				"Assigned Users":  []any{"u1", " u2"},
			},
			{"Row ID": "J2", "Team": "TX", "Date": "17.03.2024"},
		})
	})

	client, _ := testClient(t, mux)

	events, teamMap, err := client.FetchEnrichedEvents(context.Background())
	if err != nil {
		t.Fatalf("FetchEnrichedEvents: %v", err)
	}

	if len(teamMap) != 2 {
		t.Fatalf("teamMap size = %d, want 2", len(teamMap))
	}
	if teamMap["T1"].Color != "#FF0000" || teamMap["T1"].Name != "Alpha" {
		t.Fatalf("teamMap[T1] = %+v", teamMap["T1"])
	}
	// Team row without color gets per-row fallbacks
	if teamMap["T2"].Color != "#145C7E" || teamMap["T2"].Name != "Unassigned" {
		t.Fatalf("teamMap[T2] = %+v", teamMap["T2"])
	}

	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}

	j1 := events[0]
	if j1.ID != "J1" || j1.Title != "Brno" || j1.Start != "2024-01-02" || j1.Color != "#FF0000" {
		t.Fatalf("J1 projection = %+v", j1)
	}
	if !j1.ExtendedProps.Sent || j1.ExtendedProps.Done || j1.ExtendedProps.HandedOff {
		t.Fatalf("J1 flags = %+v", j1.ExtendedProps)
	}
	if !reflect.DeepEqual(j1.ExtendedProps.SecurityFilter, []string{"a", "b"}) {
		t.Fatalf("J1 security filter = %v", j1.ExtendedProps.SecurityFilter)
	}
	if !reflect.DeepEqual(j1.ExtendedProps.AssignedUsers, []string{"u1", "u2"}) {
		t.Fatalf("J1 assigned users = %v", j1.ExtendedProps.AssignedUsers)
	}

	j2 := events[1]
	if j2.Color != "#145C7E" {
		t.Fatalf("J2 color = %q, want remote-side fallback", j2.Color)
	}
	if j2.Start != "2024-03-17" {
		t.Fatalf("J2 start = %q, want dot format normalized", j2.Start)
	}
	if j2.Title != "Untitled" {
		t.Fatalf("J2 title = %q", j2.Title)
	}
	if len(j2.ExtendedProps.SecurityFilter) != 0 || len(j2.ExtendedProps.AssignedUsers) != 0 {
		t.Fatalf("J2 lists should be empty: %+v", j2.ExtendedProps)
	}
}

func TestFetchEnrichedEventsUpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail":"table offline"}`))
	})

	client, _ := testClient(t, mux)

	_, _, err := client.FetchEnrichedEvents(context.Background())
	var uErr *apperrors.UpstreamError
	if !errors.As(err, &uErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if uErr.Status != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", uErr.Status)
	}
	if !strings.Contains(uErr.Body, "table offline") {
		t.Fatalf("upstream body not passed through: %q", uErr.Body)
	}
}

func TestPushRow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/apps/app-1/tables/Jobs/Action", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Action     string           `json:"Action"`
			Properties map[string]any   `json:"Properties"`
			Rows       []map[string]any `json:"Rows"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("bad action payload: %v", err)
		}
		if payload.Action != ActionEdit {
			t.Errorf("action = %q, want Edit", payload.Action)
		}
		if payload.Properties["Locale"] != "en-US" {
			t.Errorf("locale = %v", payload.Properties["Locale"])
		}
		if len(payload.Rows) != 1 || payload.Rows[0]["Row ID"] != "R1" {
			t.Errorf("rows = %v", payload.Rows)
		}
		_, _ = w.Write([]byte(`{"Rows":[{"Row ID":"R1"}]}`))
	})

	client, _ := testClient(t, mux)

	resp, err := client.PushRow(context.Background(), "Jobs", ActionEdit, map[string]any{"Row ID": "R1"})
	if err != nil {
		t.Fatalf("PushRow: %v", err)
	}
	if !strings.Contains(string(resp), `"Row ID":"R1"`) {
		t.Fatalf("response not returned verbatim: %s", resp)
	}
}

func TestPushRowUpstreamErrorBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("row rejected: unknown column"))
	})

	client, _ := testClient(t, mux)

	_, err := client.PushRow(context.Background(), "Jobs", ActionAdd, map[string]any{})
	var uErr *apperrors.UpstreamError
	if !errors.As(err, &uErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if uErr.Body != "row rejected: unknown column" {
		t.Fatalf("body = %q, want verbatim upstream body", uErr.Body)
	}
}
