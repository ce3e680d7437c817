package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Monticola-data/backend-kalendar/internal/apperrors"
	"github.com/Monticola-data/backend-kalendar/internal/appsheet"
)

func eventsApp(remote *fakeRemote) *fiber.App {
	app := fiber.New()
	app.Get("/events", NewEventsHandler(remote, zap.NewNop()).Handle)
	return app
}

func getJSON(t *testing.T, app *fiber.App, path string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp, decodeBody(t, resp)
}

func TestFetchEvents(t *testing.T) {
	remote := &fakeRemote{
		events: []appsheet.Event{
			{ID: "J1", Title: "Brno", Start: "2024-01-02", Color: "#FF0000", TeamID: "T1"},
		},
		teamMap: map[string]appsheet.TeamRef{
			"T1": {Name: "Alpha", Color: "#FF0000"},
		},
	}
	app := eventsApp(remote)

	resp, body := getJSON(t, app, "/events")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	events, ok := body["events"].([]any)
	if !ok || len(events) != 1 {
		t.Fatalf("events = %v", body["events"])
	}
	first := events[0].(map[string]any)
	if first["id"] != "J1" || first["color"] != "#FF0000" || first["start"] != "2024-01-02" {
		t.Fatalf("event = %v", first)
	}

	teamMap, ok := body["teamMap"].(map[string]any)
	if !ok || len(teamMap) != 1 {
		t.Fatalf("teamMap = %v", body["teamMap"])
	}
}

func TestFetchEventsUpstreamFailure(t *testing.T) {
	remote := &fakeRemote{
		findErr: &apperrors.UpstreamError{Status: 502, Body: `{"detail":"offline"}`},
	}
	app := eventsApp(remote)

	resp, body := getJSON(t, app, "/events")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if body["error"] != `{"detail":"offline"}` {
		t.Fatalf("error = %v, want verbatim upstream body", body["error"])
	}
}
