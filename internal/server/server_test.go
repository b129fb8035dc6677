package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/therealtombi/Rumble-Live-Ops/internal/jobs"
	"github.com/therealtombi/Rumble-Live-Ops/internal/models"
	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
	"github.com/therealtombi/Rumble-Live-Ops/internal/surface"
)

func testLogger() *log.Logger {
	logger := log.New(io.Discard)
	logger.SetLevel(log.FatalLevel)
	return logger
}

type instantWorker struct{}

func (instantWorker) Run(ctx context.Context, h *surface.Handle, req jobs.WorkRequest) (*jobs.WorkResponse, error) {
	return &jobs.WorkResponse{OK: true}, nil
}

type noopDirectory struct{}

func (noopDirectory) LookupByName(name string) ([]string, error) { return nil, nil }

func testOrchestrator() *jobs.Orchestrator {
	manager := surface.NewTabManager(surface.LoadFunc(func(ctx context.Context, url string) error {
		return nil
	}), testLogger())
	return jobs.NewOrchestrator(manager, instantWorker{}, noopDirectory{}, shared.DefaultConfig(), testLogger())
}

func TestBasicRouter_MethodFiltering(t *testing.T) {
	router := NewBasicRouter()
	router.Handle(http.MethodPost, "/only-post", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/only-post", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-post", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("POST status = %d, want 200", rec.Code)
	}
}

func TestBasicRouter_MiddlewareOrder(t *testing.T) {
	router := NewBasicRouter()

	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	router.Use(tag("first"), tag("second"))
	router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("middleware order = %v, want [first second]", order)
	}
}

func TestJobsHandler_SubmitAccepted(t *testing.T) {
	handler := NewJobsHandler(testOrchestrator(), testLogger())

	body := `{"operation":"set","playlist_ids":["pl_1"],"targets":["https://rumble.com/v1-a.html"]}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body)))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["status"] != "accepted" {
		t.Errorf("status field = %v", resp["status"])
	}
	if resp["total"].(float64) != 1 {
		t.Errorf("total = %v, want 1", resp["total"])
	}
	if resp["job_id"] == "" {
		t.Error("job_id should be set")
	}
}

func TestJobsHandler_SubmitRejected(t *testing.T) {
	handler := NewJobsHandler(testOrchestrator(), testLogger())

	tests := []struct {
		name string
		body string
	}{
		{"no targets", `{"operation":"clear","targets":[]}`},
		{"no playlists for set", `{"operation":"set","targets":["https://rumble.com/v1-a.html"]}`},
		{"bad operation", `{"operation":"purge","targets":["https://rumble.com/v1-a.html"]}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid response body: %v", err)
			}
			if resp["status"] != "rejected" || resp["error"] == "" {
				t.Errorf("response = %v, want rejection with reason", resp)
			}
		})
	}
}

func TestJobsHandler_Cancel(t *testing.T) {
	handler := NewJobsHandler(testOrchestrator(), testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/jobs/active", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

type fakeDirectory struct {
	playlists []*models.PersistedPlaylist
	criteria  map[string]any
}

func (d *fakeDirectory) List(criteria map[string]any) ([]*models.PersistedPlaylist, error) {
	d.criteria = criteria
	return d.playlists, nil
}

func TestDirectoryHandler_List(t *testing.T) {
	persisted := models.NewPersistedPlaylist(1, time.Now(), models.Playlist{
		ID:         "pl_1",
		Title:      "Highlights",
		VideoCount: 4,
		Public:     true,
	})
	dir := &fakeDirectory{playlists: []*models.PersistedPlaylist{persisted}}
	handler := NewDirectoryHandler(dir, testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/directory?public=true", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if public, ok := dir.criteria["public"].(bool); !ok || !public {
		t.Errorf("criteria = %v, want public filter", dir.criteria)
	}

	var resp struct {
		Playlists []map[string]any `json:"playlists"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Playlists) != 1 || resp.Playlists[0]["playlist_id"] != "pl_1" {
		t.Errorf("playlists = %v", resp.Playlists)
	}
}

func TestEventsHandler_StreamsProgress(t *testing.T) {
	broadcaster := jobs.NewBroadcaster()
	handler := NewEventsHandler(broadcaster, testLogger())

	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/jobs/events")
	if err != nil {
		t.Fatalf("GET events error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	// Give the handler a moment to subscribe before publishing.
	time.Sleep(50 * time.Millisecond)
	broadcaster.Publish(jobs.Event{Kind: jobs.EventStarted, JobID: "job-1", Total: 2})

	buf := make([]byte, 512)
	n, err := resp.Body.Read(buf)
	if err != nil {
		t.Fatalf("stream read error = %v", err)
	}

	chunk := string(buf[:n])
	if !strings.Contains(chunk, "event: started") {
		t.Errorf("stream chunk = %q, want started event header", chunk)
	}
	if !strings.Contains(chunk, `"total":2`) {
		t.Errorf("stream chunk = %q, want event payload", chunk)
	}
}
