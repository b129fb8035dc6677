package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/therealtombi/Rumble-Live-Ops/internal/jobs"
	"github.com/therealtombi/Rumble-Live-Ops/internal/models"
	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeRejection writes a 400 with the rejection reason.
func writeRejection(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"status": "rejected",
		"error":  err.Error(),
	})
}

// submitPayload is the wire form of a job submission.
type submitPayload struct {
	Operation     string   `json:"operation"`
	PlaylistIDs   []string `json:"playlist_ids"`
	PlaylistNames []string `json:"playlist_names"`
	Targets       []string `json:"targets"`
	TimeoutMS     int      `json:"timeout_ms"`
}

// JobsHandler accepts job submissions and cancellations. A submission is
// acknowledged immediately; outcomes arrive on the event stream.
type JobsHandler struct {
	orchestrator *jobs.Orchestrator
	logger       *log.Logger
}

// NewJobsHandler creates a handler bound to the orchestrator.
func NewJobsHandler(orchestrator *jobs.Orchestrator, logger *log.Logger) *JobsHandler {
	return &JobsHandler{orchestrator: orchestrator, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *JobsHandler) Routes() []string {
	return []string{"/api/jobs", "/api/jobs/active"}
}

// ServeHTTP dispatches submissions and cancellations.
func (h *JobsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/jobs":
		h.submit(w, r)
	case r.Method == http.MethodDelete && r.URL.Path == "/api/jobs/active":
		h.cancel(w)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *JobsHandler) submit(w http.ResponseWriter, r *http.Request) {
	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeRejection(w, fmt.Errorf("invalid submission: %w", err))
		return
	}

	kind, err := jobs.ParseOperationKind(payload.Operation)
	if err != nil {
		writeRejection(w, err)
		return
	}

	job, err := h.orchestrator.Start(jobs.SubmitRequest{
		Kind:          kind,
		PlaylistIDs:   payload.PlaylistIDs,
		PlaylistNames: payload.PlaylistNames,
		Targets:       payload.Targets,
		TargetTimeout: time.Duration(payload.TimeoutMS) * time.Millisecond,
	})
	if err != nil {
		writeRejection(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "accepted",
		"job_id": job.ID(),
		"total":  job.Total(),
	})
}

func (h *JobsHandler) cancel(w http.ResponseWriter) {
	h.orchestrator.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// EventsHandler streams job progress over server-sent events.
type EventsHandler struct {
	broadcaster *jobs.Broadcaster
	logger      *log.Logger
}

// NewEventsHandler creates the SSE progress handler.
func NewEventsHandler(broadcaster *jobs.Broadcaster, logger *log.Logger) *EventsHandler {
	return &EventsHandler{broadcaster: broadcaster, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *EventsHandler) Routes() []string {
	return []string{"/api/jobs/events"}
}

// ServeHTTP subscribes the client and relays events until it disconnects.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, unsubscribe := h.broadcaster.Subscribe(32)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case event, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to encode event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// DirectoryReader is the read side of the playlist directory the API serves.
type DirectoryReader interface {
	List(criteria map[string]any) ([]*models.PersistedPlaylist, error)
}

// DirectoryHandler serves the cached playlist directory.
type DirectoryHandler struct {
	directory DirectoryReader
	logger    *log.Logger
}

// NewDirectoryHandler creates the directory read handler.
func NewDirectoryHandler(directory DirectoryReader, logger *log.Logger) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *DirectoryHandler) Routes() []string {
	return []string{"/api/directory"}
}

// ServeHTTP lists the directory, optionally filtered by visibility.
func (h *DirectoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	criteria := map[string]any{}
	if visibility := r.URL.Query().Get("public"); visibility != "" {
		criteria["public"] = visibility == "true"
	}

	playlists, err := h.directory.List(criteria)
	if err != nil {
		h.logger.Error("directory list failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "directory unavailable"})
		return
	}

	entries := make([]map[string]any, 0, len(playlists))
	for _, p := range playlists {
		entries = append(entries, map[string]any{
			"playlist_id":  p.PlaylistID(),
			"title":        p.Title(),
			"video_count":  p.VideoCount(),
			"public":       p.Public(),
			"harvested_at": p.HarvestedAt(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"playlists": entries})
}

// ScrapeHandler triggers directory harvests and serves raid candidates.
// Harvest requests are debounced so a burst of triggers runs once.
type ScrapeHandler struct {
	scraper   *jobs.Scraper
	debouncer *shared.Debouncer
	delay     time.Duration
	logger    *log.Logger
}

// NewScrapeHandler creates the scrape task handler.
func NewScrapeHandler(scraper *jobs.Scraper, debouncer *shared.Debouncer, delay time.Duration, logger *log.Logger) *ScrapeHandler {
	return &ScrapeHandler{
		scraper:   scraper,
		debouncer: debouncer,
		delay:     delay,
		logger:    logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *ScrapeHandler) Routes() []string {
	return []string{"/api/harvest", "/api/raid"}
}

// ServeHTTP dispatches harvest triggers and raid candidate reads.
func (h *ScrapeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/harvest":
		h.harvest(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/api/raid":
		h.raid(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ScrapeHandler) harvest(w http.ResponseWriter, r *http.Request) {
	// The request is long gone by the time the debounce window elapses, so
	// the harvest runs on its own context.
	h.debouncer.Debounce("harvest", h.delay, func() {
		if _, err := h.scraper.Harvest(context.Background()); err != nil {
			h.logger.Error("harvest failed", "error", err)
		}
	})

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func (h *ScrapeHandler) raid(w http.ResponseWriter, r *http.Request) {
	channels, err := h.scraper.RaidCandidates(r.Context())
	if err != nil {
		h.logger.Error("raid lookup failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "raid candidates unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"channels": channels})
}
