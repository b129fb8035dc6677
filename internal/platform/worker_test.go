package platform

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/therealtombi/Rumble-Live-Ops/internal/jobs"
	"github.com/therealtombi/Rumble-Live-Ops/internal/models"
	"github.com/therealtombi/Rumble-Live-Ops/internal/surface"
)

func testLogger() *log.Logger {
	logger := log.New(io.Discard)
	logger.SetLevel(log.FatalLevel)
	return logger
}

// fakeService is an in-package test double for Service with injectable
// behavior per operation.
type fakeService struct {
	page     *VideoPage
	pageErr  error
	current  []string
	readErr  error
	added    []string
	addErr   error
	removed  []string
	rmErr    error
	lists    []models.Playlist
	channels []models.Channel
}

func (f *fakeService) FetchVideoPage(ctx context.Context, url string) (*VideoPage, error) {
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	if f.page != nil {
		return f.page, nil
	}
	return &VideoPage{URL: url, VideoID: "v1"}, nil
}

func (f *fakeService) VideoPlaylists(ctx context.Context, videoID string) ([]string, error) {
	return f.current, f.readErr
}

func (f *fakeService) AddToPlaylist(ctx context.Context, videoID, playlistID string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, playlistID)
	return nil
}

func (f *fakeService) RemoveFromPlaylist(ctx context.Context, videoID, playlistID string) error {
	if f.rmErr != nil {
		return f.rmErr
	}
	f.removed = append(f.removed, playlistID)
	return nil
}

func (f *fakeService) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return f.lists, nil
}

func (f *fakeService) FollowedChannels(ctx context.Context) ([]models.Channel, error) {
	return f.channels, nil
}

func (f *fakeService) Name() string { return "fake" }

func workerHandle() *surface.Handle {
	return surface.NewHandle("https://rumble.com/v1-test.html", nil)
}

func TestPlaylistWorker_ApplyDeltasOnly(t *testing.T) {
	service := &fakeService{current: []string{"pl_2"}}
	worker := NewPlaylistWorker(service, testLogger())

	resp, err := worker.Run(context.Background(), workerHandle(), jobs.WorkRequest{
		PlaylistIDs: []string{"pl_1", "pl_2", "pl_3"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !resp.OK {
		t.Fatalf("Run() not ok: %s", resp.Reason)
	}
	if resp.Detail.Checked != 2 || resp.Detail.Skipped != 1 {
		t.Errorf("detail = %+v, want 2 checked, 1 skipped", resp.Detail)
	}
	if len(service.added) != 2 || service.added[0] != "pl_1" || service.added[1] != "pl_3" {
		t.Errorf("added = %v, want [pl_1 pl_3]", service.added)
	}
}

func TestPlaylistWorker_ApplyNothingRequested(t *testing.T) {
	worker := NewPlaylistWorker(&fakeService{}, testLogger())

	resp, err := worker.Run(context.Background(), workerHandle(), jobs.WorkRequest{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if resp.OK {
		t.Error("empty apply should come back as an orderly skip")
	}
	if resp.Reason == "" {
		t.Error("skip should carry a reason")
	}
}

func TestPlaylistWorker_ClearAll(t *testing.T) {
	service := &fakeService{current: []string{"pl_1", "pl_2"}}
	worker := NewPlaylistWorker(service, testLogger())

	resp, err := worker.Run(context.Background(), workerHandle(), jobs.WorkRequest{ClearAll: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !resp.OK {
		t.Fatalf("Run() not ok: %s", resp.Reason)
	}
	if resp.Detail.Checked != 2 {
		t.Errorf("detail = %+v, want 2 removed", resp.Detail)
	}
	if len(service.removed) != 2 {
		t.Errorf("removed = %v, want both playlists", service.removed)
	}
}

func TestPlaylistWorker_ClearAlreadyEmpty(t *testing.T) {
	worker := NewPlaylistWorker(&fakeService{}, testLogger())

	resp, err := worker.Run(context.Background(), workerHandle(), jobs.WorkRequest{ClearAll: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if resp.OK {
		t.Error("clearing a video with no memberships should be a skip")
	}
}

func TestPlaylistWorker_Failures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		service *fakeService
		req     jobs.WorkRequest
	}{
		{"page fetch fails", &fakeService{pageErr: boom}, jobs.WorkRequest{PlaylistIDs: []string{"pl_1"}}},
		{"membership read fails", &fakeService{readErr: boom}, jobs.WorkRequest{PlaylistIDs: []string{"pl_1"}}},
		{"add fails", &fakeService{addErr: boom}, jobs.WorkRequest{PlaylistIDs: []string{"pl_1"}}},
		{"remove fails", &fakeService{current: []string{"pl_1"}, rmErr: boom}, jobs.WorkRequest{ClearAll: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			worker := NewPlaylistWorker(tt.service, testLogger())
			if _, err := worker.Run(context.Background(), workerHandle(), tt.req); !errors.Is(err, boom) {
				t.Errorf("Run() error = %v, want wrapped boom", err)
			}
		})
	}
}
