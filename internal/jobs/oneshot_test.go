package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/therealtombi/Rumble-Live-Ops/internal/models"
	"github.com/therealtombi/Rumble-Live-Ops/internal/surface"
)

type stubParser struct {
	playlists []models.Playlist
	channels  []models.Channel
	listErr   error
	closed    bool
}

func (p *stubParser) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return p.playlists, p.listErr
}

func (p *stubParser) FollowedChannels(ctx context.Context) ([]models.Channel, error) {
	return p.channels, nil
}

func (p *stubParser) Close() error {
	p.closed = true
	return nil
}

type stubStore struct {
	mu        sync.Mutex
	playlists []models.Playlist
	err       error
}

func (s *stubStore) ReplaceAll(playlists []models.Playlist, harvestedAt time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists = playlists
	return nil
}

func scraperWith(parser *stubParser, store *stubStore) *Scraper {
	shared := surface.NewShared(func(ctx context.Context) (PageParser, error) {
		return parser, nil
	})
	return NewScraper(shared, store, 5*time.Second, testLogger())
}

func TestScraper_Harvest(t *testing.T) {
	parser := &stubParser{playlists: []models.Playlist{
		{ID: "pl_1", Title: "Highlights", VideoCount: 4},
		{ID: "pl_2", Title: "Archive", VideoCount: 9},
	}}
	store := &stubStore{}

	result, err := scraperWith(parser, store).Harvest(context.Background())
	if err != nil {
		t.Fatalf("Harvest() error = %v", err)
	}

	if result.Playlists != 2 {
		t.Errorf("Playlists = %d, want 2", result.Playlists)
	}
	if len(store.playlists) != 2 {
		t.Errorf("store received %d playlists, want 2", len(store.playlists))
	}
	if !parser.closed {
		t.Error("parse surface should be closed after the last release")
	}
}

func TestScraper_HarvestListFailureLeavesStoreAlone(t *testing.T) {
	parser := &stubParser{listErr: errors.New("markup changed")}
	store := &stubStore{}

	if _, err := scraperWith(parser, store).Harvest(context.Background()); err == nil {
		t.Fatal("Harvest() should fail when listing fails")
	}
	if store.playlists != nil {
		t.Error("failed harvest must not touch the store")
	}
	if !parser.closed {
		t.Error("parse surface should still be released on failure")
	}
}

func TestScraper_HarvestStoreFailure(t *testing.T) {
	parser := &stubParser{playlists: []models.Playlist{{ID: "pl_1", Title: "X"}}}
	store := &stubStore{err: errors.New("db locked")}

	if _, err := scraperWith(parser, store).Harvest(context.Background()); err == nil {
		t.Fatal("Harvest() should surface store errors")
	}
}

func TestScraper_RaidCandidatesLiveOnly(t *testing.T) {
	parser := &stubParser{channels: []models.Channel{
		{Name: "Big", Live: true, Viewers: 400},
		{Name: "Offline", Live: false},
		{Name: "Small", Live: true, Viewers: 25},
	}}

	live, err := scraperWith(parser, &stubStore{}).RaidCandidates(context.Background())
	if err != nil {
		t.Fatalf("RaidCandidates() error = %v", err)
	}

	if len(live) != 2 {
		t.Fatalf("got %d candidates, want 2 live channels", len(live))
	}
	for _, c := range live {
		if !c.Live {
			t.Errorf("offline channel %s in candidates", c.Name)
		}
	}
}

func TestScraper_ConcurrentTasksShareOneParser(t *testing.T) {
	var count int
	var mu sync.Mutex

	shared := surface.NewShared(func(ctx context.Context) (PageParser, error) {
		mu.Lock()
		count++
		mu.Unlock()
		return &stubParser{}, nil
	})
	scraper := NewScraper(shared, &stubStore{}, 5*time.Second, testLogger())

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := scraper.RaidCandidates(context.Background()); err != nil {
				t.Errorf("RaidCandidates() error = %v", err)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count > 4 {
		t.Errorf("parser created %d times for 4 tasks", count)
	}
	if shared.Refs() != 0 {
		t.Errorf("refs = %d after all tasks finished, want 0", shared.Refs())
	}
}
