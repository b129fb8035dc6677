package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/therealtombi/Rumble-Live-Ops/internal/models"
	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
)

const serviceEndpoint = "/service.php"

// RumbleService talks to rumble.com with the streamer's imported browser
// session. All requests go through a shared rate limiter so a long job paces
// itself instead of hammering the site.
type RumbleService struct {
	client  *http.Client
	limiter *rate.Limiter
	headers *shared.CurlHeaders
	baseURL string
	logger  *log.Logger
}

// NewRumbleService creates a session-backed platform client.
func NewRumbleService(headers *shared.CurlHeaders, cfg *shared.Config, logger *log.Logger) *RumbleService {
	return &RumbleService{
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(cfg.Jobs.RateLimit), 1),
		headers: headers,
		baseURL: strings.TrimRight(cfg.Session.BaseURL, "/"),
		logger:  logger,
	}
}

// Name returns the platform name for logging and display.
func (s *RumbleService) Name() string {
	return "Rumble"
}

// do sends one rate-limited request with the session headers attached.
func (s *RumbleService) do(ctx context.Context, method, rawURL string, body io.Reader, contentType string) (*http.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range s.headers.Headers {
		req.Header.Set(key, value)
	}
	if s.headers.Cookie != "" {
		req.Header.Set("Cookie", s.headers.Cookie)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", shared.ErrInvalidSession, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s %s returned %d", shared.ErrAPIRequest, method, rawURL, resp.StatusCode)
	}

	return resp, nil
}

// service calls an internal service.php endpoint and decodes the JSON envelope.
func (s *RumbleService) service(ctx context.Context, name string, form url.Values, out any) error {
	endpoint := fmt.Sprintf("%s%s?name=%s", s.baseURL, serviceEndpoint, url.QueryEscape(name))

	var (
		resp *http.Response
		err  error
	)
	if form == nil {
		resp, err = s.do(ctx, http.MethodGet, endpoint, nil, "")
	} else {
		body := strings.NewReader(form.Encode())
		resp, err = s.do(ctx, http.MethodPost, endpoint, body, "application/x-www-form-urlencoded")
	}
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	envelope := struct {
		Data  json.RawMessage `json:"data"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}{}

	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", name, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("%w: %s: %s", shared.ErrAPIRequest, name, envelope.Error.Message)
	}
	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode %s data: %w", name, err)
		}
	}

	return nil
}

// FetchVideoPage loads a video page and extracts its identity from the markup.
func (s *RumbleService) FetchVideoPage(ctx context.Context, pageURL string) (*VideoPage, error) {
	resp, err := s.do(ctx, http.MethodGet, pageURL, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	html, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read page body: %w", err)
	}

	videoID, err := ExtractVideoID(string(html))
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", pageURL, err)
	}

	title, _ := ExtractTitle(string(html))

	s.logger.Debug("loaded video page", "url", pageURL, "video_id", videoID)

	return &VideoPage{URL: pageURL, VideoID: videoID, Title: title}, nil
}

// VideoPlaylists returns the playlist ids the video currently belongs to.
func (s *RumbleService) VideoPlaylists(ctx context.Context, videoID string) ([]string, error) {
	form := url.Values{}
	form.Set("video_id", videoID)

	var data struct {
		Playlists []struct {
			ID       string `json:"id"`
			HasVideo bool   `json:"has_video"`
		} `json:"playlists"`
	}
	if err := s.service(ctx, "playlist.list_for_video", form, &data); err != nil {
		return nil, err
	}

	var ids []string
	for _, p := range data.Playlists {
		if p.HasVideo {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

// AddToPlaylist adds the video to one playlist.
func (s *RumbleService) AddToPlaylist(ctx context.Context, videoID, playlistID string) error {
	form := url.Values{}
	form.Set("video_id", videoID)
	form.Set("playlist_id", playlistID)
	return s.service(ctx, "playlist.add_video", form, nil)
}

// RemoveFromPlaylist removes the video from one playlist.
func (s *RumbleService) RemoveFromPlaylist(ctx context.Context, videoID, playlistID string) error {
	form := url.Values{}
	form.Set("video_id", videoID)
	form.Set("playlist_id", playlistID)
	return s.service(ctx, "playlist.delete_video", form, nil)
}

// ListPlaylists retrieves the account's playlists for the directory harvest.
func (s *RumbleService) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var data struct {
		Playlists []struct {
			ID         string `json:"id"`
			Title      string `json:"title"`
			VideoCount int    `json:"num_items"`
			Visibility string `json:"visibility"`
		} `json:"playlists"`
	}
	if err := s.service(ctx, "playlist.list", nil, &data); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, 0, len(data.Playlists))
	for _, p := range data.Playlists {
		playlists = append(playlists, models.Playlist{
			ID:         p.ID,
			Title:      p.Title,
			VideoCount: p.VideoCount,
			Public:     strings.EqualFold(p.Visibility, "public"),
		})
	}

	s.logger.Debug("listed playlists", "count", len(playlists))
	return playlists, nil
}

// FollowedChannels retrieves followed channels with live status, sorted with
// live channels first by viewer count.
func (s *RumbleService) FollowedChannels(ctx context.Context) ([]models.Channel, error) {
	var data struct {
		Channels []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			IsLive  bool   `json:"is_live"`
			Viewers int    `json:"viewers"`
		} `json:"channels"`
	}
	if err := s.service(ctx, "user.followed_channels", nil, &data); err != nil {
		return nil, err
	}

	channels := make([]models.Channel, 0, len(data.Channels))
	for _, c := range data.Channels {
		channels = append(channels, models.Channel{
			Name:    c.Title,
			URL:     c.URL,
			Live:    c.IsLive,
			Viewers: c.Viewers,
		})
	}

	sort.SliceStable(channels, func(i, j int) bool {
		if channels[i].Live != channels[j].Live {
			return channels[i].Live
		}
		return channels[i].Viewers > channels[j].Viewers
	})

	return channels, nil
}
