package platform

import (
	"errors"
	"testing"

	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		want    string
		wantErr bool
	}{
		{
			name: "embedded player config",
			html: `<script>{"video_id":"123456","title":"x"}</script>`,
			want: "123456",
		},
		{
			name: "data attribute fallback",
			html: `<div class="video-player" data-video-id="789"></div>`,
			want: "789",
		},
		{
			name: "legacy vid fallback",
			html: `<script>var player = { vid: 42 };</script>`,
			want: "42",
		},
		{
			name: "first strategy wins over fallback",
			html: `"video_id": "111" data-video-id="222"`,
			want: "111",
		},
		{
			name:    "unrecognizable page",
			html:    `<html><body>nothing here</body></html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.html)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrElementNotFound) {
					t.Errorf("ExtractVideoID() error = %v, want ErrElementNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		want    string
		wantErr bool
	}{
		{
			name: "og meta tag",
			html: `<meta property="og:title" content="Stream Highlights &amp; More">`,
			want: "Stream Highlights & More",
		},
		{
			name: "title tag fallback",
			html: `<title> My Video </title>`,
			want: "My Video",
		},
		{
			name:    "no title at all",
			html:    `<body></body>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTitle(tt.html)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrElementNotFound) {
					t.Errorf("ExtractTitle() error = %v, want ErrElementNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractTitle() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
