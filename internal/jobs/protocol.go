package jobs

import (
	"context"

	"github.com/therealtombi/Rumble-Live-Ops/internal/surface"
)

// WorkRequest is the payload handed to the worker injected into a surface.
// Names are resolved to ids before the job starts; the worker only ever sees
// ids. ClearAll short-circuits the id list.
type WorkRequest struct {
	PlaylistIDs   []string `json:"playlistIds"`
	PlaylistNames []string `json:"playlistNames"`
	ClearAll      bool     `json:"clearAll"`
}

// WorkDetail counts what the worker actually touched on one target.
type WorkDetail struct {
	Checked int `json:"checked"`
	Skipped int `json:"skipped"`
	Missing int `json:"missing"`
}

// WorkResponse is the worker's reply for one target. OK false with a reason
// is an orderly refusal (the target was examined and skipped), not a crash.
type WorkResponse struct {
	OK     bool       `json:"ok"`
	Reason string     `json:"reason,omitempty"`
	Detail WorkDetail `json:"detail"`
}

// Worker executes one playlist operation against a ready surface. An error
// return means the worker could not run at all; orderly refusals come back
// as a response with OK false.
type Worker interface {
	Run(ctx context.Context, h *surface.Handle, req WorkRequest) (*WorkResponse, error)
}
