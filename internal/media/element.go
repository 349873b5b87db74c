// Package media defines the boundary to the media element the engine
// controls, plus a clock-only element for standalone playback.
package media

import (
	"context"
	"time"
)

// Element is the media collaborator. Seek may be slow (cross-process round
// trips) and must honour ctx cancellation.
type Element interface {
	Seek(ctx context.Context, position time.Duration) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	SetPlaybackRate(ctx context.Context, rate float64) error
}

// State is the readiness signal sent by an element once it has loaded.
type State struct {
	Paused   bool
	Rate     float64
	Duration time.Duration
}
