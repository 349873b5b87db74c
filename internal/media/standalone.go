package media

import (
	"context"
	"time"
)

// Standalone is the element used when no media is bound: playback is the
// virtual clock alone, so every operation succeeds immediately.
type Standalone struct{}

// Verify Standalone implements Element at compile time.
var _ Element = Standalone{}

func (Standalone) Seek(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func (Standalone) Play(context.Context) error { return nil }

func (Standalone) Pause(context.Context) error { return nil }

func (Standalone) SetPlaybackRate(context.Context, float64) error { return nil }

// IsStandalone reports whether e is the clock-only element.
func IsStandalone(e Element) bool {
	_, ok := e.(Standalone)
	return ok
}
