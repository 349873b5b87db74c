// internal/state/interface.go
package state

import (
	"context"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/session"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	session.Store
	History(ctx context.Context, limit int) ([]MediaState, error)
	Forget(mediaKey string) error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
