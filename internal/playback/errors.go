package playback

import "errors"

var (
	// ErrInvalidMode is returned for modes outside the defined set.
	ErrInvalidMode = errors.New("invalid playback mode")
	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("playback controller closed")
)
