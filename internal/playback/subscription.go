package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	ModeChanged    <-chan ModeChange
	RateChanged    <-chan RateChange
	SeekChanged    <-chan SeekChange
	PauseChanged   <-chan PauseChange
	ShowingChanged <-chan ShowingChange
	Error          <-chan ErrorEvent
	Done           <-chan struct{}

	// Internal write channels
	modeCh    chan ModeChange
	rateCh    chan RateChange
	seekCh    chan SeekChange
	pauseCh   chan PauseChange
	showingCh chan ShowingChange
	errorCh   chan ErrorEvent
	doneCh    chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		modeCh:    make(chan ModeChange, eventBufferSize),
		rateCh:    make(chan RateChange, eventBufferSize),
		seekCh:    make(chan SeekChange, eventBufferSize),
		pauseCh:   make(chan PauseChange, eventBufferSize),
		showingCh: make(chan ShowingChange, eventBufferSize),
		errorCh:   make(chan ErrorEvent, eventBufferSize),
		doneCh:    make(chan struct{}),
	}
	s.ModeChanged = s.modeCh
	s.RateChanged = s.rateCh
	s.SeekChanged = s.seekCh
	s.PauseChanged = s.pauseCh
	s.ShowingChanged = s.showingCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendMode sends a mode change event (non-blocking).
func (s *Subscription) sendMode(e ModeChange) {
	select {
	case s.modeCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendRate sends a rate change event (non-blocking).
func (s *Subscription) sendRate(e RateChange) {
	select {
	case s.rateCh <- e:
	default:
	}
}

// sendSeek sends a seek event (non-blocking).
func (s *Subscription) sendSeek(e SeekChange) {
	select {
	case s.seekCh <- e:
	default:
	}
}

// sendPause sends a pause event (non-blocking).
func (s *Subscription) sendPause(e PauseChange) {
	select {
	case s.pauseCh <- e:
	default:
	}
}

// sendShowing sends a showing event (non-blocking).
func (s *Subscription) sendShowing(e ShowingChange) {
	select {
	case s.showingCh <- e:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
