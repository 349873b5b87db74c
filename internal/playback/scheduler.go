package playback

import (
	"sync"
	"time"
)

// Scheduler invokes fn every period until stop is called. Implementations
// must never run fn concurrently with itself.
type Scheduler interface {
	Every(period time.Duration, fn func()) (stop func())
}

// TickerScheduler runs fn on a dedicated goroutine driven by time.Ticker.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(period time.Duration, fn func()) func() {
	ticker := time.NewTicker(period)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
