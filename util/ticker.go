package util

import (
	"sync"
	"time"
)

// ImmediateTicker is a time.Ticker which also fires right after creation.
type ImmediateTicker struct {
	C    <-chan time.Time
	t    *time.Ticker
	done chan struct{}
	once sync.Once
}

func NewImmediateTicker(d time.Duration) *ImmediateTicker {
	t := time.NewTicker(d)
	c := make(chan time.Time, 1)
	c <- time.Now()
	it := &ImmediateTicker{C: c, t: t, done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-it.done:
				return
			case tm := <-t.C:
				select {
				case c <- tm:
				default: // slow reader, drop the tick
				}
			}
		}
	}()
	return it
}

// Stop turns off the ticker and releases its goroutine.
func (it *ImmediateTicker) Stop() {
	it.once.Do(func() {
		it.t.Stop()
		close(it.done)
	})
}
