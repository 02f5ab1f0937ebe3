package core

import (
	"context"
	"sync"
	"time"
)

// TimerScheduler runs each task immediately, then again after whatever
// delay the task returns. A negative delay cancels the loop, as does
// cancellation of the scheduling context.
type TimerScheduler struct {
	wg sync.WaitGroup
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

func (s *TimerScheduler) Schedule(ctx context.Context, name string, task Task) {
	if s == nil || task == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			if ctx.Err() != nil {
				return
			}
			delay := task(ctx)
			if delay < 0 {
				return
			}
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// Wait blocks until every scheduled loop has exited. Intended for orderly
// shutdown after the scheduling context is canceled.
func (s *TimerScheduler) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}

var _ Scheduler = (*TimerScheduler)(nil)
