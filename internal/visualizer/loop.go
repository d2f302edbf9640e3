package visualizer

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrLoopRunning = errors.New("render loop already running")

const (
	DefaultFPS = 60
	MaxFPS     = 240
)

// ClampFPS maps a configured rate into 1..MaxFPS; non-positive rates mean
// DefaultFPS.
func ClampFPS(fps int) int {
	if fps <= 0 {
		return DefaultFPS
	}
	return min(fps, MaxFPS)
}

// Loop calls a frame function at a bounded rate until stopped.
type Loop struct {
	mu      sync.Mutex
	fps     int
	frame   func()
	cancel  context.CancelFunc
	running bool
}

func NewLoop(fps int, frame func()) *Loop {
	return &Loop{fps: ClampFPS(fps), frame: frame}
}

// Run blocks, calling the frame function once per tick, until ctx is done or
// Stop is called. A stopped loop may be Run again.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrLoopRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.running = true
	l.mu.Unlock()

	defer func() {
		cancel()
		l.mu.Lock()
		l.running = false
		l.cancel = nil
		l.mu.Unlock()
	}()

	ticker := time.NewTicker(time.Second / time.Duration(l.fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// a Stop between ticks must win over a pending tick
			if ctx.Err() != nil {
				return nil
			}
			l.frame()
		}
	}
}

// Stop cancels a running loop. Calling it again, or on an idle loop, does
// nothing. It does not wait for the in-flight frame.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}
