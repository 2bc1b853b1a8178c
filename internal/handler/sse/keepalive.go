package sse

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// KeepAliveWriter writes one keep-alive message.
type KeepAliveWriter interface {
	WriteKeepAlive() error
}

// TickerKeepAlive pings a writer at a fixed interval until stopped or until
// a write fails.
type TickerKeepAlive struct {
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewTickerKeepAlive creates a keep-alive that fires every interval.
func NewTickerKeepAlive(interval time.Duration) *TickerKeepAlive {
	return &TickerKeepAlive{
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the ping loop in a goroutine. The returned channel closes when
// the loop exits.
func (k *TickerKeepAlive) Start(writer KeepAliveWriter, logger *slog.Logger) <-chan struct{} {
	stopped := make(chan struct{})
	if k.interval <= 0 {
		close(stopped)
		return stopped
	}

	ticker := time.NewTicker(k.interval)
	go func() {
		defer close(stopped)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := writer.WriteKeepAlive(); err != nil {
					if errors.Is(err, ErrStreamClosed) {
						return
					}
					logger.Warn("keep-alive write failed, stopping", "error", err)
					return
				}
			case <-k.done:
				return
			}
		}
	}()

	return stopped
}

// Stop ends the ping loop. Safe to call more than once.
func (k *TickerKeepAlive) Stop() {
	k.stopOnce.Do(func() { close(k.done) })
}
