package sse

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

var (
	// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush.
	ErrStreamingUnsupported = errors.New("streaming not supported")

	// ErrStreamClosed is returned by writes after Close.
	ErrStreamClosed = errors.New("stream closed")
)

// Stream writes "data:" events to a client. Nothing is written until the
// first event, so callers can still answer with a plain JSON error when the
// upstream fails before producing output.
//
// Writes are serialized, so a keep-alive goroutine may share the stream.
type Stream struct {
	mu        sync.Mutex
	w         http.ResponseWriter
	flusher   http.Flusher
	cfg       *Config
	logger    *slog.Logger
	started   bool
	closed    bool
	keepAlive *TickerKeepAlive
	pinging   <-chan struct{}
}

// NewStream wraps w. cfg may be nil for DefaultConfig.
func NewStream(w http.ResponseWriter, cfg *Config, logger *slog.Logger) (*Stream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Stream{w: w, flusher: flusher, cfg: cfg, logger: logger}, nil
}

// Started reports whether headers have been sent.
func (s *Stream) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// WriteData sends one event with payload as its data line.
func (s *Stream) WriteData(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	s.startLocked()
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// WriteKeepAlive sends an SSE comment line. Before the stream has started
// it is a no-op.
func (s *Stream) WriteKeepAlive() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	if !s.started {
		return nil
	}
	if _, err := fmt.Fprint(s.w, ": keepalive\n\n"); err != nil {
		return fmt.Errorf("write keepalive: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// Close stops the keep-alive loop and waits for it to exit. No write
// reaches the ResponseWriter once Close has returned.
func (s *Stream) Close() {
	s.mu.Lock()
	s.closed = true
	ka, pinging := s.keepAlive, s.pinging
	s.mu.Unlock()

	if ka != nil {
		ka.Stop()
		<-pinging
	}
}

func (s *Stream) startLocked() {
	if s.started {
		return
	}
	s.started = true

	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)

	if s.cfg.KeepAliveInterval > 0 {
		s.keepAlive = NewTickerKeepAlive(s.cfg.KeepAliveInterval)
		s.pinging = s.keepAlive.Start(s, s.logger)
	}
}
