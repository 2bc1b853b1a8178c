package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
)

// ReadSize is the chunk size used when reading the stream body.
const ReadSize = 4096

// ErrTurnInProgress is returned by Send while a previous turn is still running.
var ErrTurnInProgress = errors.New("a chat turn is already in progress")

// State is the per-turn state of a Session.
type State int

const (
	StateIdle State = iota
	StateSending
	StateStreaming
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StateFailed:
		return "failed"
	}
	return "idle"
}

// Streamer opens the raw chat stream. *client.Client implements it.
type Streamer interface {
	OpenChatStream(ctx context.Context, messages []docs.ChatMessage) (io.ReadCloser, error)
}

// Session is one conversation. History is append-only; the reply being
// streamed lives in a separate slot until the turn ends.
type Session struct {
	streamer Streamer
	window   int
	onDelta  func(string)
	onState  func(State)

	mu      sync.Mutex
	state   State
	history []docs.ChatMessage
	current strings.Builder
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHistoryWindow bounds how many trailing messages each request carries.
// n <= 0 sends the whole history.
func WithHistoryWindow(n int) SessionOption {
	return func(s *Session) { s.window = n }
}

// WithDeltaHandler registers fn to be called with every applied delta, in order.
func WithDeltaHandler(fn func(delta string)) SessionOption {
	return func(s *Session) { s.onDelta = fn }
}

// WithStateHandler registers fn to be called after every state transition.
func WithStateHandler(fn func(State)) SessionOption {
	return func(s *Session) { s.onState = fn }
}

// NewSession creates an idle session.
func NewSession(streamer Streamer, opts ...SessionOption) *Session {
	s := &Session{streamer: streamer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current turn state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a copy of the conversation, including the partial
// assistant reply while one is streaming.
func (s *Session) Messages() []docs.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]docs.ChatMessage, len(s.history), len(s.history)+1)
	copy(out, s.history)
	if s.state == StateStreaming {
		out = append(out, docs.ChatMessage{Role: docs.RoleAssistant, Content: s.current.String()})
	}
	return out
}

// Send runs one turn: it appends the user message, posts the windowed
// history and applies streamed deltas until [DONE] or end of stream.
// Cancelling ctx closes the stream; the partial reply is kept.
func (s *Session) Send(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.NewValidationError("message is required")
	}

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrTurnInProgress
	}
	s.history = append(s.history, docs.ChatMessage{Role: docs.RoleUser, Content: message})
	s.state = StateSending
	payload := docs.Window(s.history, s.window)
	s.mu.Unlock()
	s.notify(StateSending)

	body, err := s.streamer.OpenChatStream(ctx, payload)
	if err != nil {
		s.fail(err)
		return err
	}
	defer body.Close()
	stop := context.AfterFunc(ctx, func() { body.Close() })
	defer stop()

	s.mu.Lock()
	s.state = StateStreaming
	s.current.Reset()
	s.mu.Unlock()
	s.notify(StateStreaming)

	err = s.consume(body)
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	s.finish()

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapUpstreamError(0, "chat stream interrupted", err)
	}
	return err
}

func (s *Session) consume(body io.Reader) error {
	var dec Decoder
	buf := make([]byte, ReadSize)

	for !dec.Done() {
		n, err := body.Read(buf)
		if n > 0 {
			s.apply(dec.Feed(string(buf[:n])))
		}
		if errors.Is(err, io.EOF) {
			s.apply(dec.Flush())
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) apply(deltas []string) {
	for _, delta := range deltas {
		s.mu.Lock()
		s.current.WriteString(delta)
		s.mu.Unlock()
		if s.onDelta != nil {
			s.onDelta(delta)
		}
	}
}

// finish commits the streamed reply and returns to idle. A turn that
// streamed nothing leaves no assistant message behind.
func (s *Session) finish() {
	s.mu.Lock()
	if reply := s.current.String(); strings.TrimSpace(reply) != "" {
		s.history = append(s.history, docs.ChatMessage{Role: docs.RoleAssistant, Content: reply})
	}
	s.current.Reset()
	s.state = StateIdle
	s.mu.Unlock()
	s.notify(StateIdle)
}

// fail records a failed request as a synthetic assistant message.
func (s *Session) fail(err error) {
	s.mu.Lock()
	s.state = StateFailed
	s.history = append(s.history, docs.ChatMessage{Role: docs.RoleAssistant, Content: FailureMessage(err)})
	s.mu.Unlock()
	s.notify(StateFailed)

	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
	s.notify(StateIdle)
}

func (s *Session) notify(state State) {
	if s.onState != nil {
		s.onState(state)
	}
}

// FailureMessage is the assistant text shown for a failed turn.
func FailureMessage(err error) string {
	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return domain.RateLimitedMessage
	case errors.Is(err, domain.ErrQuotaExceeded):
		return domain.QuotaExceededMessage
	case errors.As(err, &upstream) && upstream.Message != "":
		return "Sorry, I encountered an error: " + upstream.Message
	}
	return "Sorry, I encountered an error: " + err.Error()
}
