package sse

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStream_LazyStart(t *testing.T) {
	rec := httptest.NewRecorder()
	stream, err := NewStream(rec, &Config{}, discardLogger())
	require.NoError(t, err)
	defer stream.Close()

	assert.False(t, stream.Started())
	require.NoError(t, stream.WriteKeepAlive())
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Type"))

	require.NoError(t, stream.WriteData([]byte(`{"a":1}`)))
	require.NoError(t, stream.WriteData([]byte("[DONE]")))

	assert.True(t, stream.Started())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "data: {\"a\":1}\n\ndata: [DONE]\n\n", rec.Body.String())
}

func TestStream_KeepAliveAfterStart(t *testing.T) {
	rec := httptest.NewRecorder()
	stream, err := NewStream(rec, &Config{}, discardLogger())
	require.NoError(t, err)

	require.NoError(t, stream.WriteData([]byte("x")))
	require.NoError(t, stream.WriteKeepAlive())
	stream.Close()

	assert.True(t, strings.HasSuffix(rec.Body.String(), ": keepalive\n\n"))
}

type nonFlusher struct{ http.ResponseWriter }

func TestNewStream_RequiresFlusher(t *testing.T) {
	_, err := NewStream(nonFlusher{httptest.NewRecorder()}, nil, discardLogger())
	assert.ErrorIs(t, err, ErrStreamingUnsupported)
}

type countingWriter struct {
	calls atomic.Int32
	fail  bool
}

func (w *countingWriter) WriteKeepAlive() error {
	w.calls.Add(1)
	if w.fail {
		return errors.New("closed")
	}
	return nil
}

func TestTickerKeepAlive(t *testing.T) {
	tests := []struct {
		name string
		fail bool
	}{
		{name: "stops on explicit stop"},
		{name: "stops on write failure", fail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &countingWriter{fail: tt.fail}
			ka := NewTickerKeepAlive(5 * time.Millisecond)
			stopped := ka.Start(w, discardLogger())

			if !tt.fail {
				require.Eventually(t, func() bool { return w.calls.Load() >= 2 }, time.Second, time.Millisecond)
				ka.Stop()
				ka.Stop()
			}

			select {
			case <-stopped:
			case <-time.After(time.Second):
				t.Fatal("keep-alive did not stop")
			}
			if tt.fail {
				assert.Equal(t, int32(1), w.calls.Load())
			}
		})
	}
}

func TestTickerKeepAlive_ZeroIntervalDisabled(t *testing.T) {
	w := &countingWriter{}
	stopped := NewTickerKeepAlive(0).Start(w, discardLogger())
	<-stopped
	assert.Zero(t, w.calls.Load())
}

// finishedWriter counts writes that arrive after the handler has returned.
type finishedWriter struct {
	*httptest.ResponseRecorder
	finished atomic.Bool
	late     atomic.Int32
}

func (w *finishedWriter) Write(p []byte) (int, error) {
	if w.finished.Load() {
		w.late.Add(1)
	}
	return w.ResponseRecorder.Write(p)
}

func (w *finishedWriter) Flush() {}

func TestStream_NoWritesAfterClose(t *testing.T) {
	for i := 0; i < 500; i++ {
		w := &finishedWriter{ResponseRecorder: httptest.NewRecorder()}
		stream, err := NewStream(w, &Config{KeepAliveInterval: time.Microsecond}, discardLogger())
		require.NoError(t, err)

		require.NoError(t, stream.WriteData([]byte("x")))
		stream.Close()
		w.finished.Store(true)

		time.Sleep(5 * time.Microsecond)
		require.Zero(t, w.late.Load(), "iteration %d", i)
	}
}

func TestStream_WritesFailAfterClose(t *testing.T) {
	rec := httptest.NewRecorder()
	stream, err := NewStream(rec, &Config{}, discardLogger())
	require.NoError(t, err)

	require.NoError(t, stream.WriteData([]byte("x")))
	stream.Close()
	stream.Close()

	assert.ErrorIs(t, stream.WriteData([]byte("y")), ErrStreamClosed)
	assert.ErrorIs(t, stream.WriteKeepAlive(), ErrStreamClosed)
	assert.Equal(t, "data: x\n\n", rec.Body.String())
}
