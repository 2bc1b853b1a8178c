// Package chat assembles streamed assistant replies from a /docs-chat body.
package chat

import (
	"strings"

	"github.com/tidwall/gjson"

	"docsite/internal/domain"
)

const dataPrefix = "data: "

// Decoder turns raw stream bytes into text deltas. Feed it chunks in
// arrival order; it keeps incomplete lines and unparseable payloads
// buffered until a later chunk completes them.
type Decoder struct {
	buf  string
	done bool

	// retry is set when the head of buf is a line that already failed
	// to parse once.
	retry bool
}

// Feed appends chunk and returns the deltas it completes, in order.
func (d *Decoder) Feed(chunk string) []string {
	if d.done {
		return nil
	}
	d.buf += chunk

	var deltas []string
	for {
		idx := strings.IndexByte(d.buf, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSuffix(d.buf[:idx], "\r")
		d.buf = d.buf[idx+1:]

		delta, err := d.line(line)
		if err != nil {
			if d.retry {
				// Still broken after more bytes arrived; absorb it.
				d.retry = false
				continue
			}
			// Not parseable yet: put the line back and wait for more bytes.
			d.buf = line + "\n" + d.buf
			d.retry = true
			break
		}
		d.retry = false
		if delta != "" {
			deltas = append(deltas, delta)
		}
		if d.done {
			d.buf = ""
			break
		}
	}
	return deltas
}

// Flush handles a final line that arrived without a trailing newline.
// Anything still unparseable is dropped.
func (d *Decoder) Flush() []string {
	if d.done || strings.TrimSpace(d.buf) == "" {
		d.buf = ""
		return nil
	}
	rest := d.buf
	d.buf = ""
	d.retry = false

	var deltas []string
	for _, line := range strings.Split(rest, "\n") {
		delta, err := d.line(strings.TrimSuffix(line, "\r"))
		if err == nil && delta != "" {
			deltas = append(deltas, delta)
		}
		if d.done {
			break
		}
	}
	return deltas
}

// Done reports whether a [DONE] line was seen.
func (d *Decoder) Done() bool {
	return d.done
}

// line decodes one event line. It returns domain.ErrStreamDecode when the
// payload is not complete JSON.
func (d *Decoder) line(line string) (string, error) {
	if line == "" || strings.HasPrefix(line, ":") || !strings.HasPrefix(line, dataPrefix) {
		return "", nil
	}

	payload := strings.TrimSpace(line[len(dataPrefix):])
	if payload == "[DONE]" {
		d.done = true
		return "", nil
	}
	if !gjson.Valid(payload) {
		return "", domain.ErrStreamDecode
	}
	return gjson.Get(payload, "choices.0.delta.content").String(), nil
}
