package render

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// CopyFeedbackWindow is how long Copied reports true after a copy.
const CopyFeedbackWindow = 2 * time.Second

// ClipboardWriter puts text on the system clipboard.
type ClipboardWriter func(text string) error

// Scheduler runs fn once after d.
type Scheduler func(d time.Duration, fn func())

// Copier is the copy-to-clipboard action of a code block.
type Copier struct {
	write    ClipboardWriter
	schedule Scheduler

	mu     sync.Mutex
	copied bool
	seq    uint64
}

// NewCopier creates a copier. Nil arguments select the system clipboard and
// time.AfterFunc.
func NewCopier(write ClipboardWriter, schedule Scheduler) *Copier {
	if write == nil {
		write = clipboard.WriteAll
	}
	if schedule == nil {
		schedule = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	return &Copier{write: write, schedule: schedule}
}

// Copy puts the trimmed source on the clipboard and turns on the copied
// indicator for CopyFeedbackWindow. A second copy inside the window restarts it.
func (c *Copier) Copy(source string) error {
	if err := c.write(strings.TrimSpace(source)); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}

	c.mu.Lock()
	c.copied = true
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	c.schedule(CopyFeedbackWindow, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.seq == seq {
			c.copied = false
		}
	})
	return nil
}

// Copied reports whether the indicator is showing.
func (c *Copier) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}
