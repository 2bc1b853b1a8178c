package client

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/sjson"

	"docsite/internal/docgen"
	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
)

// Progress constants for GenerateWithProgress.
const (
	DefaultProgressInterval = 500 * time.Millisecond
	MaxPendingProgress      = 90
	MaxProgressStep         = 15
)

// GenerateRequest is a generation request as the user typed it.
type GenerateRequest struct {
	Topic   string
	Context string
	Save    bool
}

// Prompt returns the single prompt string sent upstream.
func (r GenerateRequest) Prompt() string {
	return docgen.Prompt(r.Topic, r.Context)
}

// GenerateResult is a validated generation response.
type GenerateResult struct {
	DocID       string
	Topic       string
	Description string
	Sections    []docs.GeneratedSection
}

// Generate sends one POST /generate-docs request. A blank topic fails with
// a ValidationError without touching the network. Nothing is retried.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, domain.NewValidationError("topic is required")
	}

	prompt := req.Prompt()
	body, err := sjson.SetBytes([]byte(`{}`), "topic", prompt)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	if body, err = sjson.SetBytes(body, "save", req.Save); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/generate-docs", body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("requesting generation", "topic", prompt, "save", req.Save)
	respBody, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	resp, err := docgen.DecodeResponse(respBody)
	if err != nil {
		return nil, err
	}

	topic := resp.Topic
	if topic == "" {
		topic = prompt
	}
	return &GenerateResult{
		DocID:       resp.DocID,
		Topic:       topic,
		Description: resp.Description,
		Sections:    resp.Sections,
	}, nil
}

// GenerateWithProgress runs Generate and calls progress from the calling
// goroutine with a value that only grows: a random step of at most
// MaxProgressStep every interval, capped at MaxPendingProgress while the
// request is outstanding, then 100 on success.
func (c *Client) GenerateWithProgress(ctx context.Context, req GenerateRequest, progress func(int)) (*GenerateResult, error) {
	type outcome struct {
		result *GenerateResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := c.Generate(ctx, req)
		done <- outcome{result, err}
	}()

	ticker := time.NewTicker(c.progressInterval)
	defer ticker.Stop()

	value := 0
	progress(value)
	for {
		select {
		case out := <-done:
			if out.err == nil {
				progress(100)
			}
			return out.result, out.err
		case <-ticker.C:
			value = nextProgress(value, rand.IntN(MaxProgressStep)+1)
			progress(value)
		}
	}
}

func nextProgress(current, step int) int {
	return min(current+step, MaxPendingProgress)
}
