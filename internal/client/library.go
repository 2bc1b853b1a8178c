package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/sjson"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
)

// ListDocs returns saved docs newest first, filtered by query when set.
func (c *Client) ListDocs(ctx context.Context, query string) ([]docs.GeneratedDoc, error) {
	path := "/api/docs"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var list []docs.GeneratedDoc
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, domain.WrapUpstreamError(0, "invalid doc list", err)
	}
	return list, nil
}

// GetDoc returns a saved doc with its ordered sections.
func (c *Client) GetDoc(ctx context.Context, id string) (*docs.GeneratedDocWithSections, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/docs/"+escapeID(id), nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var doc docs.GeneratedDocWithSections
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, domain.WrapUpstreamError(0, "invalid doc", err)
	}
	return &doc, nil
}

// DeleteDoc deletes a saved doc and its sections.
func (c *Client) DeleteDoc(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/docs/"+escapeID(id), nil)
	if err != nil {
		return err
	}
	_, err = c.do(req)
	return err
}

// OpenChatStream posts the conversation to /docs-chat and returns the
// streaming body. The caller owns and must close it; cancelling ctx also
// closes it.
func (c *Client) OpenChatStream(ctx context.Context, messages []docs.ChatMessage) (io.ReadCloser, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "messages", messages)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/docs-chat", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, statusError(resp.StatusCode, errBody)
	}
	return resp.Body, nil
}
