package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	domainllm "docsite/internal/domain/services/llm"
)

// Stream generates a streaming response from Claude.
// The first SDK event is read before returning so that request failures
// (bad key, rate limit) come back as an error instead of a stream event.
func (p *Provider) Stream(ctx context.Context, req *domainllm.CompletionRequest) (<-chan domainllm.StreamEvent, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", req.Model)
	}

	params, err := buildParams(req)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	if !stream.Next() {
		err := stream.Err()
		stream.Close()
		if err != nil {
			return nil, upstreamError(err)
		}
		events := make(chan domainllm.StreamEvent)
		close(events)
		return events, nil
	}

	eventChan := make(chan domainllm.StreamEvent, 10)

	go func() {
		defer close(eventChan)
		defer stream.Close()

		for {
			if text, ok := textDelta(stream.Current()); ok {
				select {
				case <-ctx.Done():
					return
				case eventChan <- domainllm.StreamEvent{Delta: text}:
				}
			}
			if !stream.Next() {
				break
			}
		}

		if err := stream.Err(); err != nil {
			select {
			case <-ctx.Done():
			case eventChan <- domainllm.StreamEvent{Error: upstreamError(err)}:
			}
		}
	}()

	return eventChan, nil
}

// textDelta extracts text from content_block_delta events. Message start/stop
// and block boundaries carry no text.
func textDelta(event anthropic.MessageStreamEventUnion) (string, bool) {
	e, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
	if !ok || e.Delta.Type != "text_delta" || e.Delta.Text == "" {
		return "", false
	}
	return e.Delta.Text, true
}
