package lorem

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	"docsite/internal/domain/models/docs"
	domainllm "docsite/internal/domain/services/llm"
)

// Provider is a mock LLM provider that generates lorem ipsum text.
// Used for testing and development without requiring real API keys.
//
// Complete answers with a well-formed documentation JSON object so the
// generation pipeline can run end to end. Stream emits prose word by word.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-slow", "lorem-test"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// sectionCount is how many sections Complete generates.
const sectionCount = 6

type generatedSection struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Icon    string `json:"icon"`
	Content string `json:"content"`
}

type generatedDoc struct {
	Description string             `json:"description"`
	Sections    []generatedSection `json:"sections"`
}

// Complete returns a documentation JSON object wrapped in a json fence,
// the way real models tend to answer.
func (p *Provider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.Completion, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	if err := sleep(ctx, getStreamDelay(req.Model)); err != nil {
		return nil, err
	}

	doc := generatedDoc{Description: p.generator.Sentence(8, 14)}
	for i := 0; i < sectionCount; i++ {
		title := strings.TrimSuffix(p.generator.Sentence(2, 4), ".")
		doc.Sections = append(doc.Sections, generatedSection{
			Slug:    fmt.Sprintf("section-%d", i+1),
			Title:   title,
			Icon:    docs.Icons[i%len(docs.Icons)],
			Content: p.sectionMarkdown(title),
		})
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode lorem documentation: %w", err)
	}
	text := "```json\n" + string(body) + "\n```"

	return &domainllm.Completion{
		Content:      text,
		Model:        req.Model,
		InputTokens:  estimateTokens(req),
		OutputTokens: len(strings.Fields(text)),
		StopReason:   "end_turn",
	}, nil
}

// getStreamDelay returns the delay between words based on the model name.
// - lorem-slow: 2 words/second (500ms per word)
// - lorem-fast: 30 words/second (33ms per word)
// - lorem-test: no delay
// - default: 10 words/second
func getStreamDelay(model string) time.Duration {
	switch {
	case strings.Contains(model, "test"):
		return 0
	case strings.Contains(model, "slow"):
		return 500 * time.Millisecond
	case strings.Contains(model, "fast"):
		return 33 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// Stream generates a streaming lorem ipsum response of at most MaxTokens
// words (default 60). Speed varies based on model name.
func (p *Provider) Stream(ctx context.Context, req *domainllm.CompletionRequest) (<-chan domainllm.StreamEvent, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	maxWords := req.MaxTokens
	if maxWords <= 0 {
		maxWords = 60
	}
	words := strings.Fields(p.generateTextWords(maxWords))
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	delay := getStreamDelay(req.Model)

	eventChan := make(chan domainllm.StreamEvent, 10)

	go func() {
		defer close(eventChan)

		for i, word := range words {
			delta := word
			if i < len(words)-1 {
				delta += " "
			}
			select {
			case <-ctx.Done():
				return
			case eventChan <- domainllm.StreamEvent{Delta: delta}:
			}
			if err := sleep(ctx, delay); err != nil {
				return
			}
		}
	}()

	return eventChan, nil
}

func (p *Provider) sectionMarkdown(title string) string {
	var sb strings.Builder
	sb.WriteString("## " + title + "\n\n")
	sb.WriteString(p.generator.Paragraph(2, 4))
	sb.WriteString("\n\n")
	for i := 0; i < 3; i++ {
		sb.WriteString("- " + p.generator.Sentence(4, 8) + "\n")
	}
	sb.WriteString("\n```bash\necho \"" + p.generator.Word(4, 8) + "\"\n```\n")
	return sb.String()
}

// generateTextWords generates lorem ipsum text with approximately targetWords words.
func (p *Provider) generateTextWords(targetWords int) string {
	var sb strings.Builder
	wordCount := 0

	for wordCount < targetWords {
		sentence := p.generator.Sentence(5, 15)
		sb.WriteString(sentence)
		sb.WriteString(" ")
		wordCount += len(strings.Fields(sentence))
	}

	return strings.TrimSpace(sb.String())
}

// estimateTokens uses word count as a rough approximation.
func estimateTokens(req *domainllm.CompletionRequest) int {
	total := len(strings.Fields(req.System))
	for _, msg := range req.Messages {
		total += len(strings.Fields(msg.Content))
	}
	return total
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
