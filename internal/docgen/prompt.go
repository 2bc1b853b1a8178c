package docgen

import "strings"

// ContextSeparator joins the topic and the optional additional context.
const ContextSeparator = ". Additional context: "

// Prompt combines what the user typed into the single topic string sent to
// the generation endpoint.
func Prompt(topic, context string) string {
	topic = strings.TrimSpace(topic)
	if extra := strings.TrimSpace(context); extra != "" {
		return topic + ContextSeparator + extra
	}
	return topic
}
