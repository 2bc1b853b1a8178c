package docs

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Window returns the last n messages of history, or all of them when n <= 0.
// The returned slice is a copy.
func Window(history []ChatMessage, n int) []ChatMessage {
	start := 0
	if n > 0 && len(history) > n {
		start = len(history) - n
	}
	out := make([]ChatMessage, len(history)-start)
	copy(out, history[start:])
	return out
}
