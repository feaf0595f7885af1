package llm

import "context"

// Provider sends a single prompt to a language model and returns its text.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Request describes what to send to the model.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages holds the conversation; the reframe tool sends one user turn.
	Messages []Message

	MaxTokens   int
	Temperature float64
}

// Response is the model's reply.
type Response struct {
	Content    string
	Model      string
	StopReason string
	Usage      Usage
}

// Usage reports token counts for a single call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
