// Package llm provides the narrow chat-completion port the orchestrator
// calls through, and the OpenAI, Anthropic, and deterministic-mock adapters
// that satisfy it.
package llm

import "context"

// Message is one turn of a chat exchange. Role is "user" or "assistant";
// the system instruction is passed separately to Chat rather than folded
// into Messages, since every provider this package wraps treats it as a
// distinct parameter.
type Message struct {
	Role    string
	Content string
}

// Client is the chat-completion port every LLM adapter implements.
type Client interface {
	Chat(ctx context.Context, system string, messages []Message, maxTokens int, temperature float64) (string, error)
}
