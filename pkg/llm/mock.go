package llm

import (
	"context"
	"fmt"

	"github.com/Mayoengin/netfleet-rag/internal/errs"
)

// MockClient is a deterministic Client used by every test in this module
// and by the serve command when --llm-provider is mock or not recognized.
type MockClient struct {
	// Respond, if set, is returned verbatim regardless of input.
	Respond string
	// Err, if set, is returned on every call instead of a response.
	Err error
	// Calls records every invocation for assertions in caller tests.
	Calls []Message
}

func (m *MockClient) Chat(ctx context.Context, system string, messages []Message, maxTokens int, temperature float64) (string, error) {
	m.Calls = append(m.Calls, messages...)

	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(errs.Canceled, "llm", "mock chat canceled", err)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Respond != "" {
		return m.Respond, nil
	}
	if len(messages) == 0 {
		return "", errs.New(errs.InvalidInput, "llm", "mock chat called with no messages")
	}
	return fmt.Sprintf("mock response to: %s", messages[len(messages)-1].Content), nil
}
