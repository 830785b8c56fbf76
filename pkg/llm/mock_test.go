package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClientEchoesLastMessageByDefault(t *testing.T) {
	m := &MockClient{}
	out, err := m.Chat(context.Background(), "sys", []Message{{Role: "user", Content: "hello"}}, 100, 0.1)
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
}

func TestMockClientReturnsConfiguredResponse(t *testing.T) {
	m := &MockClient{Respond: "fixed answer"}
	out, err := m.Chat(context.Background(), "sys", []Message{{Role: "user", Content: "anything"}}, 100, 0.1)
	require.NoError(t, err)
	assert.Equal(t, "fixed answer", out)
}

func TestMockClientReturnsConfiguredError(t *testing.T) {
	wantErr := errors.New("upstream down")
	m := &MockClient{Err: wantErr}
	_, err := m.Chat(context.Background(), "sys", []Message{{Role: "user", Content: "x"}}, 100, 0.1)
	assert.ErrorIs(t, err, wantErr)
}

func TestMockClientRejectsEmptyMessages(t *testing.T) {
	m := &MockClient{}
	_, err := m.Chat(context.Background(), "sys", nil, 100, 0.1)
	assert.Error(t, err)
}

func TestMockClientRespectsCanceledContext(t *testing.T) {
	m := &MockClient{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Chat(ctx, "sys", []Message{{Role: "user", Content: "x"}}, 100, 0.1)
	assert.Error(t, err)
}

func TestMockClientRecordsCalls(t *testing.T) {
	m := &MockClient{}
	_, _ = m.Chat(context.Background(), "sys", []Message{{Role: "user", Content: "a"}}, 100, 0.1)
	_, _ = m.Chat(context.Background(), "sys", []Message{{Role: "user", Content: "b"}}, 100, 0.1)
	require.Len(t, m.Calls, 2)
	assert.Equal(t, "a", m.Calls[0].Content)
	assert.Equal(t, "b", m.Calls[1].Content)
}
