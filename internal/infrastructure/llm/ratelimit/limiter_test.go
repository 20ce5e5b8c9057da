package ratelimit

import (
	"context"
	"testing"
	"time"

	"webpilot/internal/application/port/output"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLLM struct {
	calls int
}

func (c *countingLLM) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	c.calls++
	return &output.ChatResponse{}, nil
}

func TestWrap_Disabled(t *testing.T) {
	next := &countingLLM{}
	assert.Same(t, next, Wrap(next, 0))
}

func TestLimited_FirstCallImmediate(t *testing.T) {
	next := &countingLLM{}
	llm := Wrap(next, 1)

	start := time.Now()
	_, err := llm.Chat(context.Background(), output.ChatRequest{})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, next.calls)
}

func TestLimited_WaitHonoursContext(t *testing.T) {
	next := &countingLLM{}
	llm := Wrap(next, 1)

	_, err := llm.Chat(context.Background(), output.ChatRequest{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = llm.Chat(ctx, output.ChatRequest{})

	assert.Error(t, err)
	assert.Equal(t, 1, next.calls)
}
