// Package ratelimit spaces out LLM requests. It never retries.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"webpilot/internal/application/port/output"

	"golang.org/x/time/rate"
)

var _ output.LLMPort = (*Limited)(nil)

type Limited struct {
	next    output.LLMPort
	limiter *rate.Limiter
}

// Wrap returns next unchanged when requestsPerMinute is not positive.
func Wrap(next output.LLMPort, requestsPerMinute float64) output.LLMPort {
	if requestsPerMinute <= 0 {
		return next
	}
	interval := time.Duration(float64(time.Minute) / requestsPerMinute)
	return &Limited{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (l *Limited) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return l.next.Chat(ctx, req)
}
