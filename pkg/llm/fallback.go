package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Fallback tries each provider in order and returns the first success.
type Fallback struct {
	providers []Completer
	logger    *zap.Logger
}

func NewFallback(logger *zap.Logger, providers ...Completer) *Fallback {
	return &Fallback{providers: providers, logger: logger}
}

func (f *Fallback) Complete(ctx context.Context, systemPrompt string, messages []Message, opts Options) (string, error) {
	var lastErr error
	for i, p := range f.providers {
		content, err := p.Complete(ctx, systemPrompt, messages, opts)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if i < len(f.providers)-1 {
			f.logger.Warn("provider failed, trying fallback", zap.Int("provider_index", i), zap.Error(err))
		}
	}
	if lastErr == nil {
		lastErr = &ProviderError{Provider: "fallback", Err: fmt.Errorf("no providers configured")}
	}
	return "", lastErr
}
