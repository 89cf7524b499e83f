// Package llm abstracts the chat-completion capability the conversation
// core depends on. Adapters live here; callers only see Completer.
package llm

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tune a single completion call. Zero values mean "use client default".
type Options struct {
	Temperature float64
	MaxTokens   int
}

type Completer interface {
	Complete(ctx context.Context, systemPrompt string, messages []Message, opts Options) (string, error)
}

// ProviderError reports an inference-provider failure (network, quota,
// exhausted models). Callers recover with a fallback provider or a default
// string; this error must never reach the end user.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return "llm: provider " + e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }
