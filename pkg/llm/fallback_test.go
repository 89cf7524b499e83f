package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, _ string, _ []Message, _ Options) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestFallbackFirstSuccess(t *testing.T) {
	first := &stubCompleter{reply: "hello"}
	second := &stubCompleter{reply: "unused"}
	fb := NewFallback(zap.NewNop(), first, second)

	reply, err := fb.Complete(context.Background(), "sys", nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "Second provider should not be consulted on success")
}

func TestFallbackChainsOnError(t *testing.T) {
	first := &stubCompleter{err: &ProviderError{Provider: "a", Err: fmt.Errorf("quota")}}
	second := &stubCompleter{reply: "rescued"}
	fb := NewFallback(zap.NewNop(), first, second)

	reply, err := fb.Complete(context.Background(), "sys", nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "rescued", reply)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestFallbackAllFail(t *testing.T) {
	provErr := &ProviderError{Provider: "b", Err: fmt.Errorf("down")}
	fb := NewFallback(zap.NewNop(),
		&stubCompleter{err: &ProviderError{Provider: "a", Err: fmt.Errorf("down")}},
		&stubCompleter{err: provErr},
	)

	_, err := fb.Complete(context.Background(), "sys", nil, Options{})
	require.Error(t, err)

	var pe *ProviderError
	assert.True(t, errors.As(err, &pe), "Expected a ProviderError")
}

func TestFallbackRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first := &stubCompleter{err: fmt.Errorf("failed")}
	second := &stubCompleter{reply: "never"}
	fb := NewFallback(zap.NewNop(), first, second)

	_, err := fb.Complete(ctx, "sys", nil, Options{})
	require.Error(t, err)
	assert.Equal(t, 0, second.calls, "Cancelled context must stop the chain")
}

func TestCleanContent(t *testing.T) {
	assert.Equal(t, "hi there", cleanContent("  \"hi there\"\n"))
	assert.Equal(t, "plain", cleanContent("plain"))
	assert.Equal(t, "", cleanContent("  "))
}
