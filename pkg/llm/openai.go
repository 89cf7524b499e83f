package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"
)

// ModelConfig defines the ID and output budget for the prioritized list.
type ModelConfig struct {
	ID        string
	MaxTokens int
}

// DefaultModels is the prioritized fallback list for the default provider.
// The first entry handles conversation; later entries are cheaper fallbacks.
var DefaultModels = []ModelConfig{
	{ID: "Sao10K/L3-8B-Stheno-v3.2", MaxTokens: 1024},
	{ID: "meta-llama/Llama-3.2-3B-Instruct", MaxTokens: 1024},
}

// KeyState tracks the health of an API key.
type KeyState struct {
	Key          string
	FailureCount int
	LastUsed     time.Time
	LastSuccess  time.Time
}

// Client is an OpenAI-compatible chat client with multi-key rotation
// (least failures first) and prioritized model fallback.
type Client struct {
	name        string
	keys        []*KeyState
	keyMu       sync.RWMutex
	clients     map[string]openai.Client
	clientsMu   sync.RWMutex
	baseURL     string
	temperature float64
	topP        float64
	timeout     time.Duration
	models      []ModelConfig
	logger      *zap.Logger
}

// NewClient creates a client for an OpenAI-compatible endpoint. apiKeys may
// be comma-separated; keys are rotated based on failure count.
func NewClient(name, baseURL, apiKeys string, temperature, topP float64, timeout time.Duration, models []ModelConfig, logger *zap.Logger) *Client {
	if len(models) == 0 {
		models = DefaultModels
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	keyStrings := strings.Split(apiKeys, ",")
	keys := make([]*KeyState, 0, len(keyStrings))
	for _, k := range keyStrings {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, &KeyState{Key: k})
		}
	}

	if len(keys) == 0 {
		logger.Warn("no API keys provided", zap.String("provider", name))
	} else {
		logger.Info("loaded API keys", zap.String("provider", name), zap.Int("count", len(keys)))
	}

	return &Client{
		name:        name,
		keys:        keys,
		clients:     make(map[string]openai.Client),
		baseURL:     baseURL,
		temperature: temperature,
		topP:        topP,
		timeout:     timeout,
		models:      models,
		logger:      logger,
	}
}

func (c *Client) getClient(key string) openai.Client {
	c.clientsMu.RLock()
	if client, ok := c.clients[key]; ok {
		c.clientsMu.RUnlock()
		return client
	}
	c.clientsMu.RUnlock()

	c.clientsMu.Lock()
	defer c.clientsMu.Unlock()

	client := openai.NewClient(
		option.WithBaseURL(c.baseURL),
		option.WithAPIKey(key),
	)
	c.clients[key] = client
	return client
}

func (c *Client) getBestKey() *KeyState {
	c.keyMu.RLock()
	defer c.keyMu.RUnlock()

	if len(c.keys) == 0 {
		return nil
	}

	best := c.keys[0]
	for _, k := range c.keys[1:] {
		if k.FailureCount < best.FailureCount {
			best = k
		}
	}
	return best
}

func (c *Client) recordSuccess(key *KeyState) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	key.LastSuccess = time.Now()
	key.LastUsed = time.Now()
	if key.FailureCount > 0 {
		key.FailureCount--
	}
}

func (c *Client) recordFailure(key *KeyState) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	key.FailureCount++
	key.LastUsed = time.Now()
}

func (c *Client) Complete(ctx context.Context, systemPrompt string, messages []Message, opts Options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	keyState := c.getBestKey()
	if keyState == nil {
		return "", &ProviderError{Provider: c.name, Err: fmt.Errorf("no API keys configured")}
	}

	chatMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if systemPrompt != "" {
		chatMessages = append(chatMessages, openai.SystemMessage(systemPrompt))
	}
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			chatMessages = append(chatMessages, openai.SystemMessage(msg.Content))
		case "assistant":
			chatMessages = append(chatMessages, openai.AssistantMessage(msg.Content))
		default:
			chatMessages = append(chatMessages, openai.UserMessage(msg.Content))
		}
	}

	temperature := c.temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	var lastErr error
	for _, modelConf := range c.models {
		maxTokens := modelConf.MaxTokens
		if opts.MaxTokens > 0 && opts.MaxTokens < maxTokens {
			maxTokens = opts.MaxTokens
		}

		params := openai.ChatCompletionNewParams{
			Model:       shared.ChatModel(modelConf.ID),
			Messages:    chatMessages,
			Temperature: openai.Float(temperature),
			TopP:        openai.Float(c.topP),
			MaxTokens:   openai.Int(int64(maxTokens)),
		}

		client := c.getClient(keyState.Key)
		start := time.Now()

		resp, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			c.logger.Warn("model call failed",
				zap.String("provider", c.name), zap.String("model", modelConf.ID), zap.Error(err))
			lastErr = err

			if isRateLimitOrAuthError(err) {
				c.recordFailure(keyState)
				nextKey := c.getBestKey()
				if nextKey != nil && nextKey != keyState {
					keyState = nextKey
					client = c.getClient(keyState.Key)
					resp, err = client.Chat.Completions.New(ctx, params)
				}
			}
			if err != nil {
				if ctx.Err() != nil {
					break
				}
				continue
			}
		}

		if resp == nil || len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty response from model %s", modelConf.ID)
			continue
		}

		c.recordSuccess(keyState)
		c.logger.Debug("model call succeeded",
			zap.String("provider", c.name),
			zap.String("model", modelConf.ID),
			zap.Duration("took", time.Since(start)),
			zap.Int64("input_tokens", resp.Usage.PromptTokens),
			zap.Int64("output_tokens", resp.Usage.CompletionTokens))

		return cleanContent(resp.Choices[0].Message.Content), nil
	}

	c.recordFailure(keyState)
	return "", &ProviderError{Provider: c.name, Err: fmt.Errorf("all models exhausted: %w", lastErr)}
}

func isRateLimitOrAuthError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "unauthorized")
}

func cleanContent(content string) string {
	content = strings.TrimSpace(content)
	// Some models wrap short replies in quotes.
	if len(content) >= 2 && strings.HasPrefix(content, "\"") && strings.HasSuffix(content, "\"") {
		content = strings.TrimSpace(content[1 : len(content)-1])
	}
	return content
}
