package intent

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"casdy/pkg/llm"
)

const classifierPrompt = `You are an intent classifier for an AI companion chatbot. Analyze messages and output JSON.

TASK: Classify the user's intent and extract key information.

OUTPUT FORMAT (JSON only, no explanation):
{
    "intent": "chat_only" | "image_request" | "chat_with_image",
    "nsfw_level": 0-3,
    "emotion": "romantic" | "playful" | "sexual" | "casual" | "emotional" | "angry",
    "image_details": {
        "requested": true/false,
        "type": "selfie" | "full_body" | "pose" | "outfit" | "nude" | "sexual",
        "outfit": "description or null",
        "pose": "description or null",
        "setting": "description or null"
    },
    "language": "fr" | "en" | "es"
}

NSFW LEVELS:
0 = SFW (casual conversation)
1 = Suggestive (flirty, teasing, lingerie)
2 = Explicit (nudity, exposed body parts)
3 = Hardcore (sexual acts, explicit descriptions)

INTENT TYPES:
- chat_only: Just conversation, no image wanted
- image_request: Primarily wants a photo/image
- chat_with_image: Wants conversation AND an image

IMAGE TYPES:
- selfie: Face/upper body shot
- full_body: Full body visible
- pose: Specific pose requested
- outfit: Specific clothing requested
- nude: Nudity requested
- sexual: Sexual pose/act requested

Output ONLY valid JSON. No markdown, no explanation.`

// Extractor classifies messages by running the keyword pass and the LLM
// pass concurrently and merging the results. Extract never fails: when
// the LLM pass errors out or returns garbage, the keyword pass stands.
type Extractor struct {
	completer llm.Completer
	cache     *lru.Cache[string, Record]
	logger    *zap.Logger
}

// NewExtractor builds an extractor. completer may be nil, which limits
// classification to the keyword pass.
func NewExtractor(completer llm.Completer, cacheSize int, logger *zap.Logger) (*Extractor, error) {
	if cacheSize <= 0 {
		cacheSize = 1000
	}
	cache, err := lru.New[string, Record](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create intent cache: %w", err)
	}
	return &Extractor{completer: completer, cache: cache, logger: logger}, nil
}

func cacheKey(message string) string {
	sum := md5.Sum([]byte(message))
	return hex.EncodeToString(sum[:])
}

// Extract classifies a single user message.
func (e *Extractor) Extract(ctx context.Context, message string) Record {
	key := cacheKey(message)
	if cached, ok := e.cache.Get(key); ok {
		return cached
	}

	type llmOutcome struct {
		rec Record
		ok  bool
	}
	llmCh := make(chan llmOutcome, 1)
	go func() {
		rec, ok := e.llmAnalyze(ctx, message)
		llmCh <- llmOutcome{rec: rec, ok: ok}
	}()

	keywordResult := AnalyzeKeywords(message)
	out := <-llmCh

	result := merge(out.rec, out.ok, keywordResult)

	e.logger.Debug("intent classified",
		zap.String("intent", string(result.Intent)),
		zap.Int("nsfw_level", result.NSFWLevel),
		zap.String("emotion", result.Emotion),
		zap.String("source", string(result.Source)))

	e.cache.Add(key, result)
	return result
}

func (e *Extractor) llmAnalyze(ctx context.Context, message string) (Record, bool) {
	if e.completer == nil {
		return Record{}, false
	}

	response, err := e.completer.Complete(ctx, classifierPrompt,
		[]llm.Message{{Role: "user", Content: fmt.Sprintf("Analyze this message: %q", message)}},
		llm.Options{Temperature: 0.1, MaxTokens: 300})
	if err != nil {
		e.logger.Warn("intent LLM pass failed", zap.Error(err))
		return Record{}, false
	}

	rec, ok := parseResponse(response)
	if !ok {
		e.logger.Warn("unparseable classifier output", zap.Int("response_len", len(response)))
		return Record{}, false
	}
	return rec, true
}
