package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"casdy/pkg/llm"
)

const extractionPrompt = `You are a memory extraction and recall system for an AI companion.

TASK 1 - EXTRACTION: Extract important facts from conversations.
OUTPUT FORMAT (JSON only):
{
    "facts": [
        {"type": "preference", "content": "user likes X", "importance": 1-5},
        {"type": "personal", "content": "user's name is Y", "importance": 1-5},
        {"type": "intimate", "content": "user's fantasy is Z", "importance": 1-5}
    ],
    "user_name": "detected name or null",
    "style_sample": "a short phrase showing the conversation style"
}

TASK 2 - RECALL: Given facts and a message, return ONLY relevant context.

FACT TYPES (by importance):
- personal (5): Name, age, job, location - ALWAYS remember
- preference (4): Likes, dislikes, hobbies
- intimate (4): Sexual preferences, fantasies, boundaries
- emotional (3): Feelings, moods expressed
- event (2): Things that happened in conversation
- casual (1): Minor details

RULES:
- Extract REAL information only, not roleplay content
- User's name is HIGH PRIORITY - extract it when mentioned
- Be concise - short fact statements only
- Output valid JSON only`

// selfReferencePhrases gate fact extraction: only messages where the user
// talks about themselves are worth an LLM call.
var selfReferencePhrases = []string{
	"je suis", "je m'appelle", "j'aime", "j'adore", "je deteste",
	"je travaille", "j'habite", "je vis", "j'ai peur", "mon nom",
	"i am", "i'm", "my name", "i like", "i love", "i hate",
	"i work", "i live", "i enjoy", "i prefer",
}

// MentionsSelf reports whether a message is likely to carry personal facts.
func MentionsSelf(message string) bool {
	msgLower := strings.ToLower(message)
	for _, phrase := range selfReferencePhrases {
		if strings.Contains(msgLower, phrase) {
			return true
		}
	}
	return false
}

// Agent extracts facts from conversations with a fast model and recalls
// what matters for a new message. All failures degrade to "no memory".
type Agent struct {
	completer llm.Completer
	facts     *FactStore
	logger    *zap.Logger
}

func NewAgent(completer llm.Completer, facts *FactStore, logger *zap.Logger) *Agent {
	return &Agent{completer: completer, facts: facts, logger: logger}
}

// Facts exposes the underlying store for direct loads.
func (a *Agent) Facts() *FactStore { return a.facts }

type extractionResult struct {
	Facts       []Fact `json:"facts"`
	UserName    string `json:"user_name"`
	StyleSample string `json:"style_sample"`
}

// ExtractAndStore runs fact extraction over recent conversation turns and
// persists anything new. Safe to call in a goroutine; it never fails, it
// only logs.
func (a *Agent) ExtractAndStore(ctx context.Context, characterID string, conversation []llm.Message) int {
	if a.completer == nil || len(conversation) < 2 {
		return 0
	}

	if len(conversation) > 15 {
		conversation = conversation[len(conversation)-15:]
	}
	var b strings.Builder
	for _, msg := range conversation {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(msg.Role), msg.Content)
	}

	prompt := fmt.Sprintf(`CONVERSATION TO ANALYZE:
%s
Extract important facts about the USER (not the AI character).
Focus on: name, preferences, personal details, intimate preferences.
Output JSON only.`, b.String())

	response, err := a.completer.Complete(ctx, extractionPrompt,
		[]llm.Message{{Role: "user", Content: prompt}},
		llm.Options{Temperature: 0.1, MaxTokens: 500})
	if err != nil {
		a.logger.Warn("fact extraction failed", zap.String("character_id", characterID), zap.Error(err))
		return 0
	}

	var result extractionResult
	if err := json.Unmarshal([]byte(stripCodeFences(response)), &result); err != nil {
		a.logger.Debug("unparseable extraction output", zap.String("character_id", characterID))
		return 0
	}

	if result.StyleSample != "" {
		a.facts.SaveStyleSample(ctx, characterID, result.StyleSample)
	}
	return a.facts.Save(ctx, characterID, result.Facts)
}

// RelevantContext asks the model which stored facts matter for the new
// message and returns a short summary, empty when nothing applies.
func (a *Agent) RelevantContext(ctx context.Context, characterID, newMessage string) string {
	stored := a.facts.Load(ctx, characterID)
	if len(stored) == 0 || a.completer == nil {
		return ""
	}

	top := stored
	if len(top) > 20 {
		top = top[:20]
	}
	var b strings.Builder
	for _, f := range top {
		fmt.Fprintf(&b, "- [%s] %s\n", f.Type, f.Content)
	}

	prompt := fmt.Sprintf(`STORED FACTS ABOUT USER:
%s
NEW USER MESSAGE: %s

Which facts are relevant? Return a brief context summary (2-3 sentences max).
If user's name is known, always include it.
If no facts are relevant, respond with exactly: NONE`, b.String(), newMessage)

	response, err := a.completer.Complete(ctx, extractionPrompt,
		[]llm.Message{{Role: "user", Content: prompt}},
		llm.Options{Temperature: 0.1, MaxTokens: 100})
	if err != nil {
		a.logger.Warn("memory recall failed", zap.String("character_id", characterID), zap.Error(err))
		return ""
	}

	response = strings.TrimSpace(response)
	if strings.Contains(strings.ToUpper(response), "NONE") || len(response) < 5 {
		// Always surface the name if we have it.
		if name := a.UserNameFact(ctx, characterID); name != "" {
			return "Remember: " + name
		}
		return ""
	}
	return response
}

// UserNameFact returns the stored fact stating the user's name, if any.
func (a *Agent) UserNameFact(ctx context.Context, characterID string) string {
	for _, f := range a.facts.Load(ctx, characterID) {
		if f.Type != "personal" {
			continue
		}
		content := strings.ToLower(f.Content)
		if strings.Contains(content, "name is") || strings.Contains(content, "s'appelle") || strings.Contains(content, "called") {
			return f.Content
		}
	}
	return ""
}

func stripCodeFences(response string) string {
	clean := strings.TrimSpace(response)
	if strings.HasPrefix(clean, "```") {
		parts := strings.Split(clean, "```")
		if len(parts) >= 2 {
			clean = parts[1]
			clean = strings.TrimPrefix(clean, "json")
		}
	}
	return strings.TrimSpace(clean)
}
