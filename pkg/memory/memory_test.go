package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"casdy/pkg/llm"
	"casdy/pkg/store"
)

func newTestStore(t *testing.T) *FactStore {
	t.Helper()
	return NewFactStore(store.NewMemoryStore(), Tuning{}, zap.NewNop())
}

func TestSaveAndLoadFacts(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	added := fs.Save(ctx, "1", []Fact{
		{Type: "personal", Content: "user's name is Kevin"},
		{Type: "preference", Content: "user likes hiking"},
	})
	assert.Equal(t, 2, added)

	facts := fs.Load(ctx, "1")
	require.Len(t, facts, 2)
	// Sorted by importance: personal (5) before preference (4).
	assert.Equal(t, "personal", facts[0].Type)
	assert.Equal(t, 5, facts[0].Importance)
	assert.Equal(t, 4, facts[1].Importance)
	assert.False(t, facts[0].Timestamp.IsZero())
}

func TestSaveIsIdempotent(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	fact := Fact{Type: "personal", Content: "user's name is Kevin"}
	assert.Equal(t, 1, fs.Save(ctx, "1", []Fact{fact}))
	assert.Equal(t, 0, fs.Save(ctx, "1", []Fact{fact}), "Same content must not be stored twice")
	assert.Len(t, fs.Load(ctx, "1"), 1)
}

func TestCapEvictsLowImportanceFirst(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	var facts []Fact
	for i := 0; i < 110; i++ {
		facts = append(facts, Fact{Type: "casual", Content: fmt.Sprintf("minor detail %d", i)})
	}
	facts = append(facts, Fact{Type: "personal", Content: "user's name is Ada"})
	fs.Save(ctx, "1", facts)

	stored := fs.Load(ctx, "1")
	assert.Len(t, stored, 100)
	assert.Equal(t, "user's name is Ada", stored[0].Content, "Important facts survive eviction")
}

func TestConfiguredCapIsHonored(t *testing.T) {
	fs := NewFactStore(store.NewMemoryStore(), Tuning{MaxFacts: 5}, zap.NewNop())
	ctx := context.Background()

	var facts []Fact
	for i := 0; i < 120; i++ {
		facts = append(facts, Fact{Type: "casual", Content: fmt.Sprintf("detail %d", i)})
	}
	facts = append(facts, Fact{Type: "personal", Content: "user's name is Ada"})
	fs.Save(ctx, "1", facts)

	stored := fs.Load(ctx, "1")
	assert.Len(t, stored, 5)
	assert.Equal(t, "user's name is Ada", stored[0].Content)
}

func TestEmptyContentIgnored(t *testing.T) {
	fs := newTestStore(t)
	added := fs.Save(context.Background(), "1", []Fact{{Type: "casual", Content: ""}})
	assert.Equal(t, 0, added)
}

func TestStyleSampleRoundTrip(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	assert.Empty(t, fs.StyleSample(ctx, "1"))
	fs.SaveStyleSample(ctx, "1", "taquine, tutoiement")
	assert.Equal(t, "taquine, tutoiement", fs.StyleSample(ctx, "1"))
}

func TestMentionsSelf(t *testing.T) {
	assert.True(t, MentionsSelf("Je m'appelle Kevin"))
	assert.True(t, MentionsSelf("I work as a nurse"))
	assert.True(t, MentionsSelf("j'aime la photographie"))
	assert.False(t, MentionsSelf("envoie une photo"))
	assert.False(t, MentionsSelf("tu es belle"))
}

type scriptedCompleter struct {
	response string
	err      error
	calls    int
}

func (s *scriptedCompleter) Complete(_ context.Context, _ string, _ []llm.Message, _ llm.Options) (string, error) {
	s.calls++
	return s.response, s.err
}

func TestExtractAndStore(t *testing.T) {
	completer := &scriptedCompleter{response: "```json\n" + `{
		"facts": [
			{"type": "personal", "content": "user's name is Kevin", "importance": 5},
			{"type": "preference", "content": "user likes climbing"}
		],
		"user_name": "Kevin",
		"style_sample": "casual and playful"
	}` + "\n```"}

	agent := NewAgent(completer, newTestStore(t), zap.NewNop())
	ctx := context.Background()

	added := agent.ExtractAndStore(ctx, "1", []llm.Message{
		{Role: "user", Content: "je m'appelle Kevin et j'adore l'escalade"},
		{Role: "assistant", Content: "Enchantee Kevin!"},
	})
	assert.Equal(t, 2, added)

	facts := agent.Facts().Load(ctx, "1")
	assert.Len(t, facts, 2)
	assert.Equal(t, "casual and playful", agent.Facts().StyleSample(ctx, "1"))
}

func TestExtractSkipsShortConversations(t *testing.T) {
	completer := &scriptedCompleter{response: "{}"}
	agent := NewAgent(completer, newTestStore(t), zap.NewNop())

	added := agent.ExtractAndStore(context.Background(), "1", []llm.Message{{Role: "user", Content: "salut"}})
	assert.Equal(t, 0, added)
	assert.Equal(t, 0, completer.calls, "Single messages are not worth an LLM call")
}

func TestExtractSurvivesProviderError(t *testing.T) {
	completer := &scriptedCompleter{err: &llm.ProviderError{Provider: "test", Err: fmt.Errorf("down")}}
	agent := NewAgent(completer, newTestStore(t), zap.NewNop())

	added := agent.ExtractAndStore(context.Background(), "1", []llm.Message{
		{Role: "user", Content: "je suis infirmier"},
		{Role: "assistant", Content: "oh!"},
	})
	assert.Equal(t, 0, added)
}

func TestRelevantContextWithNoFacts(t *testing.T) {
	completer := &scriptedCompleter{response: "anything"}
	agent := NewAgent(completer, newTestStore(t), zap.NewNop())

	ctx := agent.RelevantContext(context.Background(), "1", "hello")
	assert.Empty(t, ctx)
	assert.Equal(t, 0, completer.calls, "No stored facts means no recall call")
}

func TestRelevantContextNoneFallsBackToName(t *testing.T) {
	completer := &scriptedCompleter{response: "NONE"}
	agent := NewAgent(completer, newTestStore(t), zap.NewNop())
	ctx := context.Background()

	agent.Facts().Save(ctx, "1", []Fact{{Type: "personal", Content: "user's name is Ada"}})

	recall := agent.RelevantContext(ctx, "1", "on parle de quoi ?")
	assert.Equal(t, "Remember: user's name is Ada", recall)
}

func TestRelevantContextReturnsSummary(t *testing.T) {
	completer := &scriptedCompleter{response: "Kevin works as a nurse and likes climbing."}
	agent := NewAgent(completer, newTestStore(t), zap.NewNop())
	ctx := context.Background()

	agent.Facts().Save(ctx, "1", []Fact{{Type: "preference", Content: "user likes climbing"}})

	recall := agent.RelevantContext(ctx, "1", "tu te souviens de mon hobby ?")
	assert.Equal(t, "Kevin works as a nurse and likes climbing.", recall)
}

func TestUserNameFact(t *testing.T) {
	agent := NewAgent(nil, newTestStore(t), zap.NewNop())
	ctx := context.Background()

	assert.Empty(t, agent.UserNameFact(ctx, "1"))

	agent.Facts().Save(ctx, "1", []Fact{
		{Type: "preference", Content: "likes the name Marie"},
		{Type: "personal", Content: "user's name is Kevin"},
	})
	assert.Equal(t, "user's name is Kevin", agent.UserNameFact(ctx, "1"))
}

func TestFactTimestampsPreserved(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fs.Save(ctx, "1", []Fact{{Type: "event", Content: "first chat", Timestamp: old}})

	facts := fs.Load(ctx, "1")
	require.Len(t, facts, 1)
	assert.True(t, facts[0].Timestamp.Equal(old))
}
