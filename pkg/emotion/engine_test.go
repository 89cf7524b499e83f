package emotion

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"casdy/pkg/store"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(store.NewMemoryStore(), zap.NewNop())
}

func TestStartsNeutral(t *testing.T) {
	e := newTestEngine(t)
	state := e.GetState(context.Background(), "1")

	assert.Equal(t, MoodNeutral, state.CurrentMood)
	assert.InDelta(t, 0.5, state.MoodIntensity, 0.001)
}

func TestDirectTransition(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	// happy is adjacent to neutral.
	update := e.AnalyzeAndUpdate(ctx, "1", "c'est super, bravo !", 0)

	assert.Equal(t, MoodHappy, update.CurrentMood)
	assert.True(t, update.MoodChanged)
	assert.InDelta(t, 0.5, update.MoodIntensity, 0.001)
}

func TestNonAdjacentTargetMovesOneHop(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.SetMood(ctx, "1", MoodShy, 0.5)

	// romantic is not reachable from shy directly; flirty bridges them.
	update := e.AnalyzeAndUpdate(ctx, "1", "je pense a notre amour", 8)

	assert.Equal(t, MoodFlirty, update.CurrentMood)
	assert.Equal(t, MoodShy, update.PreviousMood)
	assert.Contains(t, update.DetectedTriggers, MoodRomantic)
}

func TestLevelGatedTriggerIgnored(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	// "belle" pushes toward flirty, but only from relationship level 3.
	update := e.AnalyzeAndUpdate(ctx, "1", "tu es belle", 0)
	assert.Equal(t, MoodNeutral, update.CurrentMood)
	assert.Empty(t, update.DetectedTriggers)

	update = e.AnalyzeAndUpdate(ctx, "2", "tu es belle", 3)
	assert.NotEmpty(t, update.DetectedTriggers)
}

func TestIntensityGrowsWhenMoodRepeats(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	var last float64
	for i := 0; i < 4; i++ {
		update := e.AnalyzeAndUpdate(ctx, "1", "rien de special", 0)
		assert.Equal(t, MoodNeutral, update.CurrentMood)
		if i > 0 {
			assert.Greater(t, update.MoodIntensity, last)
		}
		last = update.MoodIntensity
	}
}

func TestIntensityIsCapped(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		e.AnalyzeAndUpdate(ctx, "1", "ok", 0)
	}
	state := e.GetState(ctx, "1")
	assert.LessOrEqual(t, state.MoodIntensity, 1.0)
}

func TestIntensityResetsOnMoodChange(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.SetMood(ctx, "1", MoodNeutral, 0.9)
	update := e.AnalyzeAndUpdate(ctx, "1", "bravo c'est genial", 0)

	assert.Equal(t, MoodHappy, update.CurrentMood)
	assert.InDelta(t, 0.5, update.MoodIntensity, 0.001)
}

func TestHeaviestTriggerWins(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.SetMood(ctx, "1", MoodRomantic, 0.5)

	// "desir" (passionate, weight 5) outweighs "amour" (romantic, weight 4).
	update := e.AnalyzeAndUpdate(ctx, "1", "mon amour, j'ai du desir pour toi", 10)
	assert.Equal(t, MoodPassionate, update.CurrentMood)
}

func TestTransitionsNeverSkipTheGraph(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	messages := []string{
		"tu es belle", "je suis triste", "haha marrant", "pourquoi ca ?",
		"je t'adore", "arrete, stop", "j'ai peur", "c'est super genial",
		"mon amour", "j'ai envie de toi", "tu me taquines", "je rougis",
	}

	rng := rand.New(rand.NewSource(42))
	prev := e.GetState(ctx, "1").CurrentMood
	for i := 0; i < 200; i++ {
		msg := messages[rng.Intn(len(messages))]
		update := e.AnalyzeAndUpdate(ctx, "1", msg, 10)

		assert.True(t, Adjacent(prev, update.CurrentMood),
			"illegal jump %s -> %s on %q", prev, update.CurrentMood, msg)
		prev = update.CurrentMood
	}
}

func TestMoodHistoryCapped(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		e.AnalyzeAndUpdate(ctx, "1", "ok", 0)
	}
	state := e.GetState(ctx, "1")
	assert.Len(t, state.MoodHistory, 20)
}

func TestMoodContextRendering(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.SetMood(ctx, "1", MoodFlirty, 0.8)
	moodCtx := e.MoodContext(ctx, "1")

	assert.Contains(t, moodCtx, "Humeur: flirty (tres)")
	assert.Contains(t, moodCtx, "*se mord la levre*")
	assert.Contains(t, moodCtx, "d'une voix suave")
	assert.Contains(t, moodCtx, "REGLES EMOTIONNELLES")
}

func TestExpressionsFallBackToNeutral(t *testing.T) {
	exp := ExpressionsFor(Mood("unknown"))
	assert.Equal(t, moodExpressions[MoodNeutral], exp)
}

func TestEveryMoodHasExpressionsAndTransitions(t *testing.T) {
	moods := []Mood{
		MoodNeutral, MoodHappy, MoodPlayful, MoodFlirty, MoodShy, MoodExcited,
		MoodCurious, MoodAffectionate, MoodTeasing, MoodRomantic, MoodPassionate,
		MoodVulnerable, MoodAnnoyed, MoodSad, MoodWorried,
	}
	for _, m := range moods {
		assert.NotEmpty(t, moodExpressions[m].Actions, "mood %s has no expressions", m)
		assert.NotEmpty(t, moodTransitions[m], "mood %s has no transitions", m)
	}
}
