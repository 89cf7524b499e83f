package emotion

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"casdy/pkg/store"
)

const stateTTL = 24 * time.Hour

// Engine persists per-character emotional state. Mood is shared across
// users of a character: the character is one person with one mood.
type Engine struct {
	store  store.Store
	logger *zap.Logger
}

func NewEngine(st store.Store, logger *zap.Logger) *Engine {
	return &Engine{store: st, logger: logger}
}

func (e *Engine) key(characterID string) string {
	return store.Key("emotional_state", characterID)
}

// GetState loads the emotional state, starting neutral when absent or on
// store failure.
func (e *Engine) GetState(ctx context.Context, characterID string) *State {
	var state State
	err := store.GetJSON(ctx, e.store, e.key(characterID), &state)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.logger.Warn("emotional state load failed, starting neutral",
				zap.String("character_id", characterID), zap.Error(err))
		}
		return NewState(characterID)
	}
	if state.CurrentMood == "" {
		state.CurrentMood = MoodNeutral
	}
	return &state
}

func (e *Engine) save(ctx context.Context, state *State) {
	state.LastUpdate = time.Now()
	if err := store.SetJSON(ctx, e.store, e.key(state.CharacterID), state, stateTTL); err != nil {
		e.logger.Warn("emotional state save failed",
			zap.String("character_id", state.CharacterID), zap.Error(err))
	}
}

// AnalyzeAndUpdate matches the message against the mood triggers, picks
// the heaviest one the relationship level allows, and moves the mood at
// most one hop along the transition graph. Repeating the same mood raises
// intensity; a change resets it to the 0.5 baseline.
func (e *Engine) AnalyzeAndUpdate(ctx context.Context, characterID, userMessage string, relationshipLevel int) *Update {
	state := e.GetState(ctx, characterID)
	currentMood := state.CurrentMood

	type detection struct {
		mood   Mood
		weight int
	}
	var detected []detection
	for _, trigger := range moodTriggers {
		if relationshipLevel < trigger.minLevel {
			continue
		}
		if trigger.re.MatchString(userMessage) {
			detected = append(detected, detection{trigger.mood, trigger.weight})
		}
	}

	newMood := currentMood
	if len(detected) > 0 {
		sort.SliceStable(detected, func(i, j int) bool { return detected[i].weight > detected[j].weight })
		targetMood := detected[0].mood

		if Adjacent(currentMood, targetMood) {
			newMood = targetMood
		} else {
			// One hop toward the target through a shared neighbor.
			for _, intermediate := range moodTransitions[currentMood] {
				if Adjacent(intermediate, targetMood) {
					newMood = intermediate
					break
				}
			}
		}
	}

	if newMood == currentMood {
		state.MoodIntensity = min(1.0, state.MoodIntensity+0.1)
	} else {
		state.MoodIntensity = 0.5
	}

	oldMood := state.CurrentMood
	state.CurrentMood = newMood
	state.MoodHistory = append(state.MoodHistory, newMood)
	if len(state.MoodHistory) > 20 {
		state.MoodHistory = state.MoodHistory[len(state.MoodHistory)-20:]
	}

	e.save(ctx, state)

	if oldMood != newMood {
		e.logger.Debug("mood shift",
			zap.String("character_id", characterID),
			zap.String("from", string(oldMood)), zap.String("to", string(newMood)))
	}

	expressions := ExpressionsFor(newMood)
	triggers := make([]Mood, len(detected))
	for i, d := range detected {
		triggers[i] = d.mood
	}

	update := &Update{
		CurrentMood:      newMood,
		PreviousMood:     oldMood,
		MoodChanged:      oldMood != newMood,
		MoodIntensity:    state.MoodIntensity,
		DetectedTriggers: triggers,
		Expressions:      expressions,
	}
	if len(expressions.Actions) > 0 {
		update.SuggestedAction = expressions.Actions[0]
	}
	if len(expressions.ToneModifiers) > 0 {
		update.ToneModifier = expressions.ToneModifiers[0]
	}
	return update
}

// MoodContext renders the emotional block injected into the system prompt.
func (e *Engine) MoodContext(ctx context.Context, characterID string) string {
	state := e.GetState(ctx, characterID)
	expressions := ExpressionsFor(state.CurrentMood)

	intensityDesc := "legerement"
	if state.MoodIntensity >= 0.7 {
		intensityDesc = "tres"
	} else if state.MoodIntensity >= 0.4 {
		intensityDesc = "moderement"
	}

	actions := expressions.Actions
	if len(actions) > 2 {
		actions = actions[:2]
	}
	phrases := expressions.TypicalPhrases
	if len(phrases) > 2 {
		phrases = phrases[:2]
	}
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = fmt.Sprintf("%q", p)
	}

	var b strings.Builder
	b.WriteString("\n## ETAT EMOTIONNEL ACTUEL\n\n")
	fmt.Fprintf(&b, "Humeur: %s (%s)\n\n", state.CurrentMood, intensityDesc)
	b.WriteString("### EXPRESSIONS A UTILISER:\n")
	fmt.Fprintf(&b, "- Actions suggerees: %s\n", strings.Join(actions, ", "))
	fmt.Fprintf(&b, "- Ton: %s\n", strings.Join(expressions.ToneModifiers, ", "))
	fmt.Fprintf(&b, "- Phrases typiques: %s\n", strings.Join(quoted, ", "))
	b.WriteString(`
### REGLES EMOTIONNELLES:
- Reagis naturellement aux emotions de l'utilisateur
- Les changements d'humeur doivent etre progressifs, pas brusques
- Montre de l'empathie quand l'utilisateur partage des emotions
- Reste coherente avec ta personnalite de base
`)
	return b.String()
}

// SetMood forces a mood, for debug and admin endpoints.
func (e *Engine) SetMood(ctx context.Context, characterID string, mood Mood, intensity float64) {
	state := e.GetState(ctx, characterID)
	state.CurrentMood = mood
	state.MoodIntensity = intensity
	e.save(ctx, state)
}
