package relationship

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"casdy/pkg/store"
)

// Tuning carries the deployment-adjustable knobs. Zero values fall back
// to the canonical defaults.
type Tuning struct {
	Thresholds     []int
	StateTTL       time.Duration
	MilestoneBonus int
}

func (t Tuning) withDefaults() Tuning {
	if len(t.Thresholds) == 0 {
		t.Thresholds = DefaultThresholds
	}
	if t.StateTTL <= 0 {
		t.StateTTL = 30 * 24 * time.Hour
	}
	if t.MilestoneBonus == 0 {
		t.MilestoneBonus = 5
	}
	return t
}

// \w alone is ASCII-only in RE2; accented French names need \p{L}.
var nameRe = regexp.MustCompile(`je m'appelle ([\p{L}\w]+)|mon nom (?:est|c'est) ([\p{L}\w]+)`)

// Engine persists relationship state and scores each user message against
// the affinity patterns. Persistence problems degrade to fresh state and a
// log line; they never surface to the caller.
type Engine struct {
	store  store.Store
	tuning Tuning
	logger *zap.Logger
}

func NewEngine(st store.Store, tuning Tuning, logger *zap.Logger) *Engine {
	return &Engine{store: st, tuning: tuning.withDefaults(), logger: logger}
}

func (e *Engine) key(characterID, userID string) string {
	return store.Key("relationship", characterID, userID)
}

// GetState loads the relationship, creating a fresh one when absent or
// when the store misbehaves.
func (e *Engine) GetState(ctx context.Context, characterID, userID string) *State {
	var state State
	err := store.GetJSON(ctx, e.store, e.key(characterID, userID), &state)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.logger.Warn("relationship load failed, starting fresh",
				zap.String("character_id", characterID), zap.String("user_id", userID), zap.Error(err))
		}
		return NewState(characterID, userID)
	}
	return &state
}

func (e *Engine) save(ctx context.Context, state *State) {
	if err := store.SetJSON(ctx, e.store, e.key(state.CharacterID, state.UserID), state, e.tuning.StateTTL); err != nil {
		e.logger.Warn("relationship save failed",
			zap.String("character_id", state.CharacterID), zap.Error(err))
	}
}

// levelFor returns the highest level whose threshold the points reach.
func (e *Engine) levelFor(points int) int {
	level := 0
	for lvl, threshold := range e.tuning.Thresholds {
		if points >= threshold {
			level = lvl
		}
	}
	return level
}

// analyzeMessage scores one message against the affinity patterns.
// The message counter is bumped here; every 10th message earns the
// milestone bonus.
func (e *Engine) analyzeMessage(message string, state *State) (int, []string, []string) {
	msgLower := strings.ToLower(message)
	pointsDelta := 0
	var detected, warnings []string

	for _, p := range affinityPatterns {
		if !p.re.MatchString(msgLower) {
			continue
		}

		switch {
		case p.gated:
			if state.Level >= p.minLevel {
				pointsDelta += p.appropriatePoints
				detected = append(detected, p.name+" (appropriate)")
			} else {
				pointsDelta += p.prematurePoints
				detected = append(detected, p.name+" (premature)")
				if p.warning != "" {
					warnings = append(warnings, p.warning)
				}
			}
		case p.hasPoints:
			pointsDelta += p.points
			detected = append(detected, p.name)
			if p.warning != "" && p.points < 0 {
				warnings = append(warnings, p.warning)
			}
		default:
			// Premature-only category: punished below minLevel, neutral above.
			if state.Level < p.minLevel {
				pointsDelta += p.prematurePoints
				detected = append(detected, p.name+" (premature)")
				if p.warning != "" {
					warnings = append(warnings, p.warning)
				}
			}
		}
	}

	state.TotalMessages++
	if state.TotalMessages%10 == 0 {
		pointsDelta += e.tuning.MilestoneBonus
		detected = append(detected, "milestone_bonus")
	}

	return pointsDelta, detected, warnings
}

// ProcessInteraction scores the message, updates and persists the state,
// and reports everything the reply pipeline needs.
func (e *Engine) ProcessInteraction(ctx context.Context, characterID, userID, message string) *Interaction {
	state := e.GetState(ctx, characterID, userID)
	oldLevel := state.Level

	pointsDelta, detected, warnings := e.analyzeMessage(message, state)

	state.AffinityPoints += pointsDelta
	if state.AffinityPoints < 0 {
		state.AffinityPoints = 0
	}
	state.Level = e.levelFor(state.AffinityPoints)
	state.Stage = BehaviorForLevel(state.Level).Stage

	if pointsDelta > 0 {
		state.PositiveInteractions++
	} else if pointsDelta < 0 {
		state.NegativeInteractions++
	}

	for _, d := range detected {
		if strings.HasPrefix(d, "light_flirt") && !state.FirstFlirt {
			state.FirstFlirt = true
			state.FlirtAttempts++
			if state.Level >= 3 {
				state.SuccessfulFlirts++
			}
		}
	}

	if m := nameRe.FindStringSubmatch(strings.ToLower(message)); m != nil {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		state.UserName = capitalize(name)
	}

	state.LastInteraction = time.Now()
	state.NSFWUnlocked = state.Level >= 8

	levelChanged := state.Level != oldLevel
	levelUp := levelChanged && state.Level > oldLevel

	e.save(ctx, state)

	if levelUp {
		e.logger.Info("relationship level up",
			zap.String("character_id", characterID),
			zap.String("user_id", userID),
			zap.Int("from", oldLevel), zap.Int("to", state.Level))
	}

	result := &Interaction{
		State:        state,
		Level:        state.Level,
		Stage:        state.Stage,
		PointsChange: pointsDelta,
		Detected:     detected,
		Warnings:     warnings,
		LevelChanged: levelChanged,
		LevelUp:      levelUp,
		UserName:     state.UserName,
		NSFWAllowed:  state.Level >= 8,
	}
	if levelUp {
		result.LevelUpMessage = levelUpMessages[state.Level]
	}
	return result
}

// PromptContext renders the relationship block injected into the system
// prompt. The model is instructed in French, matching the personas.
func (e *Engine) PromptContext(ctx context.Context, characterID, userID string) string {
	state := e.GetState(ctx, characterID, userID)
	behavior := BehaviorForLevel(state.Level)

	var b strings.Builder
	fmt.Fprintf(&b, "\n## ETAT DE LA RELATION (TRES IMPORTANT - RESPECTER STRICTEMENT)\n\n")
	fmt.Fprintf(&b, "Niveau de relation: %d/10 (%s)\n", state.Level, behavior.Stage)
	fmt.Fprintf(&b, "Points d'affinite: %d\n", state.AffinityPoints)
	fmt.Fprintf(&b, "Nombre d'interactions: %d\n\n", state.TotalMessages)

	fmt.Fprintf(&b, "### TON ET COMPORTEMENT OBLIGATOIRES:\n")
	fmt.Fprintf(&b, "- Ton general: %s\n", behavior.Tone)
	fmt.Fprintf(&b, "- Facon de s'adresser a l'utilisateur: %s\n", behavior.Address)
	fmt.Fprintf(&b, "- Contact physique autorise: %s\n", behavior.PhysicalContact)
	fmt.Fprintf(&b, "- Ouverture emotionnelle: %s\n\n", behavior.EmotionalOpenness)

	b.WriteString("### CE QUE TU PEUX FAIRE:\n")
	for _, item := range behavior.Allowed {
		fmt.Fprintf(&b, "- %s\n", item)
	}

	b.WriteString("\n### CE QUE TU NE DOIS ABSOLUMENT PAS FAIRE:\n")
	for _, item := range behavior.Forbidden {
		fmt.Fprintf(&b, "- %s\n", item)
	}

	b.WriteString("\n### EXEMPLES DE REPONSES APPROPRIEES POUR CE NIVEAU:\n")
	for _, ex := range behavior.ExampleResponses {
		fmt.Fprintf(&b, "- %q\n", ex)
	}

	if state.UserName != "" {
		fmt.Fprintf(&b, "\n### L'UTILISATEUR:\n- Prenom: %s\n- Utilise son prenom naturellement dans la conversation\n", state.UserName)
	}

	if len(state.SharedMemories) > 0 {
		b.WriteString("\n### SOUVENIRS PARTAGES:\n")
		memories := state.SharedMemories
		if len(memories) > 5 {
			memories = memories[len(memories)-5:]
		}
		for _, m := range memories {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}

	if state.Level < 10 && state.Level+1 < len(e.tuning.Thresholds) {
		needed := e.tuning.Thresholds[state.Level+1] - state.AffinityPoints
		fmt.Fprintf(&b, "\n### PROGRESSION:\n- Points necessaires pour le niveau %d: %d\n", state.Level+1, needed)
		b.WriteString("- La relation doit evoluer NATURELLEMENT, pas artificiellement\n")
	}

	return b.String()
}

// AddSharedMemory records a memorable moment, keeping the 20 most recent.
func (e *Engine) AddSharedMemory(ctx context.Context, characterID, userID, memory string) {
	state := e.GetState(ctx, characterID, userID)
	for _, m := range state.SharedMemories {
		if m == memory {
			return
		}
	}
	state.SharedMemories = append(state.SharedMemories, memory)
	if len(state.SharedMemories) > 20 {
		state.SharedMemories = state.SharedMemories[len(state.SharedMemories)-20:]
	}
	e.save(ctx, state)
}

// Reset wipes the relationship back to level 0.
func (e *Engine) Reset(ctx context.Context, characterID, userID string) *State {
	state := NewState(characterID, userID)
	e.save(ctx, state)
	return state
}

// Boost manually adds points, for admin and debugging endpoints.
func (e *Engine) Boost(ctx context.Context, characterID, userID string, points int) *State {
	state := e.GetState(ctx, characterID, userID)
	state.AffinityPoints += points
	if state.AffinityPoints < 0 {
		state.AffinityPoints = 0
	}
	state.Level = e.levelFor(state.AffinityPoints)
	state.Stage = BehaviorForLevel(state.Level).Stage
	state.NSFWUnlocked = state.Level >= 8
	e.save(ctx, state)
	return state
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
