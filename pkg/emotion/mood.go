// Package emotion tracks a character's mood over time. Moods shift along
// a fixed adjacency graph so a character never jumps from sad to flirty in
// one message; when a trigger points at a non-adjacent mood, the character
// moves one hop toward it instead.
package emotion

import "time"

// Mood is one of the character's possible emotional states.
type Mood string

const (
	MoodNeutral      Mood = "neutral"
	MoodHappy        Mood = "happy"
	MoodPlayful      Mood = "playful"
	MoodFlirty       Mood = "flirty"
	MoodShy          Mood = "shy"
	MoodExcited      Mood = "excited"
	MoodCurious      Mood = "curious"
	MoodAffectionate Mood = "affectionate"
	MoodTeasing      Mood = "teasing"
	MoodRomantic     Mood = "romantic"
	MoodPassionate   Mood = "passionate"
	MoodVulnerable   Mood = "vulnerable"
	MoodAnnoyed      Mood = "annoyed"
	MoodSad          Mood = "sad"
	MoodWorried      Mood = "worried"
)

// State is the persisted emotional state of one character.
type State struct {
	CharacterID   string    `json:"character_id"`
	CurrentMood   Mood      `json:"current_mood"`
	MoodIntensity float64   `json:"mood_intensity"` // 0-1
	MoodHistory   []Mood    `json:"mood_history,omitempty"`
	LastUpdate    time.Time `json:"last_update,omitzero"`
}

// NewState starts a character at a calm neutral baseline.
func NewState(characterID string) *State {
	return &State{
		CharacterID:   characterID,
		CurrentMood:   MoodNeutral,
		MoodIntensity: 0.5,
	}
}

// Update is the outcome of analyzing one message.
type Update struct {
	CurrentMood      Mood
	PreviousMood     Mood
	MoodChanged      bool
	MoodIntensity    float64
	DetectedTriggers []Mood
	Expressions      Expressions
	SuggestedAction  string
	ToneModifier     string
}
