// Package relationship tracks how close a character and a user are.
// Affinity points accumulate from message analysis and map onto a 0-10
// level; the level gates tone, physical contact and explicit content.
package relationship

import "time"

// Stage names the coarse phase of a relationship.
type Stage string

const (
	StageStrangers     Stage = "strangers"     // levels 0-1
	StageAcquaintances Stage = "acquaintances" // levels 2-3
	StageFriends       Stage = "friends"       // levels 4-5
	StageCloseFriends  Stage = "close_friends" // levels 6-7
	StageRomantic      Stage = "romantic"      // levels 8-9
	StageLovers        Stage = "lovers"        // level 10
)

// State is the full persisted relationship between one character and one user.
type State struct {
	CharacterID string `json:"character_id"`
	UserID      string `json:"user_id"`

	AffinityPoints int    `json:"affinity_points"`
	Level          int    `json:"level"`
	Stage          Stage  `json:"stage"`

	TotalMessages        int `json:"total_messages"`
	PositiveInteractions int `json:"positive_interactions"`
	NegativeInteractions int `json:"negative_interactions"`
	FlirtAttempts        int `json:"flirt_attempts"`
	SuccessfulFlirts     int `json:"successful_flirts"`

	UserName        string   `json:"user_name,omitempty"`
	UserPreferences []string `json:"user_preferences,omitempty"`
	SharedMemories  []string `json:"shared_memories,omitempty"`
	InsideJokes     []string `json:"inside_jokes,omitempty"`

	LastInteraction time.Time `json:"last_interaction,omitzero"`
	ConsecutiveDays int       `json:"consecutive_days"`

	FirstComplimentGiven     bool `json:"first_compliment_given"`
	FirstPersonalQuestion    bool `json:"first_personal_question"`
	FirstVulnerabilityShared bool `json:"first_vulnerability_shared"`
	FirstFlirt               bool `json:"first_flirt"`
	FirstDateProposed        bool `json:"first_date_proposed"`
	NSFWUnlocked             bool `json:"nsfw_unlocked"`
}

// NewState returns a fresh relationship at level 0.
func NewState(characterID, userID string) *State {
	return &State{
		CharacterID: characterID,
		UserID:      userID,
		Stage:       StageStrangers,
	}
}

// Interaction is the outcome of processing one user message.
type Interaction struct {
	State          *State
	Level          int
	Stage          Stage
	PointsChange   int
	Detected       []string
	Warnings       []string
	LevelChanged   bool
	LevelUp        bool
	LevelUpMessage string
	UserName       string
	NSFWAllowed    bool
}
