// Package persona holds character definitions and turns them, together
// with relationship and emotional context, into the system prompt that
// drives the reply. It also post-filters replies so the model cannot talk
// ahead of the relationship level.
package persona

import (
	"fmt"
	"strings"
)

// Character is a fully described companion persona.
type Character struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Language string `json:"language" yaml:"language"`

	Ethnicity  string `json:"ethnicity,omitempty" yaml:"ethnicity"`
	AgeRange   string `json:"age_range,omitempty" yaml:"age_range"`
	BodyType   string `json:"body_type,omitempty" yaml:"body_type"`
	HairColor  string `json:"hair_color,omitempty" yaml:"hair_color"`
	HairLength string `json:"hair_length,omitempty" yaml:"hair_length"`
	EyeColor   string `json:"eye_color,omitempty" yaml:"eye_color"`
	BreastSize string `json:"breast_size,omitempty" yaml:"breast_size"`
	ButtSize   string `json:"butt_size,omitempty" yaml:"butt_size"`

	PersonalityTraits []string `json:"personality_traits,omitempty" yaml:"personality_traits"`
	Voice             string   `json:"voice,omitempty" yaml:"voice"`
	Occupation        string   `json:"occupation,omitempty" yaml:"occupation"`
	Hobbies           []string `json:"hobbies,omitempty" yaml:"hobbies"`
	RelationshipType  string   `json:"relationship_type,omitempty" yaml:"relationship_type"`
	ClothingStyle     string   `json:"clothing_style,omitempty" yaml:"clothing_style"`

	Bio             string `json:"bio,omitempty" yaml:"bio"`
	Backstory       string `json:"backstory,omitempty" yaml:"backstory"`
	UniqueTraits    string `json:"unique_traits,omitempty" yaml:"unique_traits"`
	NSFWPreferences string `json:"nsfw_preferences,omitempty" yaml:"nsfw_preferences"`
}

// ValidationError reports invalid caller input. Unlike provider and
// persistence failures, it propagates to the API layer.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("persona: invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the minimum a character needs to be usable.
func (c *Character) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

// HasTrait reports whether a personality trait is present, case-insensitive.
func (c *Character) HasTrait(trait string) bool {
	for _, t := range c.PersonalityTraits {
		if strings.EqualFold(t, trait) {
			return true
		}
	}
	return false
}
