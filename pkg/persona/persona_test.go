package persona

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casdy/pkg/intent"
)

func testCharacter() *Character {
	return &Character{
		ID:                "lena",
		Name:              "Lena",
		Language:          "french",
		Ethnicity:         "European",
		AgeRange:          "mid 20s",
		HairColor:         "brown",
		HairLength:        "long",
		EyeColor:          "green",
		PersonalityTraits: []string{"playful", "curious"},
		Occupation:        "photographer",
		Hobbies:           []string{"painting", "hiking"},
		RelationshipType:  "friend",
		ClothingStyle:     "casual chic",
		Bio:               "Une artiste qui aime la vie.",
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	c := &Character{Name: "X"}
	err := c.Validate()
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "id", ve.Field)

	c = &Character{ID: "x", Name: "  "}
	err = c.Validate()
	require.Error(t, err)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name", ve.Field)

	assert.NoError(t, testCharacter().Validate())
}

func TestComposeSystemPromptIsDeterministic(t *testing.T) {
	c := testCharacter()
	first := ComposeSystemPrompt(c, "relationship block", "emotion block")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComposeSystemPrompt(c, "relationship block", "emotion block"))
	}
}

func TestComposeSystemPromptContent(t *testing.T) {
	c := testCharacter()
	prompt := ComposeSystemPrompt(c, "NIVEAU-CONTEXT", "HUMEUR-CONTEXT")

	assert.Contains(t, prompt, "You are Lena, a real person")
	assert.Contains(t, prompt, "APPEARANCE: ethnicity: European, age: mid 20s, hair: long brown, eyes: green")
	assert.Contains(t, prompt, "PERSONALITY: playful, curious")
	assert.Contains(t, prompt, "OCCUPATION: photographer")
	assert.Contains(t, prompt, "HOBBIES: painting, hiking")
	assert.Contains(t, prompt, "BIO: Une artiste qui aime la vie.")
	assert.Contains(t, prompt, "UNIQUEMENT en francais")
	assert.Contains(t, prompt, "NIVEAU-CONTEXT")
	assert.Contains(t, prompt, "HUMEUR-CONTEXT")
	assert.Contains(t, prompt, "RAPPEL CRUCIAL")
	assert.Contains(t, prompt, "INTERDITS avant le niveau 7")
}

func TestComposeSystemPromptWithoutContextFallsBack(t *testing.T) {
	prompt := ComposeSystemPrompt(testCharacter(), "", "")
	assert.NotContains(t, prompt, "RAPPEL CRUCIAL")
	assert.Contains(t, prompt, "Ne refuse jamais l'utilisateur")
}

func TestLanguageInstructionFallback(t *testing.T) {
	assert.Contains(t, LanguageInstruction("klingon"), "English")
	assert.Contains(t, LanguageInstruction("German"), "Deutsch")
}

func TestGreetingForLevel(t *testing.T) {
	c := testCharacter()

	g := GreetingForLevel(c, 0)
	assert.Contains(t, g, "Je suis Lena")

	g = GreetingForLevel(c, 10)
	assert.Contains(t, g, "Mon amour!")

	// Unknown level falls back to level 0.
	g = GreetingForLevel(c, 42)
	assert.Contains(t, g, "Je suis Lena")

	// Unknown language falls back to English.
	c.Language = "swedish"
	g = GreetingForLevel(c, 0)
	assert.Contains(t, g, "I'm Lena")
}

func TestEnforceLevelRestrictionsStripsPetNames(t *testing.T) {
	reply := "Coucou mon amour ! *sourit* Comment vas-tu, bebe ?"

	filtered := EnforceLevelRestrictions(reply, 3)
	assert.NotContains(t, filtered, "mon amour")
	assert.NotContains(t, filtered, "bebe")

	// Level 7 keeps them.
	kept := EnforceLevelRestrictions(reply, 7)
	assert.Contains(t, kept, "mon amour")
}

func TestEnforceLevelRestrictionsSoftensActions(t *testing.T) {
	reply := "*t'embrasse* Tu es la !"

	filtered := EnforceLevelRestrictions(reply, 2)
	assert.NotContains(t, filtered, "*t'embrasse*")
	assert.Contains(t, filtered, "*sourit*")

	kept := EnforceLevelRestrictions(reply, 5)
	assert.Contains(t, kept, "*t'embrasse*")
}

func TestEnforceLevelRestrictionsRemovesExplicitContent(t *testing.T) {
	reply := "*gemit* J'ai tellement envie de toi..."

	filtered := EnforceLevelRestrictions(reply, 6)
	assert.NotContains(t, filtered, "*gemit*")
	assert.NotContains(t, filtered, "envie de toi")

	kept := EnforceLevelRestrictions(reply, 8)
	assert.Contains(t, kept, "envie de toi")
}

func TestEnforceLevelRestrictionsNormalizesWhitespace(t *testing.T) {
	filtered := EnforceLevelRestrictions("mon amour   hello   bebe ", 0)
	assert.Equal(t, "hello", filtered)
}

func TestBuildImagePromptIsDeterministic(t *testing.T) {
	c := testCharacter()
	details := intent.ImageDetails{Requested: true, Type: "selfie"}

	first := BuildImagePrompt(c, details, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildImagePrompt(c, details, 0))
	}
}

func TestBuildImagePromptClothingTiers(t *testing.T) {
	c := testCharacter()
	details := intent.ImageDetails{Requested: true}

	assert.Contains(t, BuildImagePrompt(c, details, 0), "casual t-shirt")
	assert.Contains(t, BuildImagePrompt(c, details, 1), "black lingerie")
	assert.Contains(t, BuildImagePrompt(c, details, 2), "topless")
	assert.Contains(t, BuildImagePrompt(c, details, 3), "completely nude")
}

func TestBuildImagePromptUsesRequestDetails(t *testing.T) {
	c := testCharacter()
	details := intent.ImageDetails{
		Requested: true,
		Outfit:    "bikini",
		Pose:      "standing",
		Setting:   "beach",
	}

	prompt := BuildImagePrompt(c, details, 1)
	assert.Contains(t, prompt, "wearing bikini")
	assert.Contains(t, prompt, "standing")
	assert.Contains(t, prompt, "beach")
}

func TestBuildImagePromptSexualAct(t *testing.T) {
	c := testCharacter()
	details := intent.ImageDetails{Requested: true, Type: "sexual", SexualAct: "oral"}

	prompt := BuildImagePrompt(c, details, 3)
	assert.Contains(t, prompt, "oral sex")
	assert.Contains(t, prompt, "completely nude")
}

func TestBuildImagePromptIncludesCharacterLook(t *testing.T) {
	prompt := BuildImagePrompt(testCharacter(), intent.ImageDetails{}, 0)
	assert.Contains(t, prompt, "European woman")
	assert.Contains(t, prompt, "long brown hair")
	assert.Contains(t, prompt, "green eyes")
	assert.True(t, strings.Contains(prompt, "photorealistic"))
}
