package persona

import (
	"fmt"
	"strings"

	"casdy/pkg/intent"
)

// Fixed photographic framing for image prompts. Deterministic on purpose:
// the same character and request always produce the same prompt.
const (
	anatomySpecs = "symmetric face with proportional features, hands with five fingers each visible"
	qualityTags  = "sharp focus, clear details, crisp image quality"
	realismTags  = "raw candid photo, amateur iPhone snapshot, natural unedited, " +
		"photorealistic, hyper-realistic, indistinguishable from real photograph"

	defaultPose    = "sitting relaxed with both hands resting naturally"
	defaultSetting = "bedroom with unmade bed"
	defaultCamera  = "iPhone 14 Pro"
	defaultLight   = "soft window light from left side"
)

// NegativePrompt lists everything a generated photo must avoid.
const NegativePrompt = "perfect skin, airbrushed, photoshopped, fake, artificial, " +
	"CGI, 3D render, mannequin, professional model, studio lighting, " +
	"flawless, idealized, fantasy, cartoon, anime, " +
	"blurry, low quality, pixelated, distorted"

func clothingForLevel(nsfwLevel int, outfit string) string {
	if outfit != "" && nsfwLevel < 2 {
		return "wearing " + outfit
	}
	switch {
	case nsfwLevel <= 0:
		return "wearing casual t-shirt"
	case nsfwLevel == 1:
		return "wearing black lingerie"
	case nsfwLevel == 2:
		return "topless, bare breasts visible with nipples"
	default:
		return "completely nude, full body naked, breasts and intimate areas visible"
	}
}

func sexualActDescription(act string) string {
	switch act {
	case "oral":
		return "performing oral sex, explicit blowjob scene"
	case "vaginal":
		return "having sex, explicit penetration visible"
	case "anal":
		return "explicit anal sex scene"
	case "masturbation":
		return "masturbating, touching herself explicitly"
	case "other":
		return "explicit sexual act in progress"
	}
	return ""
}

// BuildImagePrompt renders a diffusion prompt from the character sheet
// and the classified request details.
func BuildImagePrompt(c *Character, details intent.ImageDetails, nsfwLevel int) string {
	subject := []string{}
	if c.Ethnicity != "" {
		subject = append(subject, c.Ethnicity+" woman")
	} else {
		subject = append(subject, "young woman")
	}
	if c.AgeRange != "" {
		subject = append(subject, "in "+c.AgeRange)
	}
	if c.HairColor != "" {
		hair := c.HairColor + " hair"
		if c.HairLength != "" {
			hair = c.HairLength + " " + hair
		}
		subject = append(subject, hair+" with individual strands visible")
	}
	if c.EyeColor != "" {
		subject = append(subject, c.EyeColor+" eyes")
	}
	if c.BodyType != "" {
		subject = append(subject, c.BodyType+" body")
	}

	pose := details.Pose
	if act := sexualActDescription(details.SexualAct); act != "" {
		pose = act
		if details.Pose != "" {
			pose += ", " + details.Pose
		}
	}
	if pose == "" {
		pose = defaultPose
	}

	setting := details.Setting
	if setting == "" {
		setting = defaultSetting
	}

	parts := []string{
		strings.Join(subject, ", "),
		"visible skin pores and natural texture",
		anatomySpecs,
		clothingForLevel(nsfwLevel, details.Outfit),
		pose,
		setting,
		defaultLight,
		fmt.Sprintf("shot on %s", defaultCamera),
		qualityTags,
		realismTags,
	}

	return strings.Join(parts, ", ")
}
