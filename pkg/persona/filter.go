package persona

import (
	"regexp"
	"strings"
)

// The model sometimes ignores level instructions, so the reply is filtered
// after generation. Pet names are stripped below level 7, physical contact
// softened below level 5, explicit fragments removed below level 8.

var romanticTerms = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmon amour\b`),
	regexp.MustCompile(`(?i)\bmon coeur\b`),
	regexp.MustCompile(`(?i)\bma cherie\b`),
	regexp.MustCompile(`(?i)\bbebe\b`),
	regexp.MustCompile(`(?i)\bmy love\b`),
	regexp.MustCompile(`(?i)\bdarling\b`),
	regexp.MustCompile(`(?i)\bsweetheart\b`),
}

var flirtyActions = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\*t'embrasse\*`),
	regexp.MustCompile(`(?i)\*te caresse\*`),
	regexp.MustCompile(`(?i)\*se blottit\*`),
	regexp.MustCompile(`(?i)\*kisses you\*`),
	regexp.MustCompile(`(?i)\*caresses\*`),
	regexp.MustCompile(`(?i)\*snuggles\*`),
}

var explicitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\*gemit\*`),
	regexp.MustCompile(`(?i)\*moan\*`),
	regexp.MustCompile(`(?i)envie de toi`),
	regexp.MustCompile(`(?i)want you`),
	regexp.MustCompile(`(?i)desir`),
	regexp.MustCompile(`(?i)excite`),
}

var spaceRun = regexp.MustCompile(`\s+`)

// EnforceLevelRestrictions rewrites a generated reply so it cannot exceed
// what the relationship level allows. The result is re-normalized to
// single spaces.
func EnforceLevelRestrictions(response string, level int) string {
	if level < 7 {
		for _, re := range romanticTerms {
			response = re.ReplaceAllString(response, "")
		}
	}

	if level < 5 {
		for _, re := range flirtyActions {
			response = re.ReplaceAllString(response, "*sourit*")
		}
	}

	if level < 8 {
		for _, re := range explicitPatterns {
			response = re.ReplaceAllString(response, "")
		}
	}

	return strings.TrimSpace(spaceRun.ReplaceAllString(response, " "))
}
