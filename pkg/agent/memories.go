package agent

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Cheap regex capture of things worth remembering at the relationship
// layer, independent of the LLM fact extractor.
var sharedMemoryPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"aime", regexp.MustCompile(`(?i)\bj'aime (?:bien |beaucoup )?(\w{3,})`)},
	{"fait", regexp.MustCompile(`(?i)\bje fais (?:du |de la |de l')(\w{3,})`)},
	{"travaille", regexp.MustCompile(`(?i)\bje (?:suis|travaille comme) (\w{3,})`)},
	{"habite", regexp.MustCompile(`(?i)\b(?:j'habite|je vis) (?:a|en) (\w{3,})`)},
}

// storeSharedMemories scans a user message for personal statements and
// records them on the relationship so later prompts can reference them.
func (s *System) storeSharedMemories(characterID, userID, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, p := range sharedMemoryPatterns {
		m := p.re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		memory := p.label + " " + strings.ToLower(m[1])
		s.relationship.AddSharedMemory(ctx, characterID, userID, memory)
	}
}
