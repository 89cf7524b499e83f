package intent

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	codeBlockRe     = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	jsonObjectRe    = regexp.MustCompile(`\{[\s\S]*\}`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRe   = regexp.MustCompile(`(\w+):`)
)

// parseResponse recovers a classification record from raw LLM output.
// Small models decorate JSON with markdown fences, prose, trailing commas
// and unquoted keys; each strategy handles one failure mode. Returns false
// when nothing parseable remains.
func parseResponse(response string) (Record, bool) {
	if strings.TrimSpace(response) == "" {
		return Record{}, false
	}

	// Strategy 1: the response is the JSON.
	if rec, ok := tryUnmarshal(strings.TrimSpace(response)); ok {
		return rec, true
	}

	// Strategy 2: JSON inside a markdown code block.
	if m := codeBlockRe.FindStringSubmatch(response); m != nil {
		if rec, ok := tryUnmarshal(strings.TrimSpace(m[1])); ok {
			return rec, true
		}
	}

	// Strategy 3: first {...} span anywhere in the response.
	if m := jsonObjectRe.FindString(response); m != "" {
		if rec, ok := tryUnmarshal(m); ok {
			return rec, true
		}
	}

	// Strategy 4: repair trailing commas and unquoted keys, then retry.
	fixed := strings.TrimSpace(response)
	fixed = trailingCommaRe.ReplaceAllString(fixed, "$1")
	fixed = unquotedKeyRe.ReplaceAllString(fixed, `"$1":`)
	if rec, ok := tryUnmarshal(fixed); ok {
		return rec, true
	}

	return Record{}, false
}

func tryUnmarshal(s string) (Record, bool) {
	var rec Record
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		return Record{}, false
	}
	if !validKind(rec.Intent) {
		return Record{}, false
	}
	if rec.NSFWLevel < 0 {
		rec.NSFWLevel = 0
	} else if rec.NSFWLevel > 3 {
		rec.NSFWLevel = 3
	}
	return rec, true
}
