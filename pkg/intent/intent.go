// Package intent classifies user messages: does the user want chat, an
// image, or both, how explicit is the request, and what mood does it carry.
// A keyword pass and an LLM pass run in parallel and are merged
// deterministically, so classification always produces a usable result.
package intent

// Kind is the top-level routing decision for a message.
type Kind string

const (
	KindChatOnly      Kind = "chat_only"
	KindImageRequest  Kind = "image_request"
	KindChatWithImage Kind = "chat_with_image"
)

// Source records which pass produced the final record.
type Source string

const (
	SourceKeywordsOnly Source = "keywords_only"
	SourceLLM          Source = "llm"
	SourceLLMCorrected Source = "llm_corrected"
)

// ImageDetails describes what kind of picture the user asked for.
// String fields are empty when the message gave no hint.
type ImageDetails struct {
	Requested bool   `json:"requested"`
	Type      string `json:"type,omitempty"`
	Outfit    string `json:"outfit,omitempty"`
	Pose      string `json:"pose,omitempty"`
	Setting   string `json:"setting,omitempty"`
	SexualAct string `json:"sexual_act,omitempty"`
}

// Record is the full classification of one user message.
// NSFWLevel: 0 = SFW, 1 = suggestive, 2 = explicit nudity, 3 = sexual acts.
type Record struct {
	Intent       Kind         `json:"intent"`
	NSFWLevel    int          `json:"nsfw_level"`
	Emotion      string       `json:"emotion"`
	ImageDetails ImageDetails `json:"image_details"`
	Language     string       `json:"language"`
	Source       Source       `json:"-"`
}

func validKind(k Kind) bool {
	switch k {
	case KindChatOnly, KindImageRequest, KindChatWithImage:
		return true
	}
	return false
}
