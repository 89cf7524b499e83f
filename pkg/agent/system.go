// Package agent wires the whole conversation pipeline together: intent
// classification and memory recall fan out in parallel, relationship and
// mood update in sequence, then a level-aware prompt produces the reply.
// Messages for the same character and user are strictly serialized.
package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"casdy/pkg/config"
	"casdy/pkg/emotion"
	"casdy/pkg/imagegen"
	"casdy/pkg/intent"
	"casdy/pkg/llm"
	"casdy/pkg/memory"
	"casdy/pkg/persona"
	"casdy/pkg/relationship"
	"casdy/pkg/store"
)

// System owns every engine of the conversation pipeline. All dependencies
// come in through the constructor; there is no package-level state.
type System struct {
	cfg          *config.Config
	store        store.Store
	completer    llm.Completer
	extractor    *intent.Extractor
	relationship *relationship.Engine
	emotion      *emotion.Engine
	memoryAgent  *memory.Agent
	generator    imagegen.Generator
	logger       *zap.Logger

	characters map[string]*persona.Character
	charMu     sync.RWMutex

	sessionMu sync.Mutex
	sessions  map[string]*sync.Mutex

	traces *traceBuffer

	// background goroutines from fire-and-forget fact extraction
	background sync.WaitGroup
}

// Options collects the System's dependencies.
type Options struct {
	Config       *config.Config
	Store        store.Store
	Completer    llm.Completer
	Extractor    *intent.Extractor
	Relationship *relationship.Engine
	Emotion      *emotion.Engine
	Memory       *memory.Agent
	Generator    imagegen.Generator
	Logger       *zap.Logger
}

func NewSystem(opts Options) *System {
	return &System{
		cfg:          opts.Config,
		store:        opts.Store,
		completer:    opts.Completer,
		extractor:    opts.Extractor,
		relationship: opts.Relationship,
		emotion:      opts.Emotion,
		memoryAgent:  opts.Memory,
		generator:    opts.Generator,
		logger:       opts.Logger,
		characters:   make(map[string]*persona.Character),
		sessions:     make(map[string]*sync.Mutex),
		traces:       newTraceBuffer(),
	}
}

// RegisterCharacter adds a persona to the roster.
func (s *System) RegisterCharacter(c *persona.Character) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.charMu.Lock()
	defer s.charMu.Unlock()
	s.characters[c.ID] = c
	return nil
}

// Character looks up a registered persona.
func (s *System) Character(id string) (*persona.Character, error) {
	s.charMu.RLock()
	defer s.charMu.RUnlock()
	c, ok := s.characters[id]
	if !ok {
		return nil, &persona.ValidationError{Field: "character_id", Reason: "unknown character " + id}
	}
	return c, nil
}

// Characters lists the registered personas.
func (s *System) Characters() []*persona.Character {
	s.charMu.RLock()
	defer s.charMu.RUnlock()
	out := make([]*persona.Character, 0, len(s.characters))
	for _, c := range s.characters {
		out = append(out, c)
	}
	return out
}

// sessionLock serializes processing per (character, user) pair.
func (s *System) sessionLock(characterID, userID string) *sync.Mutex {
	key := characterID + ":" + userID
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	mu, ok := s.sessions[key]
	if !ok {
		mu = &sync.Mutex{}
		s.sessions[key] = mu
	}
	return mu
}

// Response is everything a chat turn produces.
type Response struct {
	Reply          string `json:"reply"`
	Greeting       string `json:"greeting,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	LevelUpMessage string `json:"level_up_message,omitempty"`
	TraceID        string `json:"trace_id"`

	Relationship RelationshipInfo `json:"relationship"`
	Emotion      EmotionInfo      `json:"emotion"`
	Intent       IntentInfo       `json:"intent"`
}

type RelationshipInfo struct {
	Level        int    `json:"level"`
	Stage        string `json:"stage"`
	Points       int    `json:"points"`
	PointsChange int    `json:"points_change"`
	LevelUp      bool   `json:"level_up"`
	NSFWAllowed  bool   `json:"nsfw_allowed"`
	Warnings     []string `json:"warnings,omitempty"`
}

type EmotionInfo struct {
	Mood        string  `json:"mood"`
	MoodChanged bool    `json:"mood_changed"`
	Intensity   float64 `json:"intensity"`
}

type IntentInfo struct {
	Kind      string `json:"kind"`
	NSFWLevel int    `json:"nsfw_level"`
	Emotion   string `json:"emotion"`
	Source    string `json:"source"`
}

// apologetic fallbacks keep the conversation alive when every provider is
// down. Keyed by character language.
var fallbackReplies = map[string]string{
	"french":  "*semble distraite* Pardon, j'etais ailleurs... Tu peux repeter ?",
	"english": "*seems distracted* Sorry, I was miles away... Can you say that again?",
}

func fallbackReply(language string) string {
	if r, ok := fallbackReplies[strings.ToLower(language)]; ok {
		return r
	}
	return fallbackReplies["english"]
}

// ProcessMessage runs the full pipeline for one user message. Only invalid
// input produces an error; provider, classification and persistence
// failures all degrade to a usable reply.
func (s *System) ProcessMessage(ctx context.Context, characterID, userID, message string) (*Response, error) {
	if strings.TrimSpace(message) == "" {
		return nil, &persona.ValidationError{Field: "message", Reason: "must not be empty"}
	}
	if userID == "" {
		userID = "default"
	}
	character, err := s.Character(characterID)
	if err != nil {
		return nil, err
	}

	mu := s.sessionLock(characterID, userID)
	mu.Lock()
	defer mu.Unlock()

	start := time.Now()

	// Classification and memory recall are independent: fan out.
	var (
		wg         sync.WaitGroup
		intentRec  intent.Record
		recallText string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		intentRec = s.extractor.Extract(ctx, message)
	}()
	go func() {
		defer wg.Done()
		recallText = s.memoryAgent.RelevantContext(ctx, characterID, message)
	}()
	wg.Wait()

	// Relationship first: the level gates everything downstream.
	rel := s.relationship.ProcessInteraction(ctx, characterID, userID, message)
	mood := s.emotion.AnalyzeAndUpdate(ctx, characterID, message, rel.Level)

	systemPrompt := s.composePrompt(ctx, character, characterID, userID, recallText)

	history := s.loadHistory(ctx, characterID, userID)
	greeting := ""
	if len(history) == 0 {
		greeting = persona.GreetingForLevel(character, rel.Level)
		history = append(history, llm.Message{Role: "assistant", Content: greeting})
	}
	history = append(history, llm.Message{Role: "user", Content: message})

	reply, replySource := s.generateReply(ctx, character, systemPrompt, history, rel, intentRec)
	reply = persona.EnforceLevelRestrictions(reply, rel.Level)

	imageURL := s.maybeGenerateImage(ctx, character, intentRec, rel)

	history = append(history, llm.Message{Role: "assistant", Content: reply})
	s.saveHistory(ctx, characterID, userID, history)

	s.extractFactsInBackground(characterID, userID, message, reply)

	traceID := s.traces.add(TraceEvent{
		CharacterID:  characterID,
		UserID:       userID,
		Intent:       string(intentRec.Intent),
		IntentSource: string(intentRec.Source),
		NSFWLevel:    intentRec.NSFWLevel,
		Level:        rel.Level,
		PointsChange: rel.PointsChange,
		Mood:         string(mood.CurrentMood),
		ImageWanted:  intentRec.ImageDetails.Requested,
		ImageURL:     imageURL,
		ReplySource:  replySource,
		Took:         time.Since(start),
	})

	s.logger.Info("message processed",
		zap.String("character_id", characterID),
		zap.String("user_id", userID),
		zap.String("intent", string(intentRec.Intent)),
		zap.Int("level", rel.Level),
		zap.String("mood", string(mood.CurrentMood)),
		zap.Duration("took", time.Since(start)))

	return &Response{
		Reply:          reply,
		Greeting:       greeting,
		ImageURL:       imageURL,
		LevelUpMessage: rel.LevelUpMessage,
		TraceID:        traceID,
		Relationship: RelationshipInfo{
			Level:        rel.Level,
			Stage:        string(rel.Stage),
			Points:       rel.State.AffinityPoints,
			PointsChange: rel.PointsChange,
			LevelUp:      rel.LevelUp,
			NSFWAllowed:  rel.NSFWAllowed,
			Warnings:     rel.Warnings,
		},
		Emotion: EmotionInfo{
			Mood:        string(mood.CurrentMood),
			MoodChanged: mood.MoodChanged,
			Intensity:   mood.MoodIntensity,
		},
		Intent: IntentInfo{
			Kind:      string(intentRec.Intent),
			NSFWLevel: intentRec.NSFWLevel,
			Emotion:   intentRec.Emotion,
			Source:    string(intentRec.Source),
		},
	}, nil
}

func (s *System) composePrompt(ctx context.Context, character *persona.Character, characterID, userID, recallText string) string {
	relationshipCtx := s.relationship.PromptContext(ctx, characterID, userID)
	emotionalCtx := s.emotion.MoodContext(ctx, characterID)

	prompt := persona.ComposeSystemPrompt(character, relationshipCtx, emotionalCtx)
	if recallText != "" {
		prompt += "\n\n## CE QUE TU SAIS DE L'UTILISATEUR:\n" + recallText
	}
	if style := s.memoryAgent.Facts().StyleSample(ctx, characterID); style != "" {
		prompt += "\n\n## STYLE DE CONVERSATION HABITUEL:\n" + style
	}
	return prompt
}

func (s *System) generateReply(ctx context.Context, character *persona.Character, systemPrompt string, history []llm.Message, rel *relationship.Interaction, rec intent.Record) (string, string) {
	timeout := time.Duration(s.cfg.ModelSettings.TimeoutSeconds) * time.Second
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	temperature := s.cfg.ModelSettings.Temperature
	if rel.NSFWAllowed && rec.NSFWLevel > 0 {
		temperature = s.cfg.ModelSettings.NSFWTemperature
	}

	reply, err := s.completer.Complete(callCtx, systemPrompt, recentTurns(history), llm.Options{
		Temperature: temperature,
		MaxTokens:   s.cfg.ModelSettings.MaxTokens,
	})
	if err != nil || strings.TrimSpace(reply) == "" {
		s.logger.Warn("reply generation failed, using fallback", zap.Error(err))
		return fallbackReply(character.Language), "fallback"
	}
	return reply, "model"
}

// maybeGenerateImage produces an image when the intent asks for one. The
// explicitness of the picture is capped by the relationship level, and
// backend failures simply mean no image.
func (s *System) maybeGenerateImage(ctx context.Context, character *persona.Character, rec intent.Record, rel *relationship.Interaction) string {
	if s.generator == nil || !rec.ImageDetails.Requested {
		return ""
	}

	nsfwLevel := rec.NSFWLevel
	if !rel.NSFWAllowed && nsfwLevel > 1 {
		nsfwLevel = 1
	}

	timeout := time.Duration(s.cfg.ModelSettings.TimeoutSeconds) * time.Second
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := s.generator.Generate(callCtx, imagegen.Request{
		Prompt:         persona.BuildImagePrompt(character, rec.ImageDetails, nsfwLevel),
		NegativePrompt: persona.NegativePrompt,
	})
	if err != nil {
		s.logger.Warn("image generation failed", zap.Error(err))
		return ""
	}
	return res.URL
}

// GenerateImage produces a picture outside a chat turn. The relationship
// level still gates explicitness, same as in-conversation requests.
func (s *System) GenerateImage(ctx context.Context, characterID, userID string, details intent.ImageDetails, nsfwLevel int) (string, error) {
	character, err := s.Character(characterID)
	if err != nil {
		return "", err
	}
	if s.generator == nil {
		return "", &imagegen.GenerationError{Backend: "none", Err: errors.New("no image backend configured")}
	}
	if userID == "" {
		userID = "default"
	}

	state := s.relationship.GetState(ctx, characterID, userID)
	if !state.NSFWUnlocked && nsfwLevel > 1 {
		nsfwLevel = 1
	}
	details.Requested = true

	timeout := time.Duration(s.cfg.ModelSettings.TimeoutSeconds) * time.Second
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := s.generator.Generate(callCtx, imagegen.Request{
		Prompt:         persona.BuildImagePrompt(character, details, nsfwLevel),
		NegativePrompt: persona.NegativePrompt,
	})
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

// extractFactsInBackground persists new facts without blocking the reply.
// Only messages that talk about the user are worth the extraction call.
func (s *System) extractFactsInBackground(characterID, userID, userMessage, reply string) {
	s.storeSharedMemories(characterID, userID, userMessage)

	if !memory.MentionsSelf(userMessage) {
		return
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		s.memoryAgent.ExtractAndStore(ctx, characterID, []llm.Message{
			{Role: "user", Content: userMessage},
			{Role: "assistant", Content: reply},
		})
	}()
}

// Wait blocks until background extraction goroutines finish. Used by
// shutdown and tests.
func (s *System) Wait() { s.background.Wait() }

// RecentTraces exposes the debug ring buffer, newest first.
func (s *System) RecentTraces() []TraceEvent { return s.traces.recent() }

// RelationshipStatus reports the persisted relationship for an API read.
func (s *System) RelationshipStatus(ctx context.Context, characterID, userID string) (*relationship.State, error) {
	if _, err := s.Character(characterID); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = "default"
	}
	return s.relationship.GetState(ctx, characterID, userID), nil
}

// ResetRelationship wipes the relationship back to level 0.
func (s *System) ResetRelationship(ctx context.Context, characterID, userID string) (*relationship.State, error) {
	if _, err := s.Character(characterID); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = "default"
	}
	return s.relationship.Reset(ctx, characterID, userID), nil
}

// BoostRelationship adds points manually, for admin tooling.
func (s *System) BoostRelationship(ctx context.Context, characterID, userID string, points int) (*relationship.State, error) {
	if _, err := s.Character(characterID); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = "default"
	}
	return s.relationship.Boost(ctx, characterID, userID, points), nil
}
