// Package memory gives characters long-term recall: durable facts about
// the user, extracted from conversation and replayed into later prompts.
package memory

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"casdy/pkg/store"
)

// Tuning carries the deployment-adjustable knobs. Zero values fall back
// to the canonical defaults.
type Tuning struct {
	MaxFacts int
	FactTTL  time.Duration
}

func (t Tuning) withDefaults() Tuning {
	if t.MaxFacts <= 0 {
		t.MaxFacts = 100
	}
	if t.FactTTL <= 0 {
		t.FactTTL = 30 * 24 * time.Hour
	}
	return t
}

// Fact is one remembered piece of information about the user.
// Importance runs 1-5; higher survives eviction longer.
type Fact struct {
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	Importance int       `json:"importance"`
	Timestamp  time.Time `json:"timestamp"`
}

// typeImportance is the default score when the extractor omits one.
var typeImportance = map[string]int{
	"personal":   5,
	"intimate":   4,
	"preference": 4,
	"emotional":  3,
	"event":      2,
	"casual":     1,
}

func defaultImportance(factType string) int {
	if imp, ok := typeImportance[factType]; ok {
		return imp
	}
	return 2
}

// FactStore persists facts per character, deduplicated by content hash and
// capped to the most important MaxFacts.
type FactStore struct {
	store  store.Store
	tuning Tuning
	logger *zap.Logger
}

func NewFactStore(st store.Store, tuning Tuning, logger *zap.Logger) *FactStore {
	return &FactStore{store: st, tuning: tuning.withDefaults(), logger: logger}
}

func (s *FactStore) key(characterID string) string {
	return store.Key("memory", characterID)
}

func contentHash(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Load returns all stored facts, empty on miss or store failure.
func (s *FactStore) Load(ctx context.Context, characterID string) []Fact {
	var facts []Fact
	err := store.GetJSON(ctx, s.store, s.key(characterID), &facts)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("fact load failed", zap.String("character_id", characterID), zap.Error(err))
		}
		return nil
	}
	return facts
}

// Save merges new facts in. Duplicates (same content) are dropped; when
// the cap is exceeded, low-importance facts go first.
func (s *FactStore) Save(ctx context.Context, characterID string, facts []Fact) int {
	if len(facts) == 0 {
		return 0
	}

	existing := s.Load(ctx, characterID)
	seen := make(map[string]struct{}, len(existing))
	for _, f := range existing {
		seen[contentHash(f.Content)] = struct{}{}
	}

	added := 0
	now := time.Now().UTC()
	for _, f := range facts {
		if f.Content == "" {
			continue
		}
		h := contentHash(f.Content)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		if f.Importance == 0 {
			f.Importance = defaultImportance(f.Type)
		}
		if f.Timestamp.IsZero() {
			f.Timestamp = now
		}
		existing = append(existing, f)
		added++
	}

	if added == 0 {
		return 0
	}

	sort.SliceStable(existing, func(i, j int) bool {
		if existing[i].Importance != existing[j].Importance {
			return existing[i].Importance > existing[j].Importance
		}
		return existing[i].Timestamp.After(existing[j].Timestamp)
	})
	if len(existing) > s.tuning.MaxFacts {
		existing = existing[:s.tuning.MaxFacts]
	}

	if err := store.SetJSON(ctx, s.store, s.key(characterID), existing, s.tuning.FactTTL); err != nil {
		s.logger.Warn("fact save failed", zap.String("character_id", characterID), zap.Error(err))
		return 0
	}

	s.logger.Debug("facts saved", zap.String("character_id", characterID), zap.Int("new", added))
	return added
}

// SaveStyleSample keeps a short phrase capturing how the conversation
// sounds, for character consistency across sessions.
func (s *FactStore) SaveStyleSample(ctx context.Context, characterID, sample string) {
	if sample == "" {
		return
	}
	if err := s.store.Set(ctx, store.Key("style", characterID), sample, s.tuning.FactTTL); err != nil {
		s.logger.Warn("style sample save failed", zap.String("character_id", characterID), zap.Error(err))
	}
}

// StyleSample returns the stored sample, empty when unknown.
func (s *FactStore) StyleSample(ctx context.Context, characterID string) string {
	sample, err := s.store.Get(ctx, store.Key("style", characterID))
	if err != nil {
		return ""
	}
	return sample
}
