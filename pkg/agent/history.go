package agent

import (
	"context"
	"errors"
	"time"

	"casdy/pkg/llm"
	"casdy/pkg/store"
)

const (
	historyTTL  = 30 * 24 * time.Hour
	historyKeep = 40 // persisted turns
	historyUsed = 20 // turns handed to the model
)

func historyKey(characterID, userID string) string {
	return store.Key("conversation", characterID, userID)
}

func (s *System) loadHistory(ctx context.Context, characterID, userID string) []llm.Message {
	var history []llm.Message
	err := store.GetJSON(ctx, s.store, historyKey(characterID, userID), &history)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("history load failed, starting empty")
	}
	return history
}

func (s *System) saveHistory(ctx context.Context, characterID, userID string, history []llm.Message) {
	if len(history) > historyKeep {
		history = history[len(history)-historyKeep:]
	}
	if err := store.SetJSON(ctx, s.store, historyKey(characterID, userID), history, historyTTL); err != nil {
		s.logger.Warn("history save failed")
	}
}

func recentTurns(history []llm.Message) []llm.Message {
	if len(history) > historyUsed {
		return history[len(history)-historyUsed:]
	}
	return history
}
