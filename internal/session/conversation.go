// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"log"
	"strings"

	"github.com/jeranaias/nutrilens/internal/backend"
	"github.com/jeranaias/nutrilens/internal/model"
)

// Asker sends one follow-up question. *backend.Client implements it.
type Asker interface {
	Ask(ctx context.Context, rec model.NutritionRecord, question, prior string) (*model.ConversationTurn, error)
}

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation asks follow-up questions about a record.
type Conversation struct {
	asker Asker
}

// NewConversation creates a conversation backed by a.
func NewConversation(a Asker) *Conversation {
	return &Conversation{asker: a}
}

// ValidateQuestion checks that a question can be asked about rec.
func ValidateQuestion(question string, rec model.NutritionRecord) error {
	if strings.TrimSpace(question) == "" {
		return &ValidationError{Field: "question", Message: "Please enter a question and nutrition data"}
	}
	if rec.FoodName == "" {
		return &ValidationError{Field: model.FieldFoodName, Message: "Please enter a question and nutrition data"}
	}
	return nil
}

// Ask sends question with the record and the latest simplification text as
// context. The question is sent as typed. When the backend does not echo the
// question, the asked one is kept.
func (c *Conversation) Ask(ctx context.Context, question string, rec model.NutritionRecord, priorSimplificationText string) (model.ConversationTurn, error) {
	if err := ValidateQuestion(question, rec); err != nil {
		return model.ConversationTurn{}, err
	}

	turn, err := c.asker.Ask(ctx, rec, question, priorSimplificationText)
	if err != nil {
		log.Printf("session: ask about %q failed: %v", rec.FoodName, err)
		return model.ConversationTurn{}, NewFailure(backend.OpAsk, err)
	}
	if turn.Question == "" {
		turn.Question = question
	}
	return *turn, nil
}
