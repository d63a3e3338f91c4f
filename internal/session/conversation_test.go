// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nutrilens/internal/backend"
	"github.com/jeranaias/nutrilens/internal/model"
)

func ketoAnswer() *model.ConversationTurn {
	return &model.ConversationTurn{
		Question:            "Is this keto friendly?",
		Answer:              "No, due to natural sugars.",
		FollowUpSuggestions: []string{"What are better keto snacks?"},
	}
}

func TestConversation_AskScenario(t *testing.T) {
	fake := &fakeBackend{turn: ketoAnswer()}
	s := greekYogurt(t)

	turn, err := NewConversation(fake).Ask(context.Background(), "Is this keto friendly?", s.Record(), "Greek yogurt is a high-protein snack...")
	require.NoError(t, err)

	assert.Equal(t, "Is this keto friendly?", turn.Question)
	assert.Equal(t, "No, due to natural sugars.", turn.Answer)
	assert.Equal(t, []string{"What are better keto snacks?"}, turn.FollowUpSuggestions)

	require.Len(t, fake.asked, 1)
	assert.Equal(t, "Greek yogurt is a high-protein snack...", fake.asked[0].Context)
	assert.Equal(t, "Greek Yogurt", fake.asked[0].NutritionData.FoodName)
}

func TestConversation_Validation(t *testing.T) {
	tests := []struct {
		name     string
		question string
		food     string
	}{
		{"blank question", "   ", "Greek Yogurt"},
		{"empty question", "", "Greek Yogurt"},
		{"no food name", "Is this keto friendly?", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeBackend{turn: ketoAnswer()}
			rec := model.NewNutritionRecord()
			rec.FoodName = tc.food

			_, err := NewConversation(fake).Ask(context.Background(), tc.question, rec, "")
			assert.True(t, IsValidation(err), "got %v", err)
			assert.Zero(t, fake.count.Load())
		})
	}
}

func TestConversation_EchoFallback(t *testing.T) {
	fake := &fakeBackend{turn: &model.ConversationTurn{Answer: "Yes."}}
	rec := model.NewNutritionRecord()
	rec.FoodName = "Almonds"

	turn, err := NewConversation(fake).Ask(context.Background(), "  Vegan?  ", rec, "")
	require.NoError(t, err)
	assert.Equal(t, "  Vegan?  ", turn.Question)
	assert.Equal(t, "  Vegan?  ", fake.asked[0].Question, "question is sent as typed")
}

func TestSessionAsk_UsesLatestSimplification(t *testing.T) {
	fake := &fakeBackend{turn: ketoAnswer()}
	s := greekYogurt(t)

	s.SetQuestion("Is this keto friendly?")
	require.NoError(t, s.Ask(context.Background(), NewConversation(fake)))
	assert.Equal(t, "", fake.asked[0].Context, "no simplification yet")

	require.NoError(t, s.Analyze(context.Background(), NewOrchestrator(fake)))
	require.NoError(t, s.Ask(context.Background(), NewConversation(fake)))
	assert.Equal(t, "Greek yogurt is a high-protein snack...", fake.asked[1].Context)
	assert.False(t, s.Asking())
}

func TestSessionAsk_FailureKeepsPreviousTurn(t *testing.T) {
	fake := &fakeBackend{turn: ketoAnswer()}
	s := greekYogurt(t)
	s.SetQuestion("Is this keto friendly?")
	require.NoError(t, s.Ask(context.Background(), NewConversation(fake)))
	before := s.Turn()

	fake.askErr = transportErr(backend.OpAsk)
	s.SetQuestion("And for vegans?")
	err := s.Ask(context.Background(), NewConversation(fake))

	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, f.Kind)
	assert.Same(t, before, s.Turn())
	assert.Contains(t, s.Notice(), "Error processing your question")
	assert.False(t, s.Asking())
}

func TestSelectSuggestion_NoNetwork(t *testing.T) {
	fake := &fakeBackend{turn: ketoAnswer()}
	s := greekYogurt(t)
	s.SetQuestion("Is this keto friendly?")
	require.NoError(t, s.Ask(context.Background(), NewConversation(fake)))
	calls := fake.count.Load()

	require.NoError(t, s.SelectSuggestion(0))
	assert.Equal(t, "What are better keto snacks?", s.Question())
	assert.Equal(t, calls, fake.count.Load())

	assert.ErrorIs(t, s.SelectSuggestion(3), ErrNoSuggestion)
}

func TestBeginAsk_Gating(t *testing.T) {
	s := greekYogurt(t)
	assert.False(t, s.CanAsk(), "blank question")

	s.SetQuestion("Why?")
	assert.True(t, s.CanAsk())
	ticket, err := s.BeginAsk()
	require.NoError(t, err)
	assert.False(t, s.CanAsk())

	_, err = s.BeginAsk()
	assert.ErrorIs(t, err, ErrAskInFlight)

	s.Clear()
	assert.False(t, s.EndAsk(ticket, *ketoAnswer(), nil))
	assert.Nil(t, s.Turn())
}
