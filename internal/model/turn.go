// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// CONVERSATION TURN
// =============================================================================

// ConversationTurn is one question and its answer. Only the latest turn is
// kept; asking again replaces it.
type ConversationTurn struct {
	Question            string    `json:"question"`
	Answer              string    `json:"answer"`
	FollowUpSuggestions []string  `json:"follow_up_suggestions,omitempty"`
	RelevantFacts       []string  `json:"relevant_facts,omitempty"`
	AnsweredAt          time.Time `json:"-"`
}

// HasSuggestions returns true if the backend offered follow-up questions.
func (t *ConversationTurn) HasSuggestions() bool {
	return t != nil && len(t.FollowUpSuggestions) > 0
}

// Suggestion returns the i-th follow-up suggestion.
func (t *ConversationTurn) Suggestion(i int) (string, bool) {
	if t == nil || i < 0 || i >= len(t.FollowUpSuggestions) {
		return "", false
	}
	return t.FollowUpSuggestions[i], true
}
