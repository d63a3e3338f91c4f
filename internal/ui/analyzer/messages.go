// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"github.com/jeranaias/nutrilens/internal/labelfile"
	"github.com/jeranaias/nutrilens/internal/model"
	"github.com/jeranaias/nutrilens/internal/session"
)

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// ReadinessMsg reports the result of the startup probe.
type ReadinessMsg struct {
	Ready bool
}

// RoundDoneMsg carries a finished analysis round.
type RoundDoneMsg struct {
	Ticket  session.RoundTicket
	Results model.ResultSet
	Err     error
}

// AskDoneMsg carries an answered question.
type AskDoneMsg struct {
	Ticket session.AskTicket
	Turn   model.ConversationTurn
	Err    error
}

// =============================================================================
// FILE MESSAGES
// =============================================================================

// LabelReloadMsg is sent when the watched label file changes.
type LabelReloadMsg struct {
	Event labelfile.Event
}

// ExportDoneMsg reports a finished export.
type ExportDoneMsg struct {
	Path string
	Err  error
}
