// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nutrilens/internal/export"
	"github.com/jeranaias/nutrilens/internal/labelfile"
	"github.com/jeranaias/nutrilens/internal/session"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Commands only read their arguments and report back with a message. The
// session is updated when the message reaches Update.

func probeCmd(ctx context.Context, p session.Prober, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return ReadinessMsg{Ready: session.NewReadinessGate(p).Probe(ctx)}
	}
}

func analyzeCmd(ctx context.Context, a session.Analyzer, t session.RoundTicket) tea.Cmd {
	return func() tea.Msg {
		results, err := session.NewOrchestrator(a).RunAll(ctx, t.Record, t.Selector)
		return RoundDoneMsg{Ticket: t, Results: results, Err: err}
	}
}

func askCmd(ctx context.Context, a session.Asker, t session.AskTicket) tea.Cmd {
	return func() tea.Msg {
		turn, err := session.NewConversation(a).Ask(ctx, t.Question, t.Record, t.Context)
		return AskDoneMsg{Ticket: t, Turn: turn, Err: err}
	}
}

func exportCmd(fn ExportFunc, r *export.Report) tea.Cmd {
	return func() tea.Msg {
		path, err := fn(r)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// waitForLabel blocks until the watcher delivers the next reload. A closed
// channel ends the loop.
func waitForLabel(events <-chan labelfile.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return LabelReloadMsg{Event: ev}
	}
}
