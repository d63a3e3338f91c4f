// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"errors"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nutrilens/internal/export"
	"github.com/jeranaias/nutrilens/internal/labelfile"
	"github.com/jeranaias/nutrilens/internal/session"
	"github.com/jeranaias/nutrilens/internal/ui/components"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReadinessMsg:
		m.sess.SetReady(msg.Ready)
		if !m.sess.Ready() {
			m.toasts.AddWarning("AI backend is not ready. Analysis is disabled.")
		}
		return m, nil

	case RoundDoneMsg:
		if m.sess.EndRound(msg.Ticket, msg.Results, msg.Err) && msg.Err == nil {
			m.refreshResults()
			m.viewport.GotoTop()
		}
		return m, nil

	case AskDoneMsg:
		if m.sess.EndAsk(msg.Ticket, msg.Turn, msg.Err) && msg.Err == nil {
			m.sess.SetQuestion("")
			m.question.SetValue("")
			m.refreshResults()
			m.viewport.GotoBottom()
		}
		m.applyFocus()
		return m, nil

	case LabelReloadMsg:
		m.handleReload(msg.Event)
		return m, waitForLabel(m.opts.Events)

	case ExportDoneMsg:
		m.exporting = false
		if msg.Err != nil {
			log.Printf("analyzer: export failed: %v", msg.Err)
			m.toasts.AddError("Export failed: " + msg.Err.Error())
		} else {
			m.toasts.AddSuccess("Saved report to " + msg.Path)
		}
		return m, nil

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocusedInput(msg)
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.header.SetWidth(msg.Width)
	m.status.SetWidth(msg.Width)
	m.refreshResults()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Analyze):
		return m.startRound()

	case key.Matches(msg, m.keys.Clear):
		return m.clear()

	case key.Matches(msg, m.keys.Export):
		return m.startExport()

	case key.Matches(msg, m.keys.Dismiss):
		m.sess.DismissNotice()
		if toasts := m.toasts.Toasts(); len(toasts) > 0 {
			m.toasts.Remove(toasts[0].ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.moveFocus(-1)
		return m, nil
	}

	cur := m.current()
	switch cur.kind {
	case slotGoal, slotDiet:
		if key.Matches(msg, m.keys.Left) {
			return m.cycleSelector(cur.kind, -1)
		}
		if key.Matches(msg, m.keys.Right) || key.Matches(msg, m.keys.Activate) {
			return m.cycleSelector(cur.kind, 1)
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Activate) {
		return m.activate(cur)
	}
	return m.updateFocusedInput(msg)
}

// activate handles Enter on the focused element.
func (m Model) activate(cur slot) (tea.Model, tea.Cmd) {
	switch cur.kind {
	case slotField:
		m.moveFocus(1)
		return m, nil
	case slotAnalyze:
		return m.startRound()
	case slotClear:
		return m.clear()
	case slotQuestion, slotAsk:
		return m.startAsk()
	case slotSuggestion:
		if err := m.sess.SelectSuggestion(cur.index); err != nil {
			return m, nil
		}
		m.question.SetValue(m.sess.Question())
		m.question.CursorEnd()
		m.focusOn(slotQuestion, 0)
		return m, nil
	}
	return m, nil
}

// updateFocusedInput forwards msg to the focused text input and copies the
// edit into the session.
func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	cur := m.current()
	switch cur.kind {
	case slotField:
		f := &m.fields[cur.index]
		before := f.input.Value()
		f.input, cmd = f.input.Update(msg)
		if v := f.input.Value(); v != before {
			if _, err := m.sess.SetField(f.name, v); err != nil {
				log.Printf("analyzer: set %s: %v", f.name, err)
			}
		}
	case slotQuestion:
		before := m.question.Value()
		m.question, cmd = m.question.Update(msg)
		if v := m.question.Value(); v != before {
			m.sess.SetQuestion(v)
		}
	}
	return m, cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) startRound() (tea.Model, tea.Cmd) {
	t, err := m.sess.BeginRound()
	switch {
	case errors.Is(err, session.ErrBackendNotReady):
		if m.sess.Probed() {
			m.toasts.AddWarning("AI backend is not ready. Analysis is disabled.")
		} else {
			m.toasts.AddStatus("Still connecting to the AI backend...")
		}
		return m, nil
	case err != nil:
		// validation notices are set by the session
		return m, nil
	}
	return m, analyzeCmd(m.ctx, m.opts.Backend, t)
}

func (m Model) startAsk() (tea.Model, tea.Cmd) {
	t, err := m.sess.BeginAsk()
	if err != nil {
		return m, nil
	}
	return m, askCmd(m.ctx, m.opts.Backend, t)
}

func (m Model) clear() (tea.Model, tea.Cmd) {
	m.sess.Clear()
	m.syncInputs()
	m.focusOn(slotField, 0)
	m.refreshResults()
	return m, nil
}

func (m Model) cycleSelector(kind slotKind, delta int) (tea.Model, tea.Cmd) {
	sel := m.sess.Selector()
	var err error
	if kind == slotGoal {
		err = m.sess.SetHealthGoal(cycleGoal(sel.HealthGoal, delta))
	} else {
		err = m.sess.SetDietType(cycleDiet(sel.DietType, delta))
	}
	if err != nil {
		log.Printf("analyzer: selector: %v", err)
	}
	return m, nil
}

func (m Model) startExport() (tea.Model, tea.Cmd) {
	if m.exporting {
		return m, nil
	}
	report := export.NewReport(m.sess.Snapshot())
	if report.Record.FoodName == "" {
		m.toasts.AddWarning("Enter a food name before exporting.")
		return m, nil
	}
	m.exporting = true
	return m, exportCmd(m.opts.Export, report)
}

// handleReload applies a label delivered by the file watcher.
func (m *Model) handleReload(ev labelfile.Event) {
	if ev.Err != nil {
		m.toasts.AddError("Label reload failed: " + ev.Err.Error())
		return
	}
	if m.opts.Reload == nil || ev.Label == nil {
		return
	}
	if err := m.opts.Reload(ev.Label); err != nil {
		m.toasts.AddError("Label reload failed: " + err.Error())
	} else {
		m.toasts.AddStatus("Label reloaded")
	}
	m.syncInputs()
	m.applyFocus()
	m.refreshResults()
}
