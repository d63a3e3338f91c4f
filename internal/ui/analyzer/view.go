// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nutrilens/internal/model"
	"github.com/jeranaias/nutrilens/internal/ui/components"
	"github.com/jeranaias/nutrilens/internal/ui/styles"
	"github.com/jeranaias/nutrilens/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

const (
	defaultWidth  = 80
	defaultHeight = 24

	wideFormWidth = 52
	labelWidth    = 20
	unitWidth     = 4
	minInputWidth = 6
	askButtonW    = 12
	minResultsH   = 3
)

// layout holds the widths derived from the terminal size. Outer widths
// include the panel border and padding.
type layout struct {
	stacked       bool
	columns       int
	formOuter     int
	resultsOuter  int
	inputWidth    int
	questionWidth int
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) layout() layout {
	w, _ := m.size()
	var l layout
	switch m.theme.GetLayoutMode() {
	case styles.LayoutWide:
		l.columns = 1
		l.formOuter = wideFormWidth
		l.resultsOuter = w - wideFormWidth
	case styles.LayoutMedium:
		l.stacked = true
		l.columns = 2
		l.formOuter = w
		l.resultsOuter = w
	default:
		l.stacked = true
		l.columns = 1
		l.formOuter = w
		l.resultsOuter = w
	}

	inner := l.formOuter - 4
	col := (inner - (l.columns - 1)) / l.columns
	l.inputWidth = col - labelWidth - unitWidth - 2
	if l.inputWidth < minInputWidth {
		l.inputWidth = minInputWidth
	}
	l.questionWidth = inner - askButtonW - 3
	if l.questionWidth < minInputWidth {
		l.questionWidth = minInputWidth
	}
	return l
}

// resize applies the layout to the inputs and sizes the results viewport
// to what the form leaves over.
func (m *Model) resize() {
	l := m.layout()
	for i := range m.fields {
		m.fields[i].input.Width = l.inputWidth
	}
	m.question.Width = l.questionWidth

	_, h := m.size()
	// header and status bar
	avail := h - 2
	if l.stacked {
		avail -= lipgloss.Height(m.renderForm(l))
	}
	// panel border
	avail -= 2
	if avail < minResultsH {
		avail = minResultsH
	}
	m.viewport.Width = l.resultsOuter - 4
	m.viewport.Height = avail
}

// refreshResults re-renders the viewport content.
func (m *Model) refreshResults() {
	m.resize()
	width := m.viewport.Width
	if width < 20 {
		width = 20
	}
	content := components.RenderResults(m.theme, m.sess.Results(), m.sess.Selector(), width)
	if turn := m.sess.Turn(); turn != nil {
		content += "\n\n" + m.renderTurn(turn, width)
	}
	m.viewport.SetContent(content)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the screen.
func (m Model) View() string {
	w, h := m.size()
	l := m.layout()
	rec := m.sess.Record()

	m.header.FoodName = rec.FoodName
	m.header.Readiness = components.ReadinessOf(m.sess.Probed(), m.sess.Ready())
	header := m.header.View()

	status := m.renderStatusBar()

	toasts := components.RenderToastStack(m.toasts.Toasts(), w)
	toastH := 0
	if toasts != "" {
		toastH = lipgloss.Height(toasts)
	}

	formContent := m.renderForm(l)
	form := m.theme.Panel.Width(l.formOuter - 2).Render(formContent)

	// the form height changes with notices and suggestions
	vp := m.viewport
	vp.Height = h - 2 - 2 - toastH
	if l.stacked {
		vp.Height -= lipgloss.Height(formContent) + 2
	}
	if vp.Height < minResultsH {
		vp.Height = minResultsH
	}
	var right string
	if m.showHelp {
		right = m.help.FullHelpView(m.keys.FullHelp())
	} else {
		right = vp.View()
	}
	results := m.theme.Panel.Width(l.resultsOuter - 2).Render(right)

	var body string
	if l.stacked {
		body = lipgloss.JoinVertical(lipgloss.Left, form, results)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, form, results)
	}

	parts := []string{header, body}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, status)
	return lipgloss.NewStyle().MaxHeight(h).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// =============================================================================
// FORM
// =============================================================================

func (m Model) renderForm(l layout) string {
	t := m.theme
	cur := m.current()
	inner := l.formOuter - 4

	var sections []string

	// Fields, split into columns in the medium layout.
	rows := make([]string, 0, len(m.fields))
	for i, f := range m.fields {
		focused := cur.kind == slotField && cur.index == i
		rows = append(rows, m.renderField(f, focused))
	}
	if l.columns > 1 {
		half := (len(rows) + 1) / 2
		left := strings.Join(rows[:half], "\n")
		right := strings.Join(rows[half:], "\n")
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	} else {
		sections = append(sections, strings.Join(rows, "\n"))
	}

	// Selectors
	sel := m.sess.Selector()
	goal := m.renderSelector("Health goal", sel.HealthGoal.Label(), cur.kind == slotGoal)
	diet := m.renderSelector("Diet", sel.DietType.Label(), cur.kind == slotDiet)
	if l.columns > 1 {
		sections = append(sections, "", goal+"   "+diet)
	} else {
		sections = append(sections, "", goal, diet)
	}

	// Buttons
	analyzeText := "Analyze"
	if m.sess.Analyzing() {
		analyzeText = "Analyzing..."
	}
	buttons := m.renderButton(analyzeText, cur.kind == slotAnalyze, m.sess.CanAnalyze()) + " " +
		m.renderButton("Clear", cur.kind == slotClear, true)
	sections = append(sections, buttons)

	// Question
	askText := "Ask"
	if m.sess.Asking() {
		askText = "Asking..."
	}
	labelStyle := t.FieldLabel
	if cur.kind == slotQuestion {
		labelStyle = t.FieldLabelFocused
	}
	sections = append(sections, "",
		labelStyle.Render("Ask a question"),
		m.question.View()+" "+m.renderButton(askText, cur.kind == slotAsk, m.sess.CanAsk()),
	)

	if turn := m.sess.Turn(); turn.HasSuggestions() {
		for i, s := range turn.FollowUpSuggestions {
			line := util.Truncate(strconv.Itoa(i+1)+". "+s, inner)
			style := t.Suggestion
			if cur.kind == slotSuggestion && cur.index == i {
				style = t.SelectorFocused
			}
			sections = append(sections, style.Render(line))
		}
	}

	if notice := m.sess.Notice(); notice != "" {
		for _, line := range util.Wrap(styles.StatusIndicators.Warning+" "+notice, inner) {
			sections = append(sections, t.Notice.Render(line))
		}
	}

	return strings.Join(sections, "\n")
}

func (m Model) renderField(f fieldInput, focused bool) string {
	t := m.theme
	labelStyle := t.FieldLabel
	if focused {
		labelStyle = t.FieldLabelFocused
	}
	label := labelStyle.Render(util.PadRight(util.Truncate(f.label, labelWidth-1), labelWidth))
	return label + f.input.View() + " " + t.FieldUnit.Render(f.unit)
}

func (m Model) renderSelector(label, value string, focused bool) string {
	t := m.theme
	if focused {
		return t.FieldLabelFocused.Render(label+" ") + t.SelectorFocused.Render("< "+value+" >")
	}
	return t.FieldLabel.Render(label+" ") + t.Selector.Render("< "+value+" >")
}

// renderButton draws a one-line button.
func (m Model) renderButton(text string, focused, enabled bool) string {
	style := m.theme.Button
	switch {
	case !enabled:
		style = m.theme.ButtonDisabled
	case focused:
		style = m.theme.ButtonFocused
	}
	return style.UnsetBorderStyle().Padding(0, 1).Render("[" + text + "]")
}

// =============================================================================
// RESULTS AND STATUS
// =============================================================================

func (m *Model) renderTurn(turn *model.ConversationTurn, width int) string {
	t := m.theme
	var sb strings.Builder
	sb.WriteString(t.PanelTitle.Render("Your Question"))
	sb.WriteByte('\n')
	for _, line := range util.Wrap(turn.Question, width) {
		sb.WriteString(t.FieldValue.Render(line))
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	sb.WriteString(t.PanelTitle.Render("Answer"))
	sb.WriteByte('\n')
	sb.WriteString(m.renderAnswer(turn.Answer, width))
	if len(turn.RelevantFacts) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(t.FieldLabel.Render("Relevant facts"))
		for _, fact := range turn.RelevantFacts {
			for i, line := range util.Wrap(fact, width-4) {
				prefix := "  - "
				if i > 0 {
					prefix = "    "
				}
				sb.WriteString("\n" + prefix + t.FieldValue.Render(line))
			}
		}
	}
	return sb.String()
}

// renderAnswer renders markdown answers with glamour, falling back to plain
// wrapped text.
func (m *Model) renderAnswer(text string, width int) string {
	plain := func() string {
		return m.theme.FieldValue.Render(strings.Join(util.Wrap(text, width), "\n"))
	}
	if !m.opts.RenderMarkdown {
		return plain()
	}
	if m.renderer == nil || m.rendererWidth != width {
		style := "light"
		if m.theme.IsDark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			log.Printf("analyzer: markdown renderer: %v", err)
			return plain()
		}
		m.renderer, m.rendererWidth = r, width
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return plain()
	}
	return strings.Trim(out, "\n")
}

func (m Model) renderStatusBar() string {
	s := m.status
	switch {
	case m.sess.Analyzing():
		s.Activity = components.ActivityAnalyzing
	case m.sess.Asking():
		s.Activity = components.ActivityAsking
	case m.exporting:
		s.Activity = components.ActivityExporting
	default:
		s.Activity = components.ActivityIdle
	}
	s.Spinner = m.spinner.View()
	sel := m.sess.Selector()
	s.Goal = sel.HealthGoal.Label()
	s.Diet = sel.DietType.Label()
	s.LastRound = m.sess.LastRound()

	s.Shortcuts = s.Shortcuts[:0]
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		s.Shortcuts = append(s.Shortcuts, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return s.View()
}
