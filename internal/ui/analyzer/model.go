// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/nutrilens/internal/export"
	"github.com/jeranaias/nutrilens/internal/labelfile"
	"github.com/jeranaias/nutrilens/internal/model"
	"github.com/jeranaias/nutrilens/internal/session"
	"github.com/jeranaias/nutrilens/internal/ui/components"
	"github.com/jeranaias/nutrilens/internal/ui/styles"
)

// DefaultProbeTimeout bounds the startup readiness check.
const DefaultProbeTimeout = 10 * time.Second

// Backend is everything the screen sends requests to. *backend.Client
// implements it.
type Backend interface {
	session.Analyzer
	session.Asker
	session.Prober
}

// ExportFunc writes a report and returns the file path.
type ExportFunc func(*export.Report) (string, error)

// Options configures a Model.
type Options struct {
	Theme   *styles.Theme
	Session *session.Session
	Backend Backend

	// SkipProbe marks the session ready without asking the backend.
	SkipProbe    bool
	ProbeTimeout time.Duration

	// RenderMarkdown renders answers with glamour.
	RenderMarkdown bool

	// Events and Reload enable watch mode. Reload applies a reloaded label
	// to the session.
	Events <-chan labelfile.Event
	Reload func(*labelfile.Label) error

	// Export writes the report for ctrl+e. Nil writes markdown to the
	// working directory.
	Export ExportFunc

	// Context is the parent of every backend request.
	Context context.Context
}

// =============================================================================
// FOCUS
// =============================================================================

type slotKind int

const (
	slotField slotKind = iota
	slotGoal
	slotDiet
	slotAnalyze
	slotClear
	slotQuestion
	slotAsk
	slotSuggestion
)

// slot is one focusable element. index is the field or suggestion number.
type slot struct {
	kind  slotKind
	index int
}

// fieldInput is the text input of one record field.
type fieldInput struct {
	name  string
	label string
	unit  string
	input textinput.Model
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the analyzer screen.
type Model struct {
	opts  Options
	ctx   context.Context
	theme *styles.Theme
	sess  *session.Session

	fields   []fieldInput
	question textinput.Model
	focus    int

	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     KeyMap
	showHelp bool

	header *components.Header
	status *components.StatusBar
	toasts *components.ToastManager

	exporting bool

	// answer renderer, rebuilt when the results width changes
	renderer      *glamour.TermRenderer
	rendererWidth int

	width  int
	height int
}

// New creates the screen. The session is marked ready immediately when
// opts.SkipProbe is set.
func New(opts Options) Model {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme()
	}
	if opts.Session == nil {
		opts.Session = session.New(model.DefaultSelector())
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.Export == nil {
		opts.Export = defaultExport
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	m := Model{
		opts:     opts,
		ctx:      ctx,
		theme:    opts.Theme,
		sess:     opts.Session,
		viewport: viewport.New(60, 20),
		help:     help.New(),
		keys:     DefaultKeyMap(),
		header:   components.NewHeader(opts.Theme),
		status:   components.NewStatusBar(opts.Theme),
		toasts:   components.NewToastManager(),
	}

	for _, name := range model.FieldNames() {
		fi := fieldInput{name: name, label: fieldLabel(name)}
		if spec, ok := model.LookupField(name); ok {
			fi.unit = spec.Unit
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 80
		ti.Placeholder = fieldPlaceholder(name)
		fi.input = ti
		m.fields = append(m.fields, fi)
	}

	q := textinput.New()
	q.Prompt = "> "
	q.Placeholder = "Ask about this food..."
	q.CharLimit = 500
	m.question = q

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.LineSpinner.Frames,
		FPS:    styles.LineSpinner.Duration(),
	}
	sp.Style = m.theme.Spinner
	m.spinner = sp

	if opts.SkipProbe {
		m.sess.SetReady(true)
	}

	m.syncInputs()
	m.applyFocus()
	m.refreshResults()
	return m
}

// Session returns the session the screen edits.
func (m Model) Session() *session.Session { return m.sess }

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the probe, the spinner, toast expiry and the label watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, components.ToastTickCmd()}
	if !m.sess.Probed() {
		cmds = append(cmds, probeCmd(m.ctx, m.opts.Backend, m.opts.ProbeTimeout))
	}
	if cmd := waitForLabel(m.opts.Events); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

func fieldLabel(name string) string {
	switch name {
	case model.FieldFoodName:
		return "Food name"
	case model.FieldServingSize:
		return "Serving size"
	}
	if spec, ok := model.LookupField(name); ok {
		return spec.Label
	}
	return name
}

func fieldPlaceholder(name string) string {
	switch name {
	case model.FieldFoodName:
		return "e.g. Greek Yogurt"
	case model.FieldServingSize:
		return model.DefaultServingSize
	}
	return ""
}

// syncInputs copies the session record and question into the inputs.
func (m *Model) syncInputs() {
	rec := m.sess.Record()
	for i := range m.fields {
		v, _ := rec.Get(m.fields[i].name)
		m.fields[i].input.SetValue(v)
	}
	m.question.SetValue(m.sess.Question())
}

// slots returns the focus order: fields, selectors, buttons, the question
// and the current suggestions.
func (m Model) slots() []slot {
	out := make([]slot, 0, len(m.fields)+8)
	for i := range m.fields {
		out = append(out, slot{kind: slotField, index: i})
	}
	out = append(out,
		slot{kind: slotGoal},
		slot{kind: slotDiet},
		slot{kind: slotAnalyze},
		slot{kind: slotClear},
		slot{kind: slotQuestion},
		slot{kind: slotAsk},
	)
	if turn := m.sess.Turn(); turn != nil {
		for i := range turn.FollowUpSuggestions {
			out = append(out, slot{kind: slotSuggestion, index: i})
		}
	}
	return out
}

func (m Model) current() slot {
	s := m.slots()
	if m.focus < 0 || m.focus >= len(s) {
		return s[0]
	}
	return s[m.focus]
}

// moveFocus steps through the focus order, wrapping at both ends.
func (m *Model) moveFocus(delta int) {
	n := len(m.slots())
	m.focus = ((m.focus+delta)%n + n) % n
	m.applyFocus()
}

// focusOn moves the focus to the first slot of kind.
func (m *Model) focusOn(kind slotKind, index int) {
	for i, s := range m.slots() {
		if s.kind == kind && s.index == index {
			m.focus = i
			break
		}
	}
	m.applyFocus()
}

// applyFocus focuses the text input under the cursor and blurs the rest.
func (m *Model) applyFocus() {
	if n := len(m.slots()); m.focus >= n {
		m.focus = n - 1
	}
	cur := m.current()
	for i := range m.fields {
		if cur.kind == slotField && cur.index == i {
			m.fields[i].input.Focus()
		} else {
			m.fields[i].input.Blur()
		}
	}
	if cur.kind == slotQuestion {
		m.question.Focus()
	} else {
		m.question.Blur()
	}
}

func cycleGoal(g model.HealthGoal, delta int) model.HealthGoal {
	steps := delta
	if delta < 0 {
		steps = len(model.HealthGoals()) - 1
	}
	for i := 0; i < steps; i++ {
		g = model.NextGoal(g)
	}
	return g
}

func cycleDiet(d model.DietType, delta int) model.DietType {
	steps := delta
	if delta < 0 {
		steps = len(model.DietTypes()) - 1
	}
	for i := 0; i < steps; i++ {
		d = model.NextDiet(d)
	}
	return d
}

func defaultExport(r *export.Report) (string, error) {
	opts := export.DefaultOptions()
	exporter, err := export.ForFormat("markdown", opts)
	if err != nil {
		return "", err
	}
	return export.ExportToFile(r, exporter, opts)
}
