// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nutrilens/internal/backend"
	"github.com/jeranaias/nutrilens/internal/export"
	"github.com/jeranaias/nutrilens/internal/labelfile"
	"github.com/jeranaias/nutrilens/internal/model"
	"github.com/jeranaias/nutrilens/internal/session"
	"github.com/jeranaias/nutrilens/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeBackend struct {
	mu      sync.Mutex
	rounds  int
	asked   []string
	healthy bool
	turn    model.ConversationTurn
}

func (f *fakeBackend) Simplify(ctx context.Context, rec model.NutritionRecord) (*model.Simplification, error) {
	f.mu.Lock()
	f.rounds++
	f.mu.Unlock()
	return &model.Simplification{
		Explanation:           "A high-protein snack.",
		DailyValuePercentages: map[string]float64{"protein": 34},
	}, nil
}

func (f *fakeBackend) HealthGoal(ctx context.Context, rec model.NutritionRecord, goal model.HealthGoal) (*model.GoalFit, error) {
	return &model.GoalFit{Verdict: "Good fit", Score: 85, Recommendation: "Enjoy."}, nil
}

func (f *fakeBackend) DietCompatibility(ctx context.Context, rec model.NutritionRecord, diet model.DietType) (*model.DietFit, error) {
	return &model.DietFit{Explanation: "Fine", Score: 70, IsCompatible: true}, nil
}

func (f *fakeBackend) Warnings(ctx context.Context, rec model.NutritionRecord) (*model.WarningReport, error) {
	return &model.WarningReport{AIAnalysis: "No concerns", OverallHealthScore: 90}, nil
}

func (f *fakeBackend) Ask(ctx context.Context, rec model.NutritionRecord, question, prior string) (*model.ConversationTurn, error) {
	f.mu.Lock()
	f.asked = append(f.asked, question)
	f.mu.Unlock()
	t := f.turn
	t.Question = question
	return &t, nil
}

func (f *fakeBackend) Health(ctx context.Context) (*backend.HealthStatus, error) {
	return &backend.HealthStatus{Status: "ok", ModelsLoaded: f.healthy}, nil
}

func newTestModel(t *testing.T, fake *fakeBackend, skipProbe bool) Model {
	t.Helper()
	m := New(Options{
		Theme:     styles.NewThemeFor("dark"),
		Session:   session.New(model.DefaultSelector()),
		Backend:   fake,
		SkipProbe: skipProbe,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	return next.(Model)
}

// send feeds msg to the model and returns the updated model and command.
func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(m Model, s string) Model {
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func pressKey(m Model, k tea.KeyType) (Model, tea.Cmd) {
	return send(m, tea.KeyMsg{Type: k})
}

// runCmd executes cmd and flattens batches. Commands that block longer than
// a second (ticks, watchers) are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runCmd(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(time.Second):
		return nil
	}
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// fillYogurt types a food name and calories into the form.
func fillYogurt(m Model) Model {
	m.focusOn(slotField, 0)
	m = typeText(m, "Greek Yogurt")
	m.focusOn(slotField, 2) // calories
	return typeText(m, "100")
}

// =============================================================================
// READINESS
// =============================================================================

func TestNew_SkipProbe(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, true)
	assert.True(t, m.Session().Ready())
	assert.True(t, m.Session().Probed())
	assert.Contains(t, m.View(), "AI Ready")
}

func TestInit_ProbeNotReady(t *testing.T) {
	fake := &fakeBackend{healthy: false}
	m := newTestModel(t, fake, false)
	assert.Contains(t, m.View(), "Loading AI...")

	ready, ok := findMsg[ReadinessMsg](runCmd(m.Init()))
	require.True(t, ok, "Init should probe the backend")
	assert.False(t, ready.Ready)

	m, _ = send(m, ready)
	assert.True(t, m.Session().Probed())
	assert.False(t, m.Session().CanAnalyze())

	m = fillYogurt(m)
	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Nil(t, cmd, "analysis must stay disabled")
	assert.Equal(t, 0, fake.rounds)
}

func TestInit_ProbeReady(t *testing.T) {
	m := newTestModel(t, &fakeBackend{healthy: true}, false)
	ready, ok := findMsg[ReadinessMsg](runCmd(m.Init()))
	require.True(t, ok)

	m, _ = send(m, ready)
	assert.True(t, m.Session().Ready())
	assert.Contains(t, m.View(), "AI Ready")
}

// =============================================================================
// FORM
// =============================================================================

func TestTyping_UpdatesSession(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, true)
	m = fillYogurt(m)

	rec := m.Session().Record()
	assert.Equal(t, "Greek Yogurt", rec.FoodName)
	v, _ := rec.Get("calories")
	assert.Equal(t, "100", v)
}

func TestTab_WrapsFocus(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, true)
	n := len(m.slots())

	for i := 0; i < n; i++ {
		m, _ = pressKey(m, tea.KeyTab)
	}
	assert.Equal(t, slot{kind: slotField, index: 0}, m.current())

	m, _ = pressKey(m, tea.KeyShiftTab)
	assert.Equal(t, slotAsk, m.current().kind)
}

func TestSelectors_Cycle(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, true)
	start := m.Session().Selector()

	m.focusOn(slotGoal, 0)
	m, _ = pressKey(m, tea.KeyRight)
	assert.Equal(t, model.NextGoal(start.HealthGoal), m.Session().Selector().HealthGoal)
	m, _ = pressKey(m, tea.KeyLeft)
	assert.Equal(t, start.HealthGoal, m.Session().Selector().HealthGoal)

	m.focusOn(slotDiet, 0)
	m, _ = pressKey(m, tea.KeyLeft)
	diets := model.DietTypes()
	assert.Equal(t, diets[len(diets)-1], m.Session().Selector().DietType)
}

// =============================================================================
// ANALYSIS
// =============================================================================

func TestAnalyze_Round(t *testing.T) {
	fake := &fakeBackend{}
	m := fillYogurt(newTestModel(t, fake, true))

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	assert.True(t, m.Session().Analyzing())
	assert.Contains(t, m.View(), "Analyzing...")

	done, ok := findMsg[RoundDoneMsg](runCmd(cmd))
	require.True(t, ok)
	require.NoError(t, done.Err)

	m, _ = send(m, done)
	assert.False(t, m.Session().Analyzing())
	assert.True(t, m.Session().Results().Complete())
	assert.Contains(t, m.viewport.View(), "Simplified Label")
}

func TestAnalyze_ValidationNotice(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, true)

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Nil(t, cmd)
	assert.Contains(t, m.Session().Notice(), "food name and calories")
	assert.Contains(t, m.View(), "Please fill in")

	m, _ = pressKey(m, tea.KeyEsc)
	assert.Empty(t, m.Session().Notice())
}

func TestClear_DiscardsInFlightRound(t *testing.T) {
	m := fillYogurt(newTestModel(t, &fakeBackend{}, true))

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, m.fields[0].input.Value(), "inputs follow the cleared record")
	assert.Equal(t, model.DefaultServingSize, m.fields[1].input.Value())

	done, ok := findMsg[RoundDoneMsg](runCmd(cmd))
	require.True(t, ok)
	m, _ = send(m, done)
	assert.True(t, m.Session().Results().IsEmpty(), "late round must be dropped")
}

// =============================================================================
// QUESTIONS
// =============================================================================

func TestAsk_AndSelectSuggestion(t *testing.T) {
	fake := &fakeBackend{turn: model.ConversationTurn{
		Answer:              "No, due to natural sugars.",
		FollowUpSuggestions: []string{"What are better keto snacks?"},
	}}
	m := fillYogurt(newTestModel(t, fake, true))

	m.focusOn(slotQuestion, 0)
	m = typeText(m, "Is this keto friendly?")
	assert.Equal(t, "Is this keto friendly?", m.Session().Question())

	m, cmd := pressKey(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	done, ok := findMsg[AskDoneMsg](runCmd(cmd))
	require.True(t, ok)

	m, _ = send(m, done)
	require.NotNil(t, m.Session().Turn())
	assert.Equal(t, []string{"Is this keto friendly?"}, fake.asked)
	assert.Empty(t, m.question.Value())
	assert.Contains(t, m.View(), "1. What are better keto snacks?")

	m.focusOn(slotSuggestion, 0)
	m, cmd = pressKey(m, tea.KeyEnter)
	assert.Nil(t, cmd, "selecting a suggestion sends nothing")
	assert.Equal(t, "What are better keto snacks?", m.question.Value())
	assert.Equal(t, "What are better keto snacks?", m.Session().Question())
	assert.Equal(t, slotQuestion, m.current().kind)
	assert.Len(t, fake.asked, 1)
}

func TestAsk_BlankQuestionIgnored(t *testing.T) {
	m := fillYogurt(newTestModel(t, &fakeBackend{}, true))
	m.focusOn(slotAsk, 0)
	_, cmd := pressKey(m, tea.KeyEnter)
	assert.Nil(t, cmd)
}

// =============================================================================
// WATCH AND EXPORT
// =============================================================================

func TestLabelReload(t *testing.T) {
	sess := session.New(model.DefaultSelector())
	events := make(chan labelfile.Event, 1)
	m := New(Options{
		Session:   sess,
		Backend:   &fakeBackend{},
		SkipProbe: true,
		Events:    events,
		Reload: func(l *labelfile.Label) error {
			return l.Apply(sess, true)
		},
	})
	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 50})

	label := &labelfile.Label{Values: []labelfile.Value{
		{Name: model.FieldFoodName, Raw: "Almonds"},
		{Name: "calories", Raw: "160"},
	}}
	m, cmd := send(m, LabelReloadMsg{Event: labelfile.Event{Label: label}})
	assert.NotNil(t, cmd, "the watcher is waited on again")
	assert.Equal(t, "Almonds", m.fields[0].input.Value())
	assert.Equal(t, "Almonds", sess.Record().FoodName)

	m, _ = send(m, LabelReloadMsg{Event: labelfile.Event{Err: errors.New("bad yaml")}})
	assert.Contains(t, m.View(), "Label reload failed")
}

func TestExport(t *testing.T) {
	var got *export.Report
	m := New(Options{
		Backend:   &fakeBackend{},
		SkipProbe: true,
		Export: func(r *export.Report) (string, error) {
			got = r
			return "nutrition-greek-yogurt.md", nil
		},
	})
	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 50})

	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Nil(t, cmd, "empty food name is refused")

	m = fillYogurt(m)
	m, cmd = send(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	require.NotNil(t, cmd)
	done, ok := findMsg[ExportDoneMsg](runCmd(cmd))
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, "Greek Yogurt", got.Record.FoodName)

	m, _ = send(m, done)
	assert.False(t, m.exporting)
	assert.True(t, strings.Contains(m.View(), "Saved report"))
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, true)
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlQ} {
		_, cmd := pressKey(m, k)
		require.NotNil(t, cmd)
		_, isQuit := cmd().(tea.QuitMsg)
		assert.True(t, isQuit)
	}
}
