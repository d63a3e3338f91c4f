// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/nutrilens/internal/model"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the state of one user session. It has a single writer and is
// not safe for concurrent use.
type Session struct {
	id        string
	startTime time.Time

	record   model.NutritionRecord
	selector model.Selector
	results  model.ResultSet
	turn     *model.ConversationTurn
	question string // pending question text

	ready  bool
	probed bool

	analyzing bool
	asking    bool
	notice    string
	lastRound time.Time

	// epoch changes on Clear so late results can be recognized.
	epoch uint64
}

// New creates a session with an empty record and the given selector.
func New(sel model.Selector) *Session {
	if !sel.HealthGoal.Valid() {
		sel.HealthGoal = model.DefaultSelector().HealthGoal
	}
	if !sel.DietType.Valid() {
		sel.DietType = model.DefaultSelector().DietType
	}
	return &Session{
		id:        "sess_" + uuid.NewString(),
		startTime: time.Now(),
		record:    model.NewNutritionRecord(),
		selector:  sel,
	}
}

// ID returns the session id used in logs.
func (s *Session) ID() string { return s.id }

// StartTime returns when the session was created.
func (s *Session) StartTime() time.Time { return s.startTime }

// =============================================================================
// INPUT
// =============================================================================

// SetField stores raw input into the named record field and returns the
// updated record. Text fields are stored verbatim; nutrient fields are
// coerced ("" unset, unparsable 0). Unknown names return ErrUnknownField and
// leave the record unchanged.
func (s *Session) SetField(name, raw string) (model.NutritionRecord, error) {
	if err := s.record.Set(name, raw); err != nil {
		return s.record, err
	}
	return s.record, nil
}

// Record returns the current record.
func (s *Session) Record() model.NutritionRecord { return s.record }

// Selector returns the current goal and diet.
func (s *Session) Selector() model.Selector { return s.selector }

// SetHealthGoal replaces the selected goal.
func (s *Session) SetHealthGoal(g model.HealthGoal) error {
	if !g.Valid() {
		return fmt.Errorf("unknown health goal %q", g)
	}
	s.selector.HealthGoal = g
	return nil
}

// SetDietType replaces the selected diet.
func (s *Session) SetDietType(d model.DietType) error {
	if !d.Valid() {
		return fmt.Errorf("unknown diet type %q", d)
	}
	s.selector.DietType = d
	return nil
}

// Clear resets the record, results, conversation turn, pending question and
// notice. Selectors and readiness are kept. Rounds and questions still in
// flight will have their results discarded.
func (s *Session) Clear() model.NutritionRecord {
	s.record = model.NewNutritionRecord()
	s.results = model.ResultSet{}
	s.turn = nil
	s.question = ""
	s.notice = ""
	s.lastRound = time.Time{}
	s.epoch++
	return s.record
}

// =============================================================================
// READINESS
// =============================================================================

// SetReady records the readiness probe result. Only the first call counts.
func (s *Session) SetReady(ready bool) {
	if s.probed {
		return
	}
	s.probed = true
	s.ready = ready
}

// Ready reports whether the backend passed the readiness probe.
func (s *Session) Ready() bool { return s.ready }

// Probed reports whether the readiness probe has completed.
func (s *Session) Probed() bool { return s.probed }

// =============================================================================
// ANALYSIS ROUND
// =============================================================================

// RoundTicket carries the inputs of one round from BeginRound to EndRound.
type RoundTicket struct {
	ID       string
	Record   model.NutritionRecord
	Selector model.Selector
	Started  time.Time

	epoch uint64
}

// CanAnalyze reports whether the analyze action is enabled. The record is
// validated by BeginRound, not here.
func (s *Session) CanAnalyze() bool {
	return s.ready && !s.analyzing
}

// Analyzing reports whether a round is in flight.
func (s *Session) Analyzing() bool { return s.analyzing }

// BeginRound validates the record and marks a round in flight.
func (s *Session) BeginRound() (RoundTicket, error) {
	if s.analyzing {
		return RoundTicket{}, ErrRoundInFlight
	}
	if !s.ready {
		return RoundTicket{}, ErrBackendNotReady
	}
	if err := ValidateForAnalysis(s.record); err != nil {
		s.notice = UserMessage(err)
		return RoundTicket{}, err
	}

	s.analyzing = true
	s.notice = ""
	t := RoundTicket{
		ID:       uuid.NewString(),
		Record:   s.record,
		Selector: s.selector,
		Started:  time.Now(),
		epoch:    s.epoch,
	}
	log.Printf("session %s: round %s started for %q (%s, %s)", s.id, t.ID, t.Record.FoodName, t.Selector.HealthGoal, t.Selector.DietType)
	return t, nil
}

// EndRound clears the busy flag and applies a finished round. On success all
// four results are replaced; on failure they are kept and a notice is set.
// It returns false when the round was discarded because of a Clear.
func (s *Session) EndRound(t RoundTicket, results model.ResultSet, err error) bool {
	s.analyzing = false
	if t.epoch != s.epoch {
		log.Printf("session %s: round %s discarded after clear", s.id, t.ID)
		return false
	}
	if err != nil {
		s.notice = UserMessage(err)
		return true
	}
	s.results = results
	s.lastRound = time.Now()
	return true
}

// Analyze runs a full round with orch.
func (s *Session) Analyze(ctx context.Context, orch *Orchestrator) error {
	t, err := s.BeginRound()
	if err != nil {
		return err
	}
	results, err := orch.RunAll(ctx, t.Record, t.Selector)
	s.EndRound(t, results, err)
	return err
}

// Results returns the results of the last successful round.
func (s *Session) Results() model.ResultSet { return s.results }

// LastRound returns when results were last replaced.
func (s *Session) LastRound() time.Time { return s.lastRound }

// =============================================================================
// CONVERSATION
// =============================================================================

// AskTicket carries one question from BeginAsk to EndAsk.
type AskTicket struct {
	Question string
	Record   model.NutritionRecord
	Context  string

	epoch uint64
}

// Question returns the pending question text.
func (s *Session) Question() string { return s.question }

// SetQuestion replaces the pending question text.
func (s *Session) SetQuestion(q string) { s.question = q }

// Turn returns the latest conversation turn, or nil.
func (s *Session) Turn() *model.ConversationTurn { return s.turn }

// Asking reports whether a question is in flight.
func (s *Session) Asking() bool { return s.asking }

// CanAsk reports whether the ask action is enabled.
func (s *Session) CanAsk() bool {
	return !s.asking && strings.TrimSpace(s.question) != ""
}

// SelectSuggestion copies the i-th follow-up suggestion into the pending
// question. No request is sent.
func (s *Session) SelectSuggestion(i int) error {
	text, ok := s.turn.Suggestion(i)
	if !ok {
		return ErrNoSuggestion
	}
	s.question = text
	return nil
}

// BeginAsk validates the pending question and marks a question in flight.
func (s *Session) BeginAsk() (AskTicket, error) {
	if s.asking {
		return AskTicket{}, ErrAskInFlight
	}
	if err := ValidateQuestion(s.question, s.record); err != nil {
		s.notice = UserMessage(err)
		return AskTicket{}, err
	}
	s.asking = true
	s.notice = ""
	return AskTicket{
		Question: s.question,
		Record:   s.record,
		Context:  s.results.SimplificationText(),
		epoch:    s.epoch,
	}, nil
}

// EndAsk clears the busy flag and applies an answered question. On failure
// the previous turn is kept. It returns false when the answer was discarded
// because of a Clear.
func (s *Session) EndAsk(t AskTicket, turn model.ConversationTurn, err error) bool {
	s.asking = false
	if t.epoch != s.epoch {
		log.Printf("session %s: answer to %q discarded after clear", s.id, t.Question)
		return false
	}
	if err != nil {
		s.notice = UserMessage(err)
		return true
	}
	s.turn = &turn
	return true
}

// Ask sends the pending question with conv.
func (s *Session) Ask(ctx context.Context, conv *Conversation) error {
	t, err := s.BeginAsk()
	if err != nil {
		return err
	}
	turn, err := conv.Ask(ctx, t.Question, t.Record, t.Context)
	s.EndAsk(t, turn, err)
	return err
}

// =============================================================================
// NOTICE
// =============================================================================

// Notice returns the last user-facing message, or "".
func (s *Session) Notice() string { return s.notice }

// DismissNotice clears the notice.
func (s *Session) DismissNotice() { s.notice = "" }

// =============================================================================
// SNAPSHOT
// =============================================================================

// ViewState is a read-only copy of a session for presentation.
type ViewState struct {
	SessionID  string
	Record     model.NutritionRecord
	Selector   model.Selector
	Results    model.ResultSet
	Turn       *model.ConversationTurn
	Question   string
	Ready      bool
	Probed     bool
	Analyzing  bool
	Asking     bool
	CanAnalyze bool
	CanAsk     bool
	Notice     string
	LastRound  time.Time
}

// Snapshot returns the current view state.
func (s *Session) Snapshot() ViewState {
	return ViewState{
		SessionID:  s.id,
		Record:     s.record,
		Selector:   s.selector,
		Results:    s.results,
		Turn:       s.turn,
		Question:   s.question,
		Ready:      s.ready,
		Probed:     s.probed,
		Analyzing:  s.analyzing,
		Asking:     s.asking,
		CanAnalyze: s.CanAnalyze(),
		CanAsk:     s.CanAsk(),
		Notice:     s.notice,
		LastRound:  s.lastRound,
	}
}
