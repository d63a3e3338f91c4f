// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"time"

	"github.com/jeranaias/nutrilens/internal/model"
	"github.com/jeranaias/nutrilens/internal/session"
)

// ErrEmptyReport is returned when there is no food to report on.
var ErrEmptyReport = errors.New("nothing to export: enter a food name first")

// =============================================================================
// REPORT
// =============================================================================

// Report is an export snapshot of one session.
type Report struct {
	SessionID  string                  `json:"session_id"`
	ExportedAt time.Time               `json:"exported_at"`
	AnalyzedAt time.Time               `json:"analyzed_at,omitzero"`
	Record     model.NutritionRecord   `json:"nutrition_data"`
	Selector   model.Selector          `json:"selector"`
	Results    model.ResultSet         `json:"results"`
	Turn       *model.ConversationTurn `json:"conversation,omitempty"`
}

// NewReport copies the exportable parts of a view state.
func NewReport(vs session.ViewState) *Report {
	r := &Report{
		SessionID:  vs.SessionID,
		ExportedAt: time.Now(),
		AnalyzedAt: vs.LastRound,
		Record:     vs.Record,
		Selector:   vs.Selector,
		Results:    vs.Results,
	}
	if vs.Turn != nil {
		turn := *vs.Turn
		r.Turn = &turn
	}
	return r
}

// Title is the report heading.
func (r *Report) Title() string {
	if r.Record.FoodName == "" {
		return "Nutrition Report"
	}
	return r.Record.FoodName
}

// validate rejects reports without a food name.
func (r *Report) validate() error {
	if r == nil || r.Record.FoodName == "" {
		return ErrEmptyReport
	}
	return nil
}

// nutrientRows returns the set nutrients as label, amount-with-unit pairs.
func (r *Report) nutrientRows() [][2]string {
	var rows [][2]string
	for _, f := range model.NutrientFields() {
		v, _ := r.Record.Nutrient(f.Name)
		amount, ok := v.Float()
		if !ok {
			continue
		}
		text := formatAmount(amount)
		if f.Unit != "" {
			text += " " + f.Unit
		}
		rows = append(rows, [2]string{f.Label, text})
	}
	return rows
}
