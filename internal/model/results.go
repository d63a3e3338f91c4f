// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "sort"

// =============================================================================
// ANALYSIS RESULTS
// =============================================================================

// Simplification is the plain-language reading of a label.
type Simplification struct {
	Explanation           string             `json:"simplified_explanation"`
	DailyValuePercentages map[string]float64 `json:"daily_value_percentages"`
	KeyInsights           []string           `json:"key_insights,omitempty"`
}

// SortedPercentages returns the daily-value entries ordered by label order,
// with unknown nutrient names appended alphabetically.
func (s *Simplification) SortedPercentages() []Percentage {
	if s == nil || len(s.DailyValuePercentages) == 0 {
		return nil
	}
	out := make([]Percentage, 0, len(s.DailyValuePercentages))
	seen := make(map[string]bool, len(s.DailyValuePercentages))
	for _, f := range nutrientFields {
		if v, ok := s.DailyValuePercentages[f.Name]; ok {
			out = append(out, Percentage{Nutrient: f.Name, Label: f.Label, Percent: v})
			seen[f.Name] = true
		}
	}
	var rest []string
	for name := range s.DailyValuePercentages {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, Percentage{Nutrient: name, Label: label(name), Percent: s.DailyValuePercentages[name]})
	}
	return out
}

// Percentage is one daily-value entry.
type Percentage struct {
	Nutrient string
	Label    string
	Percent  float64
}

// InfoBlock is the catalogue entry the backend attaches to goal and diet results.
type InfoBlock struct {
	Description string `json:"description,omitempty"`
}

// GoalFit is how well a food suits the selected health goal.
type GoalFit struct {
	HealthGoal     HealthGoal `json:"health_goal,omitempty"`
	Verdict        string     `json:"suitability_verdict"`
	Score          float64    `json:"suitability_score"`
	Recommendation string     `json:"recommendation"`
	GoalInfo       *InfoBlock `json:"goal_info,omitempty"`
}

// DietFit is how well a food fits the selected diet.
type DietFit struct {
	DietType         DietType   `json:"diet_type,omitempty"`
	Explanation      string     `json:"compatibility_explanation"`
	Score            float64    `json:"compatibility_score"`
	IsCompatible     bool       `json:"is_compatible"`
	SpecificConcerns []string   `json:"specific_concerns"`
	DietInfo         *InfoBlock `json:"diet_info,omitempty"`
}

// WarningReport lists health warnings and healthier alternatives.
type WarningReport struct {
	AIAnalysis             string   `json:"ai_analysis"`
	HealthWarnings         []string `json:"health_warnings"`
	AlternativeSuggestions []string `json:"alternative_suggestions"`
	OverallHealthScore     float64  `json:"overall_health_score"`
	ImprovementTips        []string `json:"improvement_tips,omitempty"`
}

// =============================================================================
// RESULT SET
// =============================================================================

// ResultSet holds the four results of the last successful round. A nil slot
// was never filled.
type ResultSet struct {
	Simplification    *Simplification `json:"simplification,omitempty"`
	HealthGoal        *GoalFit        `json:"health_goal,omitempty"`
	DietCompatibility *DietFit        `json:"diet_compatibility,omitempty"`
	Warnings          *WarningReport  `json:"warnings,omitempty"`
}

// IsEmpty reports whether no slot is filled.
func (r ResultSet) IsEmpty() bool {
	return r.Simplification == nil && r.HealthGoal == nil && r.DietCompatibility == nil && r.Warnings == nil
}

// Complete reports whether all four slots are filled.
func (r ResultSet) Complete() bool {
	return r.Simplification != nil && r.HealthGoal != nil && r.DietCompatibility != nil && r.Warnings != nil
}

// SimplificationText returns the latest explanation, or "" when absent.
func (r ResultSet) SimplificationText() string {
	if r.Simplification == nil {
		return ""
	}
	return r.Simplification.Explanation
}

// ScoreBand buckets a 0-100 score for display.
func ScoreBand(score float64) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "poor"
	}
}
