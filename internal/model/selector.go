// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// label turns a snake_case wire value into a title-cased label.
// Casers are stateful, so each call gets its own.
func label(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// =============================================================================
// HEALTH GOAL
// =============================================================================

// HealthGoal is the goal a food is evaluated against.
type HealthGoal string

const (
	GoalWeightLoss         HealthGoal = "weight_loss"
	GoalMuscleGain         HealthGoal = "muscle_gain"
	GoalHeartHealth        HealthGoal = "heart_health"
	GoalDiabetesManagement HealthGoal = "diabetes_management"
)

// HealthGoals returns every goal in display order.
func HealthGoals() []HealthGoal {
	return []HealthGoal{GoalWeightLoss, GoalMuscleGain, GoalHeartHealth, GoalDiabetesManagement}
}

// Label returns the display label, e.g. "Weight Loss".
func (g HealthGoal) Label() string { return label(string(g)) }

// Valid reports whether g is a known goal.
func (g HealthGoal) Valid() bool {
	for _, known := range HealthGoals() {
		if g == known {
			return true
		}
	}
	return false
}

// ParseHealthGoal accepts wire values and labels ("weight_loss", "Weight Loss", "weight-loss").
func ParseHealthGoal(s string) (HealthGoal, error) {
	g := HealthGoal(normalizeChoice(s))
	if !g.Valid() {
		return "", fmt.Errorf("unknown health goal %q", s)
	}
	return g, nil
}

// =============================================================================
// DIET TYPE
// =============================================================================

// DietType is the diet a food is checked against.
type DietType string

const (
	DietKeto          DietType = "keto"
	DietVegan         DietType = "vegan"
	DietPaleo         DietType = "paleo"
	DietMediterranean DietType = "mediterranean"
	DietLowSodium     DietType = "low_sodium"
)

// DietTypes returns every diet in display order.
func DietTypes() []DietType {
	return []DietType{DietKeto, DietVegan, DietPaleo, DietMediterranean, DietLowSodium}
}

// Label returns the display label, e.g. "Low Sodium".
func (d DietType) Label() string { return label(string(d)) }

// Valid reports whether d is a known diet.
func (d DietType) Valid() bool {
	for _, known := range DietTypes() {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDietType accepts wire values and labels.
func ParseDietType(s string) (DietType, error) {
	d := DietType(normalizeChoice(s))
	if !d.Valid() {
		return "", fmt.Errorf("unknown diet type %q", s)
	}
	return d, nil
}

func normalizeChoice(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// =============================================================================
// SELECTOR
// =============================================================================

// Selector holds the goal and diet used by the next analysis round.
type Selector struct {
	HealthGoal HealthGoal `json:"health_goal"`
	DietType   DietType   `json:"diet_type"`
}

// DefaultSelector returns weight_loss and keto.
func DefaultSelector() Selector {
	return Selector{HealthGoal: GoalWeightLoss, DietType: DietKeto}
}

// NextGoal cycles to the goal after g.
func NextGoal(g HealthGoal) HealthGoal {
	all := HealthGoals()
	for i, known := range all {
		if known == g {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// NextDiet cycles to the diet after d.
func NextDiet(d DietType) DietType {
	all := DietTypes()
	for i, known := range all {
		if known == d {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}
