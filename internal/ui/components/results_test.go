// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/nutrilens/internal/model"
	"github.com/jeranaias/nutrilens/internal/ui/styles"
)

func sampleResults() model.ResultSet {
	return model.ResultSet{
		Simplification: &model.Simplification{
			Explanation:           "Greek yogurt is a high-protein snack with modest sugar.",
			DailyValuePercentages: map[string]float64{"protein": 34, "sodium": 3},
			KeyInsights:           []string{"High in protein"},
		},
		HealthGoal: &model.GoalFit{
			Verdict:        "Good fit",
			Score:          82,
			Recommendation: "Pair with berries.",
		},
		DietCompatibility: &model.DietFit{
			Explanation:      "Contains dairy.",
			Score:            10,
			IsCompatible:     false,
			SpecificConcerns: []string{"Dairy protein"},
		},
		Warnings: &model.WarningReport{
			AIAnalysis:             "Generally healthy.",
			HealthWarnings:         []string{"Added sugar in flavored varieties"},
			AlternativeSuggestions: []string{"Plain skyr"},
			OverallHealthScore:     75,
		},
	}
}

func TestRenderResults_Empty(t *testing.T) {
	out := RenderResults(styles.NewTheme(), model.ResultSet{}, model.DefaultSelector(), 80)
	if !strings.Contains(out, "run the analysis") {
		t.Errorf("expected placeholder, got:\n%s", out)
	}
}

func TestRenderResults_AllSections(t *testing.T) {
	sel := model.Selector{HealthGoal: model.GoalMuscleGain, DietType: model.DietVegan}
	out := RenderResults(styles.NewTheme(), sampleResults(), sel, 80)

	for _, want := range []string{
		"Simplified Label",
		"High in protein",
		"% Daily Value",
		"Protein",
		"34%",
		"Health Goal: Muscle Gain",
		"Good fit",
		"82/100",
		"Diet Compatibility: Vegan",
		"Not compatible",
		"Dairy protein",
		"Health Warnings",
		"75/100",
		"Plain skyr",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("results missing %q:\n%s", want, out)
		}
	}
}

func TestRenderResults_Partial(t *testing.T) {
	rs := model.ResultSet{Warnings: sampleResults().Warnings}
	out := RenderResults(styles.NewTheme(), rs, model.DefaultSelector(), 60)

	if strings.Contains(out, "Simplified Label") {
		t.Error("absent slot should not render")
	}
	if !strings.Contains(out, "Health Warnings") {
		t.Errorf("missing warnings section:\n%s", out)
	}
}
