// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestScoreColor(t *testing.T) {
	tests := []struct {
		score float64
		want  lipgloss.AdaptiveColor
	}{
		{100, Emerald},
		{80, Emerald},
		{79.9, Lime},
		{60, Lime},
		{45, Amber},
		{39, Rose},
		{0, Rose},
	}
	for _, tc := range tests {
		if got := ScoreColor(tc.score); got != tc.want {
			t.Errorf("ScoreColor(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestDailyValueColor(t *testing.T) {
	if DailyValueColor(25) != Amber {
		t.Error("25% should be high")
	}
	if DailyValueColor(3) != TextMuted {
		t.Error("3% should be low")
	}
	if DailyValueColor(12) != TextPrimary {
		t.Error("12% should be neutral")
	}
}

func TestRenderHelpersIncludeIndicators(t *testing.T) {
	tests := []struct {
		name      string
		render    func(string) string
		indicator string
	}{
		{"success", RenderSuccess, StatusIndicators.Success},
		{"error", RenderError, StatusIndicators.Error},
		{"warning", RenderWarning, StatusIndicators.Warning},
		{"info", RenderInfo, StatusIndicators.Info},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := tc.render("saved")
			if !strings.Contains(out, tc.indicator) || !strings.Contains(out, "saved") {
				t.Errorf("got %q", out)
			}
		})
	}
}
