// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nutrilens/internal/model"
	"github.com/jeranaias/nutrilens/internal/ui/styles"
	"github.com/jeranaias/nutrilens/internal/util"
)

// =============================================================================
// RESULTS
// =============================================================================

// EmptyResultsHint is shown before the first successful round.
const EmptyResultsHint = "Fill in at least the food name and calories, then run the analysis."

const (
	barWidth      = 20
	dvLabelWidth  = 16
	minTextWidth  = 20
	bulletIndent  = "  - "
	bulletPadding = "    "
)

// RenderResults renders the four analysis sections for width columns.
func RenderResults(t *styles.Theme, rs model.ResultSet, sel model.Selector, width int) string {
	if width < minTextWidth {
		width = minTextWidth
	}
	if rs.IsEmpty() {
		return t.Placeholder.Render(strings.Join(util.Wrap(EmptyResultsHint, width), "\n"))
	}

	r := &resultWriter{t: t, width: width}
	if s := rs.Simplification; s != nil {
		r.section("Simplified Label")
		r.paragraph(s.Explanation)
		r.bullets("Key insights", s.KeyInsights, t.FieldValue)
		if pcts := s.SortedPercentages(); len(pcts) > 0 {
			r.subtitle("% Daily Value")
			for _, p := range pcts {
				r.dailyValue(p)
			}
		}
	}
	if g := rs.HealthGoal; g != nil {
		goal := g.HealthGoal
		if goal == "" {
			goal = sel.HealthGoal
		}
		r.section("Health Goal: " + goal.Label())
		if g.Verdict != "" {
			r.line(t.Verdict.Render(g.Verdict))
		}
		r.line(styles.RenderScoreBar(barWidth, g.Score))
		r.paragraph(g.Recommendation)
		if g.GoalInfo != nil {
			r.muted(g.GoalInfo.Description)
		}
	}
	if d := rs.DietCompatibility; d != nil {
		diet := d.DietType
		if diet == "" {
			diet = sel.DietType
		}
		r.section("Diet Compatibility: " + diet.Label())
		if d.IsCompatible {
			r.line(t.Compatible.Render(styles.StatusIndicators.Success + " Compatible"))
		} else {
			r.line(t.Incompatible.Render(styles.StatusIndicators.Error + " Not compatible"))
		}
		r.line(styles.RenderScoreBar(barWidth, d.Score))
		r.paragraph(d.Explanation)
		r.bullets("Concerns", d.SpecificConcerns, t.WarningItem)
		if d.DietInfo != nil {
			r.muted(d.DietInfo.Description)
		}
	}
	if w := rs.Warnings; w != nil {
		r.section("Health Warnings")
		r.line(t.FieldLabel.Render("Overall health ") + styles.RenderScoreBar(barWidth, w.OverallHealthScore))
		r.paragraph(w.AIAnalysis)
		r.bullets("Warnings", w.HealthWarnings, t.WarningItem)
		r.bullets("Healthier alternatives", w.AlternativeSuggestions, t.FieldValue)
		r.bullets("Tips", w.ImprovementTips, t.FieldValue)
	}
	return strings.TrimLeft(r.sb.String(), "\n")
}

// resultWriter accumulates rendered lines.
type resultWriter struct {
	t     *styles.Theme
	width int
	sb    strings.Builder
}

func (r *resultWriter) line(s string) {
	r.sb.WriteString(s)
	r.sb.WriteByte('\n')
}

func (r *resultWriter) section(title string) {
	r.sb.WriteByte('\n')
	r.line(r.t.PanelTitle.Render(title))
}

func (r *resultWriter) subtitle(title string) {
	r.line(r.t.FieldLabel.Bold(true).Render(title))
}

func (r *resultWriter) paragraph(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	for _, l := range util.Wrap(text, r.width) {
		r.line(r.t.FieldValue.Render(l))
	}
}

func (r *resultWriter) muted(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	for _, l := range util.Wrap(text, r.width) {
		r.line(r.t.Placeholder.Render(l))
	}
}

func (r *resultWriter) bullets(title string, items []string, style lipgloss.Style) {
	if len(items) == 0 {
		return
	}
	r.subtitle(title)
	for _, item := range items {
		for i, l := range util.Wrap(item, r.width-len(bulletIndent)) {
			prefix := bulletIndent
			if i > 0 {
				prefix = bulletPadding
			}
			r.line(prefix + style.Render(l))
		}
	}
}

func (r *resultWriter) dailyValue(p model.Percentage) {
	color := styles.DailyValueColor(p.Percent)
	bar := lipgloss.NewStyle().Foreground(color).Render(styles.RenderProgressBar(barWidth, p.Percent))
	label := r.t.FieldLabel.Render(util.PadRight(util.Truncate(p.Label, dvLabelWidth), dvLabelWidth))
	pct := lipgloss.NewStyle().Foreground(color).Render(util.PadLeft(util.FormatPercent(p.Percent), 5))
	r.line("  " + label + " " + bar + " " + pct)
}
