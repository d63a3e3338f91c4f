// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/nutrilens/internal/model"
	"github.com/jeranaias/nutrilens/internal/util"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports reports to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a report to Markdown format.
func (e *MarkdownExporter) Export(r *Report) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(r.Title())))
		sb.WriteString(fmt.Sprintf("session: %s\n", r.SessionID))
		sb.WriteString(fmt.Sprintf("health_goal: %s\n", r.Selector.HealthGoal))
		sb.WriteString(fmt.Sprintf("diet_type: %s\n", r.Selector.DietType))
		if !r.AnalyzedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("analyzed: %s\n", r.AnalyzedAt.Format(time.RFC3339)))
		}
		sb.WriteString(fmt.Sprintf("exported: %s\n", r.ExportedAt.Format(time.RFC3339)))
		sb.WriteString("generator: nutrilens\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(r.Title())))
	sb.WriteString(Body(r))

	if e.options.IncludeMetadata {
		sb.WriteString("---\n\n")
		sb.WriteString(fmt.Sprintf("*Exported by nutrilens on %s*\n", formatTimestamp(r.ExportedAt)))
	}

	return []byte(sb.String()), nil
}

// Body renders every section below the title. The terminal views render the
// same text with glamour.
func Body(r *Report) string {
	var sb strings.Builder
	writeFacts(&sb, r)
	writeResults(&sb, r.Results, r.Selector)
	writeTurn(&sb, r.Turn)
	return sb.String()
}

// ResultsMarkdown renders only the four analysis sections.
func ResultsMarkdown(results model.ResultSet, sel model.Selector) string {
	var sb strings.Builder
	writeResults(&sb, results, sel)
	return sb.String()
}

// TurnMarkdown renders only the follow-up section.
func TurnMarkdown(turn *model.ConversationTurn) string {
	var sb strings.Builder
	writeTurn(&sb, turn)
	return sb.String()
}

func writeFacts(sb *strings.Builder, r *Report) {
	sb.WriteString("## Nutrition Facts\n\n")
	sb.WriteString(fmt.Sprintf("Serving size: %s\n\n", escapeMarkdown(r.Record.ServingSize)))

	rows := r.nutrientRows()
	if len(rows) == 0 {
		sb.WriteString("_No nutrients entered._\n\n")
		return
	}
	sb.WriteString("| Nutrient | Amount |\n|---|---:|\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", row[0], row[1]))
	}
	sb.WriteString("\n")
}

func writeResults(sb *strings.Builder, res model.ResultSet, sel model.Selector) {
	if res.IsEmpty() {
		sb.WriteString("_Not analyzed yet._\n\n")
		return
	}

	if s := res.Simplification; s != nil {
		sb.WriteString("## Summary\n\n")
		sb.WriteString(s.Explanation + "\n\n")
		writeList(sb, "Key Insights", s.KeyInsights)
		if pcts := s.SortedPercentages(); len(pcts) > 0 {
			sb.WriteString("### % Daily Value\n\n| Nutrient | % DV |\n|---|---:|\n")
			for _, p := range pcts {
				sb.WriteString(fmt.Sprintf("| %s | %s |\n", p.Label, util.FormatPercent(p.Percent)))
			}
			sb.WriteString("\n")
		}
	}

	if g := res.HealthGoal; g != nil {
		goal := g.HealthGoal
		if goal == "" {
			goal = sel.HealthGoal
		}
		sb.WriteString(fmt.Sprintf("## Health Goal: %s\n\n", goal.Label()))
		sb.WriteString(fmt.Sprintf("**Verdict:** %s  \n", g.Verdict))
		sb.WriteString(fmt.Sprintf("**Score:** %s\n\n", formatScore(g.Score)))
		if g.Recommendation != "" {
			sb.WriteString(g.Recommendation + "\n\n")
		}
		if g.GoalInfo != nil && g.GoalInfo.Description != "" {
			sb.WriteString("> " + g.GoalInfo.Description + "\n\n")
		}
	}

	if d := res.DietCompatibility; d != nil {
		diet := d.DietType
		if diet == "" {
			diet = sel.DietType
		}
		compatible := "No"
		if d.IsCompatible {
			compatible = "Yes"
		}
		sb.WriteString(fmt.Sprintf("## Diet Compatibility: %s\n\n", diet.Label()))
		sb.WriteString(fmt.Sprintf("**Compatible:** %s  \n", compatible))
		sb.WriteString(fmt.Sprintf("**Score:** %s\n\n", formatScore(d.Score)))
		if d.Explanation != "" {
			sb.WriteString(d.Explanation + "\n\n")
		}
		writeList(sb, "Concerns", d.SpecificConcerns)
		if d.DietInfo != nil && d.DietInfo.Description != "" {
			sb.WriteString("> " + d.DietInfo.Description + "\n\n")
		}
	}

	if w := res.Warnings; w != nil {
		sb.WriteString("## Health Warnings\n\n")
		sb.WriteString(fmt.Sprintf("**Overall health score:** %s\n\n", formatScore(w.OverallHealthScore)))
		if w.AIAnalysis != "" {
			sb.WriteString(w.AIAnalysis + "\n\n")
		}
		writeList(sb, "Warnings", w.HealthWarnings)
		writeList(sb, "Healthier Alternatives", w.AlternativeSuggestions)
		writeList(sb, "Improvement Tips", w.ImprovementTips)
	}
}

func writeTurn(sb *strings.Builder, turn *model.ConversationTurn) {
	if turn == nil {
		return
	}
	sb.WriteString("## Follow-up\n\n")
	sb.WriteString(fmt.Sprintf("**Q:** %s\n\n", escapeMarkdown(turn.Question)))
	sb.WriteString(fmt.Sprintf("**A:** %s\n\n", turn.Answer))
	writeList(sb, "Relevant Facts", turn.RelevantFacts)
	if turn.HasSuggestions() {
		sb.WriteString("### Suggested Questions\n\n")
		for i, s := range turn.FollowUpSuggestions {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
		}
		sb.WriteString("\n")
	}
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("### %s\n\n", title))
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
	sb.WriteString("\n")
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// escapeMarkdown escapes characters that would start markup in a heading or
// table cell.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
		"|", "\\|",
		"#", "\\#",
	)
	return replacer.Replace(s)
}

// escapeYAML quotes a frontmatter value when needed.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#{}[]&*!|>'\"%@`") || strings.HasPrefix(s, "-") {
		return "\"" + strings.ReplaceAll(strings.ReplaceAll(s, "\\", "\\\\"), "\"", "\\\"") + "\""
	}
	return s
}
