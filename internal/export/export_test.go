// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/nutrilens/internal/model"
	"github.com/jeranaias/nutrilens/internal/session"
)

// createTestReport builds a fully analyzed Greek Yogurt report.
func createTestReport(t *testing.T) *Report {
	t.Helper()
	rec := model.NewNutritionRecord()
	for name, raw := range map[string]string{
		"food_name":    "Greek Yogurt",
		"serving_size": "1 cup",
		"calories":     "130",
		"protein":      "17g",
		"total_sugars": "6",
	} {
		if err := rec.Set(name, raw); err != nil {
			t.Fatal(err)
		}
	}

	vs := session.ViewState{
		SessionID: "sess_test",
		Record:    rec,
		Selector:  model.DefaultSelector(),
		Results: model.ResultSet{
			Simplification: &model.Simplification{
				Explanation:           "Greek yogurt is a high-protein snack...",
				DailyValuePercentages: map[string]float64{"protein": 34, "calories": 6.5},
				KeyInsights:           []string{"High in protein"},
			},
			HealthGoal: &model.GoalFit{
				Verdict:        "Good choice",
				Score:          82,
				Recommendation: "Pair with berries.",
			},
			DietCompatibility: &model.DietFit{
				Explanation:      "Natural sugars exceed strict keto limits.",
				Score:            35,
				IsCompatible:     false,
				SpecificConcerns: []string{"6g sugars"},
			},
			Warnings: &model.WarningReport{
				AIAnalysis:             "Generally healthy.",
				HealthWarnings:         []string{},
				AlternativeSuggestions: []string{"Skyr"},
				OverallHealthScore:     78,
			},
		},
		Turn: &model.ConversationTurn{
			Question:            "Is this keto friendly?",
			Answer:              "No, due to natural sugars.",
			FollowUpSuggestions: []string{"What are better keto snacks?"},
		},
		LastRound: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	return NewReport(vs)
}

func TestMarkdownExporter(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(createTestReport(t))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	md := string(out)

	for _, want := range []string{
		"title: Greek Yogurt",
		"health_goal: weight_loss",
		"# Greek Yogurt",
		"| Calories | 130 |",
		"| Protein | 17 g |",
		"## Summary",
		"| Calories | 7% |",
		"| Protein | 34% |",
		"## Health Goal: Weight Loss",
		"**Score:** 82/100 (excellent)",
		"## Diet Compatibility: Keto",
		"**Compatible:** No",
		"- 6g sugars",
		"**Overall health score:** 78/100 (good)",
		"### Healthier Alternatives",
		"**Q:** Is this keto friendly?",
		"1. What are better keto snacks?",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// Unset nutrients are not listed.
	if strings.Contains(md, "| Sodium |") {
		t.Error("unset sodium should be omitted")
	}
	// Empty lists get no heading.
	if strings.Contains(md, "### Warnings") {
		t.Error("empty warnings list should be omitted")
	}
	// Calories come before protein, in label order.
	if strings.Index(md, "| Calories | 7% |") > strings.Index(md, "| Protein | 34% |") {
		t.Error("daily values not in label order")
	}
}

func TestMarkdownExporter_NoResults(t *testing.T) {
	r := createTestReport(t)
	r.Results = model.ResultSet{}
	r.Turn = nil

	out, err := NewMarkdownExporter(&Options{}).Export(r)
	if err != nil {
		t.Fatal(err)
	}
	md := string(out)
	if strings.HasPrefix(md, "---") {
		t.Error("metadata should be omitted")
	}
	if !strings.Contains(md, "_Not analyzed yet._") {
		t.Error("expected not-analyzed marker")
	}
	if strings.Contains(md, "## Follow-up") {
		t.Error("no turn should mean no follow-up section")
	}
}

func TestJSONExporter(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(createTestReport(t))
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["session_id"] != "sess_test" {
		t.Errorf("session_id = %v", decoded["session_id"])
	}
	data := decoded["nutrition_data"].(map[string]any)
	if data["protein"] != float64(17) {
		t.Errorf("protein = %v", data["protein"])
	}
	if data["sodium"] != "" {
		t.Errorf("unset sodium should encode as empty string, got %v", data["sodium"])
	}
	results := decoded["results"].(map[string]any)
	simp := results["simplification"].(map[string]any)
	if simp["simplified_explanation"] != "Greek yogurt is a high-protein snack..." {
		t.Errorf("simplified_explanation = %v", simp["simplified_explanation"])
	}

	bare, err := NewJSONExporter(&Options{}).Export(createTestReport(t))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(bare, []byte("session_id")) {
		t.Error("bare export should omit session metadata")
	}
}

func TestPDFExporter(t *testing.T) {
	out, err := NewPDFExporter(nil).Export(createTestReport(t))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", out[:min(len(out), 8)])
	}
	if len(out) < 500 {
		t.Errorf("PDF suspiciously small: %d bytes", len(out))
	}
}

func TestExport_EmptyReport(t *testing.T) {
	r := NewReport(session.New(model.DefaultSelector()).Snapshot())
	for _, e := range []Exporter{NewMarkdownExporter(nil), NewJSONExporter(nil), NewPDFExporter(nil)} {
		if _, err := e.Export(r); !errors.Is(err, ErrEmptyReport) {
			t.Errorf("%T: got %v, want ErrEmptyReport", e, err)
		}
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		mime   string
	}{
		{"markdown", ".md", "text/markdown"},
		{"MD", ".md", "text/markdown"},
		{"json", ".json", "application/json"},
		{".pdf", ".pdf", "application/pdf"},
	}
	for _, tc := range tests {
		e, err := ForFormat(tc.format, nil)
		if err != nil {
			t.Fatalf("ForFormat(%q): %v", tc.format, err)
		}
		if e.FileExtension() != tc.ext || e.MimeType() != tc.mime {
			t.Errorf("ForFormat(%q) = %s %s", tc.format, e.FileExtension(), e.MimeType())
		}
	}
	if _, err := ForFormat("docx", nil); err == nil {
		t.Error("expected error for docx")
	}
	if e, _ := ForPath("out/report", nil); e.FileExtension() != ".md" {
		t.Error("extensionless path should default to markdown")
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	r := createTestReport(t)

	path, err := ExportToFile(r, NewJSONExporter(nil), &Options{OutputDir: dir, IncludeMetadata: true})
	if err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("written to %s, want %s", path, dir)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "nutrition_Greek_Yogurt_") || !strings.HasSuffix(base, ".json") {
		t.Errorf("unexpected file name %s", base)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Greek Yogurt", "Greek_Yogurt"},
		{"Mac & Cheese: 50/50", "Mac_&_Cheese-_50-50"},
		{"", "report"},
	}
	for _, tc := range tests {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
