// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/jeranaias/nutrilens/internal/util"
)

// =============================================================================
// PDF EXPORTER
// =============================================================================

const (
	pdfFont        = "Helvetica"
	pdfMargin      = 15.0
	pdfLineHeight  = 5.5
	pdfLabelColumn = 70.0
)

// PDFExporter exports reports to PDF using the core Helvetica font. Text is
// translated to cp1252, so characters outside it print as '?'.
type PDFExporter struct {
	options *Options
}

// NewPDFExporter creates a new PDF exporter.
func NewPDFExporter(opts *Options) *PDFExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &PDFExporter{options: opts}
}

// pdfWriter bundles the document with its text translator.
type pdfWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// Export converts a report to PDF.
func (e *PDFExporter) Export(r *Report) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(r.Title(), true)
	pdf.SetCreator("nutrilens", true)
	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 18)
	w.cell(10, r.Title())
	pdf.Ln(10)

	if e.options.IncludeMetadata {
		pdf.SetFont(pdfFont, "", 9)
		pdf.SetTextColor(100, 100, 100)
		w.cell(5, fmt.Sprintf("Goal: %s   Diet: %s   Exported: %s",
			r.Selector.HealthGoal.Label(), r.Selector.DietType.Label(), formatTimestamp(r.ExportedAt)))
		pdf.Ln(8)
		pdf.SetTextColor(0, 0, 0)
	}

	w.heading("Nutrition Facts")
	w.paragraph("Serving size: " + r.Record.ServingSize)
	rows := r.nutrientRows()
	if len(rows) == 0 {
		w.paragraph("No nutrients entered.")
	}
	w.table(rows)

	e.writeResults(w, r)

	if t := r.Turn; t != nil {
		w.heading("Follow-up")
		w.paragraph("Q: " + t.Question)
		w.paragraph("A: " + t.Answer)
		w.list("Relevant facts", t.RelevantFacts)
		w.list("Suggested questions", t.FollowUpSuggestions)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) writeResults(w *pdfWriter, r *Report) {
	res := r.Results
	if res.IsEmpty() {
		w.heading("Analysis")
		w.paragraph("Not analyzed yet.")
		return
	}

	if s := res.Simplification; s != nil {
		w.heading("Summary")
		w.paragraph(s.Explanation)
		w.list("Key insights", s.KeyInsights)
		var pct [][2]string
		for _, p := range s.SortedPercentages() {
			pct = append(pct, [2]string{p.Label, util.FormatPercent(p.Percent)})
		}
		if len(pct) > 0 {
			w.subheading("% Daily Value")
			w.table(pct)
		}
	}

	if g := res.HealthGoal; g != nil {
		goal := g.HealthGoal
		if goal == "" {
			goal = r.Selector.HealthGoal
		}
		w.heading("Health Goal: " + goal.Label())
		w.table([][2]string{
			{"Verdict", g.Verdict},
			{"Score", formatScore(g.Score)},
		})
		w.paragraph(g.Recommendation)
		if g.GoalInfo != nil {
			w.paragraph(g.GoalInfo.Description)
		}
	}

	if d := res.DietCompatibility; d != nil {
		diet := d.DietType
		if diet == "" {
			diet = r.Selector.DietType
		}
		compatible := "No"
		if d.IsCompatible {
			compatible = "Yes"
		}
		w.heading("Diet Compatibility: " + diet.Label())
		w.table([][2]string{
			{"Compatible", compatible},
			{"Score", formatScore(d.Score)},
		})
		w.paragraph(d.Explanation)
		w.list("Concerns", d.SpecificConcerns)
		if d.DietInfo != nil {
			w.paragraph(d.DietInfo.Description)
		}
	}

	if wr := res.Warnings; wr != nil {
		w.heading("Health Warnings")
		w.table([][2]string{{"Overall health score", formatScore(wr.OverallHealthScore)}})
		w.paragraph(wr.AIAnalysis)
		w.list("Warnings", wr.HealthWarnings)
		w.list("Healthier alternatives", wr.AlternativeSuggestions)
		w.list("Improvement tips", wr.ImprovementTips)
	}
}

func (w *pdfWriter) cell(h float64, text string) {
	w.pdf.CellFormat(0, h, w.tr(text), "", 0, "L", false, 0, "")
}

func (w *pdfWriter) heading(text string) {
	w.pdf.Ln(3)
	w.pdf.SetFont(pdfFont, "B", 13)
	w.pdf.SetFillColor(235, 244, 235)
	w.pdf.CellFormat(0, 8, w.tr(text), "B", 1, "L", true, 0, "")
	w.pdf.Ln(2)
}

func (w *pdfWriter) subheading(text string) {
	w.pdf.SetFont(pdfFont, "B", 10)
	w.pdf.CellFormat(0, 6, w.tr(text), "", 1, "L", false, 0, "")
}

func (w *pdfWriter) paragraph(text string) {
	if text == "" {
		return
	}
	w.pdf.SetFont(pdfFont, "", 10)
	w.pdf.MultiCell(0, pdfLineHeight, w.tr(text), "", "L", false)
	w.pdf.Ln(1)
}

func (w *pdfWriter) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	w.subheading(title)
	w.pdf.SetFont(pdfFont, "", 10)
	for _, item := range items {
		w.pdf.MultiCell(0, pdfLineHeight, w.tr("- "+item), "", "L", false)
	}
	w.pdf.Ln(1)
}

func (w *pdfWriter) table(rows [][2]string) {
	if len(rows) == 0 {
		return
	}
	w.pdf.SetFont(pdfFont, "", 10)
	for i, row := range rows {
		fill := i%2 == 0
		w.pdf.SetFillColor(246, 246, 246)
		w.pdf.CellFormat(pdfLabelColumn, 6, w.tr(row[0]), "", 0, "L", fill, 0, "")
		w.pdf.CellFormat(0, 6, w.tr(row[1]), "", 1, "L", fill, 0, "")
	}
	w.pdf.Ln(2)
}

// FileExtension returns the file extension for PDF.
func (e *PDFExporter) FileExtension() string {
	return ".pdf"
}

// MimeType returns the MIME type for PDF.
func (e *PDFExporter) MimeType() string {
	return "application/pdf"
}
