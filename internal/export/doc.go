// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a session report to a file.
//
// A Report is a snapshot of the record, the selectors, the last round's
// results and the latest follow-up turn. Exporting never changes the
// session and a report is never read back.
//
// # Key Types
//
//   - Report: What gets exported, built from a session.ViewState
//   - Exporter: Format interface (Export, FileExtension, MimeType)
//   - Options: Output directory, metadata and open-after-export
//
// # Supported Formats
//
//   - Markdown: Human-readable, also what the terminal renders with glamour
//   - JSON: Machine-readable, same shapes as the backend API
//   - PDF: Printable, generated with gofpdf
//
// # Usage
//
//	report := export.NewReport(sess.Snapshot())
//	exporter, err := export.ForFormat("pdf", nil)
//	path, err := export.ExportToFile(report, exporter, nil)
package export
