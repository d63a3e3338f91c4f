// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/nutrilens/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports reports to JSON. The record and results use the same
// field names as the backend API.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// bareReport is a Report without session metadata.
type bareReport struct {
	Record   model.NutritionRecord   `json:"nutrition_data"`
	Selector model.Selector          `json:"selector"`
	Results  model.ResultSet         `json:"results"`
	Turn     *model.ConversationTurn `json:"conversation,omitempty"`
}

// Export converts a report to JSON format. Without metadata the session id
// and timestamps are dropped.
func (e *JSONExporter) Export(r *Report) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	if !e.options.IncludeMetadata {
		return json.MarshalIndent(bareReport{r.Record, r.Selector, r.Results, r.Turn}, "", "  ")
	}
	return json.MarshalIndent(r, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
