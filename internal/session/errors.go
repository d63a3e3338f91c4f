// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"

	"github.com/jeranaias/nutrilens/internal/backend"
	"github.com/jeranaias/nutrilens/internal/model"
)

// Sentinel errors.
var (
	// ErrUnknownField is returned by SetField for a name that is not a record field.
	ErrUnknownField = model.ErrUnknownField

	ErrRoundInFlight   = errors.New("analysis already in progress")
	ErrAskInFlight     = errors.New("question already in progress")
	ErrBackendNotReady = errors.New("analysis backend is not ready")
	ErrNoSuggestion    = errors.New("no such follow-up suggestion")
)

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError reports missing input. It is raised before any request is
// sent and leaves the session unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateForAnalysis checks that a record can be analyzed: it needs a food
// name and a calorie count.
func ValidateForAnalysis(rec model.NutritionRecord) error {
	if rec.FoodName == "" {
		return &ValidationError{Field: model.FieldFoodName, Message: "Please fill in at least the food name and calories"}
	}
	if !rec.Calories.IsSet() {
		return &ValidationError{Field: "calories", Message: "Please fill in at least the food name and calories"}
	}
	return nil
}

// =============================================================================
// FAILURE
// =============================================================================

// FailureKind classifies a failed round or question.
type FailureKind int

const (
	// KindTransport covers network errors, timeouts and non-2xx statuses.
	KindTransport FailureKind = iota
	// KindDecode covers bodies that are not the expected JSON object.
	KindDecode
)

func (k FailureKind) String() string {
	if k == KindDecode {
		return "decode"
	}
	return "transport"
}

// Failure is a failed backend call inside a round or question.
type Failure struct {
	Kind FailureKind
	Op   string
	Err  error
}

// NewFailure wraps a backend error from op.
func NewFailure(op string, err error) *Failure {
	kind := KindTransport
	if backend.IsDecode(err) {
		kind = KindDecode
	}
	return &Failure{Kind: kind, Op: op, Err: err}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", f.Op, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure extracts a Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// UserMessage is the notice shown for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if f, ok := AsFailure(err); ok {
		if f.Op == backend.OpAsk {
			return "Error processing your question. Please try again. (" + f.Err.Error() + ")"
		}
		return "Error processing nutrition data. Please try again. (" + f.Err.Error() + ")"
	}
	return err.Error()
}
