// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error handling shared by the nutrilens commands.
//
// Commands return errors and never print-and-return-nil. main decides how
// to display them and which exit code to use.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/nutrilens/internal/backend"
	"github.com/jeranaias/nutrilens/internal/config"
	"github.com/jeranaias/nutrilens/internal/labelfile"
	"github.com/jeranaias/nutrilens/internal/session"
)

// =============================================================================
// EXIT CODES - Specific codes for different error categories
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the backend could not be reached or failed
	ExitNetworkError = 5
	// ExitNotFoundError indicates a file was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates a request timed out
	ExitTimeoutError = 8
	// ExitValidationError indicates the label is incomplete
	ExitValidationError = 9
	// ExitNotReadyError indicates the backend is up but its models are not loaded
	ExitNotReadyError = 10
)

// =============================================================================
// ERROR TYPES FOR STRUCTURED ERROR HANDLING
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "analyze", "config")
	Action  string // Action being performed (e.g., "export", "init")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError represents invalid command-line input.
type UsageError struct {
	Field   string // Flag or argument that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *UsageError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// =============================================================================
// ERROR CONSTRUCTION HELPERS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{
		Command: command,
		Action:  action,
		Reason:  reason,
		Err:     err,
	}
}

// NewUsageError creates a new usage error.
func NewUsageError(field, value, reason string) error {
	return &UsageError{Field: field, Value: value, Reason: reason}
}

// ErrMissingArgument creates an error for missing required arguments.
func ErrMissingArgument(argName, usage string) error {
	return &UsageError{Field: argName, Reason: "required argument missing", Example: usage}
}

// ErrInvalidFormat creates an error for invalid format.
func ErrInvalidFormat(field, value, expected string) error {
	return &UsageError{Field: field, Value: value, Reason: "invalid format", Example: expected}
}

// ReportedError carries the exit status of a result the command has already
// printed. DisplayError shows nothing for it.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR DISPLAY HELPERS
// =============================================================================

// DisplayError displays an error in a consistent format on stderr, or as a
// JSON response on stdout in JSON mode.
func DisplayError(command string, err error, jsonMode bool) {
	var reported *ReportedError
	if err == nil || errors.As(err, &reported) {
		return
	}

	if jsonMode {
		DisplayErrorJSON(command, err)
		return
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("[ERROR]"), UserFacing(err))
}

// DisplayErrorJSON outputs an error as a JSON response.
func DisplayErrorJSON(command string, err error) {
	resp := NewJSONErrorResponse(command, err)
	resp.ErrorType = ErrorType(err)
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(resp)
}

// UserFacing returns the message shown to the user for err. Validation and
// analysis failures use the same wording as the terminal UI.
func UserFacing(err error) string {
	if session.IsValidation(err) {
		return session.UserMessage(err)
	}
	if _, ok := session.AsFailure(err); ok {
		return session.UserMessage(err)
	}
	return err.Error()
}

// ErrorType names the category of err for JSON output.
func ErrorType(err error) string {
	switch GetExitCode(err) {
	case ExitUsageError:
		return "usage_error"
	case ExitConfigError:
		return "config_error"
	case ExitNetworkError:
		return "network_error"
	case ExitNotFoundError:
		return "not_found_error"
	case ExitTimeoutError:
		return "timeout_error"
	case ExitValidationError:
		return "validation_error"
	case ExitNotReadyError:
		return "not_ready_error"
	}
	return "generic_error"
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}
	if errors.Is(err, session.ErrUnknownField) ||
		errors.Is(err, labelfile.ErrUnsupportedFormat) {
		return ExitUsageError
	}

	if session.IsValidation(err) {
		return ExitValidationError
	}
	if errors.Is(err, session.ErrBackendNotReady) {
		return ExitNotReadyError
	}

	var cfgErrs config.ValidateErrors
	if errors.As(err, &cfgErrs) {
		return ExitConfigError
	}

	if errors.Is(err, os.ErrNotExist) {
		return ExitNotFoundError
	}

	if backend.IsTimeout(err) {
		return ExitTimeoutError
	}
	if backend.IsTransport(err) || backend.IsDecode(err) {
		return ExitNetworkError
	}
	if f, ok := session.AsFailure(err); ok {
		if backend.IsTimeout(f.Err) {
			return ExitTimeoutError
		}
		return ExitNetworkError
	}

	return ExitGeneralError
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
