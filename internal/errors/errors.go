// Package errors defines the error kinds a pipeline run can end with.
// PipelineError carries a kind plus the human readable text shown on the
// published error page.
package errors

import (
	"errors"
	"fmt"
)

// PipelineError represents a failure inside one pipeline run
type PipelineError struct {
	Type    string
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	ErrorTypeConfigurationInvalid = "CONFIGURATION_INVALID"
	ErrorTypeUpstreamHTTP         = "UPSTREAM_HTTP"
	ErrorTypeShapeMismatch        = "SHAPE_MISMATCH"
	ErrorTypeMissingField         = "MISSING_FIELD"
	ErrorTypeUnsupportedScale     = "UNSUPPORTED_SCALE"
	ErrorTypeSelectionFailed      = "SELECTION_FAILED"
	ErrorTypeRenderFailed         = "RENDER_FAILED"
	ErrorTypePublishFailed        = "PUBLISH_FAILED"
)

// NewPipelineError creates a new PipelineError
func NewPipelineError(errorType, message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigurationError creates a configuration-related error
func NewConfigurationError(message string, cause error) *PipelineError {
	return NewPipelineError(ErrorTypeConfigurationInvalid, message, cause)
}

// NewUpstreamError creates an error for a failed catalog request
func NewUpstreamError(message string, cause error) *PipelineError {
	return NewPipelineError(ErrorTypeUpstreamHTTP, message, cause)
}

// NewShapeMismatchError creates an error for an array/object mismatch
func NewShapeMismatchError(message string) *PipelineError {
	return NewPipelineError(ErrorTypeShapeMismatch, message, nil)
}

// NewMissingFieldError creates an error for an absent response field
func NewMissingFieldError(message string) *PipelineError {
	return NewPipelineError(ErrorTypeMissingField, message, nil)
}

// NewUnsupportedScaleError creates an error for a list spanning several pages
func NewUnsupportedScaleError(message string) *PipelineError {
	return NewPipelineError(ErrorTypeUnsupportedScale, message, nil)
}

// NewSelectionError creates an error for a random pick with nothing to pick from
func NewSelectionError(message string, cause error) *PipelineError {
	return NewPipelineError(ErrorTypeSelectionFailed, message, cause)
}

// NewRenderError creates an error for a page that could not be rendered
func NewRenderError(message string, cause error) *PipelineError {
	return NewPipelineError(ErrorTypeRenderFailed, message, cause)
}

// NewPublishError creates an error for a failed dispatch webhook call
func NewPublishError(message string, cause error) *PipelineError {
	return NewPipelineError(ErrorTypePublishFailed, message, cause)
}

// TypeOf returns the kind of the first PipelineError in err's chain,
// or an empty string.
func TypeOf(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ""
}
