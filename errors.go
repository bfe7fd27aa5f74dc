// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "fmt"

// Error codes for SpecError. Stable and machine-readable; never derived
// from wall-clock or address data.
const (
	CodeDuplicatePostFxTarget = "DUPLICATE_POSTFX_TARGET"
	CodePostFxNoMatch         = "POSTFX_NO_MATCH"
	CodeInvalidSampleRate     = "INVALID_SAMPLE_RATE"
	CodeInvalidDuration       = "INVALID_DURATION"
	CodeZeroLength            = "ZERO_LENGTH"
	CodeUnknownVariant        = "UNKNOWN_VARIANT"
)

// SpecError reports an invariant violation discovered during validation,
// before any audio is produced.
type SpecError struct {
	Code    string
	Message string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("spec error [%s]: %s", e.Code, e.Message)
}

func specErrorf(code, format string, args ...any) *SpecError {
	return &SpecError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CapacityError reports a delay/lookahead buffer that would exceed its
// configured byte cap. It surfaces before the offending effect is
// constructed and aborts the render.
type CapacityError struct {
	Code    string
	Message string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity error [%s]: %s", e.Code, e.Message)
}

func capacityErrorf(format string, args ...any) *CapacityError {
	return &CapacityError{Code: "CAPACITY_EXCEEDED", Message: fmt.Sprintf(format, args...)}
}

// InternalError marks an invariant that implies a bug in the engine itself.
// It must not be reachable from valid input.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Message)
}

func internalErrorf(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}

// NumericGuardWarning records a clamp or substitution applied to a layer or
// effect that would otherwise have produced NaN/Inf or required unbounded
// memory. The render continues; warnings accumulate onto the RenderResult.
type NumericGuardWarning struct {
	Component string // e.g. "layer[2]", "effect[0]:limiter"
	Reason    string
}

func (w NumericGuardWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Component, w.Reason)
}
