// Package errors provides centralized error definitions and error handling utilities
// for tessel. It defines the shell adapter's error taxonomy, the tree arena's
// errors, semantic error types and classification helpers.
//
// # Error Types
//
// Adapter errors describe what went wrong at the protocol boundary:
//   - AllocationError: a view or adapter record could not be constructed
//   - UnsupportedRoleError: a surface announced a role the shell does not handle
//   - TypeAssertionError: a capability call reached the wrong shell variant
//   - ProtocolViolationError: a signal arrived in a state that does not expect it
//
// TreeError describes failures of node arena operations (stale handles,
// invalid anchors).
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// # Usage
//
//	err := errors.NewProtocolViolationError("map", "shown").WithSurfaceID(id)
//	if errors.Is(err, errors.ErrProtocolViolation) { ... }
//
//	var tae *errors.TypeAssertionError
//	if errors.As(err, &tae) { ... }
//
// # Error Classification
//
// None of the adapter errors abort the process. Only an AllocationError is
// fatal, and only to the single creation attempt that produced it. Use
// GetSeverity to map an error onto a log level and IsFatal to find the
// allocation case.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for conditions that are expected and only useful when debugging.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that indicate misbehaviour but are recovered locally.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that abort the operation that produced them.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Shell adapter sentinel errors
var (
	// ErrAllocation indicates that a view or adapter record could not be allocated.
	ErrAllocation = New("allocation failed")
	// ErrUnsupportedRole indicates a surface role the shell declines to manage.
	ErrUnsupportedRole = New("unsupported surface role")
	// ErrTypeAssertion indicates a capability call on a view of the wrong variant.
	ErrTypeAssertion = New("view variant mismatch")
	// ErrProtocolViolation indicates a lifecycle signal in an unexpected state.
	ErrProtocolViolation = New("protocol violation")
)

// Tree sentinel errors
var (
	// ErrStaleHandle indicates a handle whose node has been destroyed.
	ErrStaleHandle = New("stale node handle")
	// ErrNodeNotFound indicates a handle that never referred to a node.
	ErrNodeNotFound = New("node not found")
	// ErrInvalidAnchor indicates an anchor that cannot receive children.
	ErrInvalidAnchor = New("invalid anchor")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// TesselError is the base interface for all tessel errors.
type TesselError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message  string
	cause    error
	severity Severity
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// formatWithContext renders "prefix [k=v, ...]: message[: cause]".
func formatWithContext(prefix string, parts []string, message string, cause error) string {
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, ", "))
	}
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, message, cause)
	}
	return fmt.Sprintf("%s: %s", prefix, message)
}

// -----------------------------------------------------------------------------
// Adapter Errors
// -----------------------------------------------------------------------------

// AllocationError reports that the adapter record or view for a new surface
// could not be constructed. Nothing of the attempt is retained.
//
// Example:
//
//	err := errors.NewAllocationError("view", cause).WithSurfaceID("s-1")
//	fmt.Println(err) // "allocation error [surface=s-1]: failed to allocate view: <cause>"
type AllocationError struct {
	baseError
	Resource  string
	SurfaceID string
}

// NewAllocationError creates a new AllocationError for the named resource.
func NewAllocationError(resource string, cause error) *AllocationError {
	return &AllocationError{
		baseError: baseError{
			message:  fmt.Sprintf("failed to allocate %s", resource),
			cause:    cause,
			severity: SeverityCritical,
		},
		Resource: resource,
	}
}

// WithSurfaceID adds the surface ID to the error context.
func (e *AllocationError) WithSurfaceID(id string) *AllocationError {
	e.SurfaceID = id
	return e
}

// Error returns the formatted error message.
func (e *AllocationError) Error() string {
	var parts []string
	if e.SurfaceID != "" {
		parts = append(parts, fmt.Sprintf("surface=%s", e.SurfaceID))
	}
	return formatWithContext("allocation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *AllocationError) Is(target error) bool {
	if _, ok := target.(*AllocationError); ok {
		return true
	}
	if target == ErrAllocation {
		return true
	}
	return e.baseError.Is(target)
}

// UnsupportedRoleError reports a surface whose role the shell declines.
// It is expected behaviour, not a failure.
type UnsupportedRoleError struct {
	baseError
	Role      string
	SurfaceID string
}

// NewUnsupportedRoleError creates a new UnsupportedRoleError.
func NewUnsupportedRoleError(role string) *UnsupportedRoleError {
	return &UnsupportedRoleError{
		baseError: baseError{
			message:  fmt.Sprintf("role %q is not managed", role),
			severity: SeverityDebug,
		},
		Role: role,
	}
}

// WithSurfaceID adds the surface ID to the error context.
func (e *UnsupportedRoleError) WithSurfaceID(id string) *UnsupportedRoleError {
	e.SurfaceID = id
	return e
}

// Error returns the formatted error message.
func (e *UnsupportedRoleError) Error() string {
	var parts []string
	if e.SurfaceID != "" {
		parts = append(parts, fmt.Sprintf("surface=%s", e.SurfaceID))
	}
	return formatWithContext("unsupported role", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *UnsupportedRoleError) Is(target error) bool {
	if _, ok := target.(*UnsupportedRoleError); ok {
		return true
	}
	if target == ErrUnsupportedRole {
		return true
	}
	return e.baseError.Is(target)
}

// TypeAssertionError reports a capability call on a view whose kind does not
// match the implementation that received it. The call becomes a no-op.
//
// Example:
//
//	err := errors.NewTypeAssertionError("set_activated", "xdg_shell_v6", "xwayland")
//	fmt.Println(err) // "type assertion error [op=set_activated]: expected xdg_shell_v6 view, got xwayland"
type TypeAssertionError struct {
	baseError
	Op       string
	Expected string
	Actual   string
	ViewID   string
}

// NewTypeAssertionError creates a new TypeAssertionError.
func NewTypeAssertionError(op, expected, actual string) *TypeAssertionError {
	return &TypeAssertionError{
		baseError: baseError{
			message:  fmt.Sprintf("expected %s view, got %s", expected, actual),
			severity: SeverityWarning,
		},
		Op:       op,
		Expected: expected,
		Actual:   actual,
	}
}

// WithViewID adds the view ID to the error context.
func (e *TypeAssertionError) WithViewID(id string) *TypeAssertionError {
	e.ViewID = id
	return e
}

// Error returns the formatted error message.
func (e *TypeAssertionError) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.ViewID != "" {
		parts = append(parts, fmt.Sprintf("view=%s", e.ViewID))
	}
	return formatWithContext("type assertion error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *TypeAssertionError) Is(target error) bool {
	if _, ok := target.(*TypeAssertionError); ok {
		return true
	}
	if target == ErrTypeAssertion {
		return true
	}
	return e.baseError.Is(target)
}

// ProtocolViolationError reports a lifecycle signal delivered in a state
// whose guard does not accept it. The signal is ignored.
type ProtocolViolationError struct {
	baseError
	Signal    string
	State     string
	SurfaceID string
}

// NewProtocolViolationError creates a new ProtocolViolationError.
func NewProtocolViolationError(signal, state string) *ProtocolViolationError {
	return &ProtocolViolationError{
		baseError: baseError{
			message:  fmt.Sprintf("%s not accepted in state %s", signal, state),
			severity: SeverityWarning,
		},
		Signal: signal,
		State:  state,
	}
}

// WithSurfaceID adds the surface ID to the error context.
func (e *ProtocolViolationError) WithSurfaceID(id string) *ProtocolViolationError {
	e.SurfaceID = id
	return e
}

// Error returns the formatted error message.
func (e *ProtocolViolationError) Error() string {
	var parts []string
	if e.SurfaceID != "" {
		parts = append(parts, fmt.Sprintf("surface=%s", e.SurfaceID))
	}
	return formatWithContext("protocol violation", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ProtocolViolationError) Is(target error) bool {
	if _, ok := target.(*ProtocolViolationError); ok {
		return true
	}
	if target == ErrProtocolViolation {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Tree Errors
// -----------------------------------------------------------------------------

// TreeError represents a failed node arena operation.
//
// Example:
//
//	err := errors.NewTreeError("destroy node", errors.ErrStaleHandle).WithHandle("3:1")
type TreeError struct {
	baseError
	Handle string
}

// NewTreeError creates a new TreeError.
func NewTreeError(message string, cause error) *TreeError {
	return &TreeError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityError,
		},
	}
}

// WithHandle adds the offending handle to the error context.
func (e *TreeError) WithHandle(h string) *TreeError {
	e.Handle = h
	return e
}

// Error returns the formatted error message.
func (e *TreeError) Error() string {
	var parts []string
	if e.Handle != "" {
		parts = append(parts, fmt.Sprintf("handle=%s", e.Handle))
	}
	return formatWithContext("tree error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *TreeError) Is(target error) bool {
	if _, ok := target.(*TreeError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("surface", "term")
//	fmt.Println(err) // "surface 'term' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:  fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity: SeverityWarning,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("unknown op").WithField("steps[2].op").WithValue("resize")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:  message,
			severity: SeverityWarning,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return formatWithContext("validation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement TesselError.
//
// Example:
//
//	switch errors.GetSeverity(err) {
//	case errors.SeverityCritical:
//	    log.Error("creation aborted", "error", err)
//	case errors.SeverityWarning:
//	    log.Warn("ignored", "error", err)
//	}
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var tesselErr TesselError
	if As(err, &tesselErr) {
		return tesselErr.Severity()
	}

	return SeverityError
}

// IsFatal returns true if the error aborts the operation that produced it.
// Only allocation failures during surface creation qualify.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var allocErr *AllocationError
	return As(err, &allocErr)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to load scenario")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to replay %s", path)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
