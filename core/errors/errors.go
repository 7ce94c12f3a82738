// Package errors provides the error kinds shared across the bibleinsight
// ingestion core, plus small helpers for wrapping and matching them.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to one of these so callers can
// branch with Is without caring about the concrete type.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyExists = errors.New("already exists")
	ErrInternal      = errors.New("internal error")
	ErrUnsupported   = errors.New("unsupported")

	// ErrMalformedReference marks a locator that matched no accepted shape
	// or matched a rejecting one.
	ErrMalformedReference = errors.New("malformed reference")
	// ErrMissingMilestone marks a start milestone without its end partner.
	ErrMissingMilestone = errors.New("missing milestone")
	// ErrUnsupportedFootnote marks a note the resolver cannot interpret.
	ErrUnsupportedFootnote = errors.New("unsupported footnote")
	// ErrStorageConstraint marks a uniqueness or foreign-key violation
	// reported by the relational store.
	ErrStorageConstraint = errors.New("storage constraint violation")
)

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "verse", "chapter", "style")
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // read, write, open, ...
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // USX, vrs, stylesheet, metadata
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string
	Reason  string
	Err     error
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// MalformedReferenceError reports a locator the classifier or fragmenter
// refused. Shape names the rejecting shape when one matched (for example
// "invalid-verse-zero"); it is empty when nothing matched at all.
type MalformedReferenceError struct {
	Input  string
	Shape  string
	Reason string
}

func (e *MalformedReferenceError) Error() string {
	switch {
	case e.Shape != "" && e.Reason != "":
		return fmt.Sprintf("malformed reference %q (%s): %s", e.Input, e.Shape, e.Reason)
	case e.Shape != "":
		return fmt.Sprintf("malformed reference %q (%s)", e.Input, e.Shape)
	case e.Reason != "":
		return fmt.Sprintf("malformed reference %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("malformed reference %q", e.Input)
}

func (e *MalformedReferenceError) Unwrap() error { return ErrMalformedReference }

// MissingMilestoneError reports a chapter or verse whose start milestone has
// no matching end milestone in the markup.
type MissingMilestoneError struct {
	Kind string // "chapter" or "verse"
	Ref  string
}

func (e *MissingMilestoneError) Error() string {
	return fmt.Sprintf("%s %s: end milestone not found", e.Kind, e.Ref)
}

func (e *MissingMilestoneError) Unwrap() error { return ErrMissingMilestone }

// UnsupportedFootnoteError reports a note without a recognizable kind or
// without the body it requires.
type UnsupportedFootnoteError struct {
	Style  string
	Reason string
}

func (e *UnsupportedFootnoteError) Error() string {
	return fmt.Sprintf("unsupported note style %q: %s", e.Style, e.Reason)
}

func (e *UnsupportedFootnoteError) Unwrap() error { return ErrUnsupportedFootnote }

// StorageConstraintError wraps a driver error classified as a constraint
// violation. Table is best effort and may be empty.
type StorageConstraintError struct {
	Table string
	Code  string
	Err   error
}

func (e *StorageConstraintError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("constraint violation on %s (%s): %v", e.Table, e.Code, e.Err)
	}
	return fmt.Sprintf("constraint violation (%s): %v", e.Code, e.Err)
}

// Is lets both the sentinel and the driver error match.
func (e *StorageConstraintError) Is(target error) bool { return target == ErrStorageConstraint }

func (e *StorageConstraintError) Unwrap() error { return e.Err }

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{Feature: feature, Reason: reason}
}

// NewMalformedReference creates a MalformedReferenceError.
func NewMalformedReference(input, shape, reason string) *MalformedReferenceError {
	return &MalformedReferenceError{Input: input, Shape: shape, Reason: reason}
}

// NewMissingMilestone creates a MissingMilestoneError.
func NewMissingMilestone(kind, ref string) *MissingMilestoneError {
	return &MissingMilestoneError{Kind: kind, Ref: ref}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New wraps errors.New for convenience
func New(text string) error {
	return errors.New(text)
}
