package wordml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benjaminschreck/go-wordml/pkg/wordml/opc"
	wml "github.com/benjaminschreck/go-wordml/pkg/wordml/xml"
)

// ErrMissingBody is returned when the main document part has no w:body.
var ErrMissingBody = wml.ErrMissingBody

// ErrPartNotFound is returned when a required package part is absent.
var ErrPartNotFound = opc.ErrPartNotFound

// DocumentError represents an error during document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// ParseError reports a part whose XML could not be decoded. Offset is the
// byte offset inside the part when the decoder knows it, otherwise -1.
type ParseError struct {
	Part   string
	Offset int64
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("parse error in %s at offset %d: %v", e.Part, e.Offset, e.Cause)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Part, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// newParseError wraps a decode failure of a part, lifting the offset out of
// a *xml.DecodeError.
func newParseError(part opc.PartURI, cause error) error {
	pe := &ParseError{Part: part.String(), Offset: -1, Cause: cause}
	var de *wml.DecodeError
	if errors.As(cause, &de) {
		pe.Offset = de.Offset
	}
	return pe
}

// MissingPartError reports a relationship that leads nowhere or a part that
// a relationship names but the package lacks.
type MissingPartError struct {
	Part    string
	RelType string
}

func (e *MissingPartError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("missing part for relationship %s", e.RelType)
	}
	return fmt.Sprintf("missing part %s (relationship %s)", e.Part, e.RelType)
}

// Is lets errors.Is(err, ErrPartNotFound) match.
func (e *MissingPartError) Is(target error) bool {
	return target == opc.ErrPartNotFound
}

// ValidationIssue represents a single validation problem
type ValidationIssue struct {
	Field   string
	Message string
}

// ValidationError represents multiple validation issues
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation error"
	}

	if len(e.Issues) == 1 {
		return fmt.Sprintf("validation error: %s - %s", e.Issues[0].Field, e.Issues[0].Message)
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d validation issues:", len(e.Issues)))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("  %s: %s", issue.Field, issue.Message))
	}
	return strings.Join(parts, "\n")
}

// MultiError collects multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the collection (ignores nil errors)
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Err returns the multi-error or nil if empty
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.errors
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}

	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d errors occurred:", len(m.errors)))
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var contextParts []string
	for k, v := range e.Context {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
	}

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsDocumentError checks if an error is or wraps a document error
func IsDocumentError(err error) bool {
	var target *DocumentError
	return errors.As(err, &target)
}

// IsParseError checks if an error is or wraps a parse error
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsMissingPartError checks if an error is or wraps a missing part error
func IsMissingPartError(err error) bool {
	var target *MissingPartError
	return errors.As(err, &target)
}

// IsValidationError checks if an error is or wraps a validation error
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
