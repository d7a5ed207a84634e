package opc

import (
	"errors"
	"fmt"
)

var (
	// ErrPartNotFound is returned when a part or relationship target does
	// not exist in the package.
	ErrPartNotFound = errors.New("part not found")
	// ErrPartTooLarge is returned when a part exceeds the configured limit.
	ErrPartTooLarge = errors.New("part exceeds size limit")
)

// InvalidPartURIError reports a part name that cannot be normalized.
type InvalidPartURIError struct {
	URI    string
	Reason string
}

func (e *InvalidPartURIError) Error() string {
	return fmt.Sprintf("invalid part name %q: %s", e.URI, e.Reason)
}

// MissingAttributeError reports a required attribute absent from a
// relationships or content types element.
type MissingAttributeError struct {
	Element   string
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("<%s> is missing required attribute %s", e.Element, e.Attribute)
}
