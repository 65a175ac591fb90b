// Package rmerr provides structured error types for the regmap compiler.
//
// Every validation failure raised during elaboration carries a
// machine-readable code from the taxonomy below plus the source location
// (file and line) of the element that caused it. Codes fall into three
// families:
//   - ATTR_*: attribute-level failures (unknown names, bad conversions,
//     missing required values, illegal combinations)
//   - PLACE_*: placement failures surfaced from the space allocator
//   - STRUCT_*: structural failures (unknown tags, unbound instances,
//     duplicate names, misplaced free text)
//
// # Usage
//
//	err := rmerr.New(rmerr.CodeAttrMissing, "missing required attribute %q", "name")
//	err = rmerr.At(err, loc)
//	if rmerr.Is(err, rmerr.CodeAttrMissing) {
//	    // handle
//	}
package rmerr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

// Error codes, grouped by the taxonomy above.
const (
	// Attribute errors
	CodeAttrUnsupported Code = "ATTR_UNSUPPORTED"
	CodeAttrConversion  Code = "ATTR_CONVERSION"
	CodeAttrMissing     Code = "ATTR_MISSING"
	CodeAttrConflict    Code = "ATTR_CONFLICT"
	CodeAttrBadValue    Code = "ATTR_BAD_VALUE"

	// Placement errors
	CodePlaceNoRoom    Code = "PLACE_NO_ROOM"
	CodePlaceBlocked   Code = "PLACE_BLOCKED"
	CodePlaceAlignment Code = "PLACE_ALIGNMENT"

	// Structural errors
	CodeUnnamedArray Code = "STRUCT_UNNAMED_ARRAY"
	CodeFreeText     Code = "STRUCT_FREE_TEXT"
	CodeUnknownTag   Code = "STRUCT_UNKNOWN_TAG"
	CodeUnbound      Code = "STRUCT_UNBOUND"
	CodeDuplicate    Code = "STRUCT_DUPLICATE"
	CodeBadRoot      Code = "STRUCT_BAD_ROOT"
)

// Error is a structured error with a code, an optional cause, and the
// source location of the element it was raised for.
type Error struct {
	Code    Code
	Message string
	Cause   error
	File    string // source document, empty until At attaches it
	Line    int
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Location is a plain file:line pair, mirroring document.Location without
// importing it (rmerr sits below every other package).
type Location struct {
	File string
	Line int
}

// At stamps err with a source location. Structured errors that already
// carry a location keep it: the innermost element wins, so a failure deep
// in a tree reports the tag that actually caused it. Plain errors are
// wrapped into a located *Error with an empty code.
func At(err error, loc Location) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.File == "" {
			e.File, e.Line = loc.File, loc.Line
		}
		return err
	}
	return &Error{Message: err.Error(), Cause: err, File: loc.File, Line: loc.Line}
}

// Is reports whether err carries the given error code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, or "" if it has none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
