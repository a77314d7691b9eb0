package netlist

import (
	"errors"
	"fmt"
)

// Load error codes.
const (
	ErrCodeNotFound = "NETLIST_NOT_FOUND"
	ErrCodeSchema   = "NETLIST_SCHEMA"
	ErrCodeDecode   = "NETLIST_DECODE"
	ErrCodeBadRef   = "NETLIST_BAD_REF"
)

// LoadError is a netlist loading failure with a category code and, for
// schema errors, source positions from the CUE evaluator.
type LoadError struct {
	Code    string
	Message string
	Detail  string // multi-line CUE error detail, optional
}

func (e *LoadError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s\n%s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSchemaError reports whether err is a schema-level load failure.
// Uses errors.As to handle wrapped errors.
func IsSchemaError(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Code == ErrCodeSchema
}
