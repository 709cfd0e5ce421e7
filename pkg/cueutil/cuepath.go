// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCUEPath is the sentinel error wrapped by InvalidCUEPathError.
var ErrInvalidCUEPath = errors.New("invalid CUE path")

type (
	// CUEPath represents a path expression into a CUE value, such as a
	// definition name ("#Manifest") or a field selector ("exports.functions").
	// It must be non-empty and not whitespace-only.
	CUEPath string

	// InvalidCUEPathError is returned when a CUEPath is empty or whitespace-only.
	InvalidCUEPathError struct {
		Value CUEPath
	}
)

// Error implements the error interface.
func (e *InvalidCUEPathError) Error() string {
	return fmt.Sprintf("invalid CUE path: must not be empty or whitespace-only (got %q)", e.Value)
}

// Unwrap returns ErrInvalidCUEPath so callers can use errors.Is for programmatic detection.
func (e *InvalidCUEPathError) Unwrap() error { return ErrInvalidCUEPath }

// Validate returns an error if the CUEPath is empty or whitespace-only.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidCUEPathError{Value: p}
	}
	return nil
}

// String returns the string representation of the CUEPath.
func (p CUEPath) String() string { return string(p) }
