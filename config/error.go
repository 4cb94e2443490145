// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for route table loading.
var (
	// ErrInvalidEntry indicates a route table that fails declarative validation.
	ErrInvalidEntry = errors.New("invalid route entry")

	// ErrDuplicateName indicates two route entries share a name.
	ErrDuplicateName = errors.New("duplicate route name")

	// ErrExampleMismatch indicates a declared example path does not match its template.
	ErrExampleMismatch = errors.New("example does not match template")
)

// Error describes a route table failure together with where it happened.
type Error struct {
	Source    string // File path, or the codec type for in-memory data
	Field     string // Route entry, e.g. "routes[2]" (optional)
	Operation string // "read", "decode", "encode", "validate", "compile" or "verify"
	Err       error
}

// Error returns a formatted error message with context information.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s.%s during %s: %v",
			e.Source, e.Field, e.Operation, e.Err)
	}
	return fmt.Sprintf("config error in %s during %s: %v",
		e.Source, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an [Error] without field information.
func NewError(source, operation string, err error) *Error {
	return &Error{
		Source:    source,
		Operation: operation,
		Err:       err,
	}
}

// NewFieldError creates an [Error] for a single route entry.
func NewFieldError(source, field, operation string, err error) *Error {
	return &Error{
		Source:    source,
		Field:     field,
		Operation: operation,
		Err:       err,
	}
}
