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

package pattern

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateParameter indicates that a template declares the same parameter twice.
	// Compile returns it wrapped in a [*DuplicateParameterError].
	ErrDuplicateParameter = errors.New("duplicate route parameter")

	// ErrMissingParameter indicates that a required parameter for building a path is missing.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrInvalidParameterValue indicates that a parameter value is empty, contains
	// a '/', or would be captured differently when the built path is matched.
	ErrInvalidParameterValue = errors.New("invalid parameter value")
)

// DuplicateParameterError is returned by [Compile] when a parameter name
// occurs more than once in a template.
type DuplicateParameterError struct {
	Route     string // The template as written
	Parameter string // The repeated name, without the leading ':'
}

// Error implements the error interface.
func (e *DuplicateParameterError) Error() string {
	return fmt.Sprintf("duplicate parameter %q in route %q", e.Parameter, e.Route)
}

// Is reports whether target is [ErrDuplicateParameter].
func (e *DuplicateParameterError) Is(target error) bool {
	return target == ErrDuplicateParameter
}
