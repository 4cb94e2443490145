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

// Package config loads route tables from YAML, TOML or JSON files and
// compiles them into a [routeset.Set].
//
// A route table file lists named templates, optionally with example paths
// that each template must match:
//
//	routes:
//	  - name: video
//	    template: /video/:id
//	    examples: [/video/42]
package config

import (
	"fmt"
	"os"

	"rivaas.dev/routepattern/config/codec"
	"rivaas.dev/routepattern/pattern"
	"rivaas.dev/routepattern/routeset"
)

// RouteEntry is a single declared route.
type RouteEntry struct {
	Name     string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty" validate:"omitempty,max=128,printascii"`
	Template string   `json:"template" yaml:"template" toml:"template" validate:"required,utf8"`
	Examples []string `json:"examples,omitempty" yaml:"examples,omitempty" toml:"examples,omitempty" validate:"omitempty,dive,required,utf8"`
}

// RouteTable is the decoded content of a route table file.
type RouteTable struct {
	Routes []RouteEntry `json:"routes" yaml:"routes" toml:"routes" validate:"required,min=1,dive"`

	source string
}

// Source returns the file path or codec type the table was decoded from.
func (t *RouteTable) Source() string {
	return t.source
}

// Load reads and decodes the route table at path. The codec is chosen by
// the file extension.
func Load(path string) (*RouteTable, error) {
	typ, err := codec.TypeFromPath(path)
	if err != nil {
		return nil, NewError(path, "decode", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError(path, "read", err)
	}

	return decode(data, typ, path)
}

// Decode decodes a route table held in memory.
func Decode(data []byte, typ codec.Type) (*RouteTable, error) {
	return decode(data, typ, string(typ))
}

func decode(data []byte, typ codec.Type, source string) (*RouteTable, error) {
	dec, err := codec.GetDecoder(typ)
	if err != nil {
		return nil, NewError(source, "decode", err)
	}

	table := &RouteTable{source: source}
	if err = dec.Decode(data, table); err != nil {
		return nil, NewError(source, "decode", err)
	}

	return table, nil
}

// Encode writes the table with the codec registered for typ.
func (t *RouteTable) Encode(typ codec.Type) ([]byte, error) {
	enc, err := codec.GetEncoder(typ)
	if err != nil {
		return nil, NewError(t.source, "encode", err)
	}

	data, err := enc.Encode(t)
	if err != nil {
		return nil, NewError(t.source, "encode", err)
	}

	return data, nil
}

// Compile validates the table and compiles every entry into a new
// [routeset.Set] in declaration order. The first failing entry is reported
// as an [*Error] whose Field is "routes[i]". Examples are verified after
// their entry compiles.
func (t *RouteTable) Compile(opts ...routeset.Option) (*routeset.Set, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	set, err := routeset.New(opts...)
	if err != nil {
		return nil, NewError(t.source, "compile", err)
	}

	names := make(map[string]int, len(t.Routes))
	for i, entry := range t.Routes {
		field := fmt.Sprintf("routes[%d]", i)

		if entry.Name != "" {
			if prev, dup := names[entry.Name]; dup {
				return nil, NewFieldError(t.source, field, "compile",
					fmt.Errorf("%w: %q also declared at routes[%d]", ErrDuplicateName, entry.Name, prev))
			}
			names[entry.Name] = i
		}

		p, err := set.AddTemplate(entry.Template)
		if err != nil {
			return nil, NewFieldError(t.source, field, "compile", err)
		}

		if err = verify(p, entry.Examples); err != nil {
			return nil, NewFieldError(t.source, field, "verify", err)
		}
	}

	return set, nil
}

func verify(p *pattern.RoutePattern, examples []string) error {
	for _, path := range examples {
		if !p.MatchString(path) {
			return fmt.Errorf("%w: %q against %q", ErrExampleMismatch, path, p.Template())
		}
	}
	return nil
}
