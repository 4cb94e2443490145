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

package logging

import "io"

// WithHandlerType selects the output encoding.
func WithHandlerType(t HandlerType) Option {
	return func(c *config) { c.handlerType = t }
}

// WithJSONHandler writes JSON lines (default).
func WithJSONHandler() Option {
	return WithHandlerType(JSONHandler)
}

// WithTextHandler writes key=value lines.
func WithTextHandler() Option {
	return WithHandlerType(TextHandler)
}

// WithOutput sets the destination. Defaults to os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// WithLevel drops entries below level.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithSource adds the file:line of the logging call to every entry.
func WithSource(enabled bool) Option {
	return func(c *config) { c.addSource = enabled }
}

// WithServiceName adds service.name to every entry.
func WithServiceName(name string) Option {
	return func(c *config) { c.serviceName = name }
}

// WithServiceVersion adds service.version to every entry.
func WithServiceVersion(version string) Option {
	return func(c *config) { c.serviceVersion = version }
}
