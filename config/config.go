/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"dirpx.dev/polyref/apis"
)

const (
	// DefaultCaseInsensitiveIDs represents the default for CaseInsensitiveIDs.
	// Type ids are matched exactly unless configured otherwise.
	DefaultCaseInsensitiveIDs = false
	// DefaultUnwrapSingle represents the default for UnwrapSingle.
	DefaultUnwrapSingle = false
	// DefaultScope represents the default for Scope.
	DefaultScope = apis.ScopeDocument
	// DefaultNameOverrides represents the default for NameOverrides.
	// When true, explicit names win over the derived unqualified type name.
	DefaultNameOverrides = true
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap is valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		CaseInsensitiveIDs: DefaultCaseInsensitiveIDs,
		UnwrapSingle:       DefaultUnwrapSingle,
		Scope:              DefaultScope,
		NameOverrides:      DefaultNameOverrides,
		MaxUnwrap:          DefaultMaxUnwrap,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithCaseInsensitiveIDs sets the CaseInsensitiveIDs option.
func WithCaseInsensitiveIDs(on bool) Option {
	return func(c *apis.Config) {
		c.CaseInsensitiveIDs = on
	}
}

// WithUnwrapSingle sets the UnwrapSingle option.
func WithUnwrapSingle(on bool) Option {
	return func(c *apis.Config) {
		c.UnwrapSingle = on
	}
}

// WithScope sets the default reference scope.
func WithScope(s apis.Scope) Option {
	return func(c *apis.Config) {
		c.Scope = s
	}
}

// WithNameOverrides sets the NameOverrides option.
func WithNameOverrides(on bool) Option {
	return func(c *apis.Config) {
		c.NameOverrides = on
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}
