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

package apis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownUnwrap is returned when a textual unwrap override cannot be parsed.
var ErrUnknownUnwrap = errors.New("polyref(apis): unknown unwrap override")

// UnwrapOverride is the per-call tri-state for single-element unwrapping.
// When set it takes precedence over Config.UnwrapSingle.
type UnwrapOverride int

const (
	// UnwrapDefault defers to Config.UnwrapSingle.
	UnwrapDefault UnwrapOverride = iota
	// UnwrapAlways forces a single element to be written bare.
	UnwrapAlways
	// UnwrapNever forces the bracketed form even for one element.
	UnwrapNever
)

// Apply reports whether a single-element container is written bare given
// the global default.
func (u UnwrapOverride) Apply(global bool) bool {
	switch u {
	case UnwrapAlways:
		return true
	case UnwrapNever:
		return false
	default:
		return global
	}
}

// String returns the canonical token for u.
func (u UnwrapOverride) String() string {
	switch u {
	case UnwrapDefault:
		return "default"
	case UnwrapAlways:
		return "always"
	case UnwrapNever:
		return "never"
	default:
		return fmt.Sprintf("Unknown(%d)", int(u))
	}
}

// ParseUnwrap parses an unwrap token ("default", "always", "never").
// "true" and "false" are accepted as aliases of always and never.
func ParseUnwrap(s string) (UnwrapOverride, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default", "":
		return UnwrapDefault, nil
	case "always", "true":
		return UnwrapAlways, nil
	case "never", "false":
		return UnwrapNever, nil
	default:
		return UnwrapDefault, fmt.Errorf("%w: %q", ErrUnknownUnwrap, s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UnwrapOverride) UnmarshalText(text []byte) error {
	v, err := ParseUnwrap(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
