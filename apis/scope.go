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

// ErrUnknownScope is returned when a textual scope cannot be parsed.
var ErrUnknownScope = errors.New("polyref(apis): unknown scope")

// Scope selects the span over which "already emitted" object identities are
// remembered during one top-level container write.
//
// Scope is chosen per call, never per object.
type Scope int

const (
	// ScopeDocument keeps a single reference memory for the whole write.
	// An object shared by two top-level elements is emitted once and
	// referenced from the second element onwards.
	ScopeDocument Scope = iota

	// ScopePerRootElement replaces the reference memory with a fresh one
	// before every top-level element. Siblings cannot reference each other,
	// but cycles contained inside one element still collapse to references.
	ScopePerRootElement
)

// String returns the canonical token for s.
func (s Scope) String() string {
	switch s {
	case ScopeDocument:
		return "document"
	case ScopePerRootElement:
		return "per-root-element"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ParseScope parses a scope token. Matching is case-insensitive and
// surrounding whitespace is ignored.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "document", "":
		return ScopeDocument, nil
	case "per-root-element", "per_root_element", "per-root":
		return ScopePerRootElement, nil
	default:
		return ScopeDocument, fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	switch s {
	case ScopeDocument, ScopePerRootElement:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownScope, int(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure *s is left
// unchanged.
func (s *Scope) UnmarshalText(text []byte) error {
	v, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
