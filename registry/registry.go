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

package registry

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"dirpx.dev/polyref/apis"
	"dirpx.dev/polyref/config"
	uref "dirpx.dev/polyref/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("polyref(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("polyref(registry): empty name provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different name.
	ErrConflictingRegistration = errors.New("polyref(registry): conflicting type registration")
)

// New constructs a Registry of explicit type ids that normalizes types
// according to cfg. Only MaxUnwrap is used here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps reflect.Type to registered name.
	m sync.Map // map[reflect.Type]string
	// count tracks the number of registered entries.
	count int
}

// Register associates the named type behind t with the given type id.
// It is idempotent for the same (type,name) pair.
func (r *registry) Register(t reflect.Type, name string) error {
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}

	b := r.key(t)

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(b); ok {
		return conflict(b, old.(string), name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(b); ok {
		return conflict(b, old.(string), name)
	}

	r.m.Store(b, name)
	r.count++
	return nil
}

// conflict returns nil for an idempotent re-registration.
func conflict(t reflect.Type, old, name string) error {
	if old == name {
		return nil
	}
	return fmt.Errorf("%w: %v is already named %q, not %q", ErrConflictingRegistration, t, old, name)
}

// Lookup returns the type id registered for t.
func (r *registry) Lookup(t reflect.Type) (name string, ok bool) {
	if t == nil {
		return "", false
	}
	if v, ok := r.m.Load(r.key(t)); ok {
		return v.(string), true
	}
	return "", false
}

// key strips pointers so *T and T share an entry. Unnamed types are kept
// as they are; they can still carry an explicit id.
func (r *registry) key(t reflect.Type) reflect.Type {
	if nt, err := uref.Normalize(t, r.cfg); err == nil {
		return nt
	}
	return uref.Deref(t)
}

// Entries returns a snapshot ordered by name, then by type string.
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type: key.(reflect.Type),
			Name: value.(string),
		})
		return true
	})
	slices.SortFunc(entries, func(a, b apis.Entry) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Type.String(), b.Type.String()))
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
