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

// Package discovery provides a table-driven apis.SubtypeCollector.
//
// Go has no classpath to scan, so subtypes are declared up front and
// runtime implementations come from provider functions registered per base
// type, the way plugins register themselves from init functions.
package discovery

import (
	"errors"
	"reflect"
	"slices"
	"sync"

	"dirpx.dev/polyref/apis"
	uref "dirpx.dev/polyref/utils/reflect"
)

// ImplementationsFunc reports implementations of a base type found at
// runtime. It may fail; the registry build treats failures as "no result".
type ImplementationsFunc func() ([]reflect.Type, error)

// Table is a concurrency-safe SubtypeCollector backed by explicit
// declarations. The zero value is not usable; call NewTable.
type Table struct {
	mu        sync.RWMutex
	names     map[reflect.Type]string
	declared  map[reflect.Type][]apis.NamedType
	providers map[reflect.Type][]ImplementationsFunc
}

// Ensure Table implements apis.SubtypeCollector.
var _ apis.SubtypeCollector = (*Table)(nil)

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{
		names:     map[reflect.Type]string{},
		declared:  map[reflect.Type][]apis.NamedType{},
		providers: map[reflect.Type][]ImplementationsFunc{},
	}
}

// Name sets the explicit id a concrete type reports for itself.
func (t *Table) Name(typ reflect.Type, name string) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names[uref.Deref(typ)] = name
	return t
}

// Declare appends subtype descriptors for base, keeping declaration order.
func (t *Table) Declare(base reflect.Type, subtypes ...apis.NamedType) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := uref.Deref(base)
	for _, s := range subtypes {
		if s.Type == nil {
			continue
		}
		s.Type = uref.Deref(s.Type)
		t.declared[key] = append(t.declared[key], s)
	}
	return t
}

// Provide registers a runtime implementation provider for base.
func (t *Table) Provide(base reflect.Type, fn ImplementationsFunc) *Table {
	if fn == nil {
		return t
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	key := uref.Deref(base)
	t.providers[key] = append(t.providers[key], fn)
	return t
}

// DeclaredSubtypes returns the descriptors for typ. A concrete type lists
// itself first (with its explicit name, if any), followed by the subtypes
// declared for it. Interface types list only their declared subtypes.
func (t *Table) DeclaredSubtypes(typ reflect.Type) []apis.NamedType {
	if typ == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	key := uref.Deref(typ)
	var out []apis.NamedType
	if key.Kind() != reflect.Interface {
		out = append(out, apis.NamedType{Type: key, Name: t.names[key]})
	}
	for _, s := range t.declared[key] {
		if s.Name == "" {
			s.Name = t.names[s.Type]
		}
		out = append(out, s)
	}
	return out
}

// DiscoverImplementations runs the providers registered for typ in order.
// Results of successful providers are returned even when others fail; the
// failures are joined into the returned error.
func (t *Table) DiscoverImplementations(typ reflect.Type) ([]reflect.Type, error) {
	if typ == nil {
		return nil, nil
	}
	t.mu.RLock()
	providers := slices.Clone(t.providers[uref.Deref(typ)])
	t.mu.RUnlock()

	var (
		out  []reflect.Type
		errs []error
	)
	for _, fn := range providers {
		found, err := fn()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, f := range found {
			if f != nil {
				out = append(out, uref.Deref(f))
			}
		}
	}
	return out, errors.Join(errs...)
}
