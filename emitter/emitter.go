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

// Package emitter decides, for every object reached during a serialization
// pass, whether to write it in full or as a reference to an earlier
// emission.
//
// Identities are marked before the object's content is written, so a cycle
// that leads back to an object still being written resolves to a reference.
package emitter

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/polyref/apis"
	uref "dirpx.dev/polyref/utils/reflect"
)

var (
	// ErrIdentityNotComparable is returned when an identity policy yields a
	// value that cannot be used as a set key.
	ErrIdentityNotComparable = errors.New("polyref(emitter): identity is not comparable")
	// ErrNoSerializer is returned by Emit when no serializer resolver is
	// configured or the resolver returned none.
	ErrNoSerializer = errors.New("polyref(emitter): no serializer")
)

// Emitter writes values to an apis.Writer with identity-scoped reference
// substitution and, optionally, polymorphic type tags.
type Emitter struct {
	w           apis.Writer
	serializers apis.SerializerResolver
	identity    apis.IdentityPolicy
	typing      apis.TypeIDResolver
	mem         *Memory
	pending     pendingID
}

// pendingID is a generated identity waiting for its object to be opened.
type pendingID struct {
	field string
	id    any
	ok    bool
}

// Ensure Emitter implements apis.ScopedEmitter and apis.GeneratedIDSource.
var (
	_ apis.ScopedEmitter     = (*Emitter)(nil)
	_ apis.GeneratedIDSource = (*Emitter)(nil)
)

// Option configures an Emitter.
type Option func(*Emitter)

// WithIdentity makes values with an identity reference-eligible. A policy
// implementing apis.PassScoped is forked once for this emitter.
func WithIdentity(p apis.IdentityPolicy) Option {
	return func(e *Emitter) { e.identity = p }
}

// WithTyping wraps full emissions of the resolver's base type and its
// subtypes as ["<tag>", <value>].
func WithTyping(r apis.TypeIDResolver) Option {
	return func(e *Emitter) { e.typing = r }
}

// New returns an Emitter driving w. serializers resolves the value
// serializer used by Emit.
func New(w apis.Writer, serializers apis.SerializerResolver, opts ...Option) *Emitter {
	e := &Emitter{
		w:           w,
		serializers: serializers,
		mem:         NewMemory(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if ps, ok := e.identity.(apis.PassScoped); ok {
		e.identity = ps.ForPass()
	}
	return e
}

// Writer implements apis.Emitter.
func (e *Emitter) Writer() apis.Writer { return e.w }

// Memory returns the active reference memory.
func (e *Emitter) Memory() *Memory { return e.mem }

// Reset implements apis.ScopedEmitter.
func (e *Emitter) Reset() { e.mem = NewMemory() }

// Emit implements apis.Emitter. The serializer for v is resolved on every
// call; container writers cache it and use EmitWith instead.
func (e *Emitter) Emit(v any) error {
	if isNil(v) {
		return e.w.WriteNull()
	}
	if e.serializers == nil {
		return fmt.Errorf("%w for %T", ErrNoSerializer, v)
	}
	s, err := e.serializers.SerializerFor(reflect.TypeOf(v), apis.Property{})
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w for %T", ErrNoSerializer, v)
	}
	return e.EmitWith(v, s)
}

// EmitWith implements apis.Emitter.
// A nil identity counts as no identity.
func (e *Emitter) EmitWith(v any, s apis.ValueSerializer) error {
	e.pending = pendingID{}
	if isNil(v) {
		return e.w.WriteNull()
	}
	if e.identity != nil {
		if id, ok := e.identity.IdentityOf(v); ok && id != nil {
			if !reflect.ValueOf(id).Comparable() {
				return fmt.Errorf("%w: %T for %T", ErrIdentityNotComparable, id, v)
			}
			if e.mem.Contains(id) {
				return e.w.WriteReference(id)
			}
			e.mem.Mark(id)
			if g, ok := e.identity.(apis.GeneratedIdentity); ok {
				if field, ok := g.IDField(v); ok {
					e.pending = pendingID{field: field, id: id, ok: true}
				}
			}
		}
	}
	return e.full(v, s)
}

// TakeGeneratedID implements apis.GeneratedIDSource. The identity is handed
// out once, to the first object opened for the value being emitted.
func (e *Emitter) TakeGeneratedID() (string, any, bool) {
	p := e.pending
	e.pending = pendingID{}
	return p.field, p.id, p.ok
}

// full writes the content of v, wrapped with its type tag when typing applies.
func (e *Emitter) full(v any, s apis.ValueSerializer) error {
	tag, typed := e.tagFor(v)
	if !typed {
		return s.Serialize(v, e.w, e)
	}
	if err := e.w.BeginArray(2); err != nil {
		return err
	}
	if err := e.w.WriteScalar(tag); err != nil {
		return err
	}
	if err := s.Serialize(v, e.w, e); err != nil {
		return err
	}
	return e.w.EndArray()
}

func (e *Emitter) tagFor(v any) (string, bool) {
	if e.typing == nil {
		return "", false
	}
	base := e.typing.BaseType()
	t := reflect.TypeOf(v)
	if uref.Deref(t) != uref.Deref(base) && !uref.IsSubtype(t, base) {
		return "", false
	}
	return e.typing.IDForValue(v), true
}

// isNil reports nil interfaces and nil pointers, maps and slices.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
