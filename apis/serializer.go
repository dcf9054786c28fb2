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

import "reflect"

// Property describes where a value sits: the declaring field, if any.
// Resolvers may use it to pick field-specific serializers.
type Property struct {
	// Name is the field name, or "" for top-level and element values.
	Name string
}

// Emitter is the re-entry point value serializers call for nested values so
// that identity tracking covers the whole reachable graph.
type Emitter interface {
	// Emit writes v, substituting a reference token when v was already
	// emitted in the active scope.
	Emit(v any) error
	// EmitWith is Emit with an already resolved serializer for v.
	EmitWith(v any, s ValueSerializer) error
	// Writer returns the structured writer being driven.
	Writer() Writer
}

// ScopedEmitter is an Emitter whose reference memory can be replaced.
// Container writers use it to drive scope transitions.
type ScopedEmitter interface {
	Emitter
	// Reset replaces the reference memory with a fresh, empty one.
	Reset()
}

// ValueSerializer writes the structural content of one value.
type ValueSerializer interface {
	// Serialize writes v to w. Nested values go through e.
	Serialize(v any, w Writer, e Emitter) error
}

// ValueSerializerFunc adapts a function to ValueSerializer.
type ValueSerializerFunc func(v any, w Writer, e Emitter) error

// Serialize implements ValueSerializer.
func (f ValueSerializerFunc) Serialize(v any, w Writer, e Emitter) error {
	return f(v, w, e)
}

// SerializerResolver looks up the serializer for a concrete runtime type.
type SerializerResolver interface {
	SerializerFor(t reflect.Type, prop Property) (ValueSerializer, error)
}

// IdentityPolicy names object instances for reference deduplication.
type IdentityPolicy interface {
	// IdentityOf returns the identity of v and true, or false when v has no
	// configured identity and must always be emitted in full.
	IdentityOf(v any) (id any, ok bool)
}

// PassScoped is implemented by identity policies that keep state for one
// serialization pass. Emitters call ForPass once and use the result.
type PassScoped interface {
	ForPass() IdentityPolicy
}

// GeneratedIdentity is implemented by policies that invent identities
// instead of reading them from the value. A generated identity is written
// into the full emission under the returned field name so that reference
// tokens can be resolved by a reader.
type GeneratedIdentity interface {
	IdentityPolicy
	IDField(v any) (name string, ok bool)
}

// GeneratedIDSource is implemented by emitters that carry a generated
// identity for the object about to be written. Serializers that open an
// object take it right after BeginObject.
type GeneratedIDSource interface {
	TakeGeneratedID() (field string, id any, ok bool)
}

// IdentityFunc adapts a function to IdentityPolicy.
type IdentityFunc func(v any) (any, bool)

// IdentityOf implements IdentityPolicy.
func (f IdentityFunc) IdentityOf(v any) (any, bool) { return f(v) }
