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

// Package polyref writes object graphs as JSON with identity-scoped
// back-references and polymorphic type tags.
//
// # Design
//
// A Mapper owns an immutable snapshot holding:
//
//   - Config: reference scope, single-element unwrapping, case folding of
//     type ids and whether explicit id overrides are consulted.
//
//   - Registry: explicit type to id names. Registering a name drops the
//     cached type id resolvers so the name applies to types resolved later.
//
//   - the override chain built from the Registry: a type implementing
//     apis.TypeTagger names itself, otherwise the Registry is consulted,
//     otherwise the unqualified Go type name is used.
//
//   - the serializer resolver, and one type id resolver per base type and
//     mode, built on first use.
//
// Readers load the snapshot atomically. SetConfig, SetRegistry, SetBuilder
// and RegisterName build a new snapshot under a mutex and publish it.
//
// # References
//
// With an identity policy configured, the first time an object with a given
// identity is reached it is written in full; every later encounter in the
// same scope writes the bare identity instead. The identity is recorded
// before the object's fields are written, so cycles terminate.
//
// Top-level slices are written element by element. Under
// apis.ScopeDocument one memory spans the whole write. Under
// apis.ScopePerRootElement the memory is reset before each element, so
// siblings never reference each other:
//
//	m := polyref.New(polyref.WithIdentity(identity.Property("ID")))
//	out, err := m.WriteValueAsString(nodes, polyref.WithScope(apis.ScopePerRootElement))
//
// # Type ids
//
// WithTyping(base) wraps every value of base or one of its subtypes as
// ["<id>", <value>]. Ids come from the subtypes the configured collector
// declares for base, then from the override chain. A deserialization mode
// resolver maps ids back to types:
//
//	r, err := m.TypeIDResolver(reflect.TypeFor[Shape](), false)
//	t, ok := r.TypeForID("circle")
package polyref
