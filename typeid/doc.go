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

// Package typeid binds runtime types to textual type ids for one base type.
//
// A Resolver is built once, for serialization or for deserialization (never
// both), from a subtype universe: the descriptors declared for the base type
// plus any implementations a SubtypeCollector discovers at runtime, walked
// recursively with a shared visited set.
//
// # Two maps, two rules
//
// The id-to-type map is filled during construction and never mutated after.
// When two types claim the same id, the more specific one (the subtype of
// the other) wins; when neither is a subtype of the other, the first one
// registered stays.
//
// The type-to-id map is seeded during construction of a serialization
// resolver, where the first registration of a type wins, and grows lazily on
// lookups for types outside the universe. Lazy fills may race: the id is a
// pure function of the type, so concurrent fills store the same value.
//
// Case-insensitive matching, when configured, folds ids to lower case on
// both sides of the id-to-type map.
package typeid
