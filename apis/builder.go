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

// Builder composes the name-override Registry and resolver chain from a
// Config, and builds type id resolvers on top of them.
// Implementations may migrate state from previous instances, or ignore them.
type Builder interface {
	// BuildRegistry constructs a Registry for Config. May migrate entries
	// from the previous registry.
	BuildRegistry(cfg Config, prev Registry) Registry
	// BuildResolver constructs the override chain for Config and Registry.
	BuildResolver(cfg Config, reg Registry) NameOverrider
	// BuildTypeIDResolver constructs a type id resolver for base in
	// serialization (forSer) or deserialization mode, seeded with the
	// subtypes the collector declares for base.
	BuildTypeIDResolver(cfg Config, overrider NameOverrider, collector SubtypeCollector, base reflect.Type, forSer bool) (TypeIDResolver, error)
}
