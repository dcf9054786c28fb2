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

// TypeTagger lets a type choose its own type id. It is a type-level
// contract: TypeTag must not depend on instance state, since it may be
// called on a zero value.
type TypeTagger interface {
	TypeTag() string
}

// NameOverrider resolves explicit type ids ("name overrides") for types.
type NameOverrider interface {
	// OverrideName returns the explicit id for t, if any.
	OverrideName(t reflect.Type) (name string, ok bool)
}

// Strategy is a pluggable override step. A resolver chains strategies in
// order (e.g., TypeTagger -> Registry).
type Strategy interface {
	// TryResolveType returns (name, true) if the strategy handles t;
	// otherwise ("", false) to fall through.
	TryResolveType(t reflect.Type) (name string, handled bool)
}
