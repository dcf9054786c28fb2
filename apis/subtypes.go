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

// NamedType is a subtype descriptor: a concrete type plus an optional
// explicit type id.
type NamedType struct {
	// Type is the described type.
	Type reflect.Type
	// Name is the explicit type id, or "" to derive the default one.
	Name string
}

// HasName reports whether the descriptor carries an explicit id.
func (n NamedType) HasName() bool { return n.Name != "" }

// SubtypeCollector supplies the subtype universe a TypeIDResolver is built from.
type SubtypeCollector interface {
	// DeclaredSubtypes returns the ordered descriptors declared for t.
	DeclaredSubtypes(t reflect.Type) []NamedType

	// DiscoverImplementations returns further implementations of t found
	// at runtime. Discovery is best-effort: callers swallow the error.
	DiscoverImplementations(t reflect.Type) ([]reflect.Type, error)
}
