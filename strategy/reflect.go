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

package strategy

import (
	"reflect"
	"strings"
	"sync"

	uref "dirpx.dev/polyref/utils/reflect"
)

// defaultIDCache memoizes DefaultTypeID by type.
var defaultIDCache sync.Map // key: reflect.Type, val: string

// DefaultTypeID derives the id used when no explicit name exists: the
// unqualified type name, i.e. the part after the last package separator,
// with pointers unwrapped and generic instantiation parameters stripped.
//
// Unnamed types (slices, maps, anonymous structs) use their full type
// string. DefaultTypeID returns "" only for a nil type.
func DefaultTypeID(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if v, ok := defaultIDCache.Load(t); ok {
		return v.(string)
	}

	base := uref.Deref(t)
	var name string
	if n := base.Name(); n != "" {
		name = unqualified(stripTypeParams(n))
	} else {
		name = base.String()
	}

	defaultIDCache.Store(t, name)
	return name
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}

// unqualified returns the part of s after the last '.'.
func unqualified(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}
