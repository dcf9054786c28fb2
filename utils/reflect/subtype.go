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

package reflect

import "reflect"

// IsSubtype reports whether sub is a strict subtype of super.
//
// Go has no class inheritance, so two relations stand in for it:
//   - super is an interface and sub (or *sub) implements it;
//   - sub is a struct that embeds super, directly or through other
//     embedded structs.
//
// Pointer levels are ignored on both sides. A type is never a strict
// subtype of itself.
func IsSubtype(sub, super reflect.Type) bool {
	if sub == nil || super == nil {
		return false
	}
	if Deref(sub) == Deref(super) {
		return false
	}
	if super.Kind() == reflect.Interface {
		if sub.Implements(super) {
			return true
		}
		if sub.Kind() != reflect.Pointer && sub.Kind() != reflect.Interface {
			return reflect.PointerTo(sub).Implements(super)
		}
		return false
	}
	return embeds(Deref(sub), Deref(super), map[reflect.Type]struct{}{})
}

// embeds walks the anonymous fields of s looking for target.
func embeds(s, target reflect.Type, seen map[reflect.Type]struct{}) bool {
	if s.Kind() != reflect.Struct {
		return false
	}
	if _, ok := seen[s]; ok {
		return false
	}
	seen[s] = struct{}{}
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := Deref(f.Type)
		if ft == target || embeds(ft, target, seen) {
			return true
		}
	}
	return false
}
