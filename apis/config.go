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

// Config carries read-only knobs shared by the registry, the emitter and the
// container writer. It is passed by value and should be treated as immutable.
type Config struct {
	// CaseInsensitiveIDs folds type ids to lower case on both registration
	// and lookup of the id-to-type map.
	CaseInsensitiveIDs bool

	// UnwrapSingle writes single-element containers without brackets unless
	// a per-call UnwrapOverride says otherwise.
	UnwrapSingle bool

	// Scope is the default reference scope for top-level container writes.
	Scope Scope

	// NameOverrides controls whether type id derivation consults the
	// name-override chain before falling back to the unqualified type name.
	NameOverrides bool

	// MaxUnwrap limits pointer unwrapping when normalizing types.
	// Acts as a safety guard against pathological nesting.
	MaxUnwrap int
}
