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

package emitter

// Memory is the set of object identities fully emitted in the active scope.
// Identities are only ever added. A Memory belongs to one serialization pass
// and must not be shared between goroutines.
type Memory struct {
	seen map[any]struct{}
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{seen: make(map[any]struct{})}
}

// Contains reports whether id was marked.
func (m *Memory) Contains(id any) bool {
	_, ok := m.seen[id]
	return ok
}

// Mark records id as emitted.
func (m *Memory) Mark(id any) {
	m.seen[id] = struct{}{}
}

// Len returns the number of marked identities.
func (m *Memory) Len() int { return len(m.seen) }
