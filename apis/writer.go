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

// Writer is the low-level structured output the emitter drives.
// Calls are synchronous and ordered; the first error aborts the write in
// progress and the output produced so far must be treated as indeterminate.
type Writer interface {
	// BeginArray opens an array. sizeHint is the element count or -1.
	BeginArray(sizeHint int) error
	// EndArray closes the innermost array.
	EndArray() error
	// BeginObject opens an object.
	BeginObject() error
	// WriteField writes a field name inside the innermost object.
	// The next value written becomes that field's value.
	WriteField(name string) error
	// EndObject closes the innermost object.
	EndObject() error
	// WriteScalar writes a string, bool or numeric value.
	WriteScalar(v any) error
	// WriteNull writes an explicit null.
	WriteNull() error
	// WriteReference writes a reference token for an already emitted object.
	WriteReference(id any) error
}
