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

// TypeIDResolver maps runtime types to type ids and back for one base type.
type TypeIDResolver interface {
	// BaseType returns the base type the resolver was built for.
	BaseType() reflect.Type
	// IDForType returns the id for t, or "" when t is nil.
	IDForType(t reflect.Type) string
	// IDForValue returns the id for the dynamic type of v, or "" when v is nil.
	IDForValue(v any) string
	// TypeForID returns the type bound to id. A miss is not an error:
	// fallback policy belongs to the caller.
	TypeForID(id string) (reflect.Type, bool)
	// DescribeKnownIDs lists the decodable ids in sorted order.
	DescribeKnownIDs() string
}
