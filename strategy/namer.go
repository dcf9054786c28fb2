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

	"dirpx.dev/polyref/apis"
)

// taggerType is the reflect.Type of apis.TypeTagger.
var taggerType = reflect.TypeOf((*apis.TypeTagger)(nil)).Elem()

// NewTaggerStrategy creates an apis.Strategy that asks types implementing
// apis.TypeTagger for their own id.
func NewTaggerStrategy() apis.Strategy {
	return &taggerStrategy{}
}

// taggerStrategy is the self-description fast path: if a zero value of the
// type implements apis.TypeTagger, its TypeTag() wins.
type taggerStrategy struct{}

// Ensure taggerStrategy implements apis.Strategy.
var _ apis.Strategy = (*taggerStrategy)(nil)

// TryResolveType instantiates a zero value of t and asks it for its tag.
// Interface types cannot be instantiated and never resolve here.
func (*taggerStrategy) TryResolveType(t reflect.Type) (string, bool) {
	if t == nil || t.Kind() == reflect.Interface {
		return "", false
	}
	var v any
	switch {
	case t.Kind() == reflect.Pointer && t.Implements(taggerType):
		// Never hand a nil pointer to TypeTag.
		v = reflect.New(t.Elem()).Interface()
	case t.Implements(taggerType):
		v = reflect.Zero(t).Interface()
	case reflect.PointerTo(t).Implements(taggerType):
		v = reflect.New(t).Interface()
	default:
		return "", false
	}
	name := v.(apis.TypeTagger).TypeTag()
	if name == "" {
		return "", false
	}
	return name, true
}
