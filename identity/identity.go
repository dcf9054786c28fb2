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

// Package identity provides apis.IdentityPolicy implementations.
//
// Property reads a designated struct field. Sequence and UUID synthesize
// identities per pointer to a struct or map and write them into the object
// under IDField. Their state is per serialization pass: an emitter forks the
// policy through ForPass, so numbering restarts with every write and the
// pointers seen are released with the emitter. ByType dispatches on the
// concrete type.
package identity

import (
	"reflect"
	"sync"

	"github.com/google/uuid"

	"dirpx.dev/polyref/apis"
	uref "dirpx.dev/polyref/utils/reflect"
)

// Property returns a policy whose identity is the value of the named
// exported field. Values without that field have no identity.
func Property(field string) apis.IdentityPolicy {
	return &property{field: field}
}

type property struct {
	field string
	// index caches field index paths by struct type; nil means absent.
	index sync.Map // map[reflect.Type][]int
}

func (p *property) IdentityOf(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	idx := p.fieldIndex(rv.Type())
	if idx == nil {
		return nil, false
	}
	f, err := rv.FieldByIndexErr(idx)
	if err != nil || !f.CanInterface() {
		return nil, false
	}
	return f.Interface(), true
}

func (p *property) fieldIndex(t reflect.Type) []int {
	if v, ok := p.index.Load(t); ok {
		return v.([]int)
	}
	var idx []int
	if sf, ok := t.FieldByName(p.field); ok && sf.IsExported() {
		idx = sf.Index
	}
	p.index.Store(t, idx)
	return idx
}

// IDField is the object field generated identities are written under.
const IDField = "@id"

// Sequence returns a policy numbering distinct pointers 1, 2, 3, ... in the
// order they are first seen.
func Sequence() apis.IdentityPolicy {
	return newSynthetic(func() func() any {
		var next int
		return func() any {
			next++
			return next
		}
	})
}

// UUID returns a policy assigning a random UUID string to each distinct
// pointer.
func UUID() apis.IdentityPolicy {
	return newSynthetic(func() func() any {
		return func() any { return uuid.NewString() }
	})
}

// synthetic assigns generated identities to pointers. Used directly, its
// state lives as long as the policy.
type synthetic struct {
	mu     sync.Mutex
	ids    map[any]any
	gen    func() any
	newGen func() func() any
}

var (
	_ apis.PassScoped        = (*synthetic)(nil)
	_ apis.GeneratedIdentity = (*synthetic)(nil)
)

func newSynthetic(newGen func() func() any) *synthetic {
	return &synthetic{ids: make(map[any]any), gen: newGen(), newGen: newGen}
}

// ForPass returns a fresh policy with its own generator and no pointers.
func (s *synthetic) ForPass() apis.IdentityPolicy { return newSynthetic(s.newGen) }

// IDField reports IDField for every value.
func (s *synthetic) IDField(any) (string, bool) { return IDField, true }

func (s *synthetic) IdentityOf(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, false
	}
	switch rv.Elem().Kind() {
	case reflect.Struct, reflect.Map:
	default:
		// Only objects have a place to carry the generated id.
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.ids[v]; ok {
		return id, true
	}
	id := s.gen()
	s.ids[v] = id
	return id, true
}

// ByType returns a policy that dispatches on the concrete type of the value,
// trying the exact type first and then the pointer-stripped one. Types
// without an entry have no identity.
func ByType(policies map[reflect.Type]apis.IdentityPolicy) apis.IdentityPolicy {
	return &byType{policies: policies}
}

type byType struct {
	policies map[reflect.Type]apis.IdentityPolicy
}

var (
	_ apis.PassScoped        = (*byType)(nil)
	_ apis.GeneratedIdentity = (*byType)(nil)
)

func (b *byType) lookup(v any) apis.IdentityPolicy {
	if v == nil {
		return nil
	}
	t := reflect.TypeOf(v)
	p, ok := b.policies[t]
	if !ok {
		p = b.policies[uref.Deref(t)]
	}
	return p
}

func (b *byType) IdentityOf(v any) (any, bool) {
	p := b.lookup(v)
	if p == nil {
		return nil, false
	}
	return p.IdentityOf(v)
}

// IDField delegates to the policy for v.
func (b *byType) IDField(v any) (string, bool) {
	if g, ok := b.lookup(v).(apis.GeneratedIdentity); ok {
		return g.IDField(v)
	}
	return "", false
}

// ForPass forks every pass-scoped member. A member shared by several types
// is forked once and stays shared.
func (b *byType) ForPass() apis.IdentityPolicy {
	forks := make(map[apis.IdentityPolicy]apis.IdentityPolicy)
	out := make(map[reflect.Type]apis.IdentityPolicy, len(b.policies))
	for t, p := range b.policies {
		ps, ok := p.(apis.PassScoped)
		if !ok {
			out[t] = p
			continue
		}
		if !reflect.ValueOf(p).Comparable() {
			out[t] = ps.ForPass()
			continue
		}
		f, seen := forks[p]
		if !seen {
			f = ps.ForPass()
			forks[p] = f
		}
		out[t] = f
	}
	return &byType{policies: out}
}
