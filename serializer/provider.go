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

// Package serializer provides reflection based value serializers and a
// caching apis.SerializerResolver.
//
// Struct fields are written in declaration order under their Go name, or
// under the name given by a `polyref:"name"` tag. A `polyref:"-"` tag skips
// the field and `polyref:"name,omitempty"` skips zero values. Field values,
// map values and slice elements re-enter the emitter, so identity tracking
// and the dynamic type of interface values apply to them.
package serializer

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/polyref/apis"
)

// ErrUnsupportedType is returned for kinds that have no textual form.
var ErrUnsupportedType = errors.New("polyref(serializer): unsupported type")

// Provider resolves and caches serializers by type.
// Provider is safe for concurrent use.
type Provider struct {
	cfg       apis.Config
	overrides map[reflect.Type]apis.ValueSerializer
	cache     sync.Map // map[reflect.Type]apis.ValueSerializer
}

// Ensure Provider implements apis.SerializerResolver.
var _ apis.SerializerResolver = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithConfig sets the configuration used for nested containers.
func WithConfig(cfg apis.Config) Option {
	return func(p *Provider) { p.cfg = cfg }
}

// WithSerializer installs s for exactly t, ahead of reflection.
func WithSerializer(t reflect.Type, s apis.ValueSerializer) Option {
	return func(p *Provider) {
		if t != nil && s != nil {
			p.overrides[t] = s
		}
	}
}

// NewProvider returns a Provider.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{overrides: make(map[reflect.Type]apis.ValueSerializer)}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// SerializerFor implements apis.SerializerResolver. The property context
// does not change the result.
func (p *Provider) SerializerFor(t reflect.Type, _ apis.Property) (apis.ValueSerializer, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrUnsupportedType)
	}
	if s, ok := p.cache.Load(t); ok {
		return s.(apis.ValueSerializer), nil
	}
	s, err := p.build(t)
	if err != nil {
		return nil, err
	}
	actual, _ := p.cache.LoadOrStore(t, s)
	return actual.(apis.ValueSerializer), nil
}

var (
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	byteSliceType     = reflect.TypeFor[[]byte]()
)

func (p *Provider) build(t reflect.Type) (apis.ValueSerializer, error) {
	if s, ok := p.overrides[t]; ok {
		return s, nil
	}
	if t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) || t == byteSliceType {
		return scalar, nil
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return scalar, nil
	case reflect.Pointer:
		elem, err := p.SerializerFor(t.Elem(), apis.Property{})
		if err != nil {
			return nil, err
		}
		return pointer{elem: elem}, nil
	case reflect.Struct:
		return newStruct(t), nil
	case reflect.Slice, reflect.Array:
		return sequence{p: p}, nil
	case reflect.Map:
		switch t.Key().Kind() {
		case reflect.String,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return mapping{}, nil
		}
		if t.Key().Implements(textMarshalerType) {
			return mapping{}, nil
		}
		return nil, fmt.Errorf("%w: map key %v", ErrUnsupportedType, t.Key())
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
}

var scalar = apis.ValueSerializerFunc(func(v any, w apis.Writer, _ apis.Emitter) error {
	return w.WriteScalar(v)
})

// pointer writes the content of the pointee. Identity has already been
// decided on the pointer itself.
type pointer struct {
	elem apis.ValueSerializer
}

func (s pointer) Serialize(v any, w apis.Writer, e apis.Emitter) error {
	rv := reflect.ValueOf(v)
	if rv.IsNil() {
		return w.WriteNull()
	}
	return s.elem.Serialize(rv.Elem().Interface(), w, e)
}
