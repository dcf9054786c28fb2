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

// Package container writes element sequences through an emitter.
//
// A top-level Write owns the reference memory scope: the memory is replaced
// before the first element and, under apis.ScopePerRootElement, before every
// element after it. Sequences with a single element may be written bare
// instead of as a one-element array.
package container

import (
	"fmt"
	"iter"
	"reflect"

	"dirpx.dev/polyref/apis"
)

// Writer writes sequences of homogeneous elements.
// A Writer holds no per-call state and may be reused for sequential calls.
type Writer struct {
	e            apis.ScopedEmitter
	serializers  apis.SerializerResolver
	scope        apis.Scope
	unwrapSingle bool
	unwrap       apis.UnwrapOverride
	prop         apis.Property
}

// Option configures a Writer.
type Option func(*Writer)

// WithConfig takes the scope and the global unwrap flag from cfg.
func WithConfig(cfg apis.Config) Option {
	return func(w *Writer) {
		w.scope = cfg.Scope
		w.unwrapSingle = cfg.UnwrapSingle
	}
}

// WithScope sets the reference memory scope for top-level writes.
func WithScope(s apis.Scope) Option {
	return func(w *Writer) { w.scope = s }
}

// WithUnwrap sets the per-call unwrap override.
func WithUnwrap(u apis.UnwrapOverride) Option {
	return func(w *Writer) { w.unwrap = u }
}

// WithProperty sets the property context passed to the serializer resolver.
func WithProperty(p apis.Property) Option {
	return func(w *Writer) { w.prop = p }
}

// New returns a Writer emitting through e. serializers resolves element
// serializers, at most once per concrete type per call.
func New(e apis.ScopedEmitter, serializers apis.SerializerResolver, opts ...Option) *Writer {
	w := &Writer{e: e, serializers: serializers}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Write writes seq as a top-level container and drives the scope transitions.
func (w *Writer) Write(seq Sequence) error {
	return w.write(seq, true)
}

// WriteNested writes seq as a container reached inside another value. The
// active reference memory is kept as is.
func (w *Writer) WriteNested(seq Sequence) error {
	return w.write(seq, false)
}

// call is the state of one write.
type call struct {
	*Writer
	top   bool
	index int
	cache map[reflect.Type]apis.ValueSerializer
}

func (w *Writer) write(seq Sequence, top bool) error {
	out := w.e.Writer()

	next, stop := iter.Pull(seq.All())
	defer stop()

	first, ok := next()
	if !ok {
		if err := out.BeginArray(0); err != nil {
			return err
		}
		return out.EndArray()
	}
	second, more := next()

	c := &call{Writer: w, top: top, cache: make(map[reflect.Type]apis.ValueSerializer)}
	if !more && w.unwrap.Apply(w.unwrapSingle) {
		return c.element(first)
	}

	hint := -1
	if s, ok := seq.(Sized); ok {
		hint = s.Len()
	}
	if err := out.BeginArray(hint); err != nil {
		return err
	}
	if err := c.element(first); err != nil {
		return err
	}
	if more {
		if err := c.element(second); err != nil {
			return err
		}
		for v, ok := next(); ok; v, ok = next() {
			if err := c.element(v); err != nil {
				return err
			}
		}
	}
	return out.EndArray()
}

// element emits one element, replacing the memory first when the scope asks
// for it.
func (c *call) element(v any) error {
	if c.top && (c.index == 0 || c.scope == apis.ScopePerRootElement) {
		c.e.Reset()
	}
	c.index++

	if v == nil {
		return c.e.Writer().WriteNull()
	}
	t := reflect.TypeOf(v)
	s, ok := c.cache[t]
	if !ok {
		if c.serializers == nil {
			return fmt.Errorf("polyref(container): no serializer resolver for %v", t)
		}
		var err error
		if s, err = c.serializers.SerializerFor(t, c.prop); err != nil {
			return err
		}
		c.cache[t] = s
	}
	return c.e.EmitWith(v, s)
}
