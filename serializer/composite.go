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

package serializer

import (
	"cmp"
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"dirpx.dev/polyref/apis"
	"dirpx.dev/polyref/container"
	uref "dirpx.dev/polyref/utils/reflect"
)

const tagKey = "polyref"

type field struct {
	name      string
	index     []int
	omitEmpty bool
}

// structure writes the exported fields of a struct as an object.
type structure struct {
	fields []field
}

func newStruct(t reflect.Type) structure {
	var fields []field
	for _, sf := range reflect.VisibleFields(t) {
		if sf.Anonymous && uref.Deref(sf.Type).Kind() == reflect.Struct {
			// Promoted fields are listed on their own.
			continue
		}
		if !sf.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(sf.Tag.Get(tagKey), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		fields = append(fields, field{
			name:      name,
			index:     sf.Index,
			omitEmpty: opts == "omitempty",
		})
	}
	return structure{fields: fields}
}

func (s structure) Serialize(v any, w apis.Writer, e apis.Emitter) error {
	rv := reflect.ValueOf(v)
	if err := w.BeginObject(); err != nil {
		return err
	}
	if err := writeGeneratedID(w, e); err != nil {
		return err
	}
	for _, f := range s.fields {
		fv, err := rv.FieldByIndexErr(f.index)
		if err != nil {
			// Unreachable field behind a nil embedded pointer.
			continue
		}
		if f.omitEmpty && fv.IsZero() {
			continue
		}
		if err := w.WriteField(f.name); err != nil {
			return err
		}
		if err := e.Emit(fv.Interface()); err != nil {
			return err
		}
	}
	return w.EndObject()
}

// writeGeneratedID writes the identity the emitter generated for the object
// just opened, if any.
func writeGeneratedID(w apis.Writer, e apis.Emitter) error {
	src, ok := e.(apis.GeneratedIDSource)
	if !ok {
		return nil
	}
	field, id, ok := src.TakeGeneratedID()
	if !ok {
		return nil
	}
	if err := w.WriteField(field); err != nil {
		return err
	}
	return w.WriteScalar(id)
}

// sequence writes slices and arrays through a nested container writer.
type sequence struct {
	p *Provider
}

func (s sequence) Serialize(v any, w apis.Writer, e apis.Emitter) error {
	seq, ok := container.FromValue(v)
	if !ok {
		return fmt.Errorf("%w: %T is not a sequence", ErrUnsupportedType, v)
	}
	if se, ok := e.(apis.ScopedEmitter); ok {
		return container.New(se, s.p, container.WithConfig(s.p.cfg)).WriteNested(seq)
	}
	if err := w.BeginArray(-1); err != nil {
		return err
	}
	for el := range seq.All() {
		if err := e.Emit(el); err != nil {
			return err
		}
	}
	return w.EndArray()
}

// mapping writes a map as an object with keys in sorted order.
type mapping struct{}

func (mapping) Serialize(v any, w apis.Writer, e apis.Emitter) error {
	rv := reflect.ValueOf(v)
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := mapKey(iter.Key())
		if err != nil {
			return err
		}
		entries = append(entries, entry{key: k, val: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.key, b.key) })

	if err := w.BeginObject(); err != nil {
		return err
	}
	if err := writeGeneratedID(w, e); err != nil {
		return err
	}
	for _, en := range entries {
		if err := w.WriteField(en.key); err != nil {
			return err
		}
		if err := e.Emit(en.val.Interface()); err != nil {
			return err
		}
	}
	return w.EndObject()
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		return string(b), err
	}
	return fmt.Sprint(k.Interface()), nil
}
