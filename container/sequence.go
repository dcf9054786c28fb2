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

package container

import (
	"iter"
	"reflect"
)

// Sequence produces container elements in a defined order.
type Sequence interface {
	All() iter.Seq[any]
}

// Sized is implemented by sequences that know their length up front.
// The length is passed to the writer as the array size hint.
type Sized interface {
	Len() int
}

// Seq adapts an iter.Seq to Sequence. Its size is unknown.
type Seq iter.Seq[any]

// All implements Sequence.
func (s Seq) All() iter.Seq[any] { return iter.Seq[any](s) }

type sliceSeq[T any] []T

func (s sliceSeq[T]) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range s {
			if !yield(v) {
				return
			}
		}
	}
}

func (s sliceSeq[T]) Len() int { return len(s) }

// FromSlice returns a sized Sequence over s.
func FromSlice[T any](s []T) Sequence { return sliceSeq[T](s) }

type valueSeq struct{ rv reflect.Value }

func (s valueSeq) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := 0; i < s.rv.Len(); i++ {
			if !yield(s.rv.Index(i).Interface()) {
				return
			}
		}
	}
}

func (s valueSeq) Len() int { return s.rv.Len() }

// FromValue returns a sized Sequence over a slice or array held in v.
// It reports false for any other kind.
func FromValue(v any) (Sequence, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Array {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return valueSeq{rv: rv}, true
	}
	return nil, false
}

// FromIterator adapts a pull-style iterator. The iterator is drained once;
// the resulting Sequence is single use.
func FromIterator(next func() (any, bool)) Sequence {
	return Seq(func(yield func(any) bool) {
		for {
			v, ok := next()
			if !ok || !yield(v) {
				return
			}
		}
	})
}
