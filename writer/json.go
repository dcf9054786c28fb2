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

// Package writer provides a streaming JSON implementation of apis.Writer.
package writer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"dirpx.dev/polyref/apis"
)

// ErrInvalidState is returned when a call does not fit the structure
// written so far, e.g. a field outside an object or an unbalanced end.
var ErrInvalidState = errors.New("polyref(writer): invalid state")

type frameKind uint8

const (
	frameArray frameKind = iota + 1
	frameObject
)

// frame tracks one open array or object.
type frame struct {
	kind frameKind
	// n counts the elements (arrays) or fields (objects) written so far.
	n int
	// pending is set between WriteField and the field's value.
	pending bool
}

// JSON writes compact JSON to an io.Writer. It accepts exactly one root
// value. The first error is sticky: every later call returns it.
//
// JSON is not safe for concurrent use.
type JSON struct {
	out   io.Writer
	stack []frame
	root  bool
	err   error
}

// Ensure JSON implements apis.Writer.
var _ apis.Writer = (*JSON)(nil)

// New returns a JSON writer emitting to out.
func New(out io.Writer) *JSON {
	return &JSON{out: out}
}

// BeginArray implements apis.Writer. The size hint is not needed for JSON.
func (j *JSON) BeginArray(int) error {
	if err := j.beforeValue(); err != nil {
		return err
	}
	j.stack = append(j.stack, frame{kind: frameArray})
	return j.write("[")
}

// EndArray implements apis.Writer.
func (j *JSON) EndArray() error {
	return j.end(frameArray, "]")
}

// BeginObject implements apis.Writer.
func (j *JSON) BeginObject() error {
	if err := j.beforeValue(); err != nil {
		return err
	}
	j.stack = append(j.stack, frame{kind: frameObject})
	return j.write("{")
}

// WriteField implements apis.Writer.
func (j *JSON) WriteField(name string) error {
	if j.err != nil {
		return j.err
	}
	top := j.top()
	if top == nil || top.kind != frameObject || top.pending {
		return j.fail(fmt.Errorf("%w: field %q outside an object", ErrInvalidState, name))
	}
	key, err := json.Marshal(name)
	if err != nil {
		return j.fail(err)
	}
	var b strings.Builder
	if top.n > 0 {
		b.WriteByte(',')
	}
	b.Write(key)
	b.WriteByte(':')
	top.n++
	top.pending = true
	return j.write(b.String())
}

// EndObject implements apis.Writer.
func (j *JSON) EndObject() error {
	return j.end(frameObject, "}")
}

// WriteScalar implements apis.Writer. v is encoded with encoding/json.
func (j *JSON) WriteScalar(v any) error {
	if j.err != nil {
		return j.err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return j.fail(fmt.Errorf("polyref(writer): encode %T: %w", v, err))
	}
	if err := j.beforeValue(); err != nil {
		return err
	}
	return j.write(string(data))
}

// WriteNull implements apis.Writer.
func (j *JSON) WriteNull() error {
	if err := j.beforeValue(); err != nil {
		return err
	}
	return j.write("null")
}

// WriteReference implements apis.Writer. The reference token is the bare
// identity value.
func (j *JSON) WriteReference(id any) error {
	return j.WriteScalar(id)
}

// Close reports ErrInvalidState when the root value is missing or left open.
// It does not close the underlying io.Writer.
func (j *JSON) Close() error {
	if j.err != nil {
		return j.err
	}
	if len(j.stack) > 0 {
		return j.fail(fmt.Errorf("%w: %d unclosed value(s)", ErrInvalidState, len(j.stack)))
	}
	if !j.root {
		return j.fail(fmt.Errorf("%w: nothing written", ErrInvalidState))
	}
	return nil
}

// Depth returns the number of open arrays and objects.
func (j *JSON) Depth() int { return len(j.stack) }

func (j *JSON) top() *frame {
	if len(j.stack) == 0 {
		return nil
	}
	return &j.stack[len(j.stack)-1]
}

// beforeValue places a separator and validates that a value may follow.
func (j *JSON) beforeValue() error {
	if j.err != nil {
		return j.err
	}
	top := j.top()
	if top == nil {
		if j.root {
			return j.fail(fmt.Errorf("%w: second root value", ErrInvalidState))
		}
		j.root = true
		return nil
	}
	if top.kind == frameObject {
		if !top.pending {
			return j.fail(fmt.Errorf("%w: object value without a field", ErrInvalidState))
		}
		top.pending = false
		return nil
	}
	top.n++
	if top.n > 1 {
		return j.write(",")
	}
	return nil
}

func (j *JSON) end(kind frameKind, token string) error {
	if j.err != nil {
		return j.err
	}
	top := j.top()
	if top == nil || top.kind != kind || top.pending {
		return j.fail(fmt.Errorf("%w: unbalanced %q", ErrInvalidState, token))
	}
	j.stack = j.stack[:len(j.stack)-1]
	return j.write(token)
}

func (j *JSON) write(s string) error {
	if _, err := io.WriteString(j.out, s); err != nil {
		return j.fail(err)
	}
	return nil
}

func (j *JSON) fail(err error) error {
	j.err = err
	return err
}
