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

package apis_test

import (
	"errors"
	"testing"

	"dirpx.dev/polyref/apis"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		in   string
		want apis.Scope
		err  bool
	}{
		{"document", apis.ScopeDocument, false},
		{"", apis.ScopeDocument, false},
		{"  Per-Root-Element ", apis.ScopePerRootElement, false},
		{"per_root_element", apis.ScopePerRootElement, false},
		{"per-root", apis.ScopePerRootElement, false},
		{"galaxy", apis.ScopeDocument, true},
	}
	for _, tt := range tests {
		got, err := apis.ParseScope(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseScope(%q) = (%v, %v), want (%v, err=%v)", tt.in, got, err, tt.want, tt.err)
		}
		if tt.err && !errors.Is(err, apis.ErrUnknownScope) {
			t.Errorf("ParseScope(%q): want ErrUnknownScope, got %v", tt.in, err)
		}
	}
}

func TestScope_Text(t *testing.T) {
	for _, s := range []apis.Scope{apis.ScopeDocument, apis.ScopePerRootElement} {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", s, err)
		}
		var back apis.Scope
		if err := back.UnmarshalText(b); err != nil || back != s {
			t.Fatalf("UnmarshalText(%q) = (%v, %v), want %v", b, back, err, s)
		}
	}
	if _, err := apis.Scope(7).MarshalText(); !errors.Is(err, apis.ErrUnknownScope) {
		t.Fatalf("MarshalText(7): want ErrUnknownScope, got %v", err)
	}

	s := apis.ScopePerRootElement
	if err := s.UnmarshalText([]byte("nope")); err == nil || s != apis.ScopePerRootElement {
		t.Fatalf("failed UnmarshalText must leave the scope unchanged, got %v", s)
	}
}

func TestUnwrapOverride_Apply(t *testing.T) {
	tests := []struct {
		u      apis.UnwrapOverride
		global bool
		want   bool
	}{
		{apis.UnwrapDefault, true, true},
		{apis.UnwrapDefault, false, false},
		{apis.UnwrapAlways, false, true},
		{apis.UnwrapAlways, true, true},
		{apis.UnwrapNever, true, false},
		{apis.UnwrapNever, false, false},
	}
	for _, tt := range tests {
		if got := tt.u.Apply(tt.global); got != tt.want {
			t.Errorf("%v.Apply(%v) = %v, want %v", tt.u, tt.global, got, tt.want)
		}
	}
}

func TestParseUnwrap(t *testing.T) {
	for in, want := range map[string]apis.UnwrapOverride{
		"default": apis.UnwrapDefault,
		"always":  apis.UnwrapAlways,
		"never":   apis.UnwrapNever,
	} {
		got, err := apis.ParseUnwrap(in)
		if err != nil || got != want {
			t.Errorf("ParseUnwrap(%q) = (%v, %v), want %v", in, got, err, want)
		}
		if got.String() != in {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), in)
		}
	}
	if _, err := apis.ParseUnwrap("sometimes"); !errors.Is(err, apis.ErrUnknownUnwrap) {
		t.Errorf("want ErrUnknownUnwrap, got %v", err)
	}
}
