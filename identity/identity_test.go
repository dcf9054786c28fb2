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

package identity_test

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"dirpx.dev/polyref/apis"
	"dirpx.dev/polyref/identity"
)

type Node struct {
	ID   int
	Name string
	key  string
}

type Tag struct{ Label string }

func TestProperty(t *testing.T) {
	p := identity.Property("ID")
	n := &Node{ID: 42}

	cases := []struct {
		name string
		v    any
		id   any
		ok   bool
	}{
		{"pointer", n, 42, true},
		{"value", Node{ID: 7}, 7, true},
		{"double pointer", &n, 42, true},
		{"missing field", Tag{Label: "x"}, nil, false},
		{"not a struct", 3, nil, false},
		{"nil pointer", (*Node)(nil), nil, false},
		{"nil", nil, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := p.IdentityOf(tc.v)
			if ok != tc.ok || id != tc.id {
				t.Fatalf("IdentityOf = (%v,%v), want (%v,%v)", id, ok, tc.id, tc.ok)
			}
		})
	}

	if _, ok := identity.Property("key").IdentityOf(n); ok {
		t.Fatal("unexported field must not be an identity")
	}
}

func TestSequence(t *testing.T) {
	p := identity.Sequence()
	a, b := &Node{}, &Node{}

	want := []struct {
		v  any
		id int
	}{{a, 1}, {b, 2}, {a, 1}, {b, 2}}
	for i, w := range want {
		id, ok := p.IdentityOf(w.v)
		if !ok || id != w.id {
			t.Fatalf("step %d: IdentityOf = (%v,%v), want %d", i, id, ok, w.id)
		}
	}
	if _, ok := p.IdentityOf(Node{}); ok {
		t.Fatal("values not held by pointer have no identity")
	}
}

func TestUUID(t *testing.T) {
	p := identity.UUID()
	a, b := &Node{}, &Node{}

	ida, _ := p.IdentityOf(a)
	idb, _ := p.IdentityOf(b)
	again, _ := p.IdentityOf(a)

	if ida != again {
		t.Fatalf("identity not stable: %v vs %v", ida, again)
	}
	if ida == idb {
		t.Fatal("distinct pointers share an identity")
	}
	if _, err := uuid.Parse(ida.(string)); err != nil {
		t.Fatalf("not a UUID: %v", err)
	}
}

func TestByType(t *testing.T) {
	p := identity.ByType(map[reflect.Type]apis.IdentityPolicy{
		reflect.TypeOf(Node{}): identity.Property("ID"),
		reflect.TypeOf(&Tag{}): identity.Property("Label"),
	})

	if id, ok := p.IdentityOf(&Node{ID: 3}); !ok || id != 3 {
		t.Fatalf("Node via pointer = (%v,%v)", id, ok)
	}
	if id, ok := p.IdentityOf(&Tag{Label: "t"}); !ok || id != "t" {
		t.Fatalf("*Tag = (%v,%v)", id, ok)
	}
	if _, ok := p.IdentityOf(Tag{Label: "t"}); ok {
		t.Fatal("Tag value has no entry")
	}
	if _, ok := p.IdentityOf("str"); ok {
		t.Fatal("string has no entry")
	}
}

func TestSequence_ForPassRestarts(t *testing.T) {
	root := identity.Sequence()
	a := &Node{}

	for pass := range 3 {
		p := root.(apis.PassScoped).ForPass()
		if id, ok := p.IdentityOf(a); !ok || id != 1 {
			t.Fatalf("pass %d: IdentityOf = (%v,%v), want 1", pass, id, ok)
		}
		if id, _ := p.IdentityOf(&Node{}); id != 2 {
			t.Fatalf("pass %d: second pointer = %v, want 2", pass, id)
		}
	}
	if id, _ := root.IdentityOf(a); id != 1 {
		t.Fatalf("forks must not advance the root policy, got %v", id)
	}
}

func TestSynthetic_ObjectsOnly(t *testing.T) {
	n := 3
	m := map[string]int{}
	for _, p := range []apis.IdentityPolicy{identity.Sequence(), identity.UUID()} {
		if _, ok := p.IdentityOf(&n); ok {
			t.Fatal("pointer to int must have no identity")
		}
		if _, ok := p.IdentityOf(&m); !ok {
			t.Fatal("pointer to map must have an identity")
		}
		field, ok := p.(apis.GeneratedIdentity).IDField(&Node{})
		if !ok || field != identity.IDField {
			t.Fatalf("IDField = (%q,%v), want %q", field, ok, identity.IDField)
		}
	}
}

func TestByType_ForPass(t *testing.T) {
	seq := identity.Sequence()
	root := identity.ByType(map[reflect.Type]apis.IdentityPolicy{
		reflect.TypeOf(Node{}): seq,
		reflect.TypeOf(Tag{}):  seq,
	})

	p := root.(apis.PassScoped).ForPass()
	if id, _ := p.IdentityOf(&Node{}); id != 1 {
		t.Fatalf("Node = %v, want 1", id)
	}
	// Node and Tag share one fork, so the numbering continues.
	if id, _ := p.IdentityOf(&Tag{}); id != 2 {
		t.Fatalf("Tag = %v, want 2", id)
	}
	if field, ok := p.(apis.GeneratedIdentity).IDField(&Node{}); !ok || field != identity.IDField {
		t.Fatalf("IDField(Node) = (%q,%v)", field, ok)
	}
	if _, ok := p.(apis.GeneratedIdentity).IDField("str"); ok {
		t.Fatal("types without a policy have no id field")
	}
	if id, _ := root.(apis.PassScoped).ForPass().IdentityOf(&Node{}); id != 1 {
		t.Fatalf("next pass = %v, want 1", id)
	}

	byLabel := identity.ByType(map[reflect.Type]apis.IdentityPolicy{
		reflect.TypeOf(Tag{}): identity.Property("Label"),
	})
	if _, ok := byLabel.(apis.GeneratedIdentity).IDField(&Tag{Label: "t"}); ok {
		t.Fatal("Property identities are not generated")
	}
	if id, ok := byLabel.(apis.PassScoped).ForPass().IdentityOf(&Tag{Label: "t"}); !ok || id != "t" {
		t.Fatalf("forked Property = (%v,%v), want t", id, ok)
	}
}
