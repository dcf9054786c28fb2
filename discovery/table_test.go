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

package discovery_test

import (
	"errors"
	"reflect"
	"testing"

	"dirpx.dev/polyref/apis"
	"dirpx.dev/polyref/discovery"
)

type Animal interface{ Sound() string }

type Dog struct{}

func (Dog) Sound() string { return "woof" }

type Cat struct{}

func (Cat) Sound() string { return "meow" }

var (
	animalType = reflect.TypeOf((*Animal)(nil)).Elem()
	dogType    = reflect.TypeOf(Dog{})
	catType    = reflect.TypeOf(Cat{})
)

func TestDeclaredSubtypes_Interface(t *testing.T) {
	tab := discovery.NewTable().
		Name(catType, "kitty").
		Declare(animalType, apis.NamedType{Type: reflect.TypeOf(&Dog{})}, apis.NamedType{Type: catType})

	got := tab.DeclaredSubtypes(animalType)
	want := []apis.NamedType{{Type: dogType}, {Type: catType, Name: "kitty"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DeclaredSubtypes = %v, want %v", got, want)
	}
}

func TestDeclaredSubtypes_ConcreteListsItself(t *testing.T) {
	tab := discovery.NewTable().Name(dogType, "doggo")

	got := tab.DeclaredSubtypes(reflect.TypeOf(&Dog{}))
	want := []apis.NamedType{{Type: dogType, Name: "doggo"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DeclaredSubtypes = %v, want %v", got, want)
	}
	if tab.DeclaredSubtypes(nil) != nil {
		t.Fatal("DeclaredSubtypes(nil) must be nil")
	}
}

func TestDiscoverImplementations(t *testing.T) {
	boom := errors.New("boom")
	tab := discovery.NewTable().
		Provide(animalType, func() ([]reflect.Type, error) { return []reflect.Type{dogType}, nil }).
		Provide(animalType, func() ([]reflect.Type, error) { return nil, boom }).
		Provide(animalType, func() ([]reflect.Type, error) { return []reflect.Type{reflect.TypeOf(&Cat{}), nil}, nil })

	got, err := tab.DiscoverImplementations(animalType)
	if !errors.Is(err, boom) {
		t.Fatalf("want joined boom error, got %v", err)
	}
	want := []reflect.Type{dogType, catType}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DiscoverImplementations = %v, want %v", got, want)
	}

	if got, err := tab.DiscoverImplementations(dogType); err != nil || len(got) != 0 {
		t.Fatalf("no providers: got (%v,%v), want (nil,nil)", got, err)
	}
}
