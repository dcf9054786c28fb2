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

package cli

import (
	"errors"
	"testing"

	"dirpx.dev/polyref/config"
)

const yamlGraph = `
nodes:
  - {id: 1, name: first, next: 3}
  - {id: 2, name: second, next: 3}
  - {id: 3, name: sameChild, next: 1}
roots: [1, 2]
`

const tomlGraph = `
roots = [1, 2]

[[nodes]]
id = 1
name = "first"
next = 3

[[nodes]]
id = 2
name = "second"
next = 3

[[nodes]]
id = 3
name = "sameChild"
next = 1
`

func TestDecodeGraph(t *testing.T) {
	for format, data := range map[config.Format]string{config.YAML: yamlGraph, config.TOML: tomlGraph} {
		t.Run(string(format), func(t *testing.T) {
			roots, err := decodeGraph([]byte(data), format)
			if err != nil {
				t.Fatalf("decodeGraph: %v", err)
			}
			if len(roots) != 2 || roots[0].Name != "first" || roots[1].Name != "second" {
				t.Fatalf("roots = %+v", roots)
			}
			if roots[0].Next != roots[1].Next {
				t.Fatal("roots must share their child")
			}
			if roots[0].Next.Next != roots[0] {
				t.Fatal("child must point back at first")
			}
		})
	}
}

func TestDecodeGraph_DefaultRoots(t *testing.T) {
	roots, err := decodeGraph([]byte("nodes: [{id: 5, name: a}, {id: 6, name: b}]"), config.YAML)
	if err != nil {
		t.Fatalf("decodeGraph: %v", err)
	}
	if len(roots) != 2 || roots[0].ID != 5 || roots[1].ID != 6 || roots[0].Next != nil {
		t.Fatalf("roots = %+v", roots)
	}
}

func TestDecodeGraph_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown next", "nodes: [{id: 1, next: 9}]", errUnknownNode},
		{"unknown root", "nodes: [{id: 1}]\nroots: [2]", errUnknownNode},
		{"duplicate", "nodes: [{id: 1}, {id: 1}]", errDuplicateNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeGraph([]byte(tt.doc), config.YAML); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := decodeGraph(nil, config.Format("ini")); !errors.Is(err, config.ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}
}
