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
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"dirpx.dev/polyref/config"
)

var (
	errUnknownNode   = errors.New("unknown node")
	errDuplicateNode = errors.New("duplicate node id")
)

// node is one vertex of a demo graph. Next may point anywhere in the graph,
// including back at an ancestor.
type node struct {
	ID   int    `polyref:"id"`
	Name string `polyref:"name"`
	Next *node  `polyref:"next"`
}

// graphDoc is the on-disk form of a graph:
//
//	nodes:
//	  - {id: 1, name: first, next: 3}
//	  - {id: 3, name: sameChild, next: 1}
//	roots: [1]
//
// A next of 0 means no successor. Roots default to all nodes in order.
type graphDoc struct {
	Nodes []nodeDoc `yaml:"nodes" toml:"nodes"`
	Roots []int     `yaml:"roots" toml:"roots"`
}

type nodeDoc struct {
	ID   int    `yaml:"id" toml:"id"`
	Name string `yaml:"name" toml:"name"`
	Next int    `yaml:"next" toml:"next"`
}

// loadGraph reads a YAML or TOML graph document and returns its roots.
func loadGraph(path string) ([]*node, error) {
	format, err := config.FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	return decodeGraph(data, format)
}

func decodeGraph(data []byte, format config.Format) ([]*node, error) {
	var doc graphDoc
	switch format {
	case config.YAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml graph: %w", err)
		}
	case config.TOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode toml graph: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownFormat, format)
	}
	return doc.link()
}

// link resolves the integer references of the document into pointers.
func (d graphDoc) link() ([]*node, error) {
	byID := make(map[int]*node, len(d.Nodes))
	for _, nd := range d.Nodes {
		if _, dup := byID[nd.ID]; dup {
			return nil, fmt.Errorf("%w: %d", errDuplicateNode, nd.ID)
		}
		byID[nd.ID] = &node{ID: nd.ID, Name: nd.Name}
	}
	for _, nd := range d.Nodes {
		if nd.Next == 0 {
			continue
		}
		next, ok := byID[nd.Next]
		if !ok {
			return nil, fmt.Errorf("%w: %d (next of %d)", errUnknownNode, nd.Next, nd.ID)
		}
		byID[nd.ID].Next = next
	}

	if len(d.Roots) == 0 {
		roots := make([]*node, 0, len(d.Nodes))
		for _, nd := range d.Nodes {
			roots = append(roots, byID[nd.ID])
		}
		return roots, nil
	}
	roots := make([]*node, 0, len(d.Roots))
	for _, id := range d.Roots {
		n, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: root %d", errUnknownNode, id)
		}
		roots = append(roots, n)
	}
	return roots, nil
}
