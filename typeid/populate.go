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

package typeid

import (
	"fmt"
	"reflect"

	"github.com/charmbracelet/log"

	"dirpx.dev/polyref/apis"
	"dirpx.dev/polyref/strategy"
	uref "dirpx.dev/polyref/utils/reflect"
)

// populator walks the subtype universe once during Construct.
// It is single-threaded and discarded afterwards.
type populator struct {
	r         *Resolver
	collector apis.SubtypeCollector
	logger    *log.Logger
	visited   map[reflect.Type]struct{}
	walked    map[reflect.Type]struct{}
}

// populate registers the descriptors of current, then recurses into every
// implementation discovered for current using that implementation's own
// declared subtypes. Discovery runs at most once per type, so mutually
// discovering implementations terminate.
func (p *populator) populate(current reflect.Type, subtypes []apis.NamedType) {
	for _, st := range subtypes {
		if st.Type == nil {
			continue
		}
		typ := uref.Deref(st.Type)
		if _, seen := p.visited[typ]; seen {
			continue
		}

		id := st.Name
		if id == "" {
			id = strategy.DefaultTypeID(typ)
		}
		if p.r.forSer {
			// First registration wins.
			p.r.typeToID.LoadOrStore(typ, id)
		}
		if p.r.idToType != nil {
			p.bindID(id, typ)
		}
		p.visited[typ] = struct{}{}
	}

	key := uref.Deref(current)
	if _, done := p.walked[key]; done {
		return
	}
	p.walked[key] = struct{}{}
	for _, impl := range p.discover(current) {
		p.populate(impl, p.declared(impl))
	}
}

// bindID records id -> typ, keeping the more specific type on collisions
// and the earlier one when the two are unrelated.
func (p *populator) bindID(id string, typ reflect.Type) {
	id = p.r.canonical(id)
	if prev, ok := p.r.idToType[id]; ok {
		if !uref.IsSubtype(typ, prev) || uref.IsSubtype(prev, typ) {
			return
		}
	}
	p.r.idToType[id] = typ
}

// discover asks the collector for runtime implementations of t. Errors and
// panics are logged and swallowed; whatever was found before a failure is
// still used.
func (p *populator) discover(t reflect.Type) (found []reflect.Type) {
	if p.collector == nil {
		return nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Debug("subtype discovery panicked", "type", t, "panic", fmt.Sprint(rec))
			found = nil
		}
	}()

	found, err := p.collector.DiscoverImplementations(t)
	if err != nil {
		p.logger.Debug("subtype discovery failed", "type", t, "err", err)
	}
	return found
}

// declared returns the declared subtypes of t, or none when no collector
// is configured.
func (p *populator) declared(t reflect.Type) []apis.NamedType {
	if p.collector == nil {
		return nil
	}
	return p.collector.DeclaredSubtypes(t)
}
