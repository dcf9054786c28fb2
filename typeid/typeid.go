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
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"dirpx.dev/polyref/apis"
	"dirpx.dev/polyref/strategy"
	uref "dirpx.dev/polyref/utils/reflect"
)

var (
	// ErrInvalidConfiguration is returned by Construct when neither or both
	// of serialization and deserialization are requested.
	ErrInvalidConfiguration = errors.New("polyref(typeid): invalid configuration")
	// ErrNilBaseType is returned by Construct for a nil base type.
	ErrNilBaseType = errors.New("polyref(typeid): nil base type")
)

// Params carries the collaborators a Resolver is built with.
// Every field is optional.
type Params struct {
	// Config supplies CaseInsensitiveIDs and NameOverrides.
	Config apis.Config
	// Collector supplies declared subtypes and runtime implementations.
	Collector apis.SubtypeCollector
	// Overrider supplies explicit ids for types met lazily.
	Overrider apis.NameOverrider
	// Logger receives swallowed discovery failures. Defaults to log.Default().
	Logger *log.Logger
}

// Resolver is the bidirectional type id registry for one base type.
type Resolver struct {
	base      reflect.Type
	cfg       apis.Config
	overrider apis.NameOverrider
	forSer    bool

	// typeToID caches ids by pointer-stripped type.
	typeToID sync.Map // map[reflect.Type]string
	// idToType is nil for serialization resolvers and read-only after Construct.
	idToType map[string]reflect.Type
}

// Ensure Resolver implements apis.TypeIDResolver.
var _ apis.TypeIDResolver = (*Resolver)(nil)

// Construct builds a Resolver for base from the given subtype descriptors.
// Exactly one of forSer and forDeser must be true.
func Construct(p Params, base reflect.Type, subtypes []apis.NamedType, forSer, forDeser bool) (*Resolver, error) {
	if forSer == forDeser {
		return nil, fmt.Errorf("%w: exactly one of serialization and deserialization must be requested (ser=%t, deser=%t)",
			ErrInvalidConfiguration, forSer, forDeser)
	}
	if base == nil {
		return nil, ErrNilBaseType
	}

	r := &Resolver{
		base:      base,
		cfg:       p.Config,
		overrider: p.Overrider,
		forSer:    forSer,
	}
	if forDeser {
		r.idToType = make(map[string]reflect.Type)
	}

	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}
	pop := &populator{
		r:         r,
		collector: p.Collector,
		logger:    logger,
		visited:   make(map[reflect.Type]struct{}),
		walked:    make(map[reflect.Type]struct{}),
	}
	pop.populate(base, subtypes)
	return r, nil
}

// BaseType returns the base type the resolver was built for.
func (r *Resolver) BaseType() reflect.Type { return r.base }

// ForSerialization reports the mode the resolver was constructed in.
func (r *Resolver) ForSerialization() bool { return r.forSer }

// IDForType returns the id for t. Ids seeded during construction win; other
// types consult the override chain (when NameOverrides is on) and then fall
// back to the unqualified type name. The result is cached.
func (r *Resolver) IDForType(t reflect.Type) string {
	if t == nil {
		return ""
	}
	key := uref.Deref(t)
	if v, ok := r.typeToID.Load(key); ok {
		return v.(string)
	}

	var name string
	if r.cfg.NameOverrides && r.overrider != nil {
		if n, ok := r.overrider.OverrideName(key); ok {
			name = n
		}
	}
	if name == "" {
		name = strategy.DefaultTypeID(key)
	}
	r.typeToID.Store(key, name)
	return name
}

// IDForValue returns the id for the dynamic type of v.
func (r *Resolver) IDForValue(v any) string {
	if v == nil {
		return ""
	}
	return r.IDForType(reflect.TypeOf(v))
}

// IDForValueAndType returns the id for v, or for t when v is nil.
func (r *Resolver) IDForValueAndType(v any, t reflect.Type) string {
	if v == nil {
		return r.IDForType(t)
	}
	return r.IDForValue(v)
}

// TypeForID returns the type bound to id. Serialization resolvers know no
// ids and always miss.
func (r *Resolver) TypeForID(id string) (reflect.Type, bool) {
	if r.idToType == nil {
		return nil, false
	}
	t, ok := r.idToType[r.canonical(id)]
	return t, ok
}

// KnownIDs returns the decodable ids in sorted order.
func (r *Resolver) KnownIDs() []string {
	return slices.Sorted(maps.Keys(r.idToType))
}

// DescribeKnownIDs lists the decodable ids for diagnostics, e.g. "[a, b]".
func (r *Resolver) DescribeKnownIDs() string {
	return "[" + strings.Join(r.KnownIDs(), ", ") + "]"
}

// String implements fmt.Stringer.
func (r *Resolver) String() string {
	return fmt.Sprintf("[%T; id-to-type=%v]", r, r.idToType)
}

// canonical folds id when case-insensitive matching is configured.
func (r *Resolver) canonical(id string) string {
	if r.cfg.CaseInsensitiveIDs {
		return strings.ToLower(id)
	}
	return id
}
