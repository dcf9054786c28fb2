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

package polyref

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"dirpx.dev/polyref/apis"
	"dirpx.dev/polyref/builder"
	"dirpx.dev/polyref/config"
	"dirpx.dev/polyref/container"
	"dirpx.dev/polyref/emitter"
	"dirpx.dev/polyref/serializer"
	"dirpx.dev/polyref/writer"
)

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("polyref: builder returned nil registry")
	// ErrNilOverrider is returned when a builder returns a nil override chain.
	ErrNilOverrider = errors.New("polyref: builder returned nil overrider")
)

// state is an immutable snapshot. Type id resolvers are cached per snapshot,
// so every rebuild drops them.
type state struct {
	cfg  apis.Config
	bld  apis.Builder
	reg  apis.Registry
	res  apis.NameOverrider
	ser  apis.SerializerResolver
	preg bool // registry pinned by SetRegistry
	pser bool // serializers supplied by the caller

	ids sync.Map // map[idKey]apis.TypeIDResolver
}

type idKey struct {
	base   reflect.Type
	forSer bool
}

// Mapper writes object graphs and owns the type id resolvers used for
// polymorphic values. Reads load an atomic snapshot; writers rebuild the
// snapshot under a mutex and publish it.
//
// A Mapper is safe for concurrent use.
type Mapper struct {
	buildMu sync.Mutex
	st      atomic.Pointer[state]

	collector apis.SubtypeCollector
	identity  apis.IdentityPolicy
	logger    *log.Logger
}

// Option configures a Mapper at construction.
type Option func(*options)

type options struct {
	cfg       apis.Config
	bld       apis.Builder
	reg       apis.Registry
	ser       apis.SerializerResolver
	collector apis.SubtypeCollector
	identity  apis.IdentityPolicy
	logger    *log.Logger
}

// WithConfig sets the initial configuration.
func WithConfig(cfg apis.Config) Option { return func(o *options) { o.cfg = cfg } }

// WithBuilder replaces the default builder.
func WithBuilder(b apis.Builder) Option { return func(o *options) { o.bld = b } }

// WithRegistry supplies and pins the explicit name table.
func WithRegistry(reg apis.Registry) Option { return func(o *options) { o.reg = reg } }

// WithSerializers replaces the reflection based serializer provider.
func WithSerializers(r apis.SerializerResolver) Option { return func(o *options) { o.ser = r } }

// WithCollector sets the subtype collector used to seed type id resolvers.
func WithCollector(c apis.SubtypeCollector) Option { return func(o *options) { o.collector = c } }

// WithIdentity sets the identity policy. Without one every value is
// written in full. Pass-scoped policies are forked for every write.
func WithIdentity(p apis.IdentityPolicy) Option { return func(o *options) { o.identity = p } }

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

// New returns a Mapper.
func New(opts ...Option) *Mapper {
	o := options{cfg: config.DefaultConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	if o.bld == nil {
		o.bld = builder.New(builder.WithLogger(o.logger))
	}

	m := &Mapper{
		collector: o.collector,
		identity:  o.identity,
		logger:    o.logger,
	}
	s := &state{cfg: o.cfg, bld: o.bld, ser: o.ser, pser: o.ser != nil}
	if o.reg != nil {
		s.reg, s.preg = o.reg, true
	}
	m.st.Store(m.rebuild(s, nil))
	return m
}

// rebuild completes next from prev: unpinned layers are rebuilt with the
// builder. It panics when the builder returns nil layers.
func (m *Mapper) rebuild(next *state, prev *state) *state {
	if !next.preg {
		var old apis.Registry
		if prev != nil {
			old = prev.reg
		}
		next.reg = next.bld.BuildRegistry(next.cfg, old)
	}
	if next.reg == nil {
		panic(ErrNilRegistry)
	}
	next.res = next.bld.BuildResolver(next.cfg, next.reg)
	if next.res == nil {
		panic(ErrNilOverrider)
	}
	if !next.pser {
		next.ser = serializer.NewProvider(serializer.WithConfig(next.cfg))
	}
	return next
}

// Config returns the active configuration.
func (m *Mapper) Config() apis.Config { return m.st.Load().cfg }

// SetConfig replaces the configuration and rebuilds the unpinned layers.
func (m *Mapper) SetConfig(cfg apis.Config) {
	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	old := m.st.Load()
	next := &state{cfg: cfg, bld: old.bld, preg: old.preg, ser: old.ser, pser: old.pser}
	if old.preg {
		next.reg = old.reg
	}
	m.st.Store(m.rebuild(next, old))
}

// Registry returns the explicit name table.
func (m *Mapper) Registry() apis.Registry { return m.st.Load().reg }

// SetRegistry replaces and pins the explicit name table.
func (m *Mapper) SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	old := m.st.Load()
	next := &state{cfg: old.cfg, bld: old.bld, reg: reg, preg: true, ser: old.ser, pser: old.pser}
	m.st.Store(m.rebuild(next, old))
}

// SetBuilder replaces the builder and rebuilds the unpinned layers.
func (m *Mapper) SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	old := m.st.Load()
	next := &state{cfg: old.cfg, bld: b, preg: old.preg, ser: old.ser, pser: old.pser}
	if old.preg {
		next.reg = old.reg
	}
	m.st.Store(m.rebuild(next, old))
}

// RegisterName records an explicit type id for t. Cached type id resolvers
// are dropped so that the name applies to types not yet resolved.
func (m *Mapper) RegisterName(t reflect.Type, name string) error {
	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	old := m.st.Load()
	if err := old.reg.Register(t, name); err != nil {
		return err
	}
	m.st.Store(&state{
		cfg:  old.cfg,
		bld:  old.bld,
		reg:  old.reg,
		res:  old.res,
		ser:  old.ser,
		preg: old.preg,
		pser: old.pser,
	})
	return nil
}

// TypeIDResolver returns the type id resolver for base in serialization
// (forSer) or deserialization mode. Resolvers are built once per snapshot.
func (m *Mapper) TypeIDResolver(base reflect.Type, forSer bool) (apis.TypeIDResolver, error) {
	return m.typeIDResolver(m.st.Load(), base, forSer)
}

func (m *Mapper) typeIDResolver(s *state, base reflect.Type, forSer bool) (apis.TypeIDResolver, error) {
	key := idKey{base: base, forSer: forSer}
	if r, ok := s.ids.Load(key); ok {
		return r.(apis.TypeIDResolver), nil
	}
	r, err := s.bld.BuildTypeIDResolver(s.cfg, s.res, m.collector, base, forSer)
	if err != nil {
		return nil, err
	}
	actual, loaded := s.ids.LoadOrStore(key, r)
	if !loaded {
		m.logger.Debug("built type id resolver", "base", base, "serialization", forSer, "ids", r.DescribeKnownIDs())
	}
	return actual.(apis.TypeIDResolver), nil
}

// CallOption adjusts a single write.
type CallOption func(*call)

type call struct {
	scope  *apis.Scope
	unwrap apis.UnwrapOverride
	base   reflect.Type
}

// WithScope overrides the configured reference scope for one write.
func WithScope(s apis.Scope) CallOption { return func(c *call) { c.scope = &s } }

// WithUnwrap overrides single-element unwrapping for one write.
func WithUnwrap(u apis.UnwrapOverride) CallOption { return func(c *call) { c.unwrap = u } }

// WithTyping writes values of base and its subtypes as ["<tag>", <value>].
func WithTyping(base reflect.Type) CallOption { return func(c *call) { c.base = base } }

// WriteValue writes v to w. Slices, arrays and container.Sequence values are
// written as top-level containers; everything else as a single value.
func (m *Mapper) WriteValue(w apis.Writer, v any, opts ...CallOption) error {
	if seq, ok := asSequence(v); ok {
		return m.WriteSequence(w, seq, opts...)
	}
	s := m.st.Load()
	e, _, err := m.newEmitter(s, w, opts)
	if err != nil {
		return err
	}
	return e.Emit(v)
}

// WriteSequence writes seq as a top-level container.
func (m *Mapper) WriteSequence(w apis.Writer, seq container.Sequence, opts ...CallOption) error {
	s := m.st.Load()
	e, c, err := m.newEmitter(s, w, opts)
	if err != nil {
		return err
	}
	scope := s.cfg.Scope
	if c.scope != nil {
		scope = *c.scope
	}
	cw := container.New(e, s.ser,
		container.WithConfig(s.cfg),
		container.WithScope(scope),
		container.WithUnwrap(c.unwrap),
	)
	return cw.Write(seq)
}

// WriteJSON writes v to out as compact JSON.
func (m *Mapper) WriteJSON(out io.Writer, v any, opts ...CallOption) error {
	w := writer.New(out)
	if err := m.WriteValue(w, v, opts...); err != nil {
		return err
	}
	return w.Close()
}

// WriteValueAsString returns v as compact JSON.
func (m *Mapper) WriteValueAsString(v any, opts ...CallOption) (string, error) {
	var sb strings.Builder
	if err := m.WriteJSON(&sb, v, opts...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (m *Mapper) newEmitter(s *state, w apis.Writer, opts []CallOption) (*emitter.Emitter, *call, error) {
	c := &call{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	eopts := []emitter.Option{emitter.WithIdentity(m.identity)}
	if c.base != nil {
		r, err := m.typeIDResolver(s, c.base, true)
		if err != nil {
			return nil, nil, err
		}
		eopts = append(eopts, emitter.WithTyping(r))
	}
	return emitter.New(w, s.ser, eopts...), c, nil
}

var byteSliceType = reflect.TypeFor[[]byte]()

func asSequence(v any) (container.Sequence, bool) {
	if seq, ok := v.(container.Sequence); ok {
		return seq, true
	}
	if v == nil || reflect.TypeOf(v) == byteSliceType {
		return nil, false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		if reflect.ValueOf(v).Kind() == reflect.Slice && reflect.ValueOf(v).IsNil() {
			return nil, false
		}
		return container.FromValue(v)
	}
	return nil, false
}
