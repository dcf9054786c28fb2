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

package builder

import (
	"reflect"

	"github.com/charmbracelet/log"

	"dirpx.dev/polyref/apis"
	"dirpx.dev/polyref/registry"
	"dirpx.dev/polyref/resolver"
	"dirpx.dev/polyref/strategy"
	"dirpx.dev/polyref/typeid"
)

// Option configures the builder.
type Option func(*builder)

// WithLogger sets the logger handed to type id resolvers.
func WithLogger(l *log.Logger) Option {
	return func(b *builder) { b.logger = l }
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// builder carries only the logger passed on to the resolvers it builds.
type builder struct {
	logger *log.Logger
}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its entries are copied
// into the new registry.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry) apis.Registry {
	nreg := registry.New(cfg)
	if preg != nil {
		for _, e := range preg.Entries() {
			_ = nreg.Register(e.Type, e.Name)
		}
	}
	return nreg
}

// BuildResolver builds the override chain: TypeTag methods first, then the
// explicit registry. Types neither covers fall through to the default id.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry) apis.NameOverrider {
	return resolver.New(
		strategy.NewTaggerStrategy(),
		strategy.NewRegistryStrategy(reg),
	)
}

// BuildTypeIDResolver builds a typeid.Resolver for base.
func (b *builder) BuildTypeIDResolver(
	cfg apis.Config,
	overrider apis.NameOverrider,
	collector apis.SubtypeCollector,
	base reflect.Type,
	forSer bool,
) (apis.TypeIDResolver, error) {
	var subtypes []apis.NamedType
	if collector != nil && base != nil {
		subtypes = collector.DeclaredSubtypes(base)
	}
	params := typeid.Params{
		Config:    cfg,
		Collector: collector,
		Overrider: overrider,
		Logger:    b.logger,
	}
	r, err := typeid.Construct(params, base, subtypes, forSer, !forSer)
	if err != nil {
		return nil, err
	}
	return r, nil
}
