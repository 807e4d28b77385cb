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
	"log/slog"

	"dirpx.dev/mdx/apis"
	"dirpx.dev/mdx/internal/log"
	"dirpx.dev/mdx/registry"
	"dirpx.dev/mdx/resolver"
	"dirpx.dev/mdx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
// Registries it builds log through logger; nil uses the package default.
func New(logger *slog.Logger) apis.Builder {
	return &builder{log: logger}
}

// builder is the default apis.Builder.
type builder struct {
	log *slog.Logger
}

// BuildRegistry builds a new apis.Registry. If a previous registry is
// provided, its overloads are re-registered name by name in registration
// order, and the new registry is sealed if the previous one was. Overloads
// the new registry rejects are logged at warn and dropped.
func (b *builder) BuildRegistry(_ apis.Config, prev apis.Registry) apis.Registry {
	nreg := registry.New(b.log)
	if prev != nil {
		for _, o := range prev.Entries() {
			if err := nreg.Register(o.Name, o.Params, o.Fn); err != nil {
				log.Section(b.log, log.SectionRegistry).Warn("overload dropped during migration",
					"name", o.Name, "signature", o.Signature.String(), "seq", o.Seq, "error", err)
			}
		}
		if prev.Sealed() {
			nreg.Seal()
		}
	}
	return nreg
}

// BuildResolver builds the two-phase resolver: exact match, then the
// first compatible overload in registration order.
func (b *builder) BuildResolver(_ apis.Config, _ apis.Registry, _ apis.Resolver) apis.Resolver {
	return resolver.New(
		strategy.NewExactStrategy(),
		strategy.NewFallbackStrategy(),
	)
}
