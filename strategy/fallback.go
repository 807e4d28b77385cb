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

package strategy

import (
	"strings"
	"sync"

	"dirpx.dev/mdx/apis"
	"dirpx.dev/mdx/signature"
)

// NewFallbackStrategy creates an apis.Strategy that selects the first
// overload, in registration order, whose signature is compatible with the
// argument types.
func NewFallbackStrategy() apis.Strategy {
	return &fallbackStrategy{}
}

// fallbackStrategy scans the set and memoizes results when
// Config.CacheFallback is on.
type fallbackStrategy struct {
	// gens holds the memo of the latest snapshot seen per name.
	gens sync.Map // key: name, val: *generation
}

// Ensure fallbackStrategy implements apis.Strategy.
var _ apis.Strategy = (*fallbackStrategy)(nil)

// generation memoizes resolutions against one overload-set snapshot. A
// snapshot with a different identity replaces the whole generation, so
// entries for superseded snapshots are dropped with it.
type generation struct {
	set  apis.OverloadSet
	memo sync.Map // key: memoKey, val: *apis.Overload
}

// memoKey identifies a resolution within a generation.
type memoKey struct {
	mode     apis.KeywordMode
	args     signature.Key
	keywords string
}

// TryResolve runs the fallback scan, consulting the memo first.
func (s *fallbackStrategy) TryResolve(set apis.OverloadSet, in *apis.Invocation, cfg apis.Config) (*apis.Overload, bool) {
	if set == nil || in == nil {
		return nil, false
	}
	if !cfg.CacheFallback {
		o := scan(set, in, cfg.KeywordMode)
		return o, o != nil
	}

	g := s.generation(set)
	key := memoKey{
		mode: cfg.KeywordMode,
		args: in.Types.Key(),
	}
	if cfg.KeywordMode == apis.KeywordsByName {
		// Same types under different names bind differently.
		key.keywords = strings.Join(signature.KeywordNames(in.Kwargs), ",")
	}
	if v, ok := g.memo.Load(key); ok {
		o := v.(*apis.Overload)
		return o, o != nil
	}
	o := scan(set, in, cfg.KeywordMode)
	g.memo.Store(key, o)
	return o, o != nil
}

// generation returns the memo bound to set, replacing the one of an older
// or foreign snapshot of the same name.
func (s *fallbackStrategy) generation(set apis.OverloadSet) *generation {
	name := set.Name()
	if v, ok := s.gens.Load(name); ok {
		if g := v.(*generation); g.set == set {
			return g
		}
	}
	g := &generation{set: set}
	s.gens.Store(name, g)
	return g
}

// scan returns the first compatible overload in registration order, or nil.
func scan(set apis.OverloadSet, in *apis.Invocation, mode apis.KeywordMode) *apis.Overload {
	byName := mode == apis.KeywordsByName && len(in.Kwargs) > 0
	for o := range set.All() {
		t := in.Types
		if byName {
			var ok bool
			if t, ok = o.Signature.BindByName(in.Args, in.Kwargs); !ok {
				continue
			}
		}
		if o.Signature.Accepts(t) {
			return o
		}
	}
	return nil
}
