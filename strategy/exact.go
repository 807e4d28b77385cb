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
	"dirpx.dev/mdx/apis"
)

// NewExactStrategy creates an apis.Strategy that selects the overload whose
// signature equals the argument type tuple.
func NewExactStrategy() apis.Strategy {
	return exactStrategy{}
}

// exactStrategy is the O(1) first phase: a direct key lookup in the set.
type exactStrategy struct{}

// Ensure exactStrategy implements apis.Strategy.
var _ apis.Strategy = exactStrategy{}

// TryResolve looks the call-order tuple up by key. In by-name mode with
// keywords present, every candidate binds the call on its own and the
// first exact binding wins.
func (exactStrategy) TryResolve(set apis.OverloadSet, in *apis.Invocation, cfg apis.Config) (*apis.Overload, bool) {
	if set == nil || in == nil {
		return nil, false
	}
	if cfg.KeywordMode == apis.KeywordsByName && len(in.Kwargs) > 0 {
		for o := range set.All() {
			if IsExact(o, in, cfg.KeywordMode) {
				return o, true
			}
		}
		return nil, false
	}
	return set.Exact(in.Types.Key())
}

// IsExact reports whether o's signature equals the argument types of in,
// with keywords laid out as mode lays them out.
func IsExact(o *apis.Overload, in *apis.Invocation, mode apis.KeywordMode) bool {
	if mode == apis.KeywordsByName && len(in.Kwargs) > 0 {
		t, ok := o.Signature.BindByName(in.Args, in.Kwargs)
		return ok && o.Signature.Matches(t)
	}
	return o.Signature.Matches(in.Types)
}
