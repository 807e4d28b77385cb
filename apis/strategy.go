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

package apis

import (
	"dirpx.dev/mdx/signature"
)

// Invocation describes one dispatch call.
type Invocation struct {
	// Name is the qualified name being called.
	Name string
	// Args are the positional arguments.
	Args []any
	// Kwargs are the keyword arguments in call order.
	Kwargs []signature.Keyword
	// Types is the call-order argument type tuple.
	Types signature.Tuple
}

// Strategy is one resolution phase. A Resolver chains strategies in order
// (exact, then fallback).
type Strategy interface {
	// TryResolve returns (overload, true) if this phase selects one;
	// otherwise (nil, false) to fall through.
	TryResolve(set OverloadSet, in *Invocation, cfg Config) (*Overload, bool)
}
