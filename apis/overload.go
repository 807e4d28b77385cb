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

// Func is the body of an overload.
type Func func(c *Call) (any, error)

// Overload is one registered (signature, callable) pair.
// Overloads are immutable after registration.
type Overload struct {
	// Name is the qualified name the overload is registered under.
	Name string
	// Signature is the canonical parameter-type signature.
	Signature signature.Signature
	// Params are the declared parameters the signature was derived from.
	Params []signature.Param
	// Fn is the overload body.
	Fn Func
	// Seq is the registration position within the overload set.
	Seq int
}

// Call is what an overload body receives: the original arguments, passed
// through unchanged, plus the overload that was selected.
type Call struct {
	Overload *Overload
	Args     []any
	Kwargs   []signature.Keyword
	Mode     KeywordMode
}

// Lookup returns the argument bound to the parameter called name: a
// keyword of that name, else the positional argument at its declared
// position, else its default.
func (c *Call) Lookup(name string) (any, bool) {
	for _, kw := range c.Kwargs {
		if kw.Name == name {
			return kw.Value, true
		}
	}
	i := c.Overload.Signature.Index(name)
	if i < 0 {
		return nil, false
	}
	if i < len(c.Args) {
		return c.Args[i], true
	}
	if p := c.Overload.Params[i]; p.HasDefault {
		return p.Default, true
	}
	return nil, false
}

// Get is Lookup without the presence flag.
func (c *Call) Get(name string) any {
	v, _ := c.Lookup(name)
	return v
}

// Bound lays the arguments out along the declared parameters, following
// the same keyword rule that was used to match. Parameters without an
// argument take their default, or nil.
func (c *Call) Bound() []any {
	params := c.Overload.Params
	out := make([]any, len(params))
	set := make([]bool, len(params))
	put := func(i int, v any) {
		if i >= 0 && i < len(out) && !set[i] {
			out[i], set[i] = v, true
		}
	}
	for i, a := range c.Args {
		put(i, a)
	}
	for j, kw := range c.Kwargs {
		if c.Mode == KeywordsByName {
			put(c.Overload.Signature.Index(kw.Name), kw.Value)
			continue
		}
		put(len(c.Args)+j, kw.Value)
	}
	for i, p := range params {
		if !set[i] && p.HasDefault {
			out[i] = p.Default
		}
	}
	return out
}
