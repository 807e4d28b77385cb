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

package signature

import (
	"strings"
)

// Signature is the ordered tuple of parameter types of one overload.
// It is immutable once built.
type Signature struct {
	params []ParamType
	names  []string
	key    Key
}

// New builds an anonymous Signature from types. Unset entries become Any().
func New(types ...ParamType) Signature {
	return build(types, make([]string, len(types)))
}

// build copies types and names and computes the canonical key.
func build(types []ParamType, names []string) Signature {
	params := make([]ParamType, len(types))
	keys := make([]string, len(types))
	for i, t := range types {
		if t.IsZero() {
			t = Any()
		}
		params[i] = t
		keys[i] = t.key
	}
	return Signature{
		params: params,
		names:  append([]string(nil), names...),
		key:    Key(strings.Join(keys, ",")),
	}
}

// Len returns the number of declared parameters.
func (s Signature) Len() int { return len(s.params) }

// At returns the i-th parameter type.
func (s Signature) At(i int) ParamType { return s.params[i] }

// Name returns the i-th parameter name, possibly empty.
func (s Signature) Name(i int) string { return s.names[i] }

// Index returns the position of the parameter called name, or -1.
func (s Signature) Index(name string) int {
	if name == "" {
		return -1
	}
	for i, n := range s.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Key returns the canonical key of s.
func (s Signature) Key() Key { return s.key }

// Equal reports structural identity. Parameter names do not participate.
func (s Signature) Equal(o Signature) bool { return s.key == o.key }

// Concrete reports whether every parameter is Concrete.
func (s Signature) Concrete() bool {
	for _, p := range s.params {
		if p.kind != Concrete {
			return false
		}
	}
	return true
}

// Matches reports an exact match: t has one concrete type per parameter
// and each equals the declared concrete type.
func (s Signature) Matches(t Tuple) bool {
	return len(t) == len(s.params) && t.Key() == s.key
}

// Accepts reports structural compatibility of t with s.
//
// t may not be longer than s. Pairs are compared up to len(t); nil entries
// in t are unbound parameters and are not checked.
func (s Signature) Accepts(t Tuple) bool {
	if len(t) > len(s.params) {
		return false
	}
	for i, at := range t {
		if at == nil {
			continue
		}
		if !s.params[i].Accepts(at) {
			return false
		}
	}
	return true
}

// String renders s as "(a int, b string, c any)" or "(int, string)" when
// parameters are anonymous.
func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range s.params {
		if i > 0 {
			b.WriteString(", ")
		}
		if n := s.names[i]; n != "" {
			b.WriteString(n)
			b.WriteByte(' ')
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	return b.String()
}
