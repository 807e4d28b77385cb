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
	"reflect"
	"strings"
)

// Keyword is a named argument. Keyword arguments are kept as an ordered
// slice because their call order is significant.
type Keyword struct {
	Name  string
	Value any
}

// KW is shorthand for Keyword{Name: name, Value: v}.
func KW(name string, v any) Keyword {
	return Keyword{Name: name, Value: v}
}

// KeywordNames returns the names of kwargs in call order.
func KeywordNames(kwargs []Keyword) []string {
	out := make([]string, len(kwargs))
	for i, kw := range kwargs {
		out[i] = kw.Name
	}
	return out
}

// Tuple is the ordered sequence of concrete argument types of a call.
// A nil entry marks a parameter that no argument was bound to.
type Tuple []reflect.Type

// TupleOf returns the types of args followed by the types of the keyword
// values in call order. Keyword names are ignored.
func TupleOf(args []any, kwargs []Keyword) Tuple {
	out := make(Tuple, 0, len(args)+len(kwargs))
	for _, a := range args {
		out = append(out, TypeOfValue(a))
	}
	for _, kw := range kwargs {
		out = append(out, TypeOfValue(kw.Value))
	}
	return out
}

// BindByName lays the call out along the declared parameters of s:
// positional arguments first, then each keyword at the position of the
// parameter with the same name.
//
// It reports false when there are more positional arguments than
// parameters, a keyword names no parameter, or a parameter would be bound
// twice. The returned tuple ends at the last bound parameter.
func (s Signature) BindByName(args []any, kwargs []Keyword) (Tuple, bool) {
	if len(args) > len(s.params) {
		return nil, false
	}
	out := make(Tuple, len(args), len(s.params))
	for i, a := range args {
		out[i] = TypeOfValue(a)
	}
	for _, kw := range kwargs {
		i := s.Index(kw.Name)
		if i < len(args) {
			return nil, false
		}
		for len(out) <= i {
			out = append(out, nil)
		}
		if out[i] != nil {
			return nil, false
		}
		out[i] = TypeOfValue(kw.Value)
	}
	return out, true
}

// Key returns the canonical key of t. It equals Signature.Key for a
// signature whose concrete types match t exactly.
func (t Tuple) Key() Key {
	keys := make([]string, len(t))
	for i, at := range t {
		if at == nil {
			keys[i] = "_"
			continue
		}
		keys[i] = typeKey(at)
	}
	return Key(strings.Join(keys, ","))
}

// String renders t as "(int, string)".
func (t Tuple) String() string {
	names := make([]string, len(t))
	for i, at := range t {
		if at == nil {
			names[i] = "_"
			continue
		}
		names[i] = TypeName(at)
	}
	return "(" + strings.Join(names, ", ") + ")"
}
