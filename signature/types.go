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
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Kind classifies a ParamType.
type Kind uint8

const (
	// Unset is the zero Kind: the parameter carries no explicit type.
	Unset Kind = iota
	// Concrete accepts exactly one reflect.Type.
	Concrete
	// Wildcard accepts an argument of any type.
	Wildcard
	// Union accepts any member of a finite set of types.
	Union
)

// String returns a lowercase name for k.
func (k Kind) String() string {
	switch k {
	case Concrete:
		return "concrete"
	case Wildcard:
		return "wildcard"
	case Union:
		return "union"
	default:
		return "unset"
	}
}

// Nil is the type assigned to untyped nil arguments and nil defaults.
type Nil struct{}

// NilType is reflect.TypeOf(Nil{}).
var NilType = reflect.TypeOf(Nil{})

// emptyInterface is the reflect.Type of interface{}.
var emptyInterface = reflect.TypeFor[any]()

// ParamType describes what a single declared parameter accepts.
// The zero value is Unset. ParamType values are immutable and safe to share.
type ParamType struct {
	kind Kind
	typ  reflect.Type
	alts *set.Set[reflect.Type]
	key  string
}

// Any returns the wildcard ParamType.
func Any() ParamType {
	return ParamType{kind: Wildcard, key: "*"}
}

// Of returns a concrete ParamType for t.
// A nil t maps to NilType and the empty interface maps to Any().
func Of(t reflect.Type) ParamType {
	if t == nil {
		t = NilType
	}
	if t == emptyInterface {
		return Any()
	}
	return ParamType{kind: Concrete, typ: t, key: typeKey(t)}
}

// TypeOf returns the concrete ParamType for T.
func TypeOf[T any]() ParamType {
	return Of(reflect.TypeFor[T]())
}

// OneOf returns a union of the given types.
//
// Duplicates are ignored and a single alternative collapses to Of(t).
// If any alternative is the empty interface the result is Any().
// An empty union is returned as-is and rejected by Derive.
func OneOf(types ...reflect.Type) ParamType {
	alts := set.New[reflect.Type](len(types))
	for _, t := range types {
		if t == nil {
			t = NilType
		}
		if t == emptyInterface {
			return Any()
		}
		alts.Insert(t)
	}
	if alts.Size() == 1 {
		return Of(alts.Slice()[0])
	}
	keys := make([]string, 0, alts.Size())
	for _, t := range alts.Slice() {
		keys = append(keys, typeKey(t))
	}
	slices.Sort(keys)
	return ParamType{kind: Union, alts: alts, key: "{" + strings.Join(keys, "|") + "}"}
}

// Kind reports the kind of p.
func (p ParamType) Kind() Kind { return p.kind }

// IsZero reports whether p is Unset.
func (p ParamType) IsZero() bool { return p.kind == Unset }

// Type returns the concrete type, or nil for other kinds.
func (p ParamType) Type() reflect.Type { return p.typ }

// Alternatives returns the union members sorted by name, or nil.
func (p ParamType) Alternatives() []reflect.Type {
	if p.alts == nil {
		return nil
	}
	out := p.alts.Slice()
	slices.SortFunc(out, func(a, b reflect.Type) int {
		return strings.Compare(TypeName(a), TypeName(b))
	})
	return out
}

// Accepts reports whether an argument of concrete type t is compatible with p.
func (p ParamType) Accepts(t reflect.Type) bool {
	if t == nil {
		t = NilType
	}
	switch p.kind {
	case Wildcard:
		return true
	case Concrete:
		return p.typ == t
	case Union:
		return p.alts.Contains(t)
	default:
		return false
	}
}

// Equal reports structural identity.
func (p ParamType) Equal(o ParamType) bool { return p.key == o.key }

// String renders p for diagnostics, e.g. "int", "any", "float64|string".
func (p ParamType) String() string {
	switch p.kind {
	case Wildcard:
		return "any"
	case Concrete:
		return TypeName(p.typ)
	case Union:
		alts := p.Alternatives()
		if len(alts) == 0 {
			return "<empty union>"
		}
		names := make([]string, len(alts))
		for i, t := range alts {
			names[i] = TypeName(t)
		}
		return strings.Join(names, "|")
	default:
		return "<unset>"
	}
}

// TypeName returns a display name for t.
func TypeName(t reflect.Type) string {
	switch t {
	case nil:
		return "<nil>"
	case NilType:
		return "nil"
	}
	return t.String()
}

// TypeOfValue returns the dispatch type of v. Untyped nil yields NilType.
func TypeOfValue(v any) reflect.Type {
	if v == nil {
		return NilType
	}
	return reflect.TypeOf(v)
}
