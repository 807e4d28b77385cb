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
	"github.com/pkg/errors"
)

var (
	// ErrEmptyOneOf is returned when a parameter is declared as a union
	// with no alternatives.
	ErrEmptyOneOf = errors.New("mdx(signature): union has no alternatives")
	// ErrDuplicateParam is returned when two parameters share a name.
	ErrDuplicateParam = errors.New("mdx(signature): duplicate parameter name")
)

// Param is one declared parameter of an overload.
//
// The effective ParamType is chosen in priority order: Type if set,
// otherwise the type of Default if HasDefault, otherwise Any().
type Param struct {
	// Name is used for keyword lookup. It may be empty.
	Name string
	// Type is the explicit declaration. The zero value means "not declared".
	Type ParamType
	// Default is the value used when the argument is omitted.
	Default any
	// HasDefault distinguishes a nil Default from no default at all.
	HasDefault bool
}

// Arg declares an untyped parameter without a default (a wildcard).
func Arg(name string) Param {
	return Param{Name: name}
}

// Typed declares a parameter with an explicit type.
func Typed(name string, t ParamType) Param {
	return Param{Name: name, Type: t}
}

// Optional declares a parameter whose type is inferred from def.
func Optional(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// WithDefault returns a copy of p with a default value.
func (p Param) WithDefault(def any) Param {
	p.Default = def
	p.HasDefault = true
	return p
}

// Resolve returns the effective ParamType of p.
func (p Param) Resolve() ParamType {
	switch {
	case !p.Type.IsZero():
		return p.Type
	case p.HasDefault:
		return Of(TypeOfValue(p.Default))
	default:
		return Any()
	}
}

// Derive computes the Signature of a declared parameter list.
// Every parameter contributes, including ones with defaults.
func Derive(params []Param) (Signature, error) {
	types := make([]ParamType, len(params))
	names := make([]string, len(params))
	seen := make(map[string]struct{}, len(params))
	for i, p := range params {
		pt := p.Resolve()
		if pt.Kind() == Union && pt.alts.Size() == 0 {
			return Signature{}, errors.Wrapf(ErrEmptyOneOf, "parameter %d (%s)", i, p.Name)
		}
		if p.Name != "" {
			if _, dup := seen[p.Name]; dup {
				return Signature{}, errors.Wrapf(ErrDuplicateParam, "parameter %d (%s)", i, p.Name)
			}
			seen[p.Name] = struct{}{}
		}
		types[i] = pt
		names[i] = p.Name
	}
	return build(types, names), nil
}
