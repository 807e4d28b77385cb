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

package mdx

import (
	"reflect"
	"strconv"

	"github.com/pkg/errors"

	"dirpx.dev/mdx/apis"
	"dirpx.dev/mdx/registry"
	"dirpx.dev/mdx/signature"
)

// ErrUnsupportedFunc is returned by RegisterFunc for values it cannot wrap.
var ErrUnsupportedFunc = errors.New("mdx: unsupported func")

var errorType = reflect.TypeFor[error]()

// RegisterFunc registers a plain Go function as an overload of name. Its
// signature is the function's parameter types, named p0, p1, ...; a
// parameter of type any is a wildcard.
//
// Accepted result shapes are (), (T), (error) and (T, error). Variadic
// functions are rejected, and so are parameters of non-empty interface
// types such as error or fmt.Stringer, since arguments match by their
// concrete type.
func (t *Table) RegisterFunc(name string, fn any) error {
	params, body, err := wrapFunc(fn)
	if err != nil {
		return errors.Wrapf(err, "register %q", name)
	}
	return t.Register(name, params, body)
}

// MustRegisterFunc is RegisterFunc that panics on error.
func (t *Table) MustRegisterFunc(name string, fn any) {
	if err := t.RegisterFunc(name, fn); err != nil {
		panic(err)
	}
}

// wrapFunc derives declared parameters from fn's type and returns a body
// that calls fn through reflection.
func wrapFunc(fn any) ([]signature.Param, apis.Func, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, nil, errors.Wrapf(ErrUnsupportedFunc, "%T is not a func", fn)
	}
	if v.IsNil() {
		return nil, nil, registry.ErrNilFunc
	}
	ft := v.Type()
	if ft.IsVariadic() {
		return nil, nil, errors.Wrapf(ErrUnsupportedFunc, "%s is variadic", ft)
	}
	switch ft.NumOut() {
	case 0, 1:
	case 2:
		if ft.Out(1) != errorType {
			return nil, nil, errors.Wrapf(ErrUnsupportedFunc, "%s: second result must be error", ft)
		}
	default:
		return nil, nil, errors.Wrapf(ErrUnsupportedFunc, "%s has %d results", ft, ft.NumOut())
	}

	params := make([]signature.Param, ft.NumIn())
	for i := range params {
		in := ft.In(i)
		if in.Kind() == reflect.Interface && in.NumMethod() > 0 {
			// No argument's dynamic type is ever an interface type.
			return nil, nil, errors.Wrapf(ErrUnsupportedFunc, "%s: parameter %d has interface type %s", ft, i, in)
		}
		params[i] = signature.Typed("p"+strconv.Itoa(i), signature.Of(in))
	}

	body := func(c *apis.Call) (any, error) {
		vals := c.Bound()
		in := make([]reflect.Value, ft.NumIn())
		for i := range in {
			if vals[i] == nil {
				in[i] = reflect.Zero(ft.In(i))
				continue
			}
			in[i] = reflect.ValueOf(vals[i])
		}
		return results(v.Call(in))
	}
	return params, body, nil
}

// results maps reflected return values onto (any, error).
func results(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errorType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	default:
		return out[0].Interface(), asError(out[1])
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}
