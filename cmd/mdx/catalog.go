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

package main

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"dirpx.dev/mdx"
	"dirpx.dev/mdx/signature"
)

// registerCatalog registers the overloads the CLI can call.
func registerCatalog(t *mdx.Table) error {
	str := signature.TypeOf[string]()

	regs := []struct {
		name   string
		params []mdx.Param
		fn     func(c *mdx.Call) (any, error)
	}{
		{"describe", []mdx.Param{signature.Typed("v", signature.TypeOf[int]())}, func(c *mdx.Call) (any, error) {
			return fmt.Sprintf("int %d", c.Get("v")), nil
		}},
		{"describe", []mdx.Param{signature.Typed("v", str)}, func(c *mdx.Call) (any, error) {
			return fmt.Sprintf("string %q", c.Get("v")), nil
		}},
		{"describe", []mdx.Param{signature.Typed("v", signature.OneOf(reflect.TypeFor[float64](), reflect.TypeFor[bool]()))}, func(c *mdx.Call) (any, error) {
			return fmt.Sprintf("number or flag %v", c.Get("v")), nil
		}},
		{"describe", []mdx.Param{signature.Arg("v"), signature.Arg("w")}, func(c *mdx.Call) (any, error) {
			return fmt.Sprintf("pair %v, %v", c.Get("v"), c.Get("w")), nil
		}},
		{"join", []mdx.Param{signature.Typed("a", str), signature.Typed("b", str)}, func(c *mdx.Call) (any, error) {
			return c.Get("a").(string) + c.Get("b").(string), nil
		}},
		{"join", []mdx.Param{signature.Typed("a", str), signature.Typed("b", str), signature.Optional("sep", ",")}, func(c *mdx.Call) (any, error) {
			return strings.Join([]string{c.Get("a").(string), c.Get("b").(string)}, c.Get("sep").(string)), nil
		}},
	}
	for _, r := range regs {
		if err := t.Register(r.name, r.params, r.fn); err != nil {
			return err
		}
	}

	funcs := []struct {
		name string
		fn   any
	}{
		{"area", func(r float64) float64 { return math.Pi * r * r }},
		{"area", func(w, h float64) float64 { return w * h }},
		{"area", func(w, h int) int { return w * h }},
	}
	for _, f := range funcs {
		if err := t.RegisterFunc(f.name, f.fn); err != nil {
			return err
		}
	}
	return nil
}
