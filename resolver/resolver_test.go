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

package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mdx/apis"
	"dirpx.dev/mdx/config"
	"dirpx.dev/mdx/internal/log"
	"dirpx.dev/mdx/registry"
	"dirpx.dev/mdx/resolver"
	"dirpx.dev/mdx/signature"
	"dirpx.dev/mdx/strategy"
)

// stubStrategy records calls and returns a fixed answer.
type stubStrategy struct {
	ov    *apis.Overload
	calls int
}

func (s *stubStrategy) TryResolve(apis.OverloadSet, *apis.Invocation, apis.Config) (*apis.Overload, bool) {
	s.calls++
	return s.ov, s.ov != nil
}

func testSet(t *testing.T) apis.OverloadSet {
	t.Helper()
	reg := registry.New(log.Discard)
	require.NoError(t, reg.Register("f", nil, func(*apis.Call) (any, error) { return nil, nil }))
	set, _ := reg.Lookup("f")
	return set
}

func TestChain_StopsAtFirstHit(t *testing.T) {
	hit := &apis.Overload{Name: "hit"}
	first := &stubStrategy{}
	second := &stubStrategy{ov: hit}
	third := &stubStrategy{ov: &apis.Overload{Name: "late"}}

	res := resolver.New(first, nil, second, third)
	o, ok := res.Resolve(testSet(t), &apis.Invocation{}, config.DefaultConfig())

	require.True(t, ok)
	assert.Same(t, hit, o)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 0, third.calls)
}

func TestChain_Miss(t *testing.T) {
	res := resolver.New(&stubStrategy{}, &stubStrategy{})
	_, ok := res.Resolve(testSet(t), &apis.Invocation{}, config.DefaultConfig())
	assert.False(t, ok)

	_, ok = res.Resolve(nil, &apis.Invocation{}, config.DefaultConfig())
	assert.False(t, ok)
}

func TestChain_ExactPrecedesFallback(t *testing.T) {
	reg := registry.New(log.Discard)
	tags := func(tag string) apis.Func { return func(*apis.Call) (any, error) { return tag, nil } }
	require.NoError(t, reg.Register("f", []signature.Param{signature.Arg("a")}, tags("any")))
	require.NoError(t, reg.Register("f", []signature.Param{signature.Typed("a", signature.TypeOf[int]())}, tags("int")))
	set, _ := reg.Lookup("f")

	res := resolver.New(strategy.NewExactStrategy(), strategy.NewFallbackStrategy())
	args := []any{42}
	o, ok := res.Resolve(set, &apis.Invocation{Args: args, Types: signature.TupleOf(args, nil)}, config.DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, 1, o.Seq, "exact match wins over the earlier wildcard")
}
