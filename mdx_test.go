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

package mdx_test

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mdx"
	"dirpx.dev/mdx/apis"
	"dirpx.dev/mdx/builder"
	"dirpx.dev/mdx/config"
	"dirpx.dev/mdx/internal/log"
	"dirpx.dev/mdx/registry"
	"dirpx.dev/mdx/signature"
)

// recorder counts invocations per tag.
type recorder struct {
	mu    sync.Mutex
	calls map[string]int
}

func newRecorder() *recorder { return &recorder{calls: map[string]int{}} }

func (r *recorder) body(tag string) apis.Func {
	return func(*apis.Call) (any, error) {
		r.mu.Lock()
		r.calls[tag]++
		r.mu.Unlock()
		return tag, nil
	}
}

func (r *recorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		n += c
	}
	return n
}

func newTable(opts ...mdx.Option) *mdx.Table {
	return mdx.New(append([]mdx.Option{mdx.WithLogger(log.Discard)}, opts...)...)
}

func typed[T any](name string) mdx.Param {
	return signature.Typed(name, signature.TypeOf[T]())
}

func dispatch(t *testing.T, tb *mdx.Table, name string, args []any, kwargs ...mdx.Keyword) any {
	t.Helper()
	v, err := tb.Dispatch(name, args, kwargs...)
	require.NoError(t, err)
	return v
}

func TestScenario_IntStringFloat(t *testing.T) {
	tb := newTable()
	rec := newRecorder()
	tb.MustRegister("f", []mdx.Param{typed[int]("a")}, rec.body("int"))
	tb.MustRegister("f", []mdx.Param{typed[string]("a")}, rec.body("string"))
	tb.Seal()

	assert.Equal(t, "int", dispatch(t, tb, "f", []any{3}))
	assert.Equal(t, "string", dispatch(t, tb, "f", []any{"x"}))

	_, err := tb.Dispatch("f", []any{3.0})
	var rerr *mdx.OverloadResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "f", rerr.Name)
	assert.Equal(t, signature.Tuple{reflect.TypeFor[float64]()}, rerr.Args)
	assert.True(t, errors.Is(err, mdx.ErrNoOverload))
	assert.Contains(t, err.Error(), "(float64)")

	assert.Equal(t, 2, rec.total(), "a failed resolution invokes nothing")
}

func TestScenario_DefaultInferredType(t *testing.T) {
	tb := newTable()
	rec := newRecorder()
	tb.MustRegister("g", []mdx.Param{typed[string]("a")}, rec.body("one"))
	tb.MustRegister("g", []mdx.Param{typed[string]("a"), typed[int]("b"), signature.Optional("c", 3)}, rec.body("three"))

	assert.Equal(t, "one", dispatch(t, tb, "g", []any{"x"}))
	assert.Equal(t, "three", dispatch(t, tb, "g", []any{"x", 1}))
	assert.Equal(t, "three", dispatch(t, tb, "g", []any{"x", 1, 2}))

	_, err := tb.Dispatch("g", []any{"x", 1, "c"})
	assert.ErrorIs(t, err, mdx.ErrNoOverload)
}

func TestExactMatchPrecedence(t *testing.T) {
	tb := newTable()
	rec := newRecorder()
	// The compatible-but-not-exact overloads come first.
	tb.MustRegister("h", []mdx.Param{signature.Arg("a"), signature.Arg("b")}, rec.body("wild"))
	tb.MustRegister("h", []mdx.Param{
		signature.Typed("a", signature.OneOf(reflect.TypeFor[int](), reflect.TypeFor[string]())),
		typed[string]("b"),
	}, rec.body("union"))
	tb.MustRegister("h", []mdx.Param{typed[int]("a"), typed[string]("b")}, rec.body("exact"))

	for i := 0; i < 3; i++ {
		assert.Equal(t, "exact", dispatch(t, tb, "h", []any{1, "s"}))
	}
	assert.Equal(t, "wild", dispatch(t, tb, "h", []any{"s", "s"}), "first compatible in registration order")
	assert.Equal(t, "wild", dispatch(t, tb, "h", []any{2.5}))
}

func TestWildcardUniversality(t *testing.T) {
	tb := newTable()
	tb.MustRegister("w", []mdx.Param{signature.Arg("x")}, func(c *mdx.Call) (any, error) {
		return c.Get("x"), nil
	})
	type custom struct{ N int }
	var nilPtr *custom
	for _, v := range []any{1, "s", 2.5, true, custom{1}, &custom{2}, []int{3}, map[string]int{}, nilPtr, nil} {
		got, err := tb.Dispatch("w", []any{v})
		require.NoError(t, err, "%T", v)
		assert.Equal(t, v, got)
	}
}

func TestOneOfMembership(t *testing.T) {
	tb := newTable()
	tb.MustRegister("u", []mdx.Param{
		signature.Typed("x", signature.OneOf(reflect.TypeFor[int](), reflect.TypeFor[bool]())),
	}, newRecorder().body("u"))

	for _, v := range []any{1, true} {
		_, err := tb.Dispatch("u", []any{v})
		assert.NoError(t, err, "%T", v)
	}
	for _, v := range []any{"s", 2.5, int64(1), nil} {
		_, err := tb.Dispatch("u", []any{v})
		assert.ErrorIs(t, err, mdx.ErrNoOverload, "%T", v)
	}
}

func TestArityGuard(t *testing.T) {
	tb := newTable()
	rec := newRecorder()
	tb.MustRegister("a", []mdx.Param{signature.Arg("x")}, rec.body("one"))

	_, err := tb.Dispatch("a", []any{1, 2})
	assert.ErrorIs(t, err, mdx.ErrNoOverload)
	assert.Zero(t, rec.total())
}

func TestDuplicateRejection(t *testing.T) {
	tb := newTable()
	tb.MustRegister("d", []mdx.Param{signature.Optional("x", "")}, newRecorder().body("first"))

	err := tb.Register("d", []mdx.Param{typed[string]("y")}, newRecorder().body("second"))
	var dup *mdx.DuplicateSignatureError
	require.ErrorAs(t, err, &dup)
	assert.True(t, errors.Is(err, mdx.ErrDuplicateSignature))

	assert.Equal(t, "first", dispatch(t, tb, "d", []any{"s"}))
	assert.Panics(t, func() {
		tb.MustRegister("d", []mdx.Param{typed[string]("z")}, newRecorder().body("third"))
	})
}

func TestUnknownName(t *testing.T) {
	_, err := newTable().Dispatch("nobody", []any{1})
	var rerr *mdx.OverloadResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "nobody", rerr.Name)
}

func TestQualifiedNamesAreIndependent(t *testing.T) {
	tb := newTable()
	tb.MustRegister("Circle.Area", []mdx.Param{typed[float64]("r")}, newRecorder().body("circle"))
	tb.MustRegister("Square.Area", []mdx.Param{typed[float64]("s")}, newRecorder().body("square"))

	assert.Equal(t, "circle", dispatch(t, tb, "Circle.Area", []any{1.0}))
	assert.Equal(t, "square", dispatch(t, tb, "Square.Area", []any{1.0}))
}

func TestKeywordArguments(t *testing.T) {
	join := func(c *mdx.Call) (any, error) {
		return c.Get("a").(string) + c.Get("sep").(string) + c.Get("b").(string), nil
	}
	params := []mdx.Param{typed[string]("a"), typed[string]("b"), signature.Optional("sep", ",")}

	t.Run("call order", func(t *testing.T) {
		tb := newTable()
		tb.MustRegister("join", params, join)

		assert.Equal(t, "x,y", dispatch(t, tb, "join", []any{"x", "y"}))
		assert.Equal(t, "x-y", dispatch(t, tb, "join", []any{"x"}, mdx.KW("b", "y"), mdx.KW("sep", "-")))
		// Names are ignored for matching, not for Lookup.
		assert.Equal(t, "x-y", dispatch(t, tb, "join", []any{"x"}, mdx.KW("sep", "-"), mdx.KW("b", "y")))
	})

	t.Run("call order fragility", func(t *testing.T) {
		tb := newTable()
		tb.MustRegister("k", []mdx.Param{typed[string]("s"), typed[int]("n")}, newRecorder().body("k"))

		assert.Equal(t, "k", dispatch(t, tb, "k", nil, mdx.KW("s", "x"), mdx.KW("n", 1)))
		_, err := tb.Dispatch("k", nil, mdx.KW("n", 1), mdx.KW("s", "x"))
		var rerr *mdx.OverloadResolutionError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, []string{"n", "s"}, rerr.Keywords)
	})

	t.Run("by name", func(t *testing.T) {
		tb := newTable(mdx.WithConfig(config.NewConfig(config.WithKeywordMode(apis.KeywordsByName))))
		tb.MustRegister("k", []mdx.Param{typed[string]("s"), typed[int]("n")}, newRecorder().body("k"))

		assert.Equal(t, "k", dispatch(t, tb, "k", nil, mdx.KW("n", 1), mdx.KW("s", "x")))
		_, err := tb.Dispatch("k", []any{"x"}, mdx.KW("s", "y"))
		assert.ErrorIs(t, err, mdx.ErrNoOverload)
	})
}

func TestFuncWrapper(t *testing.T) {
	tb := newTable()
	tb.MustRegister("f", []mdx.Param{typed[int]("a"), signature.Optional("b", "!")}, func(c *mdx.Call) (any, error) {
		return c.Get("b"), nil
	})
	f := tb.Func("f")

	v, err := f(1)
	require.NoError(t, err)
	assert.Equal(t, "!", v)

	v, err = f(1, mdx.KW("b", "?"))
	require.NoError(t, err)
	assert.Equal(t, "?", v)

	_, err = f("no")
	assert.ErrorIs(t, err, mdx.ErrNoOverload)
}

func TestResultPassThrough(t *testing.T) {
	tb := newTable()
	boom := errors.New("boom")
	tb.MustRegister("e", nil, func(*mdx.Call) (any, error) { return 7, boom })

	v, err := tb.Dispatch("e", nil)
	assert.Equal(t, 7, v)
	assert.Same(t, boom, err)
}

func TestSeal(t *testing.T) {
	tb := newTable()
	tb.MustRegister("f", nil, newRecorder().body("f"))
	tb.Seal()
	assert.True(t, tb.Sealed())

	err := tb.Register("g", nil, newRecorder().body("g"))
	assert.ErrorIs(t, err, registry.ErrSealed)
	assert.Equal(t, "f", dispatch(t, tb, "f", nil))
}

func TestSetConfig_KeepsRegistrations(t *testing.T) {
	tb := newTable()
	tb.MustRegister("k", []mdx.Param{typed[string]("s"), typed[int]("n")}, newRecorder().body("k"))
	_, err := tb.Dispatch("k", nil, mdx.KW("n", 1), mdx.KW("s", "x"))
	require.Error(t, err)

	tb.SetConfig(config.NewConfig(config.WithKeywordMode(apis.KeywordsByName)))
	assert.Equal(t, apis.KeywordsByName, tb.Config().KeywordMode)
	assert.Equal(t, "k", dispatch(t, tb, "k", nil, mdx.KW("n", 1), mdx.KW("s", "x")))
}

// onlyFallback resolves with the first overload whatever the arguments.
type onlyFallback struct{}

func (onlyFallback) Resolve(set apis.OverloadSet, _ *apis.Invocation, _ apis.Config) (*apis.Overload, bool) {
	for o := range set.All() {
		return o, true
	}
	return nil, false
}

func TestPinnedResolver(t *testing.T) {
	tb := newTable()
	tb.MustRegister("f", []mdx.Param{typed[int]("a")}, newRecorder().body("int"))

	tb.SetResolver(onlyFallback{})
	assert.True(t, tb.IsResolverPinned())
	assert.Equal(t, "int", dispatch(t, tb, "f", []any{"not an int"}))

	tb.SetConfig(config.DefaultConfig())
	assert.Equal(t, "int", dispatch(t, tb, "f", []any{"still pinned"}))

	tb.UnpinResolver()
	assert.False(t, tb.IsResolverPinned())
	_, err := tb.Dispatch("f", []any{"x"})
	assert.ErrorIs(t, err, mdx.ErrNoOverload)
}

func TestSetBuilder_MigratesRegistry(t *testing.T) {
	tb := newTable()
	tb.MustRegister("f", []mdx.Param{signature.Arg("a")}, newRecorder().body("any"))
	tb.MustRegister("f", []mdx.Param{typed[int]("a")}, newRecorder().body("int"))
	tb.Seal()
	old := tb.Registry()

	tb.SetBuilder(builder.New(log.Discard))
	assert.NotSame(t, old, tb.Registry())
	assert.Equal(t, 2, tb.Registry().Count())
	assert.True(t, tb.Sealed())
	assert.Equal(t, "int", dispatch(t, tb, "f", []any{1}))
	assert.Equal(t, "any", dispatch(t, tb, "f", []any{"x"}))
}

// TestSharedResolver checks that tables sharing a resolver only ever invoke
// their own overloads.
func TestSharedResolver(t *testing.T) {
	t1, t2 := newTable(), newTable()
	t1.MustRegister("f", []mdx.Param{signature.Arg("v")}, newRecorder().body("t1"))
	t2.MustRegister("f", []mdx.Param{signature.Arg("v")}, newRecorder().body("t2"))
	t2.SetResolver(t1.Resolver())

	assert.Equal(t, "t1", dispatch(t, t1, "f", []any{1}))
	assert.Equal(t, "t2", dispatch(t, t2, "f", []any{1}))
	assert.Equal(t, "t1", dispatch(t, t1, "f", []any{1}))

	// A pinned resolver survives a registry rebuild.
	t2.SetBuilder(builder.New(log.Discard))
	assert.Equal(t, "t2", dispatch(t, t2, "f", []any{1}))
	assert.Equal(t, "t1", dispatch(t, t1, "f", []any{1}))
}

// nilBuilder violates the builder contract.
type nilBuilder struct{}

func (nilBuilder) BuildRegistry(apis.Config, apis.Registry) apis.Registry { return nil }
func (nilBuilder) BuildResolver(apis.Config, apis.Registry, apis.Resolver) apis.Resolver {
	return nil
}

func TestNilBuilderPanics(t *testing.T) {
	assert.PanicsWithValue(t, mdx.ErrNilRegistry, func() { newTable(mdx.WithBuilder(nilBuilder{})) })
	assert.PanicsWithValue(t, mdx.ErrNilRegistry, func() { newTable().SetBuilder(nilBuilder{}) })
}

func TestDispatchLogging(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Level.Level()
	log.SetLevel(slog.LevelDebug)
	defer log.SetLevel(prev)

	tb := mdx.New(
		mdx.WithLogger(log.New(&buf)),
		mdx.WithConfig(config.NewConfig(config.WithDispatchLogging(true))),
	)
	tb.MustRegister("f", []mdx.Param{signature.Arg("a")}, newRecorder().body("f"))
	_ = dispatch(t, tb, "f", []any{1})

	out := buf.String()
	assert.Contains(t, out, `"phase":"fallback"`)
	assert.Contains(t, out, `"section":"dispatch"`)
	assert.Contains(t, out, tb.ID())
}

// TestDispatchLogging_ByNamePhase checks that an exact match found by
// binding keywords to their parameters is logged as exact.
func TestDispatchLogging_ByNamePhase(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Level.Level()
	log.SetLevel(slog.LevelDebug)
	defer log.SetLevel(prev)

	tb := mdx.New(
		mdx.WithLogger(log.New(&buf)),
		mdx.WithConfig(config.NewConfig(
			config.WithDispatchLogging(true),
			config.WithKeywordMode(apis.KeywordsByName),
		)),
	)
	tb.MustRegister("g", []mdx.Param{typed[int]("a"), typed[string]("b")}, newRecorder().body("g"))
	assert.Equal(t, "g", dispatch(t, tb, "g", nil, mdx.KW("b", "x"), mdx.KW("a", 1)))

	out := buf.String()
	assert.Contains(t, out, `"phase":"exact"`)
	assert.NotContains(t, out, `"phase":"fallback"`)
}

// TestConcurrentDispatchDuringRegistration hammers Dispatch while overloads
// are still being registered; every call must either resolve or fail with
// OverloadResolutionError.
func TestConcurrentDispatchDuringRegistration(t *testing.T) {
	tb := newTable()
	tb.MustRegister("f", []mdx.Param{typed[int]("a")}, newRecorder().body("int"))

	types := []mdx.Param{typed[string]("a"), typed[float64]("a"), typed[bool]("a"), signature.Arg("a")}
	args := []any{1, "s", 2.5, true, struct{}{}}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers + 1)
	go func() {
		defer wg.Done()
		for _, p := range types {
			if err := tb.Register("f", []mdx.Param{p}, newRecorder().body("x")); err != nil {
				t.Errorf("register: %v", err)
			}
		}
		tb.Seal()
	}()
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				_, err := tb.Dispatch("f", []any{args[(w+i)%len(args)]})
				if err != nil && !errors.Is(err, mdx.ErrNoOverload) {
					t.Errorf("dispatch: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	for _, a := range args {
		_, err := tb.Dispatch("f", []any{a})
		assert.NoError(t, err, "%T", a)
	}
}
