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
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"dirpx.dev/mdx/apis"
	"dirpx.dev/mdx/builder"
	"dirpx.dev/mdx/config"
	"dirpx.dev/mdx/internal/log"
	"dirpx.dev/mdx/signature"
	"dirpx.dev/mdx/strategy"
)

var (
	// ErrNilRegistry is raised when a builder returns a nil registry.
	ErrNilRegistry = errors.New("mdx: builder returned nil registry")
	// ErrNilResolver is raised when a builder returns a nil resolver.
	ErrNilResolver = errors.New("mdx: builder returned nil resolver")
)

// Errors re-exported from apis.
var (
	ErrDuplicateSignature = apis.ErrDuplicateSignature
	ErrNoOverload         = apis.ErrNoOverload
)

type (
	// DuplicateSignatureError is returned by Register.
	DuplicateSignatureError = apis.DuplicateSignatureError
	// OverloadResolutionError is returned by Dispatch.
	OverloadResolutionError = apis.OverloadResolutionError
	// Keyword is a keyword argument.
	Keyword = signature.Keyword
	// Param is a declared parameter.
	Param = signature.Param
	// Call is what an overload body receives.
	Call = apis.Call
)

// KW builds a keyword argument.
func KW(name string, v any) Keyword { return signature.KW(name, v) }

// Option configures New.
type Option func(*options)

type options struct {
	cfg    apis.Config
	bld    apis.Builder
	logger *slog.Logger
}

// WithConfig sets the initial configuration.
func WithConfig(cfg apis.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithBuilder sets the builder used for the registry and resolver.
func WithBuilder(b apis.Builder) Option {
	return func(o *options) { o.bld = b }
}

// WithLogger sets the logger. The table adds its own attributes.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Table owns one overload registry and dispatches calls against it.
//
// Registration is expected to happen during a load phase that ends with
// Seal. Dispatch is lock-free and safe for concurrent use at any time: it
// reads the latest published snapshot.
type Table struct {
	// id tells tables apart in logs.
	id string
	// log is the dispatch-section logger.
	log *slog.Logger
	// buildMu serializes writers (registrations and reconfigurations) so we
	// never publish partially-built snapshots.
	buildMu sync.Mutex
	// st is the current state.
	st atomic.Pointer[state]
}

// state is an immutable snapshot published atomically via st.Store; never
// mutate fields of a published state.
type state struct {
	// cfg is the dispatch configuration.
	cfg apis.Config
	// reg holds the overloads.
	reg apis.Registry
	// res selects overloads.
	res apis.Resolver
	// bld builds reg and res.
	bld apis.Builder
	// pres indicates whether res is pinned.
	pres bool
}

// New constructs a Table.
func New(opts ...Option) *Table {
	o := options{cfg: config.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	base := o.logger
	if base == nil {
		base = log.DefaultLogger
	}
	base = base.With("table", id)
	if o.bld == nil {
		o.bld = builder.New(base)
	}

	t := &Table{id: id, log: log.Section(base, log.SectionDispatch)}
	reg := o.bld.BuildRegistry(o.cfg, nil)
	if reg == nil {
		panic(ErrNilRegistry)
	}
	res := o.bld.BuildResolver(o.cfg, reg, nil)
	if res == nil {
		panic(ErrNilResolver)
	}
	t.st.Store(&state{cfg: o.cfg, reg: reg, res: res, bld: o.bld})
	return t
}

// ID returns the table identifier attached to its log records.
func (t *Table) ID() string { return t.id }

// Register adds an overload under name. See apis.Registry.Register.
func (t *Table) Register(name string, params []Param, fn apis.Func) error {
	t.buildMu.Lock()
	defer t.buildMu.Unlock()
	return t.st.Load().reg.Register(name, params, fn)
}

// MustRegister is Register that panics on error. It suits package-level
// load phases where a duplicate signature is a programming error.
func (t *Table) MustRegister(name string, params []Param, fn apis.Func) {
	if err := t.Register(name, params, fn); err != nil {
		panic(err)
	}
}

// Seal ends the load phase; later registrations fail with registry.ErrSealed.
func (t *Table) Seal() {
	t.buildMu.Lock()
	defer t.buildMu.Unlock()
	t.st.Load().reg.Seal()
}

// Sealed reports whether the table is sealed.
func (t *Table) Sealed() bool {
	return t.st.Load().reg.Sealed()
}

// Dispatch routes a call to the overload of name selected by the resolver
// and returns its result unchanged. It fails with *OverloadResolutionError
// when no overload matches; no overload is invoked in that case.
func (t *Table) Dispatch(name string, args []any, kwargs ...Keyword) (any, error) {
	s := t.st.Load()
	in := &apis.Invocation{
		Name:   name,
		Args:   args,
		Kwargs: kwargs,
		Types:  signature.TupleOf(args, kwargs),
	}

	set, ok := s.reg.Lookup(name)
	if !ok {
		return nil, t.unresolved(s, in)
	}
	o, ok := s.res.Resolve(set, in, s.cfg)
	if !ok {
		return nil, t.unresolved(s, in)
	}
	if s.cfg.LogDispatch {
		phase := "fallback"
		if strategy.IsExact(o, in, s.cfg.KeywordMode) {
			phase = "exact"
		}
		t.log.Debug("overload selected",
			"name", name, "args", in.Types.String(), "phase", phase,
			"signature", o.Signature.String(), "seq", o.Seq)
	}
	return o.Fn(&apis.Call{Overload: o, Args: args, Kwargs: kwargs, Mode: s.cfg.KeywordMode})
}

func (t *Table) unresolved(s *state, in *apis.Invocation) error {
	err := &apis.OverloadResolutionError{Name: in.Name, Args: in.Types}
	if len(in.Kwargs) > 0 {
		err.Keywords = signature.KeywordNames(in.Kwargs)
	}
	if s.cfg.LogDispatch {
		t.log.Debug("no overload", "name", in.Name, "args", in.Types.String())
	}
	return err
}

// Func returns a callable that dispatches every invocation through name.
// Arguments of type Keyword are passed as keyword arguments, in order;
// everything else is positional.
func (t *Table) Func(name string) func(args ...any) (any, error) {
	return func(args ...any) (any, error) {
		var pos []any
		var kws []Keyword
		for _, a := range args {
			if kw, ok := a.(Keyword); ok {
				kws = append(kws, kw)
				continue
			}
			pos = append(pos, a)
		}
		return t.Dispatch(name, pos, kws...)
	}
}

// Config returns the current configuration.
func (t *Table) Config() apis.Config {
	return t.st.Load().cfg
}

// SetConfig replaces the configuration and rebuilds the resolver unless
// it is pinned. Registered overloads are kept.
func (t *Table) SetConfig(cfg apis.Config) {
	t.buildMu.Lock()
	defer t.buildMu.Unlock()

	old := t.st.Load()
	nres := old.res
	if !old.pres {
		nres = old.bld.BuildResolver(cfg, old.reg, old.res)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}
	t.st.Store(&state{cfg: cfg, reg: old.reg, res: nres, bld: old.bld, pres: old.pres})
}

// Registry returns the current registry.
func (t *Table) Registry() apis.Registry {
	return t.st.Load().reg
}

// Resolver returns the current resolver.
func (t *Table) Resolver() apis.Resolver {
	return t.st.Load().res
}

// SetResolver replaces the resolver and pins it: SetConfig and SetBuilder
// keep it until UnpinResolver.
func (t *Table) SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	t.buildMu.Lock()
	defer t.buildMu.Unlock()

	old := t.st.Load()
	t.st.Store(&state{cfg: old.cfg, reg: old.reg, res: res, bld: old.bld, pres: true})
}

// UnpinResolver rebuilds the resolver with the current builder.
func (t *Table) UnpinResolver() {
	t.buildMu.Lock()
	defer t.buildMu.Unlock()

	old := t.st.Load()
	nres := old.bld.BuildResolver(old.cfg, old.reg, old.res)
	if nres == nil {
		panic(ErrNilResolver)
	}
	t.st.Store(&state{cfg: old.cfg, reg: old.reg, res: nres, bld: old.bld})
}

// IsResolverPinned reports whether the resolver is pinned.
func (t *Table) IsResolverPinned() bool {
	return t.st.Load().pres
}

// Builder returns the current builder.
func (t *Table) Builder() apis.Builder {
	return t.st.Load().bld
}

// SetBuilder swaps the builder. The registry is rebuilt by b, migrating
// every overload in order, and the resolver is rebuilt unless pinned.
func (t *Table) SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	t.buildMu.Lock()
	defer t.buildMu.Unlock()

	old := t.st.Load()
	nreg := b.BuildRegistry(old.cfg, old.reg)
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, nreg, old.res)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}
	t.st.Store(&state{cfg: old.cfg, reg: nreg, res: nres, bld: b, pres: old.pres})
}
