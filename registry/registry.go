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

package registry

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	"github.com/pkg/errors"

	"dirpx.dev/mdx/apis"
	"dirpx.dev/mdx/internal/log"
	"dirpx.dev/mdx/signature"
)

var (
	// ErrEmptyName is returned when an empty qualified name is provided.
	ErrEmptyName = errors.New("mdx(registry): empty name provided")
	// ErrNilFunc is returned when a nil overload body is provided.
	ErrNilFunc = errors.New("mdx(registry): nil func provided")
	// ErrSealed is returned by Register after Seal.
	ErrSealed = errors.New("mdx(registry): registry is sealed")
)

// New constructs an empty Registry. A nil logger uses the package default.
func New(logger *slog.Logger) apis.Registry {
	r := &registry{log: log.Section(logger, log.SectionRegistry)}
	r.sets.Store(immutable.NewMap[string, *overloadSet](immutable.NewHasher("")))
	return r
}

// registry publishes an immutable name -> set snapshot through an atomic
// pointer. Readers never lock; writers serialize on mu and swap in a new
// snapshot.
type registry struct {
	// log is the registry-section logger.
	log *slog.Logger
	// mu serializes writers.
	mu sync.Mutex
	// sets is the current snapshot.
	sets atomic.Pointer[immutable.Map[string, *overloadSet]]
	// count tracks the number of registered overloads.
	count atomic.Int64
	// sealed is set by Seal.
	sealed atomic.Bool
}

// Register derives the signature of params and appends the overload.
func (r *registry) Register(name string, params []signature.Param, fn apis.Func) error {
	// Validate inputs early.
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return ErrNilFunc
	}
	sig, err := signature.Derive(params)
	if err != nil {
		return errors.Wrapf(err, "mdx(registry): overload of %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return errors.Wrapf(ErrSealed, "register %q%s", name, sig)
	}

	sets := r.sets.Load()
	cur, ok := sets.Get(name)
	if !ok {
		cur = newOverloadSet(name)
	}
	if prev, dup := cur.Exact(sig.Key()); dup {
		r.log.Warn("duplicate overload signature rejected",
			"name", name, "signature", sig.String(), "existing_seq", prev.Seq)
		return &apis.DuplicateSignatureError{Name: name, Signature: sig}
	}

	ov := &apis.Overload{
		Name:      name,
		Signature: sig,
		Params:    slices.Clone(params),
		Fn:        fn,
		Seq:       cur.Len(),
	}
	r.sets.Store(sets.Set(name, cur.with(ov)))
	r.count.Add(1)

	r.log.Debug("overload registered", "name", name, "signature", sig.String(), "seq", ov.Seq)
	return nil
}

// Lookup returns the current overload set of name.
func (r *registry) Lookup(name string) (apis.OverloadSet, bool) {
	s, ok := r.sets.Load().Get(name)
	if !ok {
		return nil, false
	}
	return s, true
}

// Names returns the registered names in sorted order.
func (r *registry) Names() []string {
	return sortedNames(r.sets.Load())
}

func sortedNames(sets *immutable.Map[string, *overloadSet]) []string {
	names := make([]string, 0, sets.Len())
	itr := sets.Iterator()
	for !itr.Done() {
		name, _, _ := itr.Next()
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Entries returns a snapshot for diagnostics/docs.
func (r *registry) Entries() []*apis.Overload {
	sets := r.sets.Load()
	out := make([]*apis.Overload, 0, r.Count())
	for _, name := range sortedNames(sets) {
		s, _ := sets.Get(name)
		for o := range s.All() {
			out = append(out, o)
		}
	}
	return out
}

// Count returns the number of registered overloads.
func (r *registry) Count() int {
	return int(r.count.Load())
}

// Seal ends the load phase.
func (r *registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Swap(true) {
		return
	}
	r.log.Info("registry sealed", "overloads", r.Count())
}

// Sealed reports whether Seal was called.
func (r *registry) Sealed() bool {
	return r.sealed.Load()
}
