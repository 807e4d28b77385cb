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

package apis

import (
	"iter"

	"dirpx.dev/mdx/signature"
)

// Registry maps qualified names to overload sets.
// It is append-only: overloads are never replaced or removed.
type Registry interface {
	// Register derives the signature of params and appends (signature, fn)
	// to the overload set of name. It fails with *DuplicateSignatureError
	// when an identical signature is already registered under name.
	Register(name string, params []signature.Param, fn Func) error
	// Lookup returns the current overload set of name.
	Lookup(name string) (OverloadSet, bool)
	// Names returns the registered names in sorted order.
	Names() []string
	// Entries returns every overload, grouped by sorted name and in
	// registration order within a name.
	Entries() []*Overload
	// Count returns the number of registered overloads.
	Count() int
	// Seal ends the load phase. Register fails afterwards.
	Seal()
	// Sealed reports whether Seal was called.
	Sealed() bool
}

// OverloadSet is an immutable snapshot of the overloads of one name.
// Implementations must be comparable, and two snapshots compare equal only
// if they hold the same overloads; resolvers key their caches on it.
type OverloadSet interface {
	// Name returns the qualified name.
	Name() string
	// Len returns the number of overloads.
	Len() int
	// Exact returns the overload whose signature key equals key.
	Exact(key signature.Key) (*Overload, bool)
	// All yields overloads in registration order.
	All() iter.Seq[*Overload]
}
