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

// Package mdx provides runtime multiple dispatch: several callables share
// one qualified name and differ in declared parameter types, and each call
// is routed to the callable whose signature fits the concrete argument
// types.
//
// # Design
//
// A Table owns a snapshot of four things:
//
//   - Config: knobs that control matching (keyword layout, fallback
//     memoization, dispatch logging).
//
//   - Registry: qualified name -> overload set. Each overload is a
//     signature.Signature plus a body. Registration is append-only and
//     rejects a second overload whose signature is structurally identical
//     to an existing one (DuplicateSignatureError). The first registration
//     is kept.
//
//   - Resolver: a chain of strategies that selects an overload for a call:
//     1. exact: the argument type tuple equals a signature (O(1) lookup);
//     2. fallback: the first overload in registration order whose
//     signature is compatible, i.e. it declares at least as many
//     parameters as there are arguments and each argument type is
//     accepted by its parameter (wildcard, equal type, or member of a
//     union).
//     If neither phase selects one, Dispatch returns an
//     OverloadResolutionError and invokes nothing.
//
//   - Builder: constructs Registry and Resolver for a Config and migrates
//     registrations when swapped.
//
// # Signatures
//
// Each declared parameter's type is chosen in priority order: an explicit
// type, otherwise the type of its default value, otherwise the wildcard.
// Parameters with defaults still count towards the signature length.
//
//	t := mdx.New()
//	t.MustRegister("g", []mdx.Param{
//	    signature.Typed("a", signature.TypeOf[string]()),
//	}, gOne)
//	t.MustRegister("g", []mdx.Param{
//	    signature.Typed("a", signature.TypeOf[string]()),
//	    signature.Typed("b", signature.TypeOf[int]()),
//	    signature.Optional("c", 3), // int, from the default
//	}, gThree)
//	t.Seal()
//
//	t.Dispatch("g", []any{"x"})    // gOne, exact
//	t.Dispatch("g", []any{"x", 1}) // gThree, fallback
//
// Plain Go functions can be registered with RegisterFunc; their parameter
// types become the signature.
//
// # Keyword arguments
//
// By default (apis.KeywordsInCallOrder) keyword values are appended to the
// positional types in call order and their names are ignored. Passing
// keywords in a different order, or for a parameter whose position differs
// from the keyword's place in the call, can select another overload or
// none. apis.KeywordsByName instead binds each keyword to the declared
// position of the parameter with that name, per candidate.
//
// # Concurrency model
//
// Dispatch is lock-free: it loads the current state and registry snapshot
// atomically. Writers (Register, Seal, SetConfig, SetBuilder, SetResolver)
// take a short build mutex, assemble new immutable snapshots and publish
// them. Registration is meant to finish in a load phase closed by Seal;
// calls dispatched while registration is still running see a consistent,
// possibly older, snapshot.
package mdx
