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
	"iter"

	"github.com/benbjohnson/immutable"

	"dirpx.dev/mdx/apis"
	"dirpx.dev/mdx/signature"
)

// overloadSet is a persistent snapshot of one name's overloads.
// with() returns a new snapshot sharing structure with the old one.
type overloadSet struct {
	name string
	// list holds overloads in registration order.
	list *immutable.List[*apis.Overload]
	// index maps signature keys to overloads.
	index *immutable.Map[string, *apis.Overload]
}

// Ensure overloadSet implements apis.OverloadSet.
var _ apis.OverloadSet = (*overloadSet)(nil)

func newOverloadSet(name string) *overloadSet {
	return &overloadSet{
		name:  name,
		list:  immutable.NewList[*apis.Overload](),
		index: immutable.NewMap[string, *apis.Overload](immutable.NewHasher("")),
	}
}

func (s *overloadSet) with(o *apis.Overload) *overloadSet {
	return &overloadSet{
		name:  s.name,
		list:  s.list.Append(o),
		index: s.index.Set(string(o.Signature.Key()), o),
	}
}

func (s *overloadSet) Name() string { return s.name }

func (s *overloadSet) Len() int { return s.list.Len() }

// Exact looks key up among all signature keys. Argument tuples only
// produce concrete keys, so wildcard and union signatures never match here.
func (s *overloadSet) Exact(key signature.Key) (*apis.Overload, bool) {
	return s.index.Get(string(key))
}

func (s *overloadSet) All() iter.Seq[*apis.Overload] {
	return func(yield func(*apis.Overload) bool) {
		itr := s.list.Iterator()
		for !itr.Done() {
			_, o := itr.Next()
			if !yield(o) {
				return
			}
		}
	}
}
