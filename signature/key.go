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
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
)

// Key is the canonical, comparable form of a Signature or Tuple.
// Two signatures are structurally identical iff their keys are equal.
// Keys are process-local: they embed interned type ids.
type Key string

var (
	// typeKeys interns reflect.Type -> key fragment.
	typeKeys sync.Map // key: reflect.Type, val: string
	// nextTypeID hands out interned ids.
	nextTypeID atomic.Uint64
)

// typeKey returns the interned key fragment for t. Distinct types never
// share a fragment, even when their String() forms collide.
func typeKey(t reflect.Type) string {
	if v, ok := typeKeys.Load(t); ok {
		return v.(string)
	}
	k := "#" + strconv.FormatUint(nextTypeID.Add(1), 36)
	v, _ := typeKeys.LoadOrStore(t, k)
	return v.(string)
}
