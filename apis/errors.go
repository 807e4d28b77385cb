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
	"errors"
	"fmt"
	"strings"

	"dirpx.dev/mdx/signature"
)

var (
	// ErrDuplicateSignature is matched by *DuplicateSignatureError.
	ErrDuplicateSignature = errors.New("mdx: duplicate overload signature")
	// ErrNoOverload is matched by *OverloadResolutionError.
	ErrNoOverload = errors.New("mdx: no matching overload")
)

// DuplicateSignatureError reports a registration whose signature is
// structurally identical to one already registered under Name.
type DuplicateSignatureError struct {
	Name      string
	Signature signature.Signature
}

func (e *DuplicateSignatureError) Error() string {
	return fmt.Sprintf("mdx(registry): identical overload signature %s for %q already exists", e.Signature, e.Name)
}

// Is matches ErrDuplicateSignature.
func (e *DuplicateSignatureError) Is(target error) bool {
	return target == ErrDuplicateSignature
}

// OverloadResolutionError reports a call that no registered overload of
// Name can serve.
type OverloadResolutionError struct {
	Name string
	// Args is the call-order argument type tuple.
	Args signature.Tuple
	// Keywords are the keyword names in call order, if any.
	Keywords []string
}

func (e *OverloadResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mdx: cannot find a matching overload for %q with argument types %s", e.Name, e.Args)
	if len(e.Keywords) > 0 {
		fmt.Fprintf(&b, " (keywords: %s)", strings.Join(e.Keywords, ", "))
	}
	return b.String()
}

// Is matches ErrNoOverload.
func (e *OverloadResolutionError) Is(target error) bool {
	return target == ErrNoOverload
}
