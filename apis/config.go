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

// KeywordMode selects how keyword arguments contribute to the argument
// type tuple.
type KeywordMode uint8

const (
	// KeywordsInCallOrder appends keyword value types after the positional
	// types in call order and ignores keyword names. Passing keywords in a
	// different relative order, or for a parameter whose declared position
	// differs, can select another overload or none at all.
	KeywordsInCallOrder KeywordMode = iota
	// KeywordsByName places each keyword at the declared position of the
	// parameter with the same name, per candidate overload.
	KeywordsByName
)

// String returns the config-file spelling of m.
func (m KeywordMode) String() string {
	switch m {
	case KeywordsByName:
		return "by-name"
	default:
		return "call-order"
	}
}

// Config carries read-only dispatch knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// KeywordMode controls how keyword arguments are laid out for matching.
	KeywordMode KeywordMode

	// CacheFallback memoizes fallback-phase resolutions per overload set
	// version and argument types.
	CacheFallback bool

	// LogDispatch logs every successful resolution at debug level.
	LogDispatch bool
}
