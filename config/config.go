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

package config

import (
	"dirpx.dev/mdx/apis"
)

const (
	// DefaultKeywordMode keeps keyword arguments in call order.
	DefaultKeywordMode = apis.KeywordsInCallOrder
	// DefaultCacheFallback enables memoization of fallback resolutions.
	DefaultCacheFallback = true
	// DefaultLogDispatch disables per-call resolution logging.
	DefaultLogDispatch = false
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		KeywordMode:   DefaultKeywordMode,
		CacheFallback: DefaultCacheFallback,
		LogDispatch:   DefaultLogDispatch,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithKeywordMode sets the KeywordMode option.
func WithKeywordMode(m apis.KeywordMode) Option {
	return func(c *apis.Config) {
		c.KeywordMode = m
	}
}

// WithFallbackCache sets the CacheFallback option.
func WithFallbackCache(enabled bool) Option {
	return func(c *apis.Config) {
		c.CacheFallback = enabled
	}
}

// WithDispatchLogging sets the LogDispatch option.
func WithDispatchLogging(enabled bool) Option {
	return func(c *apis.Config) {
		c.LogDispatch = enabled
	}
}
