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
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"dirpx.dev/mdx/apis"
	"dirpx.dev/mdx/internal/log"
)

// ErrUnknownKeywordMode is returned for an unrecognized keyword_mode value.
var ErrUnknownKeywordMode = errors.New("mdx(config): unknown keyword mode")

// Settings is the decoded form of a config file.
type Settings struct {
	Config   apis.Config
	LogLevel slog.Level
}

// file mirrors the YAML layout. Pointers tell absent keys from false.
type file struct {
	KeywordMode   string `yaml:"keyword_mode"`
	FallbackCache *bool  `yaml:"fallback_cache"`
	LogDispatch   *bool  `yaml:"log_dispatch"`
	LogLevel      string `yaml:"log_level"`
}

// ParseKeywordMode parses "call-order" or "by-name". Empty selects the default.
func ParseKeywordMode(s string) (apis.KeywordMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "call-order":
		return apis.KeywordsInCallOrder, nil
	case "by-name":
		return apis.KeywordsByName, nil
	default:
		return DefaultKeywordMode, errors.Wrapf(ErrUnknownKeywordMode, "%q", s)
	}
}

// Load decodes YAML settings from r. Absent keys keep their defaults and an
// empty document yields the defaults. Unknown keys are rejected.
func Load(r io.Reader) (Settings, error) {
	st := Settings{Config: DefaultConfig(), LogLevel: slog.LevelWarn}

	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return st, errors.Wrap(err, "mdx(config): decode")
	}

	mode, err := ParseKeywordMode(f.KeywordMode)
	if err != nil {
		return st, err
	}
	st.Config.KeywordMode = mode
	if f.FallbackCache != nil {
		st.Config.CacheFallback = *f.FallbackCache
	}
	if f.LogDispatch != nil {
		st.Config.LogDispatch = *f.LogDispatch
	}
	if f.LogLevel != "" {
		if st.LogLevel, err = log.ParseLevel(f.LogLevel); err != nil {
			return st, errors.Wrapf(err, "mdx(config): log_level %q", f.LogLevel)
		}
	}
	return st, nil
}

// LoadFile reads settings from the YAML file at path.
func LoadFile(path string) (Settings, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Settings{Config: DefaultConfig(), LogLevel: slog.LevelWarn}, errors.Wrap(err, "mdx(config): open")
	}
	defer fh.Close()
	return Load(fh)
}
