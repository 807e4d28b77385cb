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

// Package log holds the slog setup shared by mdx components.
//
// Every component logs through a logger carrying a "section" attribute
// (registry, dispatch, config). Records below warn level are dropped unless
// their section is enabled; with no sections enabled, all sections pass.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Section names used across the module.
const (
	SectionRegistry = "registry"
	SectionDispatch = "dispatch"
	SectionConfig   = "config"
)

// Level is the shared level of loggers created by this package.
var Level = func() *slog.LevelVar {
	v := new(slog.LevelVar)
	v.Set(slog.LevelWarn)
	return v
}()

// SetLevel sets the shared level.
func SetLevel(l slog.Level) { Level.Set(l) }

// ParseLevel parses "debug", "info", "warn" or "error".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(strings.TrimSpace(s)))
	return l, err
}

var (
	sectionsMu      sync.RWMutex
	enabledSections []string
)

// EnableSections restricts sub-warn records to the given sections.
// Calling it with no arguments enables every section again.
func EnableSections(sections ...string) {
	sectionsMu.Lock()
	defer sectionsMu.Unlock()
	enabledSections = slices.Clone(sections)
}

func sectionEnabled(name string) bool {
	sectionsMu.RLock()
	defer sectionsMu.RUnlock()
	if len(enabledSections) == 0 {
		return true
	}
	return slices.ContainsFunc(enabledSections, func(s string) bool {
		return strings.HasPrefix(name, s)
	})
}

// NewHandler returns a text handler without timestamps when w is a
// terminal, and a JSON handler otherwise.
func NewHandler(w io.Writer) slog.Handler {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: Level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.Attr{}
				}
				return a
			},
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: Level})
}

// New returns a section-filtering logger writing to w.
func New(w io.Writer) *slog.Logger {
	return slog.New(&filteringHandler{underlying: NewHandler(w)})
}

// DefaultLogger writes to stderr.
var DefaultLogger = New(os.Stderr)

// Discard drops every record.
var Discard = slog.New(slog.DiscardHandler)

// Section returns l annotated with a section attribute. A nil l yields
// a section of DefaultLogger.
func Section(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = DefaultLogger
	}
	return l.With("section", name)
}

var _ slog.Handler = &filteringHandler{}

// filteringHandler drops sub-warn records whose section is not enabled.
type filteringHandler struct {
	underlying slog.Handler
	// section is the section bound via WithAttrs, if any.
	section string
}

func (f *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return f.underlying.Enabled(ctx, level)
}

func (f *filteringHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelWarn {
		return f.underlying.Handle(ctx, record)
	}
	section := f.section
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "section" {
			section = attr.Value.String()
			return false
		}
		return true
	})
	if section != "" && !sectionEnabled(section) {
		return nil
	}
	return f.underlying.Handle(ctx, record)
}

func (f *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	section := f.section
	for _, attr := range attrs {
		if attr.Key == "section" {
			section = attr.Value.String()
		}
	}
	return &filteringHandler{underlying: f.underlying.WithAttrs(attrs), section: section}
}

func (f *filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{underlying: f.underlying.WithGroup(name), section: f.section}
}
