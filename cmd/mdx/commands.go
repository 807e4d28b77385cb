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

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"dirpx.dev/mdx"
	"dirpx.dev/mdx/apis"
	"dirpx.dev/mdx/config"
	"dirpx.dev/mdx/internal/log"
)

var flags struct {
	config      string
	byName      bool
	verbose     bool
	logSections []string
}

// logger is the base logger of the catalog table.
var logger = log.DefaultLogger

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog's names and signatures",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var callCmd = &cobra.Command{
	Use:   "call NAME [ARG|KEY=ARG]...",
	Short: "Dispatch a call against the catalog",
	Long: `Dispatch a call against the catalog.

Arguments are parsed as int, float64 or bool literals, falling back to
string; prefix a value with "s:" to force a string. KEY=ARG passes a
keyword argument.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

// loadTable builds and seals the catalog table from the flags.
func loadTable() (*mdx.Table, error) {
	st := config.Settings{Config: config.DefaultConfig(), LogLevel: slog.LevelWarn}
	if flags.config != "" {
		var err error
		if st, err = config.LoadFile(flags.config); err != nil {
			return nil, err
		}
	}
	if flags.byName {
		st.Config.KeywordMode = apis.KeywordsByName
	}
	if flags.verbose {
		st.LogLevel = slog.LevelDebug
		st.Config.LogDispatch = true
	}
	log.SetLevel(st.LogLevel)
	log.EnableSections(flags.logSections...)
	log.Section(logger, log.SectionConfig).Debug("config loaded",
		"path", flags.config,
		"keyword_mode", st.Config.KeywordMode.String(),
		"fallback_cache", st.Config.CacheFallback,
		"log_dispatch", st.Config.LogDispatch,
		"log_level", st.LogLevel.String())

	t := mdx.New(mdx.WithConfig(st.Config), mdx.WithLogger(logger))
	if err := registerCatalog(t); err != nil {
		return nil, fmt.Errorf("could not register catalog: %w", err)
	}
	t.Seal()
	return t, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	t, err := loadTable()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, o := range t.Registry().Entries() {
		fmt.Fprintf(out, "%s%s\n", o.Name, o.Signature)
	}
	return nil
}

func runCall(cmd *cobra.Command, args []string) error {
	t, err := loadTable()
	if err != nil {
		return err
	}
	pos, kws := parseArgs(args[1:])
	res, err := t.Dispatch(args[0], pos, kws...)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res)
	return nil
}

// parseArgs splits raw command-line values into positional and keyword
// arguments.
func parseArgs(raw []string) ([]any, []mdx.Keyword) {
	var pos []any
	var kws []mdx.Keyword
	for _, r := range raw {
		if k, v, ok := strings.Cut(r, "="); ok && isIdent(k) {
			kws = append(kws, mdx.KW(k, parseLiteral(v)))
			continue
		}
		pos = append(pos, parseLiteral(r))
	}
	return pos, kws
}
