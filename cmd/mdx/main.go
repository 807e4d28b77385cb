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
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "mdx [subcommand]",
	Short:        "mdx dispatches calls against a catalog of overloaded functions",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flags.byName, "by-name", false, "bind keyword arguments by parameter name")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log registrations and resolutions")
	rootCmd.PersistentFlags().StringSliceVar(&flags.logSections, "log-sections", nil, "only log these sections below warn (registry, dispatch, config)")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(callCmd)
}
