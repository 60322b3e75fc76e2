// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/spf13/cobra"

	"parvu/config"
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "view file",
		Short: "Load a data file and print a page of it, optionally through a query",
		Args:  cobra.ExactArgs(1),
		Run:   viewFile}
	cmd.Flags().StringP("query", "q", "", "SQL to run against the virtual table")
	cmd.Flags().IntP("page", "p", 1, "page number to print (1-based)")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "schema file",
		Short: "Print the column names and types of a data file",
		Args:  cobra.ExactArgs(1),
		Run:   showSchema}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "distinct file column",
		Short: "Print the distinct values of a column",
		Args:  cobra.ExactArgs(2),
		Run:   showDistinct}
	root.AddCommand(cmd)
}

func main() {
	var root = &cobra.Command{Use: "parvu"}
	root.PersistentFlags().String("settings", config.DefaultPath(), "settings file")
	root.PersistentFlags().String("table", "", "virtual table name (overrides settings)")
	root.PersistentFlags().Int("page-size", 0, "rows per page (overrides settings)")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")
	addCommands(root)
	root.Execute()
}
