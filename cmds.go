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
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"parvu/config"
	"parvu/dataset"
	"parvu/runner"
	"parvu/table"
)

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}

func getString(cmd *cobra.Command, name string) string {
	result, _ := cmd.Flags().GetString(name)
	return result
}

func getInt(cmd *cobra.Command, name string) int {
	result, _ := cmd.Flags().GetInt(name)
	return result
}

func getBool(cmd *cobra.Command, name string) bool {
	result, _ := cmd.Flags().GetBool(name)
	return result
}

// loadSettings reads the settings file and applies command line overrides.
func loadSettings(cmd *cobra.Command) config.Settings {
	s, err := config.Load(getString(cmd, "settings"))
	if err != nil {
		fatal("reading settings: %v", err)
	}
	if t := getString(cmd, "table"); t != "" {
		s.TableName = t
	}
	if n := getInt(cmd, "page-size"); n > 0 {
		s.PageSize = n
	}
	if getBool(cmd, "debug") {
		s.LogLevel = "debug"
	}
	return s
}

func newLogger(s config.Settings) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: s.Level(),
	}))
}

// viewFile loads the file and prints one page, running the given query (or
// the configured default when none is given) through the background runner.
func viewFile(cmd *cobra.Command, args []string) {
	s := loadSettings(cmd)
	log := newLogger(s)

	query := getString(cmd, "query")
	if query == "" {
		query = s.Render(s.DefaultQuery)
	}
	page := getInt(cmd, "page")

	r := runner.New(func(ctx context.Context, path string) (*dataset.Dataset, error) {
		return dataset.Open(ctx, path, s.TableName, s.PageSize, log)
	}, log)
	defer r.Close()

	if err := r.SubmitLoad(args[0]); err != nil {
		fatal("%v", err)
	}
	ev := <-r.Events()
	if ev.Kind == runner.LoadFailed {
		fatal("%v", ev.Err)
	}

	if err := r.SubmitQuery(query, page); err != nil {
		fatal("%v", err)
	}
	ev = <-r.Events()
	if ev.Kind == runner.QueryFailed {
		fatal("%v", ev.Err)
	}

	renderBatch(ev.Batch)
	ds := r.Dataset()
	fmt.Printf("page %d of %d (%d rows)\n", page, ds.TotalPages(), ds.TotalRows())
}

// showSchema prints the column names and mapped types of the file.
func showSchema(cmd *cobra.Command, args []string) {
	s := loadSettings(cmd)
	log := newLogger(s)

	ds, err := dataset.Open(cmd.Context(), args[0], s.TableName, s.PageSize, log)
	if err != nil {
		fatal("%v", err)
	}
	defer ds.Close()

	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader([]string{"column", "type"})
	w.SetAutoFormatHeaders(false)
	w.SetAutoWrapText(false)
	for _, c := range ds.Schema() {
		w.Append([]string{c.Name, c.Type.String()})
	}
	w.Render()
}

// showDistinct prints the distinct values of one column in ascending order.
func showDistinct(cmd *cobra.Command, args []string) {
	s := loadSettings(cmd)
	log := newLogger(s)

	ds, err := dataset.Open(cmd.Context(), args[0], s.TableName, s.PageSize, log)
	if err != nil {
		fatal("%v", err)
	}
	defer ds.Close()

	values, err := ds.UniqueValues(cmd.Context(), args[1])
	if err != nil {
		fatal("%v", err)
	}
	for _, v := range values {
		if v.IsNull {
			fmt.Println("NULL")
			continue
		}
		fmt.Println(v.Formatted)
	}
}

// renderBatch prints a batch as an ASCII table. Null cells print as NULL.
func renderBatch(b *table.Batch) {
	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader(b.ColumnNames())
	w.SetAutoFormatHeaders(false)
	w.SetAutoWrapText(false)
	for _, row := range b.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v.IsNull {
				cells[i] = "NULL"
				continue
			}
			cells[i] = strings.TrimSpace(v.Formatted)
		}
		w.Append(cells)
	}
	w.Render()
}
