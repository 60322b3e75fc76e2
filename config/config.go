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

// Package config loads user settings from a TOML file, filling in defaults
// for anything missing or out of range.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Settings are the user-tunable knobs.
type Settings struct {
	// TableName is the virtual table name files are bound to.
	TableName string `toml:"table_name"`
	// PageSize is the number of rows per page.
	PageSize int `toml:"page_size"`
	// DefaultQuery is the query template offered when none is given. The
	// placeholders $(table) and $(limit) are substituted at render time.
	DefaultQuery string `toml:"default_query"`
	// MaxRows is the row limit substituted for $(limit).
	MaxRows int `toml:"max_rows"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		TableName:    "data",
		PageSize:     100,
		DefaultQuery: "SELECT * FROM $(table) LIMIT $(limit)",
		MaxRows:      10000,
		LogLevel:     "info",
	}
}

// DefaultPath returns the conventional settings location under the user's
// home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "settings.toml"
	}
	return filepath.Join(home, ".parvu", "settings.toml")
}

// Load reads settings from path. A missing file yields the defaults without
// error; a malformed file is an error. Missing or invalid fields fall back
// to their defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Settings{}, err
	}
	def := Default()
	if strings.TrimSpace(s.TableName) == "" {
		s.TableName = def.TableName
	}
	if s.PageSize < 1 {
		s.PageSize = def.PageSize
	}
	if strings.TrimSpace(s.DefaultQuery) == "" {
		s.DefaultQuery = def.DefaultQuery
	}
	if s.MaxRows < 1 {
		s.MaxRows = def.MaxRows
	}
	return s, nil
}

// Render substitutes the $(table) and $(limit) placeholders in a query
// template.
func (s Settings) Render(template string) string {
	out := strings.ReplaceAll(template, "$(table)", s.TableName)
	out = strings.ReplaceAll(out, "$(limit)", strconv.Itoa(s.MaxRows))
	return out
}

// Level maps the configured log level name onto slog.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
