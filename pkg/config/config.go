// Copyright 2025 walteh LLC
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

package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/lineutil/pkg/filelines"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DefaultTOCMarker is the marker line used by toc edits without one
const DefaultTOCMarker = "[](TOC)"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// ✏️ Insert puts Text at Line of every matched file
type Insert struct {
	Text   string `json:"text" yaml:"text" hcl:"text"`
	Line   int    `json:"line" yaml:"line" hcl:"line"`
	Append bool   `json:"append,omitempty" yaml:"append,omitempty" hcl:"append,optional"`
}

// 🗑️ Remove deletes the closed line range [From, To]
type Remove struct {
	From int `json:"from" yaml:"from" hcl:"from"`
	To   int `json:"to" yaml:"to" hcl:"to"`
}

// 📑 TOC regenerates a markdown table of contents below Marker
type TOC struct {
	Marker   string `json:"marker,omitempty" yaml:"marker,omitempty" hcl:"marker,optional"`
	MaxLevel int    `json:"max_level,omitempty" yaml:"max_level,omitempty" hcl:"max_level,optional"`
}

// 🔁 Replace substitutes every occurrence of From with To. Neither may span lines.
type Replace struct {
	From string `json:"from" yaml:"from" hcl:"from"`
	To   string `json:"to" yaml:"to" hcl:"to"`
}

// 🔧 Edit applies exactly one action to every file matched by Files
type Edit struct {
	// Files are doublestar globs, relative to the config file.
	Files  []string `json:"files" yaml:"files" hcl:"files"`
	Insert *Insert  `json:"insert,omitempty" yaml:"insert,omitempty" hcl:"insert,block"`
	Remove *Remove  `json:"remove,omitempty" yaml:"remove,omitempty" hcl:"remove,block"`
	TOC    *TOC     `json:"toc,omitempty" yaml:"toc,omitempty" hcl:"toc,block"`
	// Replace substitutes text inside lines
	Replace *Replace `json:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,block"`
}

// Action names the edit's action
func (e Edit) Action() string {
	switch {
	case e.Insert != nil:
		return "insert"
	case e.Remove != nil:
		return "remove"
	case e.TOC != nil:
		return "toc"
	case e.Replace != nil:
		return "replace"
	default:
		return ""
	}
}

// 📦 Backup copies every file aside before it is edited
type Backup struct {
	Dir string `json:"dir" yaml:"dir" hcl:"dir"`
}

// 🐚 Command is a shell command run after all edits
type Command struct {
	Run    string `json:"run" yaml:"run" hcl:"run"`
	Shell  string `json:"shell,omitempty" yaml:"shell,omitempty" hcl:"shell,optional"`
	DryRun bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty" hcl:"dry_run,optional"`
}

// 🔔 Gotify configures a Gotify notification
type Gotify struct {
	URL      string `json:"url" yaml:"url" hcl:"url"`
	Token    string `json:"token" yaml:"token" hcl:"token"`
	Priority int    `json:"priority,omitempty" yaml:"priority,omitempty" hcl:"priority,optional"`
}

// 📧 Email configures an email notification
type Email struct {
	Server   string `json:"server" yaml:"server" hcl:"server"`
	Port     int    `json:"port" yaml:"port" hcl:"port"`
	Sender   string `json:"sender" yaml:"sender" hcl:"sender"`
	User     string `json:"user,omitempty" yaml:"user,omitempty" hcl:"user,optional"`
	Password string `json:"password,omitempty" yaml:"password,omitempty" hcl:"password,optional"`
	Receiver string `json:"receiver" yaml:"receiver" hcl:"receiver"`
	Subject  string `json:"subject,omitempty" yaml:"subject,omitempty" hcl:"subject,optional"`
}

// 📣 Notify lists the notifications sent once a run finishes
type Notify struct {
	Gotify *Gotify `json:"gotify,omitempty" yaml:"gotify,omitempty" hcl:"gotify,block"`
	Email  *Email  `json:"email,omitempty" yaml:"email,omitempty" hcl:"email,block"`
}

// 📚 Config represents the complete configuration
type Config struct {
	// Newline is used for filler lines by insert edits. Empty means native.
	Newline     string   `json:"newline,omitempty" yaml:"newline,omitempty" hcl:"newline,optional"`
	Backup      *Backup  `json:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,block"`
	Edits       []Edit   `json:"edits" yaml:"edits" hcl:"edit,block"`
	PostCommand *Command `json:"post_command,omitempty" yaml:"post_command,omitempty" hcl:"post_command,block"`
	Notify      *Notify  `json:"notify,omitempty" yaml:"notify,omitempty" hcl:"notify,block"`

	location string
}

// Location returns the path the config was loaded from
func (cfg *Config) Location() string {
	return cfg.location
}

// BaseDir is the directory relative paths in the config are resolved against
func (cfg *Config) BaseDir() string {
	if cfg.location == "" {
		return "."
	}
	return filepath.Dir(cfg.location)
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 📄 LoadConfiguration loads any YAML document into a generic map
func LoadConfiguration(ctx context.Context, path string) (map[string]any, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading yaml document")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading configuration file: %w", err)
	}

	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return out, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	switch cfg.Newline {
	case "", "\n", "\r\n", "\r":
	default:
		return errors.Errorf("newline must be one of \\n, \\r\\n or \\r, got %q", cfg.Newline)
	}

	if len(cfg.Edits) == 0 {
		return errors.Errorf("at least one edit is required")
	}

	for i, e := range cfg.Edits {
		if err := e.validate(); err != nil {
			return errors.Errorf("edit %d: %w", i, err)
		}
	}

	if cfg.Backup != nil && cfg.Backup.Dir == "" {
		return errors.Errorf("backup.dir is required")
	}
	if cfg.PostCommand != nil && cfg.PostCommand.Run == "" {
		return errors.Errorf("post_command.run is required")
	}
	if cfg.Notify != nil {
		if g := cfg.Notify.Gotify; g != nil && (g.URL == "" || g.Token == "") {
			return errors.Errorf("notify.gotify requires url and token")
		}
		if m := cfg.Notify.Email; m != nil && (m.Server == "" || m.Port == 0 || m.Sender == "" || m.Receiver == "") {
			return errors.Errorf("notify.email requires server, port, sender and receiver")
		}
	}

	return nil
}

func (e *Edit) validate() error {
	if len(e.Files) == 0 {
		return errors.Errorf("files is required")
	}
	for _, pattern := range e.Files {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return errors.Errorf("invalid file pattern %q", pattern)
		}
	}

	actions := 0
	if e.Insert != nil {
		actions++
		if e.Insert.Line < 1 {
			return errors.Errorf("insert.line must be at least 1, got %d", e.Insert.Line)
		}
	}
	if e.Remove != nil {
		actions++
		if err := (filelines.LineRange{From: e.Remove.From, To: e.Remove.To}).Validate(); err != nil {
			return errors.Errorf("remove: %w", err)
		}
	}
	if e.TOC != nil {
		actions++
		if e.TOC.Marker == "" {
			e.TOC.Marker = DefaultTOCMarker
		}
		if e.TOC.MaxLevel < 0 || e.TOC.MaxLevel > 6 {
			return errors.Errorf("toc.max_level must be between 1 and 6, got %d", e.TOC.MaxLevel)
		}
	}
	if e.Replace != nil {
		actions++
		if e.Replace.From == "" {
			return errors.Errorf("replace.from is required")
		}
	}
	if actions != 1 {
		return errors.Errorf("exactly one of insert, remove, toc or replace is required, got %d", actions)
	}

	return nil
}

// 🔎 ResolveFiles expands the edit's globs against baseDir, sorted and without duplicates
func (e Edit) ResolveFiles(baseDir string) ([]string, error) {
	seen := map[string]bool{}
	var files []string

	for _, pattern := range e.Files {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(baseDir, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
