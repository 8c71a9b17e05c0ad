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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing config file")
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "yaml_full",
			file: ".lineutil.yaml",
			config: `
newline: "\r\n"
backup:
  dir: .backups
edits:
  - files: ["docs/**/*.md"]
    toc:
      max_level: 2
  - files: [README.md]
    insert:
      text: "<!-- generated -->"
      line: 1
  - files: [CHANGELOG.md]
    remove:
      from: 5
      to: 9
post_command:
  run: make fmt
notify:
  gotify:
    url: https://gotify.example.com
    token: abc
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "\r\n", cfg.Newline)
				require.NotNil(t, cfg.Backup)
				assert.Equal(t, ".backups", cfg.Backup.Dir)
				require.Len(t, cfg.Edits, 3)
				assert.Equal(t, "toc", cfg.Edits[0].Action())
				assert.Equal(t, DefaultTOCMarker, cfg.Edits[0].TOC.Marker, "marker should default")
				assert.Equal(t, 2, cfg.Edits[0].TOC.MaxLevel)
				assert.Equal(t, "insert", cfg.Edits[1].Action())
				assert.Equal(t, 1, cfg.Edits[1].Insert.Line)
				assert.Equal(t, "remove", cfg.Edits[2].Action())
				assert.Equal(t, 9, cfg.Edits[2].Remove.To)
				require.NotNil(t, cfg.PostCommand)
				assert.Equal(t, "make fmt", cfg.PostCommand.Run)
				require.NotNil(t, cfg.Notify)
				require.NotNil(t, cfg.Notify.Gotify)
				assert.Equal(t, "abc", cfg.Notify.Gotify.Token)
			},
		},
		{
			name: "hcl",
			file: "lineutil.hcl",
			config: `
newline = crlf

edit {
  files = ["README.md"]
  insert {
    text   = "hello"
    line   = 3
    append = true
  }
}

edit {
  files = ["docs/*.md"]
  toc {
    marker = "<!--toc-->"
  }
}

notify {
  email {
    server   = "smtp.example.com"
    port     = 465
    sender   = "a@example.com"
    receiver = "b@example.com"
  }
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "\r\n", cfg.Newline)
				require.Len(t, cfg.Edits, 2)
				assert.True(t, cfg.Edits[0].Insert.Append)
				assert.Equal(t, 3, cfg.Edits[0].Insert.Line)
				assert.Equal(t, "<!--toc-->", cfg.Edits[1].TOC.Marker)
				require.NotNil(t, cfg.Notify.Email)
				assert.Equal(t, 465, cfg.Notify.Email.Port)
			},
		},
		{
			name:   "json",
			file:   "lineutil.json",
			config: `{"edits": [{"files": ["a.txt"], "remove": {"from": 1, "to": 1}}]}`,
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Edits, 1)
				assert.Equal(t, 1, cfg.Edits[0].Remove.From)
			},
		},
		{
			name:   "yaml_replace",
			file:   "lineutil.yml",
			config: "edits:\n  - files: [\"*.go\"]\n    replace: {from: oldname, to: newname}\n",
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Edits, 1)
				assert.Equal(t, "replace", cfg.Edits[0].Action())
				assert.Equal(t, "oldname", cfg.Edits[0].Replace.From)
				assert.Equal(t, "newname", cfg.Edits[0].Replace.To)
			},
		},
		{
			name:        "empty_replace",
			file:        "lineutil.yaml",
			config:      "edits:\n  - files: [a]\n    replace: {to: x}\n",
			errContains: "replace.from is required",
		},
		{
			name:   "json_bom_toc_default",
			file:   "Lineutil.JSON",
			config: "\ufeff{\"edits\": [{\"files\": [\"README.md\"], \"toc\": {}}]}\n",
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Edits, 1)
				assert.Equal(t, DefaultTOCMarker, cfg.Edits[0].TOC.Marker)
			},
		},
		{
			name:        "json_trailing_content",
			file:        "lineutil.json",
			config:      `{"edits": [{"files": ["a"], "remove": {"from": 1, "to": 1}}]} {"edits": []}`,
			errContains: "unexpected content after offset",
		},
		{
			name:        "json_empty",
			file:        "lineutil.json",
			config:      " \n",
			errContains: "empty JSON document",
		},
		{
			name:        "json_unknown_field",
			file:        "lineutil.json",
			config:      `{"edits": [], "bogus": 1}`,
			errContains: "unknown field",
		},
		{
			name:        "unknown_field",
			file:        "lineutil.yaml",
			config:      "edits: []\nbogus: true\n",
			errContains: "parsing config",
		},
		{
			name:        "no_edits",
			file:        "lineutil.yaml",
			config:      "newline: \"\\n\"\n",
			errContains: "at least one edit is required",
		},
		{
			name:        "two_actions",
			file:        "lineutil.yaml",
			config:      "edits:\n  - files: [a]\n    remove: {from: 1, to: 2}\n    toc: {}\n",
			errContains: "exactly one of insert, remove, toc or replace",
		},
		{
			name:        "negative_range",
			file:        "lineutil.yaml",
			config:      "edits:\n  - files: [a]\n    remove: {from: 4, to: 1}\n",
			errContains: "negative line range",
		},
		{
			name:        "bad_insert_line",
			file:        "lineutil.yaml",
			config:      "edits:\n  - files: [a]\n    insert: {text: x, line: 0}\n",
			errContains: "insert.line must be at least 1",
		},
		{
			name:        "bad_newline",
			file:        "lineutil.yaml",
			config:      "newline: \"x\"\nedits:\n  - files: [a]\n    insert: {text: x, line: 1}\n",
			errContains: "newline must be one of",
		},
		{
			name:        "bad_glob",
			file:        "lineutil.yaml",
			config:      "edits:\n  - files: [\"[a\"]\n    insert: {text: x, line: 1}\n",
			errContains: "invalid file pattern",
		},
		{
			name:        "unsupported_extension",
			file:        "lineutil.toml",
			config:      "",
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.config)

			cfg, err := Load(testContext(t), path)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, path, cfg.Location())
			assert.Equal(t, filepath.Dir(path), cfg.BaseDir())
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfig(t, "any.yaml", "name: docs\nretries: 3\nnested:\n  enabled: true\n")

	data, err := LoadConfiguration(testContext(t), path)
	require.NoError(t, err)
	assert.Equal(t, "docs", data["name"])
	assert.Equal(t, 3, data["retries"])
	assert.Equal(t, map[string]any{"enabled": true}, data["nested"])

	_, err = LoadConfiguration(testContext(t), writeConfig(t, "bad.yaml", "a: [b"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing YAML")
}

func TestEditResolveFiles(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"README.md", "docs/a.md", "docs/nested/b.md", "docs/c.txt"} {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))
	}

	e := Edit{Files: []string{"docs/**/*.md", "README.md", "docs/a.md"}}
	files, err := e.ResolveFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "README.md"),
		filepath.Join(dir, "docs", "a.md"),
		filepath.Join(dir, "docs", "nested", "b.md"),
	}, files)
}
