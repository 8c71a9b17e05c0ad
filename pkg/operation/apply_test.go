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

package operation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/lineutil/pkg/config"
	"github.com/walteh/lineutil/pkg/filelines"
	"github.com/walteh/lineutil/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	zlog := zerolog.New(zerolog.NewTestWriter(t))
	ctx := zlog.WithContext(context.Background())
	return log.NewContext(ctx, log.New(io.Discard, zlog))
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func loadConfig(t *testing.T, dir, content string) *config.Config {
	t.Helper()
	path := filepath.Join(dir, ".lineutil.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	cfg, err := config.Load(testContext(t), path)
	require.NoError(t, err, "loading config")
	return cfg
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"README.md":       "# A\n[](TOC)\n## B\n",
		"notes/one.txt":   "one\ntwo\nthree\n",
		"notes/two.txt":   "alpha\nbeta\ngamma\n",
		"notes/skip.json": "{}\n",
	})

	var gotify struct {
		sync.Mutex
		payload map[string]any
		token   string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotify.Lock()
		defer gotify.Unlock()
		gotify.token = r.URL.Query().Get("token")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotify.payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := loadConfig(t, dir, `
newline: "\n"
backup:
  dir: .backups
edits:
  - files: [README.md]
    toc: {}
  - files: ["notes/*.txt"]
    insert:
      text: "top\n"
      line: 1
  - files: ["notes/*.txt"]
    remove:
      from: 3
      to: 3
  - files: ["notes/two.txt"]
    replace:
      from: gamma
      to: delta
post_command:
  run: echo done
  shell: /bin/sh
notify:
  gotify:
    url: `+server.URL+`
    token: abc
    priority: 7
`)

	var out bytes.Buffer
	report, err := Apply(testContext(t), Options{
		Config:      cfg,
		Concurrency: 2,
		Output:      &out,
		HTTPClient:  server.Client(),
	})
	require.NoError(t, err, "applying config")

	assert.Equal(t, "# A\n[](TOC)\n\n- [A](#a)\n  - [B](#b)\n\n[](TOC)\n## B\n", readFile(t, filepath.Join(dir, "README.md")))
	assert.Equal(t, "top\none\nthree\n", readFile(t, filepath.Join(dir, "notes", "one.txt")), "edits should run in config order")
	assert.Equal(t, "top\nalpha\ndelta\n", readFile(t, filepath.Join(dir, "notes", "two.txt")))
	assert.Equal(t, "{}\n", readFile(t, filepath.Join(dir, "notes", "skip.json")), "unmatched files should be untouched")

	assert.Len(t, report.Files, 3)
	assert.Len(t, report.Edits, 6)
	assert.Zero(t, report.Failed())
	assert.Equal(t, 0, report.ExitCode)
	assert.Equal(t, "done\n", out.String())

	backups, err := os.ReadDir(filepath.Join(dir, ".backups"))
	require.NoError(t, err)
	assert.Len(t, backups, 3, "every edited file should be backed up once")
	for _, b := range backups {
		content := readFile(t, filepath.Join(dir, ".backups", b.Name()))
		assert.NotContains(t, content, "top", "backups should hold the original content")
	}

	gotify.Lock()
	defer gotify.Unlock()
	assert.Equal(t, "abc", gotify.token)
	assert.Equal(t, "lineutil", gotify.payload["title"])
	assert.Equal(t, float64(7), gotify.payload["priority"])
	assert.Contains(t, gotify.payload["message"], "applied 6 edits to 3 files (0 failed)")
}

func TestApplyFailures(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		config    string
		wantErr   error
		errSubstr string
		check     func(t *testing.T, dir string, report *Report)
	}{
		{
			name:  "remove_out_of_bounds",
			files: map[string]string{"a.txt": "one\ntwo\n"},
			config: `
edits:
  - files: [a.txt]
    remove: {from: 2, to: 5}
post_command:
  run: echo should-not-run
`,
			wantErr: filelines.ErrLineOutOfBounds,
			check: func(t *testing.T, dir string, report *Report) {
				assert.Equal(t, "one\ntwo\n", readFile(t, filepath.Join(dir, "a.txt")))
				assert.Equal(t, 1, report.Failed())
			},
		},
		{
			name:  "missing_marker",
			files: map[string]string{"README.md": "# A\n"},
			config: `
edits:
  - files: [README.md]
    toc: {}
`,
			errSubstr: "marker not found",
		},
		{
			name:  "post_command_status",
			files: map[string]string{"a.txt": "one\n"},
			config: `
edits:
  - files: [a.txt]
    insert: {text: "zero\n", line: 1}
post_command:
  run: exit 3
  shell: /bin/sh
`,
			errSubstr: "exited with status 3",
			check: func(t *testing.T, dir string, report *Report) {
				assert.Equal(t, 3, report.ExitCode)
				assert.Equal(t, "zero\none\n", readFile(t, filepath.Join(dir, "a.txt")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files)
			cfg := loadConfig(t, dir, tt.config)

			var out bytes.Buffer
			report, err := Apply(testContext(t), Options{Config: cfg, Output: &out})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
			if tt.errSubstr != "" {
				assert.Contains(t, err.Error(), tt.errSubstr)
			}
			assert.NotContains(t, out.String(), "should-not-run")
			if tt.check != nil {
				tt.check(t, dir, report)
			}
		})
	}
}

func TestApplyDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "one\n"})
	cfg := loadConfig(t, dir, `
edits:
  - files: [a.txt]
    insert: {text: " more", line: 1, append: true}
post_command:
  run: rm a.txt
  shell: /bin/sh
`)

	var out bytes.Buffer
	_, err := Apply(testContext(t), Options{Config: cfg, DryRun: true, Output: &out})
	require.NoError(t, err)

	assert.Equal(t, "/bin/sh -c rm a.txt\n", out.String())
	assert.Equal(t, "one more\n", readFile(t, filepath.Join(dir, "a.txt")))
}

func TestPlan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.md":     "b\n",
		"a.md":     "a\n",
		"sub/c.md": "c\n",
	})
	cfg := loadConfig(t, dir, `
backup:
  dir: .backups
edits:
  - files: ["*.md"]
    insert: {text: "x", line: 1}
  - files: ["**/*.md"]
    remove: {from: 1, to: 1}
`)

	ops, err := Plan(cfg)
	require.NoError(t, err)
	require.Len(t, ops, 3)

	assert.Equal(t, filepath.Join(dir, "a.md"), ops[0].Name())
	assert.Equal(t, filepath.Join(dir, "b.md"), ops[1].Name())
	assert.Equal(t, filepath.Join(dir, "sub", "c.md"), ops[2].Name())

	require.Len(t, ops[0].Edits, 2)
	assert.Equal(t, "insert", ops[0].Edits[0].Action())
	assert.Equal(t, "remove", ops[0].Edits[1].Action())
	require.Len(t, ops[2].Edits, 1)
	assert.Equal(t, "remove", ops[2].Edits[0].Action())
	assert.Equal(t, filepath.Join(dir, ".backups"), ops[0].BackupDir)
}

type countingOperation struct {
	name    string
	running *atomic.Int32
	peak    *atomic.Int32
	err     error
}

func (c *countingOperation) Name() string { return c.name }

func (c *countingOperation) Execute(ctx context.Context) error {
	n := c.running.Add(1)
	defer c.running.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return c.err
}

func TestRunner(t *testing.T) {
	t.Run("limit", func(t *testing.T) {
		var running, peak atomic.Int32
		ops := make([]Operation, 0, 16)
		for i := 0; i < 16; i++ {
			ops = append(ops, &countingOperation{name: "op", running: &running, peak: &peak})
		}

		logger := zerolog.New(zerolog.NewTestWriter(t))
		require.NoError(t, NewRunner(&logger, 2).Run(context.Background(), ops...))
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("error", func(t *testing.T) {
		var running, peak atomic.Int32
		boom := errors.Base("boom")
		ops := []Operation{
			&countingOperation{name: "ok", running: &running, peak: &peak},
			&countingOperation{name: "bad", running: &running, peak: &peak, err: boom},
		}

		logger := zerolog.New(zerolog.NewTestWriter(t))
		err := NewRunner(&logger, 1).Run(context.Background(), ops...)
		require.Error(t, err)
		assert.True(t, errors.Is(err, boom))
		assert.True(t, strings.Contains(err.Error(), "executing bad"))
	})
}

func TestApplyEditWithoutAction(t *testing.T) {
	_, err := ApplyEdit(testContext(t), "unused", config.Edit{}, "\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, filelines.ErrInvalidArgument))
}

func TestApplyReportsFailuresWithoutConsoleLogger(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "one\ntwo\n"})

	var message string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		message, _ = payload["message"].(string)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := loadConfig(t, dir, `
edits:
  - files: [a.txt]
    remove: {from: 1, to: 9}
notify:
  gotify:
    url: `+server.URL+`
    token: abc
`)

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	report, err := Apply(ctx, Options{Config: cfg, HTTPClient: server.Client()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, filelines.ErrLineOutOfBounds))

	require.Len(t, report.Edits, 1)
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, "failed", report.Edits[0].Status)
	assert.Equal(t, "remove", report.Edits[0].Action)
	assert.Contains(t, message, "applied 1 edits to 1 files (1 failed)")
}
