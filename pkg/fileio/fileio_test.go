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

package fileio

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.TraceLevel)
	return logger.WithContext(context.Background())
}

func TestWriteFileAtomic(t *testing.T) {
	tests := []struct {
		name     string
		existing *string
		content  string
	}{
		{
			name:    "new_file",
			content: "hello\n",
		},
		{
			name:     "replace_existing",
			existing: ptr("old content\n"),
			content:  "new content\n",
		},
		{
			name:     "empty_content",
			existing: ptr("something\n"),
			content:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			dir := t.TempDir()
			path := filepath.Join(dir, "file.txt")

			if tt.existing != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.existing), 0644))
			}

			require.NoError(t, WriteFileAtomic(ctx, path, []byte(tt.content)))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got))

			// no temp files left behind
			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestWriteFileAtomicKeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	ctx := testContext(t)
	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))

	require.NoError(t, WriteFileAtomic(ctx, path, []byte("#!/bin/sh\necho hi\n")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	ctx := testContext(t)
	path := filepath.Join(t.TempDir(), "missing", "file.txt")

	err := WriteFileAtomic(ctx, path, []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating temp file")
}

func TestReadFileNotExist(t *testing.T) {
	ctx := testContext(t)

	_, err := ReadFile(ctx, filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestBackup(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(src, []byte("# Title\n"), 0644))

	dst, err := Backup(ctx, src, filepath.Join(dir, "backups"), "doc.md.bak")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backups", "doc.md.bak"), dst)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", string(got))

	_, err = Backup(ctx, filepath.Join(dir, "missing.md"), filepath.Join(dir, "backups"), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading source file")
}

func ptr(s string) *string {
	return &s
}
