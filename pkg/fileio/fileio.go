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

// Package fileio reads whole files and replaces them atomically.
package fileio

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const defaultMode fs.FileMode = 0644

// 📖 ReadFile reads the whole file. A missing file yields an error matching fs.ErrNotExist.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// 💾 WriteFileAtomic replaces path with content so that readers see either the
// old file or the new one, never a partial write.
//
// The content goes to a temporary file in the same directory, which is synced,
// closed and renamed over path. An existing file keeps its permissions.
func WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	dir := filepath.Dir(path)

	mode := defaultMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return errors.Errorf("checking file existence: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(content); err != nil {
		cleanup()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting temp file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	syncDir(ctx, dir)

	zerolog.Ctx(ctx).Trace().Str("path", path).Int("size", len(content)).Msg("file replaced")

	return nil
}

// syncDir makes the rename durable where the platform allows it
func syncDir(ctx context.Context, dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		zerolog.Ctx(ctx).Trace().Err(err).Str("dir", dir).Msg("directory sync skipped")
	}
}

// 📦 Backup copies path to backupDir/name and returns the backup's path.
// The backup directory is created when missing.
func Backup(ctx context.Context, path, backupDir, name string) (string, error) {
	content, err := ReadFile(ctx, path)
	if err != nil {
		return "", errors.Errorf("reading source file: %w", err)
	}

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", errors.Errorf("creating backup directory: %w", err)
	}

	dst := filepath.Join(backupDir, name)
	if err := WriteFileAtomic(ctx, dst, content); err != nil {
		return "", errors.Errorf("creating backup: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("file", path).Str("backup", dst).Msg("file backed up")

	return dst, nil
}
