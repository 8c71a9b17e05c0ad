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
	"context"
	"fmt"
	"path/filepath"

	"github.com/walteh/lineutil/pkg/config"
	"github.com/walteh/lineutil/pkg/fileio"
	"github.com/walteh/lineutil/pkg/filelines"
	"github.com/walteh/lineutil/pkg/log"
	"github.com/walteh/lineutil/pkg/pathgen"
	"github.com/walteh/lineutil/pkg/text"
	"github.com/walteh/lineutil/pkg/toc"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one unit of work scheduled by the Runner
type Operation interface {
	// Name identifies the operation in logs and errors
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// 📄 FileOperation applies a list of edits to a single file, in order
type FileOperation struct {
	Path      string
	Edits     []config.Edit
	Newline   string
	BackupDir string
}

// Name returns the file path
func (op *FileOperation) Name() string {
	return op.Path
}

// 🏃 Execute backs the file up when configured, then applies every edit
func (op *FileOperation) Execute(ctx context.Context) error {
	logger := log.FromContext(ctx)

	if op.BackupDir != "" {
		name, err := pathgen.Generate(filepath.Base(op.Path), pathgen.Options{})
		if err != nil {
			return errors.Errorf("generating backup name: %w", err)
		}
		if _, err := fileio.Backup(ctx, op.Path, op.BackupDir, name); err != nil {
			return errors.Errorf("backing up %s: %w", op.Path, err)
		}
	}

	for _, e := range op.Edits {
		detail, err := ApplyEdit(ctx, op.Path, e, op.Newline)
		logger.LogEdit(ctx, log.EditOperation{
			Path:   op.Path,
			Action: e.Action(),
			Status: log.StatusOf(err),
			Detail: detail,
			Err:    err,
		})
		if err != nil {
			return errors.Errorf("%s %s: %w", e.Action(), op.Path, err)
		}
	}

	return nil
}

// ✏️ ApplyEdit runs a single edit against path in place and returns a short
// description of what it did.
func ApplyEdit(ctx context.Context, path string, e config.Edit, newline string) (string, error) {
	switch {
	case e.Insert != nil:
		err := filelines.InsertStringAtLine(ctx, path, e.Insert.Text, e.Insert.Line, path, filelines.InsertOptions{
			Append:  e.Insert.Append,
			Newline: newline,
		})
		return fmt.Sprintf("line %d", e.Insert.Line), err
	case e.Remove != nil:
		err := filelines.RemoveLineInterval(ctx, path, e.Remove.From, e.Remove.To, path)
		return fmt.Sprintf("lines %d-%d", e.Remove.From, e.Remove.To), err
	case e.TOC != nil:
		err := toc.Write(ctx, path, toc.Options{
			Marker:   e.TOC.Marker,
			MaxLevel: e.TOC.MaxLevel,
			Newline:  newline,
		})
		return fmt.Sprintf("marker %s", e.TOC.Marker), err
	case e.Replace != nil:
		result, err := text.ReplaceFile(ctx, path, []text.Rule{{From: e.Replace.From, To: e.Replace.To}})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d replacements", result.Count), nil
	default:
		return "", errors.Errorf("%w: edit has no action", filelines.ErrInvalidArgument)
	}
}
