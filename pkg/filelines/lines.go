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

package filelines

import (
	"bytes"
	"context"
	"io/fs"
	"runtime"
	"strings"

	"github.com/walteh/lineutil/pkg/fileio"
	"gitlab.com/tozd/go/errors"
)

// 📏 line is one line of a file: its content and the terminator that ended it.
// The final line of a file may have an empty terminator.
type line struct {
	content    []byte
	terminator []byte
}

// bytes returns the original text of the line
func (l line) bytes() []byte {
	out := make([]byte, 0, len(l.content)+len(l.terminator))
	out = append(out, l.content...)
	return append(out, l.terminator...)
}

// splitLines breaks content into lines ending in "\r\n", "\n" or a lone "\r".
func splitLines(content []byte) []line {
	var lines []line
	for len(content) > 0 {
		i := bytes.IndexAny(content, "\r\n")
		if i < 0 {
			lines = append(lines, line{content: content})
			break
		}
		end := i + 1
		if content[i] == '\r' && end < len(content) && content[end] == '\n' {
			end++
		}
		lines = append(lines, line{content: content[:i], terminator: content[i:end]})
		content = content[end:]
	}
	return lines
}

// normalize applies loose matching to a pattern or a candidate line.
func normalize(s string, loose bool) string {
	if loose {
		return strings.TrimSpace(s)
	}
	return s
}

// NativeNewline is the host platform's line terminator.
func NativeNewline() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// resolveNewline returns the newline sequence to use for filler lines.
func resolveNewline(newline string) (string, error) {
	switch newline {
	case "":
		return NativeNewline(), nil
	case "\n", "\r\n", "\r":
		return newline, nil
	default:
		return "", errors.Errorf("%w: unsupported newline sequence %q", ErrInvalidArgument, newline)
	}
}

// readLines reads a whole file and splits it into lines
func readLines(ctx context.Context, path string) ([]line, error) {
	content, err := fileio.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, errors.Errorf("%w: reading %s: %s", ErrIO, path, err.Error())
	}
	return splitLines(content), nil
}

// writeContent atomically replaces path with content
func writeContent(ctx context.Context, path string, content []byte) error {
	if err := fileio.WriteFileAtomic(ctx, path, content); err != nil {
		return errors.Errorf("%w: writing %s: %s", ErrIO, path, err.Error())
	}
	return nil
}
