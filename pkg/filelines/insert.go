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
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ✏️ InsertOptions controls where InsertStringAtLine puts the string
type InsertOptions struct {
	// Append puts the string after the line content instead of before it.
	Append bool
	// Newline is the sequence used for filler lines past the end of the file:
	// "\n", "\r\n" or "\r". Empty selects NativeNewline.
	Newline string
}

// 📝 InsertStringAtLine writes inputFile to outputFile with text spliced into
// the given 1-based line. Lines other than the target are copied verbatim.
//
// When line is past the end of the file the output is padded with filler lines
// so that text becomes line number line of the output, with no terminator.
// inputFile and outputFile may be the same path.
func InsertStringAtLine(ctx context.Context, inputFile, text string, line int, outputFile string, opts InsertOptions) error {
	if line < 1 {
		return errors.Errorf("%w: line number must be at least 1, got %d", ErrInvalidArgument, line)
	}
	newline, err := resolveNewline(opts.Newline)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("input", inputFile).
		Str("output", outputFile).
		Int("line", line).
		Bool("append", opts.Append).
		Msg("inserting string")

	lines, err := readLines(ctx, inputFile)
	if err != nil {
		return err
	}

	return writeContent(ctx, outputFile, insertAt(lines, text, line, opts.Append, newline))
}

func insertAt(lines []line, text string, target int, appendText bool, newline string) []byte {
	var buf bytes.Buffer

	for i, ln := range lines {
		if i+1 != target {
			buf.Write(ln.bytes())
			continue
		}
		if appendText {
			buf.Write(ln.content)
			buf.WriteString(text)
		} else {
			buf.WriteString(text)
			buf.Write(ln.content)
		}
		buf.Write(ln.terminator)
	}

	if target <= len(lines) {
		return buf.Bytes()
	}

	// past the end: terminate the last line, then pad up to the target
	if n := len(lines); n > 0 && len(lines[n-1].terminator) == 0 {
		buf.WriteString(newline)
	}
	buf.WriteString(strings.Repeat(newline, target-len(lines)-1))
	buf.WriteString(text)

	return buf.Bytes()
}
