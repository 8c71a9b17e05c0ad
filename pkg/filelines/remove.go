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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📐 LineRange is a closed, 1-based range of lines
type LineRange struct {
	From int
	To   int
}

// Validate checks the shape of the range. It does not look at any file.
func (r LineRange) Validate() error {
	if r.From < 1 || r.To < 1 {
		return errors.Errorf("%w: line range bounds must be at least 1, got [%d, %d]", ErrInvalidArgument, r.From, r.To)
	}
	if r.To < r.From {
		return errors.Errorf("%w: [%d, %d]", ErrNegativeRange, r.From, r.To)
	}
	return nil
}

// Contains reports whether line lies within the range
func (r LineRange) Contains(line int) bool {
	return line >= r.From && line <= r.To
}

// 🗑️ RemoveLineInterval writes inputFile to outputFile without the lines in
// [from, to]. Both bounds must exist in the file; removing every line leaves
// an empty file. inputFile and outputFile may be the same path.
func RemoveLineInterval(ctx context.Context, inputFile string, from, to int, outputFile string) error {
	r := LineRange{From: from, To: to}
	if err := r.Validate(); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("input", inputFile).
		Str("output", outputFile).
		Int("from", from).
		Int("to", to).
		Msg("removing line interval")

	lines, err := readLines(ctx, inputFile)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	total := 0
	for _, ln := range lines {
		total++
		if !r.Contains(total) {
			buf.Write(ln.bytes())
		}
	}

	if from > total || to > total {
		return errors.Errorf("%w: [%d, %d] in a file of %d lines", ErrLineOutOfBounds, from, to, total)
	}

	return writeContent(ctx, outputFile, buf.Bytes())
}

// RemoveLine removes a single line
func RemoveLine(ctx context.Context, inputFile string, line int, outputFile string) error {
	return RemoveLineInterval(ctx, inputFile, line, line, outputFile)
}
