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
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 MatchOptions controls how GetLineMatches scans a file
type MatchOptions struct {
	// MaxOccurrences caps the recorded matches. Zero means unbounded.
	MaxOccurrences int
	// LooseMatching trims leading and trailing whitespace from both the
	// pattern and every candidate line before comparing.
	LooseMatching bool
	// KeepAllLines makes MatchResult.Text hold the whole file instead of the
	// matched lines only. The scan then always reaches the end of the file.
	KeepAllLines bool
}

// Matches maps occurrence k (1-based) to the line number it was found on.
// Occurrences are contiguous and in ascending line order.
type Matches []int

// Len returns the number of recorded occurrences
func (m Matches) Len() int {
	return len(m)
}

// Line returns the line number of the given 1-based occurrence
func (m Matches) Line(occurrence int) (int, bool) {
	if occurrence < 1 || occurrence > len(m) {
		return 0, false
	}
	return m[occurrence-1], true
}

// Map returns the matches as an occurrence to line number map
func (m Matches) Map() map[int]int {
	out := make(map[int]int, len(m))
	for i, ln := range m {
		out[i+1] = ln
	}
	return out
}

// 📋 MatchResult is the outcome of GetLineMatches
type MatchResult struct {
	Matches Matches
	// Text is the original text of the matched lines, or of the whole file
	// when KeepAllLines is set.
	Text string
}

// 🎯 GetLineMatches returns the line numbers of the lines equal to pattern.
func GetLineMatches(ctx context.Context, inputFile, pattern string, opts MatchOptions) (*MatchResult, error) {
	if opts.MaxOccurrences < 0 {
		return nil, errors.Errorf("%w: max occurrences must be non-negative, got %d", ErrInvalidArgument, opts.MaxOccurrences)
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("file", inputFile).
		Str("pattern", pattern).
		Int("max_occurrences", opts.MaxOccurrences).
		Bool("loose", opts.LooseMatching).
		Msg("matching lines")

	lines, err := readLines(ctx, inputFile)
	if err != nil {
		return nil, err
	}

	pattern = normalize(pattern, opts.LooseMatching)

	result := &MatchResult{Matches: Matches{}}
	var text strings.Builder
	for i, ln := range lines {
		capped := opts.MaxOccurrences > 0 && len(result.Matches) >= opts.MaxOccurrences
		if capped && !opts.KeepAllLines {
			break
		}

		matched := false
		if !capped && normalize(string(ln.content), opts.LooseMatching) == pattern {
			result.Matches = append(result.Matches, i+1)
			matched = true
		}

		if matched || opts.KeepAllLines {
			text.Write(ln.bytes())
		}
	}
	result.Text = text.String()

	logger.Debug().Str("file", inputFile).Int("matches", result.Matches.Len()).Msg("lines matched")

	return result, nil
}
