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

// Package toc writes a markdown table of contents between marker lines.
//
// The file is edited with the filelines operations only: the markers are
// located with GetLineMatches, a previous table is dropped with
// RemoveLineInterval and the new one is added with InsertStringAtLine.
package toc

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/walteh/lineutil/pkg/fileio"
	"github.com/walteh/lineutil/pkg/filelines"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gitlab.com/tozd/go/errors"
)

// DefaultMaxLevel is the deepest heading level listed when none is given
const DefaultMaxLevel = 3

// ErrMarkerNotFound is returned when the file has no marker line
var ErrMarkerNotFound = errors.Base("toc marker not found")

// 📑 Heading is one markdown heading
type Heading struct {
	Level  int
	Title  string
	Anchor string
}

// Options configures Write
type Options struct {
	// Marker is the line the table is placed under. A second marker line closes it.
	Marker string
	// MaxLevel is the deepest heading level listed, 1 to 6.
	MaxLevel int
	// Newline terminates the generated lines. Empty means native.
	Newline string
}

// 🔍 Headings returns the headings of a markdown document in order, with
// GitHub style anchors made unique by a numeric suffix.
func Headings(src []byte) []Heading {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var headings []Heading
	seen := map[string]int{}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		title := strings.TrimSpace(nodeText(h, src))
		anchor := slug(title)
		if count, dup := seen[anchor]; dup {
			seen[anchor] = count + 1
			anchor = fmt.Sprintf("%s-%d", anchor, count+1)
		} else {
			seen[anchor] = 0
		}

		headings = append(headings, Heading{Level: h.Level, Title: title, Anchor: anchor})
		return ast.WalkSkipChildren, nil
	})

	return headings
}

// nodeText concatenates the text below n
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, src))
		}
	}
	return b.String()
}

// slug lowercases the title, drops punctuation and turns spaces into dashes
func slug(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// 🏗️ Build renders the table of contents of src, one list item per line,
// without a trailing newline. Headings deeper than maxLevel are left out.
func Build(src []byte, maxLevel int, newline string) string {
	if maxLevel <= 0 {
		maxLevel = DefaultMaxLevel
	}
	if newline == "" {
		newline = filelines.NativeNewline()
	}

	var listed []Heading
	minLevel := 7
	for _, h := range Headings(src) {
		if h.Level > maxLevel {
			continue
		}
		listed = append(listed, h)
		minLevel = min(minLevel, h.Level)
	}

	lines := make([]string, 0, len(listed))
	for _, h := range listed {
		indent := strings.Repeat("  ", h.Level-minLevel)
		lines = append(lines, fmt.Sprintf("%s- [%s](#%s)", indent, h.Title, h.Anchor))
	}
	return strings.Join(lines, newline)
}

// ✍️ Write regenerates the table of contents of the markdown file at path.
//
// With two marker lines everything between them is replaced. With one, the
// table and a closing marker are inserted right below it.
func Write(ctx context.Context, path string, opts Options) error {
	if opts.Marker == "" {
		return errors.Errorf("%w: marker is required", filelines.ErrInvalidArgument)
	}
	newline := opts.Newline
	if newline == "" {
		newline = filelines.NativeNewline()
	}

	logger := zerolog.Ctx(ctx)

	src, err := fileio.ReadFile(ctx, path)
	if err != nil {
		return errors.Errorf("reading markdown: %w", err)
	}
	table := Build(src, opts.MaxLevel, newline)

	found, err := filelines.GetLineMatches(ctx, path, opts.Marker, filelines.MatchOptions{
		MaxOccurrences: 2,
		LooseMatching:  true,
	})
	if err != nil {
		return errors.Errorf("locating markers: %w", err)
	}

	open, ok := found.Matches.Line(1)
	if !ok {
		return errors.Errorf("%w: %q in %s", ErrMarkerNotFound, opts.Marker, path)
	}

	block := newline + table + newline + newline
	if end, ok := found.Matches.Line(2); ok {
		if end-open > 1 {
			if err := filelines.RemoveLineInterval(ctx, path, open+1, end-1, path); err != nil {
				return errors.Errorf("removing previous table: %w", err)
			}
		}
	} else {
		block += strings.TrimSpace(opts.Marker) + newline
	}

	if err := filelines.InsertStringAtLine(ctx, path, block, open+1, path, filelines.InsertOptions{Newline: newline}); err != nil {
		return errors.Errorf("inserting table: %w", err)
	}

	logger.Debug().Str("file", path).Int("marker_line", open).Int("table_lines", strings.Count(table, newline)+1).Msg("table of contents written")

	return nil
}
