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

// Package text replaces text inside the lines of a file.
package text

import (
	"bytes"
	"context"
	"io/fs"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/lineutil/pkg/fileio"
	"github.com/walteh/lineutil/pkg/filelines"
	"gitlab.com/tozd/go/errors"
)

// 🔁 Rule replaces every occurrence of From with To
type Rule struct {
	From string
	To   string
}

// 📊 Result holds the content before and after the rules ran
type Result struct {
	Original []byte
	Modified []byte
	Count    int
}

// WasModified reports whether any rule matched
func (r *Result) WasModified() bool {
	return r.Count > 0
}

// ValidateRules checks that every rule has a From and that no rule adds or
// removes a line terminator.
func ValidateRules(rules []Rule) error {
	for i, rule := range rules {
		if rule.From == "" {
			return errors.Errorf("%w: rule %d: from is required", filelines.ErrInvalidArgument, i)
		}
		if strings.ContainsAny(rule.From, "\r\n") || strings.ContainsAny(rule.To, "\r\n") {
			return errors.Errorf("%w: rule %d: line terminators are not allowed", filelines.ErrInvalidArgument, i)
		}
	}
	return nil
}

// Replace applies rules to content in order, each rule seeing the output of
// the previous one.
func Replace(content []byte, rules []Rule) (*Result, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	result := &Result{
		Original: content,
		Modified: content,
	}

	for _, rule := range rules {
		from := []byte(rule.From)
		n := bytes.Count(result.Modified, from)
		if n == 0 {
			continue
		}
		result.Count += n
		result.Modified = bytes.ReplaceAll(result.Modified, from, []byte(rule.To))
	}

	return result, nil
}

// 📝 ReplaceFile applies rules to the file at path. The file is rewritten
// atomically, and only when a rule matched.
func ReplaceFile(ctx context.Context, path string, rules []Rule) (*Result, error) {
	content, err := fileio.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("%w: %s", filelines.ErrFileNotFound, path)
		}
		return nil, errors.Errorf("%w: reading %s: %s", filelines.ErrIO, path, err.Error())
	}

	result, err := Replace(content, rules)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("file", path).Int("replacements", result.Count).Msg("replaced text")

	if !result.WasModified() {
		return result, nil
	}

	if err := fileio.WriteFileAtomic(ctx, path, result.Modified); err != nil {
		return nil, errors.Errorf("%w: writing %s: %s", filelines.ErrIO, path, err.Error())
	}

	return result, nil
}
