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

// Package pathgen builds collision resistant path names and small URL helpers.
package pathgen

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/crypto/blake2b"
)

// 🔧 Defaults used when the matching Options field is zero
const (
	DefaultDateLayout     = "2006-01-02_15-04-05.000000"
	DefaultSeparator      = "_"
	DefaultRandomBytes    = 4
	DefaultHashDigestSize = 3
	maxRandomBytes        = 64
)

// Options tunes Generate
type Options struct {
	// DateLayout is a time.Format layout for the date component.
	DateLayout string
	// Separator joins the components.
	Separator string
	// RandomBytes is the number of random bytes, encoded as unpadded URL-safe base64.
	RandomBytes int
	// HashDigestSize is the blake2b digest size in bytes for the hash of the suffix.
	HashDigestSize int
	// Now overrides the clock.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	if o.RandomBytes == 0 {
		o.RandomBytes = DefaultRandomBytes
	}
	if o.HashDigestSize == 0 {
		o.HashDigestSize = DefaultHashDigestSize
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// 🎲 Generate returns date, random token, hash of suffix and suffix joined by
// the separator. The suffix component is omitted when suffix is empty.
//
//	2025-01-02_15-04-05.123456_q7Zx1A_cec7ea_notes.md
func Generate(suffix string, opts Options) (string, error) {
	opts = opts.withDefaults()

	if opts.RandomBytes < 0 || opts.RandomBytes > maxRandomBytes {
		return "", errors.Errorf("random bytes must be between 1 and %d, got %d", maxRandomBytes, opts.RandomBytes)
	}
	if opts.HashDigestSize < 1 || opts.HashDigestSize > blake2b.Size {
		return "", errors.Errorf("hash digest size must be between 1 and %d, got %d", blake2b.Size, opts.HashDigestSize)
	}

	date := opts.Now().Format(opts.DateLayout)

	token := make([]byte, opts.RandomBytes)
	if _, err := rand.Read(token); err != nil {
		return "", errors.Errorf("reading random bytes: %w", err)
	}
	random := base64.RawURLEncoding.EncodeToString(token)

	h, err := blake2b.New(opts.HashDigestSize, nil)
	if err != nil {
		return "", errors.Errorf("creating hash: %w", err)
	}
	h.Write([]byte(suffix))
	hash := hex.EncodeToString(h.Sum(nil))

	parts := []string{date, random, hash}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, opts.Separator), nil
}

// AddTrailingSlash appends a "/" unless s already ends with one
func AddTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

// RebuildURI joins a base URI and a path with exactly the base's trailing slash
func RebuildURI(base, p string) string {
	return AddTrailingSlash(base) + p
}

// LastPathComponentFromURL returns the last element of the URL's path
func LastPathComponentFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Errorf("parsing url: %w", err)
	}
	if u.Path == "" {
		return "", nil
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return "", nil
	}
	return base, nil
}

// RemoveComponent returns element up to the first match of pattern
func RemoveComponent(element, pattern string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", errors.Errorf("compiling pattern: %w", err)
	}
	return re.Split(element, 2)[0], nil
}
