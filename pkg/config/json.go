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

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func init() {
	Register(jsonParser{})
}

// jsonParser reads job files written as a single JSON object. Unknown fields,
// empty documents and content after the object are rejected.
type jsonParser struct{}

func (jsonParser) CanParse(filename string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(filename)), ".json")
}

func (jsonParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.Errorf("empty JSON document")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, errors.Errorf("parsing JSON at offset %d: %w", syntaxErr.Offset, err)
		}
		return nil, errors.Errorf("parsing JSON: %w", err)
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.Errorf("parsing JSON: unexpected content after offset %d", dec.InputOffset())
	}

	zerolog.Ctx(ctx).Debug().Int("edits", len(cfg.Edits)).Msg("parsed JSON config")

	return &cfg, nil
}
