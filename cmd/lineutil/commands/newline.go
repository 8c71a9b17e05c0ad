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

package commands

import (
	"strings"

	"github.com/walteh/lineutil/pkg/filelines"
	"gitlab.com/tozd/go/errors"
)

// parseNewline maps a --newline flag value to a terminator. Empty means native.
func parseNewline(name string) (string, error) {
	switch strings.ToLower(name) {
	case "", "native":
		return "", nil
	case "lf":
		return "\n", nil
	case "crlf":
		return "\r\n", nil
	case "cr":
		return "\r", nil
	default:
		return "", errors.Errorf("%w: unknown newline %q, want lf, crlf, cr or native", filelines.ErrInvalidArgument, name)
	}
}
