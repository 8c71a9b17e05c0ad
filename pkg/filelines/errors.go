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
	"gitlab.com/tozd/go/errors"
)

// ❌ Every error returned by this package wraps exactly one of these.
var (
	// ErrInvalidArgument reports malformed caller input, detected before any I/O.
	ErrInvalidArgument = errors.Base("invalid argument")
	// ErrNegativeRange reports a line range whose end comes before its start.
	ErrNegativeRange = errors.Base("negative line range")
	// ErrLineOutOfBounds reports a line reference past the end of the scanned file.
	ErrLineOutOfBounds = errors.Base("line out of file bounds")
	// ErrFileNotFound reports a missing input file.
	ErrFileNotFound = errors.Base("file not found")
	// ErrIO reports any other storage failure.
	ErrIO = errors.Base("i/o error")
)
