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

/*
Package operation applies the edits of a job file to the files they match.

	+-------------+
	|    Plan     |
	| (globs)     |
	+------+------+
	       |
	+------+------+
	|   Runner    |
	| (per file)  |
	+------+------+
	       |
	+------+------+
	|  filelines  |
	|  toc / text |
	+-------------+

🎯 Purpose:
- Expands every edit's globs into a per file list of edits
- Backs files up before touching them
- Runs files in parallel and the edits of one file in order
- Runs the post command and sends notifications

⚡ Invariants:
  - Edits on one file run sequentially, in config order, each one reading the
    file as left by the previous edit. Line numbers are never cached.
  - Two operations never target the same file.

🔍 Example:

	report, err := operation.Apply(ctx, operation.Options{Config: cfg})
*/
package operation
