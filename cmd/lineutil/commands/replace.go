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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/lineutil/cmd/lineutil/opts"
	"github.com/walteh/lineutil/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// NewReplaceCmd creates a new replace command
func NewReplaceCmd(rootOpts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replace FILE FROM TO",
		Short: "Replace text inside the lines of a file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := text.ReplaceFile(cmd.Context(), args[0], []text.Rule{{From: args[1], To: args[2]}})
			detail := ""
			if result != nil {
				detail = fmt.Sprintf("%d replacements", result.Count)
			}
			logEdit(cmd, args[0], "replace", detail, err)
			if err != nil {
				return errors.Errorf("replacing in %s: %w", args[0], err)
			}
			return nil
		},
	}

	return cmd
}
