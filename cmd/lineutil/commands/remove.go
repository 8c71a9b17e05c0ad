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
	"strconv"

	"github.com/spf13/cobra"
	"github.com/walteh/lineutil/cmd/lineutil/opts"
	"github.com/walteh/lineutil/pkg/filelines"
	"gitlab.com/tozd/go/errors"
)

// NewRemoveCmd creates a new remove command
func NewRemoveCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		from   int
		to     int
		output string
	)

	cmd := &cobra.Command{
		Use:   "remove FILE",
		Short: "Remove a range of lines",
		Long: `Remove deletes lines --from through --to of FILE, both included.
Without --to only line --from is removed. The result replaces FILE unless
--output is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			out := output
			if out == "" {
				out = args[0]
			}

			var err error
			detail := "line " + strconv.Itoa(from)
			if !cmd.Flags().Changed("to") {
				err = filelines.RemoveLine(ctx, args[0], from, out)
			} else {
				detail = fmt.Sprintf("lines %d-%d", from, to)
				err = filelines.RemoveLineInterval(ctx, args[0], from, to, out)
			}
			logEdit(cmd, out, "remove", detail, err)
			if err != nil {
				return errors.Errorf("removing from %s: %w", args[0], err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&from, "from", "f", 0, "first line to remove, 1-based")
	cmd.Flags().IntVarP(&to, "to", "t", 0, "last line to remove, defaults to --from")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead of FILE")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
