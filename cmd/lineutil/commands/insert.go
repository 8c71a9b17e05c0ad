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
	"strconv"

	"github.com/spf13/cobra"
	"github.com/walteh/lineutil/cmd/lineutil/opts"
	"github.com/walteh/lineutil/pkg/filelines"
	"github.com/walteh/lineutil/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewInsertCmd creates a new insert command
func NewInsertCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		line       int
		appendText bool
		newline    string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "insert FILE TEXT",
		Short: "Insert text at a line",
		Long: `Insert writes TEXT at the start of line --line of FILE, or at its end with
--append. Lines past the end of the file are created with empty lines first.
The result replaces FILE unless --output is set.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			nl, err := parseNewline(newline)
			if err != nil {
				return err
			}

			out := output
			if out == "" {
				out = args[0]
			}

			err = filelines.InsertStringAtLine(ctx, args[0], args[1], line, out, filelines.InsertOptions{
				Append:  appendText,
				Newline: nl,
			})
			logEdit(cmd, out, "insert", "line "+strconv.Itoa(line), err)
			if err != nil {
				return errors.Errorf("inserting into %s: %w", args[0], err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&line, "line", "l", 1, "1-based line to insert at")
	cmd.Flags().BoolVarP(&appendText, "append", "a", false, "append to the line instead of prepending")
	cmd.Flags().StringVar(&newline, "newline", "native", "terminator for created lines: lf, crlf, cr or native")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead of FILE")

	return cmd
}

// logEdit reports a single command line edit on the console logger
func logEdit(cmd *cobra.Command, path, action, detail string, err error) {
	log.FromContext(cmd.Context()).LogEdit(cmd.Context(), log.EditOperation{
		Path:   path,
		Action: action,
		Status: log.StatusOf(err),
		Detail: detail,
		Err:    err,
	})
}
