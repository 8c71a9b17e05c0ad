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
	"github.com/spf13/cobra"
	"github.com/walteh/lineutil/cmd/lineutil/opts"
	"github.com/walteh/lineutil/pkg/config"
	"github.com/walteh/lineutil/pkg/toc"
	"gitlab.com/tozd/go/errors"
)

// NewTOCCmd creates a new toc command
func NewTOCCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		marker   string
		maxLevel int
		newline  string
	)

	cmd := &cobra.Command{
		Use:   "toc FILE",
		Short: "Regenerate a markdown table of contents",
		Long: `Toc lists the headings of the markdown FILE below the first marker line.
A previous table between two marker lines is replaced. With a single marker a
closing marker is added after the table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			nl, err := parseNewline(newline)
			if err != nil {
				return err
			}

			err = toc.Write(ctx, args[0], toc.Options{
				Marker:   marker,
				MaxLevel: maxLevel,
				Newline:  nl,
			})
			logEdit(cmd, args[0], "toc", "marker "+marker, err)
			if err != nil {
				return errors.Errorf("writing toc of %s: %w", args[0], err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&marker, "marker", config.DefaultTOCMarker, "line the table is placed under")
	cmd.Flags().IntVar(&maxLevel, "max-level", toc.DefaultMaxLevel, "deepest heading level listed")
	cmd.Flags().StringVar(&newline, "newline", "lf", "terminator for the table lines: lf, crlf, cr or native")

	return cmd
}
