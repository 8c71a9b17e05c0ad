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

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/lineutil/cmd/lineutil/opts"
	"github.com/walteh/lineutil/pkg/filelines"
	"github.com/walteh/lineutil/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewMatchCmd creates a new match command
func NewMatchCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		maxOccurrences int
		strict         bool
		keepAll        bool
		text           bool
	)

	cmd := &cobra.Command{
		Use:   "match FILE PATTERN",
		Short: "Find the lines equal to a pattern",
		Long: `Match prints the line number of every occurrence of PATTERN in FILE.
A line matches when it equals the pattern, ignoring leading and trailing
whitespace unless --strict is set.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			result, err := filelines.GetLineMatches(ctx, args[0], args[1], filelines.MatchOptions{
				MaxOccurrences: maxOccurrences,
				LooseMatching:  !strict,
				KeepAllLines:   keepAll,
			})
			if err != nil {
				return errors.Errorf("matching %s: %w", args[0], err)
			}

			if text {
				_, err := fmt.Fprint(cmd.OutOrStdout(), result.Text)
				return err
			}

			if result.Matches.Len() == 0 {
				log.FromContext(ctx).Warningf("no line of %s matches %q", args[0], args[1])
				return nil
			}

			data := pterm.TableData{{"Occurrence", "Line"}}
			for i, line := range result.Matches {
				data = append(data, []string{strconv.Itoa(i + 1), strconv.Itoa(line)})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), table)
			return err
		},
	}

	cmd.Flags().IntVarP(&maxOccurrences, "max", "m", 0, "stop after this many occurrences, 0 for all")
	cmd.Flags().BoolVar(&strict, "strict", false, "compare lines without trimming whitespace")
	cmd.Flags().BoolVar(&keepAll, "keep-all", false, "scan the whole file and keep every line in the text output")
	cmd.Flags().BoolVar(&text, "text", false, "print the kept text instead of the table")

	return cmd
}
