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
	"github.com/walteh/lineutil/pkg/pathgen"
	"gitlab.com/tozd/go/errors"
)

// NewPathCmd creates a new path command
func NewPathCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var genOpts pathgen.Options

	cmd := &cobra.Command{
		Use:   "path [SUFFIX]",
		Short: "Print a collision resistant path name",
		Long: `Path prints a name made of the current date, a random token, a hash of
SUFFIX and SUFFIX itself, joined by --separator.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suffix := ""
			if len(args) == 1 {
				suffix = args[0]
			}

			name, err := pathgen.Generate(suffix, genOpts)
			if err != nil {
				return errors.Errorf("generating path: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
			return err
		},
	}

	cmd.Flags().StringVar(&genOpts.DateLayout, "date-layout", pathgen.DefaultDateLayout, "go time layout of the date component")
	cmd.Flags().StringVar(&genOpts.Separator, "separator", pathgen.DefaultSeparator, "component separator")
	cmd.Flags().IntVar(&genOpts.RandomBytes, "random-bytes", pathgen.DefaultRandomBytes, "random bytes in the token")
	cmd.Flags().IntVar(&genOpts.HashDigestSize, "hash-size", pathgen.DefaultHashDigestSize, "hash digest size in bytes")

	return cmd
}
