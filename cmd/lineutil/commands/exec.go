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

	"github.com/spf13/cobra"
	"github.com/walteh/lineutil/cmd/lineutil/opts"
	"github.com/walteh/lineutil/pkg/shell"
	"gitlab.com/tozd/go/errors"
)

// NewExecCmd creates a new exec command
func NewExecCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		shellPath string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "exec -- COMMAND...",
		Short: "Run a shell command with live output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := shell.ExecuteCommandLiveOutput(cmd.Context(), strings.Join(args, " "), shell.Options{
				Shell:  shellPath,
				DryRun: dryRun,
				Output: cmd.OutOrStdout(),
			})
			if err != nil {
				return errors.Errorf("running command: %w", err)
			}
			if code != 0 {
				return errors.Errorf("command exited with status %d", code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&shellPath, "shell", shell.DefaultShell, "shell used to run the command")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the command instead of running it")

	return cmd
}
