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
	"github.com/walteh/lineutil/pkg/log"
	"github.com/walteh/lineutil/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		concurrency int
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run the edits of a job file",
		Long: `Apply runs every edit of the job file given by --config.
It will:
1. Expand the file globs of each edit
2. Back every matched file up when backup is configured
3. Run the edits of each file in order, files in parallel
4. Run the post command
5. Send the configured notifications`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			cfg, err := rootOpts.LoadConfig(ctx)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			report, err := operation.Apply(ctx, operation.Options{
				Config:      cfg,
				Concurrency: concurrency,
				DryRun:      dryRun,
				Output:      cmd.OutOrStdout(),
			})
			if err != nil {
				return errors.Errorf("applying %s: %w", cfg.Location(), err)
			}

			logger.Successf("%s", report.Summary())
			return nil
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 4, "files edited at once, 0 for no limit")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the post command instead of running it")

	return cmd
}
