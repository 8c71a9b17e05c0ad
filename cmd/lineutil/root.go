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

package main

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/lineutil/cmd/lineutil/commands"
	"github.com/walteh/lineutil/cmd/lineutil/opts"
	"github.com/walteh/lineutil/pkg/log"
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "lineutil",
		Short: "Line oriented editing of text files",
		Long: `lineutil finds, inserts and removes lines in text files.
Edits can be given on the command line or collected in a job file and run
with apply, which can also back files up, run a command afterwards and send
notifications.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(setupLogging(cmd.Context(), cmd.ErrOrStderr(), rootOpts.Debug))
			return nil
		},
	}

	addRootFlags(cmd, rootOpts)

	cmd.AddCommand(
		commands.NewMatchCmd(rootOpts),
		commands.NewInsertCmd(rootOpts),
		commands.NewRemoveCmd(rootOpts),
		commands.NewTOCCmd(rootOpts),
		commands.NewReplaceCmd(rootOpts),
		commands.NewApplyCmd(rootOpts),
		commands.NewExecCmd(rootOpts),
		commands.NewNotifyCmd(rootOpts),
		commands.NewPathCmd(rootOpts),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, rootOpts *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&rootOpts.ConfigFile, "config", "c", opts.DefaultConfigFile, "job file path")
	cmd.PersistentFlags().BoolVarP(&rootOpts.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging puts a zerolog logger and a console logger on the context.
// Structured records are only shown from warn level up unless debug is set.
func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()

	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.New(w, zlog))
}
