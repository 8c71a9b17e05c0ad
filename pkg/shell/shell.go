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

// Package shell runs shell commands while streaming their output.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultShell is used when Options.Shell is empty
const DefaultShell = "/bin/bash"

// 🐚 Options configures ExecuteCommandLiveOutput
type Options struct {
	// Shell is the binary invoked as `Shell -c command`.
	Shell string
	// DryRun prints the command line instead of running it.
	DryRun bool
	// Output receives the command's output. Defaults to os.Stdout.
	Output io.Writer
}

// 🏃 ExecuteCommandLiveOutput runs command through the shell, blocking until it
// exits, and copies its stderr to Output line by line as it is produced. Stdout
// is written to Output as well.
//
// The exit code of the command is returned. A command that runs but fails is not
// an error; a shell that cannot be started is.
func ExecuteCommandLiveOutput(ctx context.Context, command string, opts Options) (int, error) {
	if opts.Shell == "" {
		opts.Shell = DefaultShell
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	logger := zerolog.Ctx(ctx)

	if opts.DryRun {
		logger.Debug().Str("shell", opts.Shell).Str("command", command).Msg("dry run")
		if _, err := fmt.Fprintf(opts.Output, "%s -c %s\n", opts.Shell, command); err != nil {
			return 0, errors.Errorf("writing dry run output: %w", err)
		}
		return 0, nil
	}

	out := &lockedWriter{w: opts.Output}

	cmd := exec.CommandContext(ctx, opts.Shell, "-c", command)
	cmd.Stdout = out
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, errors.Errorf("creating stderr pipe: %w", err)
	}

	logger.Debug().Str("shell", opts.Shell).Str("command", command).Msg("running command")

	if err := cmd.Start(); err != nil {
		return 0, errors.Errorf("starting %s: %w", opts.Shell, err)
	}

	readErr := streamLines(out, stderr)

	err = cmd.Wait()
	if readErr != nil {
		return 0, errors.Errorf("reading command output: %w", readErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Debug().Int("exit_code", exitErr.ExitCode()).Msg("command failed")
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 0, errors.Errorf("waiting for command: %w", err)
	}

	return 0, nil
}

// streamLines copies r to w one line at a time, with no limit on line length.
// The pipe is always read to EOF so the child never blocks on a full pipe.
func streamLines(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if _, werr := w.Write(line); werr != nil {
				io.Copy(io.Discard, br)
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			io.Copy(io.Discard, br)
			return err
		}
	}
}

// lockedWriter serializes writes coming from the stdout copier and the stderr scanner
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
