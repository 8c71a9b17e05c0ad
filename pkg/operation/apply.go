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

package operation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/walteh/lineutil/pkg/config"
	"github.com/walteh/lineutil/pkg/log"
	"github.com/walteh/lineutil/pkg/notify"
	"github.com/walteh/lineutil/pkg/shell"
	"gitlab.com/tozd/go/errors"
)

// DefaultSubject is the email subject used when the config leaves it empty
const DefaultSubject = "lineutil report"

// 🎯 Options controls a single Apply run
type Options struct {
	Config *config.Config

	// Concurrency caps the number of files edited at once. Zero means no cap.
	Concurrency int

	// DryRun prints the post command instead of running it.
	DryRun bool

	// Output receives the post command's output. Defaults to stdout.
	Output io.Writer

	// HTTPClient is used for gotify notifications.
	HTTPClient *http.Client
}

// 📊 Report summarizes a run
type Report struct {
	Files    []string
	Edits    []log.EditOperation
	ExitCode int
}

// Failed counts the edits that returned an error
func (r *Report) Failed() int {
	n := 0
	for _, e := range r.Edits {
		if e.Err != nil {
			n++
		}
	}
	return n
}

// Summary is the one line message sent in notifications
func (r *Report) Summary() string {
	return fmt.Sprintf("applied %d edits to %d files (%d failed), post command exit status %d",
		len(r.Edits), len(r.Files), r.Failed(), r.ExitCode)
}

// 🗺️ Plan expands the edits of cfg into one FileOperation per file. Edits keep
// their config order within a file and files are sorted by path.
func Plan(cfg *config.Config) ([]*FileOperation, error) {
	byPath := map[string]*FileOperation{}

	backupDir := ""
	if cfg.Backup != nil {
		backupDir = cfg.Backup.Dir
		if !filepath.IsAbs(backupDir) {
			backupDir = filepath.Join(cfg.BaseDir(), backupDir)
		}
	}

	for i, e := range cfg.Edits {
		files, err := e.ResolveFiles(cfg.BaseDir())
		if err != nil {
			return nil, errors.Errorf("edit %d: %w", i, err)
		}
		for _, f := range files {
			op, ok := byPath[f]
			if !ok {
				op = &FileOperation{Path: f, Newline: cfg.Newline, BackupDir: backupDir}
				byPath[f] = op
			}
			op.Edits = append(op.Edits, e)
		}
	}

	ops := make([]*FileOperation, 0, len(byPath))
	for _, op := range byPath {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Path < ops[j].Path })

	return ops, nil
}

// 🚀 Apply runs every edit of the config, then the post command, then the
// notifications. Notifications are sent even when edits fail.
func Apply(ctx context.Context, opts Options) (*Report, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	cfg := opts.Config
	logger := log.FromContext(ctx)
	ctx = log.NewContext(ctx, logger)
	zlog := zerolog.Ctx(ctx)

	fops, err := Plan(cfg)
	if err != nil {
		return nil, errors.Errorf("planning edits: %w", err)
	}

	report := &Report{}
	ops := make([]Operation, 0, len(fops))
	for _, op := range fops {
		report.Files = append(report.Files, op.Path)
		ops = append(ops, op)
	}

	dryRun := opts.DryRun || (cfg.PostCommand != nil && cfg.PostCommand.DryRun)
	logger.StartRun(ctx, log.RunOperation{
		Config: cfg.Location(),
		Files:  len(fops),
		DryRun: dryRun,
	})

	runErr := NewRunner(zlog, opts.Concurrency).Run(ctx, ops...)
	report.Edits = logger.EndRun(ctx)

	if runErr == nil && cfg.PostCommand != nil {
		code, err := shell.ExecuteCommandLiveOutput(ctx, cfg.PostCommand.Run, shell.Options{
			Shell:  cfg.PostCommand.Shell,
			DryRun: dryRun,
			Output: opts.Output,
		})
		report.ExitCode = code
		switch {
		case err != nil:
			runErr = errors.Errorf("running post command: %w", err)
		case code != 0:
			runErr = errors.Errorf("post command exited with status %d", code)
		}
	}

	if err := sendNotifications(ctx, cfg.Notify, report, opts.HTTPClient); err != nil {
		if runErr == nil {
			return report, err
		}
		zlog.Error().Err(err).Msg("sending notifications")
	}

	return report, runErr
}

func sendNotifications(ctx context.Context, n *config.Notify, report *Report, client *http.Client) error {
	if n == nil {
		return nil
	}

	summary := report.Summary()

	if g := n.Gotify; g != nil {
		_, err := notify.SendGotifyMessage(ctx, notify.Gotify{
			URL:      g.URL,
			Token:    g.Token,
			Title:    "lineutil",
			Message:  summary,
			Priority: g.Priority,
			Client:   client,
		})
		if err != nil {
			return errors.Errorf("sending gotify notification: %w", err)
		}
	}

	if m := n.Email; m != nil {
		subject := m.Subject
		if subject == "" {
			subject = DefaultSubject
		}
		err := notify.SendEmail(ctx, notify.Email{
			Message:  summary,
			Server:   m.Server,
			Port:     m.Port,
			Sender:   m.Sender,
			User:     m.User,
			Password: m.Password,
			Receiver: m.Receiver,
			Subject:  subject,
		})
		if err != nil {
			return errors.Errorf("sending email notification: %w", err)
		}
	}

	return nil
}
