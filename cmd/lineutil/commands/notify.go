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
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/lineutil/cmd/lineutil/opts"
	"github.com/walteh/lineutil/pkg/log"
	"github.com/walteh/lineutil/pkg/notify"
	"gitlab.com/tozd/go/errors"
)

// PasswordEnv is read when notify email is run without --password
const PasswordEnv = "LINEUTIL_SMTP_PASSWORD"

// NewNotifyCmd creates the notify command and its gotify and email subcommands
func NewNotifyCmd(rootOpts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a notification",
	}

	cmd.AddCommand(newGotifyCmd(), newEmailCmd())

	return cmd
}

func newGotifyCmd() *cobra.Command {
	var msg notify.Gotify

	cmd := &cobra.Command{
		Use:   "gotify MESSAGE...",
		Short: "Post a message to a Gotify server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			msg.Message = strings.Join(args, " ")
			status, err := notify.SendGotifyMessage(ctx, msg)
			if err != nil {
				return errors.Errorf("sending gotify message: %w", err)
			}

			log.FromContext(ctx).Successf("gotify accepted the message (%d)", status)
			return nil
		},
	}

	cmd.Flags().StringVar(&msg.URL, "url", "", "gotify server url")
	cmd.Flags().StringVar(&msg.Token, "token", "", "application token")
	cmd.Flags().StringVar(&msg.Title, "title", "", "message title")
	cmd.Flags().IntVar(&msg.Priority, "priority", 0, "message priority, 5 when unset")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newEmailCmd() *cobra.Command {
	var msg notify.Email

	cmd := &cobra.Command{
		Use:   "email MESSAGE...",
		Short: "Send an email over implicit TLS",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			msg.Message = strings.Join(args, " ")
			if msg.Password == "" {
				msg.Password = os.Getenv(PasswordEnv)
			}

			if err := notify.SendEmail(ctx, msg); err != nil {
				return errors.Errorf("sending email: %w", err)
			}

			log.FromContext(ctx).Successf("email sent to %s", msg.Receiver)
			return nil
		},
	}

	cmd.Flags().StringVar(&msg.Server, "server", "", "smtp server host")
	cmd.Flags().IntVar(&msg.Port, "port", 465, "smtp server port")
	cmd.Flags().StringVar(&msg.Sender, "sender", "", "from address")
	cmd.Flags().StringVar(&msg.Receiver, "receiver", "", "to address")
	cmd.Flags().StringVar(&msg.User, "user", "", "smtp user, no authentication when unset")
	cmd.Flags().StringVar(&msg.Password, "password", "", "smtp password, read from "+PasswordEnv+" when unset")
	cmd.Flags().StringVar(&msg.Subject, "subject", "lineutil", "message subject")

	return cmd
}
