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

// Package notify sends short notifications by email or to a Gotify server.
package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/smtp"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/lineutil/pkg/pathgen"
	"gitlab.com/tozd/go/errors"
)

// 📧 Email describes one message sent over implicit TLS SMTP
type Email struct {
	Message  string
	Server   string
	Port     int
	Sender   string
	User     string
	Password string
	Receiver string
	Subject  string

	// TLSConfig overrides the default TLS settings.
	TLSConfig *tls.Config
}

// Validate checks the required fields
func (e Email) Validate() error {
	if e.Server == "" {
		return errors.Errorf("smtp server is required")
	}
	if e.Port <= 0 || e.Port > 65535 {
		return errors.Errorf("invalid smtp port %d", e.Port)
	}
	if e.Sender == "" || e.Receiver == "" {
		return errors.Errorf("sender and receiver are required")
	}
	return nil
}

// buildMessage renders the RFC 5322 message
func (e Email) buildMessage(now time.Time) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", e.Subject))
	fmt.Fprintf(&buf, "From: %s\r\n", e.Sender)
	fmt.Fprintf(&buf, "To: %s\r\n", e.Receiver)
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(strings.ReplaceAll(e.Message, "\r\n", "\n"), "\n", "\r\n"))
	return buf.Bytes()
}

// 📨 SendEmail delivers the message through an SMTP server over implicit TLS
func SendEmail(ctx context.Context, e Email) error {
	if err := e.Validate(); err != nil {
		return errors.Errorf("validating email: %w", err)
	}

	addr := net.JoinHostPort(e.Server, strconv.Itoa(e.Port))
	zerolog.Ctx(ctx).Debug().Str("server", addr).Str("receiver", e.Receiver).Msg("sending email")

	tlsConfig := e.TLSConfig
	if tlsConfig == nil {
		tlsConfig = &tls.Config{ServerName: e.Server}
	}

	dialer := &tls.Dialer{Config: tlsConfig}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errors.Errorf("connecting to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, e.Server)
	if err != nil {
		conn.Close()
		return errors.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	if e.User != "" {
		if err := client.Auth(smtp.PlainAuth("", e.User, e.Password, e.Server)); err != nil {
			return errors.Errorf("authenticating: %w", err)
		}
	}
	if err := client.Mail(e.Sender); err != nil {
		return errors.Errorf("setting sender: %w", err)
	}
	if err := client.Rcpt(e.Receiver); err != nil {
		return errors.Errorf("setting receiver: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return errors.Errorf("starting data: %w", err)
	}
	if _, err := w.Write(e.buildMessage(time.Now())); err != nil {
		w.Close()
		return errors.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return errors.Errorf("finishing message: %w", err)
	}

	return client.Quit()
}

// 🔔 Gotify describes one message for a Gotify server
type Gotify struct {
	URL      string
	Token    string
	Title    string
	Message  string
	Priority int

	// Client overrides http.DefaultClient.
	Client *http.Client
}

type gotifyPayload struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority int    `json:"priority"`
}

// 📮 SendGotifyMessage posts the message to the server's message endpoint and
// returns the response status code. Non 2xx responses are errors.
func SendGotifyMessage(ctx context.Context, g Gotify) (int, error) {
	if g.URL == "" {
		return 0, errors.Errorf("gotify url is required")
	}

	payload := gotifyPayload{Title: g.Title, Message: g.Message, Priority: g.Priority}
	if payload.Title == "" {
		payload.Title = "title"
	}
	if payload.Message == "" {
		payload.Message = "message"
	}
	if payload.Priority == 0 {
		payload.Priority = 5
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, errors.Errorf("encoding payload: %w", err)
	}

	endpoint := pathgen.RebuildURI(g.URL, "message?"+url.Values{"token": {g.Token}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	zerolog.Ctx(ctx).Debug().Str("url", g.URL).Int("priority", payload.Priority).Msg("sending gotify message")

	resp, err := client.Do(req)
	if err != nil {
		return 0, errors.Errorf("posting message: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, errors.Errorf("gotify returned %s", resp.Status)
	}

	return resp.StatusCode, nil
}
