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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner executes operations, at most limit at a time
type Runner struct {
	logger *zerolog.Logger
	limit  int
}

// 🏗️ NewRunner creates a new runner. A limit below 1 means no limit.
func NewRunner(logger *zerolog.Logger, limit int) *Runner {
	return &Runner{
		logger: logger,
		limit:  limit,
	}
}

// 🏃 Run executes every operation and waits for all of them. The first error
// is returned; operations already started still run to completion.
func (r *Runner) Run(ctx context.Context, ops ...Operation) error {
	g, ctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}

	for _, op := range ops {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				r.logger.Debug().Str("operation", op.Name()).Msg("skipped after earlier failure")
				return nil
			}
			r.logger.Debug().Str("operation", op.Name()).Msg("running operation")
			if err := op.Execute(ctx); err != nil {
				return errors.Errorf("executing %s: %w", op.Name(), err)
			}
			return nil
		})
	}

	return g.Wait()
}
