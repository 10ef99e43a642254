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

// 🏃 OperationRunner executes operations
type OperationRunner struct {
	logger *zerolog.Logger
	async  bool
	limit  int
}

// 🏗️ NewRunner creates a new runner. In async mode at most limit operations
// run at once; a limit of zero or less means no bound.
func NewRunner(logger *zerolog.Logger, async bool, limit int) *OperationRunner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OperationRunner{
		logger: logger,
		async:  async,
		limit:  limit,
	}
}

// 🏃 Run executes every operation and returns the first error
func (r *OperationRunner) Run(ctx context.Context, ops ...Operation) error {
	if r.async {
		return r.runAsync(ctx, ops)
	}
	return r.runSync(ctx, ops)
}

// 🔄 runSync runs operations one after another, stopping at the first failure
func (r *OperationRunner) runSync(ctx context.Context, ops []Operation) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := r.execute(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

// ⚡ runAsync runs operations concurrently, each one on its own goroutine
func (r *OperationRunner) runAsync(ctx context.Context, ops []Operation) error {
	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}

	for _, op := range ops {
		op := op
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("operation cancelled: %w", err)
			}
			return r.execute(gctx, op)
		})
	}

	return g.Wait()
}

func (r *OperationRunner) execute(ctx context.Context, op Operation) error {
	logger := r.logger.With().Str("operation", op.Name()).Logger()
	ctx = logger.WithContext(ctx)

	logger.Debug().Msg("running operation")
	if err := op.Execute(ctx); err != nil {
		return errors.Errorf("executing operation %s: %w", op.Name(), err)
	}
	return nil
}
