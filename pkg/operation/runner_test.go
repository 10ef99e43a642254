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
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func counting(n *atomic.Int32, err error) Func {
	return Func{Label: "op", Fn: func(context.Context) error {
		n.Add(1)
		return err
	}}
}

func TestRunner(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		async   bool
		limit   int
		errs    []error
		wantRun int32
		wantErr bool
	}{
		{name: "sync_runs_all", errs: []error{nil, nil, nil}, wantRun: 3},
		{name: "sync_stops_at_first_error", errs: []error{nil, boom, nil}, wantRun: 2, wantErr: true},
		{name: "async_runs_all", async: true, errs: []error{nil, nil, nil, nil}, wantRun: 4},
		{name: "async_with_limit", async: true, limit: 1, errs: []error{nil, nil, nil}, wantRun: 3},
		{name: "no_operations", errs: nil, wantRun: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n atomic.Int32
			ops := make([]Operation, 0, len(tt.errs))
			for _, err := range tt.errs {
				ops = append(ops, counting(&n, err))
			}

			err := NewRunner(nil, tt.async, tt.limit).Run(context.Background(), ops...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, boom), "error should wrap the operation error")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantRun, n.Load())
		})
	}
}

func TestRunnerAsyncError(t *testing.T) {
	boom := errors.New("boom")
	var n atomic.Int32

	err := NewRunner(nil, true, 0).Run(context.Background(), counting(&n, nil), counting(&n, boom))
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var n atomic.Int32
	err := NewRunner(nil, false, 0).Run(ctx, counting(&n, nil))
	require.Error(t, err)
	assert.Equal(t, int32(0), n.Load())
}
