// SPDX-License-Identifier: MIT

package covariance

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/katalvlaran/covar/matrix"
	"github.com/katalvlaran/covar/moments"
)

// batch is a run of data lines handed to one pool task.
type batch struct {
	lines []string
	nums  []int // 1-based input line numbers, parallel to lines
}

// partial is the outcome of one batch task.
type partial struct {
	acc *moments.Accumulator
	err error
}

// ComputeParallel is Compute with the record stream partitioned into batches
// that are accumulated concurrently on a bounded worker pool and merged.
// Implementation:
//   - Stage 1: the header line fixes D exactly as in Compute.
//   - Stage 2: lines are read in waves of up to workers×batchSize records.
//     Each batch of a wave is accumulated by its own private Accumulator on an
//     ants pool; the wave's partials are merged into the total in batch order.
//   - Stage 3: Finalize → Assemble.
//
// Behavior highlights:
//   - Input is still consumed lazily; memory is O(workers·batchSize + workers·D²).
//   - Merge order is fixed, so repeated runs on the same input are reproducible.
//   - The result equals Compute's within floating-point reassociation error,
//     and exactly when every partial sum is exactly representable.
//   - When several batches fail, the error of the earliest line wins.
//
// Errors:
//   - Everything Compute returns, plus ctx.Err() on cancellation.
func ComputeParallel(ctx context.Context, lines iter.Seq2[string, error], opts ...Option) (*matrix.Dense, error) {
	o := gatherOptions(opts...)
	start := time.Now()

	next, stop := iter.Pull2(lines)
	defer stop()

	// Stage 1 (Header).
	header, readErr, ok := next()
	if !ok {
		return nil, fmt.Errorf("%s: missing header: %w", opComputeParallel, ErrEmptyInput)
	}
	if readErr != nil {
		return nil, fmt.Errorf("%s: %w", opComputeParallel, readErr)
	}
	total, err := newHeaderAccumulator(header, o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opComputeParallel, err)
	}

	pool, err := ants.NewPool(o.workers)
	if err != nil {
		return nil, fmt.Errorf("%s: pool: %w", opComputeParallel, err)
	}
	defer pool.Release()

	// Stage 2 (Waves).
	lineNo := 1
	for wave := 0; ; wave++ {
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", opComputeParallel, err)
		}

		var (
			batches []batch
			eof     bool
		)
		batches, lineNo, eof, readErr = readWave(next, lineNo, o)

		partials, err := runWave(ctx, pool, batches, total.Dim(), o)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opComputeParallel, err)
		}
		for _, p := range partials {
			if p.err != nil {
				return nil, fmt.Errorf("%s: %w", opComputeParallel, p.err)
			}
			if err = total.Merge(p.acc); err != nil {
				return nil, fmt.Errorf("%s: %w", opComputeParallel, err)
			}
		}
		// Read errors come after every line preceding them.
		if readErr != nil {
			return nil, fmt.Errorf("%s: %w", opComputeParallel, readErr)
		}
		o.logger.Debug("wave merged",
			zap.Int("wave", wave),
			zap.Int("batches", len(batches)),
			zap.Int("rows", total.Count()),
		)
		if eof {
			break
		}
	}

	// Stage 3 (Finalize + Assemble).
	cov, err := finish(total)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opComputeParallel, err)
	}
	o.logger.Info("covariance computed",
		zap.Int("dim", total.Dim()),
		zap.Int("rows", total.Count()),
		zap.Int("workers", o.workers),
		zap.Int("batch_size", o.batchSize),
		zap.Duration("elapsed", time.Since(start)),
	)

	return cov, nil
}

// readWave pulls up to workers×batchSize data lines from next, skipping blank
// lines when configured. It returns the batches read, the last line number
// consumed, whether the source is exhausted and the first source error.
func readWave(
	next func() (string, error, bool),
	lineNo int,
	o Options,
) (batches []batch, last int, eof bool, readErr error) {
	batches = make([]batch, 0, o.workers)
	cur := batch{
		lines: make([]string, 0, o.batchSize),
		nums:  make([]int, 0, o.batchSize),
	}
	for len(batches) < o.workers {
		line, err, ok := next()
		if !ok {
			eof = true
			break
		}
		lineNo++
		if err != nil {
			readErr = err
			eof = true
			break
		}
		if o.skipBlank && isBlank(line) {
			continue
		}
		cur.lines = append(cur.lines, line)
		cur.nums = append(cur.nums, lineNo)
		if len(cur.lines) == o.batchSize {
			batches = append(batches, cur)
			cur = batch{
				lines: make([]string, 0, o.batchSize),
				nums:  make([]int, 0, o.batchSize),
			}
		}
	}
	if len(cur.lines) > 0 {
		batches = append(batches, cur)
	}

	return batches, lineNo, eof, readErr
}

// runWave accumulates every batch on pool and returns the partials in batch order.
func runWave(ctx context.Context, pool *ants.Pool, batches []batch, dim int, o Options) ([]partial, error) {
	partials := make([]partial, len(batches))
	var wg sync.WaitGroup
	for idx := range batches {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			partials[idx] = accumulateBatch(ctx, batches[idx], dim, o)
		}); err != nil {
			wg.Done()
			wg.Wait()

			return nil, fmt.Errorf("pool: submit: %w", err)
		}
	}
	wg.Wait()

	return partials, nil
}

// accumulateBatch feeds one batch into a fresh accumulator.
func accumulateBatch(ctx context.Context, b batch, dim int, o Options) partial {
	if err := ctx.Err(); err != nil {
		return partial{err: err}
	}
	acc, err := moments.New(dim, o.momentOptions()...)
	if err != nil {
		return partial{err: err}
	}
	for k, line := range b.lines {
		if err = acc.ObserveRecord(line); err != nil {
			return partial{err: fmt.Errorf("line %d: %w", b.nums[k], err)}
		}
	}

	return partial{acc: acc}
}
