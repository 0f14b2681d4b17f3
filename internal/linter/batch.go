package linter

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// Batch lints many files with bounded concurrency.
type Batch struct {
	// Concurrency is the max number of files linted at once.
	// Zero means GOMAXPROCS.
	Concurrency int
}

// Run lints every input and returns results in input order. When a file
// fails, the remaining unstarted files are skipped and the error of the
// earliest failing input is returned.
func (b *Batch) Run(ctx context.Context, inputs []Input) ([]*Result, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Result, len(inputs))
	errs := make([]error, len(inputs))

	// Semaphore channel for concurrency limiting.
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}

			res, err := LintFile(ctx, input)
			if err != nil {
				errs[i] = fmt.Errorf("failed to lint %s: %w", input.FilePath, err)
				cancel()
				return
			}
			results[i] = res
		}()
	}
	wg.Wait()

	// Prefer a real failure over the cancellations it caused.
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		if !errors.Is(err, context.Canceled) {
			return nil, err
		}
	}
	if first != nil {
		return nil, first
	}
	return results, nil
}
