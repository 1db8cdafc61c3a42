// Package dataflow runs slices of work through bounded, retrying worker
// stages connected by channels.
package dataflow

import (
	"context"
	"sync"
	"time"
)

// From emits items in order and closes the channel after the last one or
// when ctx is done.
func From[T any](ctx context.Context, items ...T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, item := range items {
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Map applies fn to every item of in. Items that still fail after the
// configured retries are reported to the error handler and dropped. Output
// order is not preserved when more than one worker runs.
func Map[In, Out any](ctx context.Context, in <-chan In, fn func(context.Context, In) (Out, error), opts ...Option) <-chan Out {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	out := make(chan Out, cfg.bufferSize)
	var wg sync.WaitGroup
	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go func() {
			defer wg.Done()
			for item := range in {
				res, err := call(ctx, cfg, fn, item)
				if err != nil {
					if cfg.errorHandler != nil {
						cfg.errorHandler(err)
					}
					continue
				}
				select {
				case out <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func call[In, Out any](ctx context.Context, cfg *config, fn func(context.Context, In) (Out, error), item In) (Out, error) {
	var (
		res Out
		err error
	)
	for attempt := 0; attempt <= cfg.maxRetries; attempt++ {
		if attempt > 0 && cfg.backoff != nil {
			select {
			case <-time.After(cfg.backoff(attempt)):
			case <-ctx.Done():
				return res, ctx.Err()
			}
		}
		res, err = fn(ctx, item)
		if err == nil {
			return res, nil
		}
	}
	return res, err
}

// ForEach drains in, stopping at the first error from fn or when ctx is done.
func ForEach[T any](ctx context.Context, in <-chan T, fn func(T) error) error {
	for {
		select {
		case item, ok := <-in:
			if !ok {
				return nil
			}
			if err := fn(item); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
