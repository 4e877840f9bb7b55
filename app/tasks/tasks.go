package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Task is one discrete unit of import work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Series runs tasks in order and stops at the first failure.
func Series(ctx context.Context, tt []Task) error {
	for _, t := range tt {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		if err := t.Run(ctx); err != nil {
			slog.Error("Task failed", "task", t.Name, "duration", time.Since(start), "error", err)
			return fmt.Errorf("%s: %w", t.Name, err)
		}
		slog.Debug("Task completed", "task", t.Name, "duration", time.Since(start))
	}

	return nil
}

// Collect runs every task in order regardless of individual failures
// and returns the joined errors once all have been attempted.
func Collect(ctx context.Context, tt []Task) error {
	var errs []error
	for _, t := range tt {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		start := time.Now()
		if err := t.Run(ctx); err != nil {
			slog.Error("Task failed", "task", t.Name, "duration", time.Since(start), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
			continue
		}
		slog.Debug("Task completed", "task", t.Name, "duration", time.Since(start))
	}

	return errors.Join(errs...)
}

// FanOut runs independent tasks with at most limit in flight, waits for
// all of them, and reports the first error encountered. A failing task
// does not cancel its siblings.
func FanOut(ctx context.Context, limit int, tt []Task) error {
	if limit <= 0 {
		limit = 1
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, t := range tt {
		wg.Add(1)
		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			start := time.Now()
			if err := t.Run(ctx); err != nil {
				slog.Error("Task failed", "task", t.Name, "duration", time.Since(start), "error", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", t.Name, err)
				}
				mu.Unlock()
				return
			}
			slog.Debug("Task completed", "task", t.Name, "duration", time.Since(start))
		}()
	}

	wg.Wait()
	return firstErr
}
