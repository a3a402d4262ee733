package retry

import (
	"context"
	"errors"
	"fmt"
)

// FirstSuccess calls fn for each candidate in order and returns the first
// successful result together with the candidate that produced it. When
// every candidate fails, the joined errors are returned.
func FirstSuccess[T any](ctx context.Context, candidates []string, fn func(ctx context.Context, candidate string) (T, error)) (T, string, error) {
	var zero T
	if len(candidates) == 0 {
		return zero, "", errors.New("no candidates")
	}

	var errs []error
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}
		v, err := fn(ctx, c)
		if err == nil {
			return v, c, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", c, err))
	}
	return zero, "", errors.Join(errs...)
}
