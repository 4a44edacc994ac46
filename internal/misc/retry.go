package misc

import (
	"context"
	"time"
)

// DefaultBackoff is the delay schedule used for transient startup failures.
var DefaultBackoff = []time.Duration{
	1 * time.Second,
	3 * time.Second,
	5 * time.Second,
}

// Retry runs op, retrying after each delay in the schedule until op succeeds,
// the schedule is exhausted, or ctx is done. The last error is returned.
func Retry(ctx context.Context, delays []time.Duration, op func() error) error {
	err := op()
	if err == nil {
		return nil
	}
	for _, d := range delays {
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if err = op(); err == nil {
			return nil
		}
	}
	return err
}
