package testutil

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

var errNotYet = errors.New("condition not met")

// Retry calls code every sleep until it returns true or timeout passes.
func Retry(code func() bool, timeout, sleep time.Duration) bool {
	b := retry.WithMaxDuration(timeout, retry.NewConstant(sleep))
	err := retry.Do(context.Background(), b, func(context.Context) error {
		if code() {
			return nil
		}
		return retry.RetryableError(errNotYet)
	})
	return err == nil
}
