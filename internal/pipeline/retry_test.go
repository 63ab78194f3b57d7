package pipeline

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/metrosafety/proofd/internal/judge"
)

func TestIsRetryable(t *testing.T) {
	retryable := &judge.RetryableError{StatusCode: 429, Message: "rate limited"}
	if !IsRetryable(retryable) {
		t.Error("RetryableError should be retryable")
	}
	if !IsRetryable(fmt.Errorf("judge call: %w", retryable)) {
		t.Error("wrapped RetryableError should be retryable")
	}
	if IsRetryable(errors.New("bad request")) {
		t.Error("plain errors are not retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil is not retryable")
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		base := time.Duration(1<<uint(attempt)) * time.Second
		if base > 30*time.Second {
			base = 30 * time.Second
		}
		for i := 0; i < 10; i++ {
			d := Backoff(attempt)
			if d < base || d > base+base/2 {
				t.Fatalf("attempt %d: backoff %v outside [%v, %v]", attempt, d, base, base+base/2)
			}
		}
	}
}
