package retry

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Policy{Attempts: 5, Delay: time.Millisecond}.Do(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicyRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Policy{Attempts: 5, Delay: time.Millisecond}.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPolicyExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("permanent")
	err := Policy{Attempts: 4, Delay: time.Millisecond}.Do(context.Background(), func() error {
		calls++
		return wantErr
	})
	assert.Equal(t, wantErr, err)
	assert.Equal(t, 4, calls)
}

func TestPolicyZeroValueRunsOnce(t *testing.T) {
	calls := 0
	err := Policy{}.Do(context.Background(), func() error {
		calls++
		return errors.New("nope")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicyHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Policy{Attempts: 10, Delay: 50 * time.Millisecond}.Do(ctx, func() error {
		calls++
		cancel()
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoReturnsValue(t *testing.T) {
	got, err := Do(context.Background(), Policy{Attempts: 2, Delay: time.Millisecond}, func() (string, error) {
		return "wd-123", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "wd-123", got)
}

func TestDoZeroValueOnFailure(t *testing.T) {
	got, err := Do(context.Background(), Policy{Attempts: 2, Delay: time.Millisecond}, func() (int, error) {
		return 7, errors.New("broken")
	})
	require.Error(t, err)
	assert.Zero(t, got)
}
