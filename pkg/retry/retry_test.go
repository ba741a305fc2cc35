package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orgball2608/social-scheduler/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func fastConfig(retries uint64) Config {
	return Config{
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.1,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), logger.NewNop(), "ping", func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, fastConfig(5))

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_GivesUp(t *testing.T) {
	calls := 0
	err := Do(context.Background(), logger.NewNop(), "ping", func() error {
		calls++
		return errors.New("down")
	}, fastConfig(2))

	assert.EqualError(t, err, "down")
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	err := Do(context.Background(), logger.NewNop(), "ping", func() error {
		calls++
		return Permanent(errors.New("bad credentials"))
	}, fastConfig(5))

	assert.EqualError(t, err, "bad credentials")
	assert.Equal(t, 1, calls)
}
