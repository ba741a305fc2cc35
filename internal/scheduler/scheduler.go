package scheduler

import (
	"context"
	"errors"
)

var ErrAlreadyStarted = errors.New("scheduler already started")

//go:generate go run go.uber.org/mock/mockgen -source=scheduler.go -destination=mocks/mock.go
type Client interface {
	// Start arms the periodic due-post job. Ticks run with ctx until Stop.
	Start(ctx context.Context) error
	Stop() error

	// RunOnce runs a single tick synchronously and returns how many claimed
	// posts were finalized.
	RunOnce(ctx context.Context) (int, error)
}
