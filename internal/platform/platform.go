package platform

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/orgball2608/social-scheduler/internal/domain"
)

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrInvalidResponse     = errors.New("invalid platform response")
	ErrMissingAccountID    = errors.New("credential has no target account id")
)

// Adapter publishes text to one social platform on behalf of a credential.
//
//go:generate go run go.uber.org/mock/mockgen -source=platform.go -destination=mocks/mock.go
type Adapter interface {
	Platform() domain.Platform

	// MaxContentLength is the longest text in characters the platform accepts.
	// Zero means the adapter imposes no limit.
	MaxContentLength() int

	// Publish returns the platform assigned id of the created post.
	Publish(ctx context.Context, cred domain.Credential, content string) (string, error)
}

// Registry is the lookup table from platform name to adapter.
type Registry struct {
	adapters map[domain.Platform]Adapter
}

func NewRegistry(adapters []Adapter) *Registry {
	r := &Registry{adapters: make(map[domain.Platform]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	return r
}

// Get returns the adapter for p or an error wrapping ErrUnsupportedPlatform.
func (r *Registry) Get(p domain.Platform) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, p)
	}
	return a, nil
}

// Platforms lists the registered platforms in name order.
func (r *Registry) Platforms() []domain.Platform {
	out := make([]domain.Platform, 0, len(r.adapters))
	for p := range r.adapters {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
