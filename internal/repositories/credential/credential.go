package credential

import (
	"context"
	"errors"

	"github.com/orgball2608/social-scheduler/internal/domain"
)

var ErrNotFound = errors.New("credential not found")

//go:generate go run go.uber.org/mock/mockgen -source=credential.go -destination=mocks/mock.go
type Repository interface {
	// Upsert stores the credential as the active one for (user, platform),
	// replacing and reactivating any previous grant.
	Upsert(ctx context.Context, cred domain.Credential) (*domain.Credential, error)

	// GetActive returns the active credentials of userID among platforms, keyed by platform.
	GetActive(ctx context.Context, userID int64, platforms []domain.Platform) (map[domain.Platform]*domain.Credential, error)

	ListByUser(ctx context.Context, userID int64) ([]*domain.Credential, error)
	Deactivate(ctx context.Context, userID int64, platform domain.Platform) error
}
