package postingimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/internal/platform"
	"github.com/orgball2608/social-scheduler/internal/posting"
)

var (
	ErrMissingAccessToken = errors.New("access token is required")
	ErrMissingPlatform    = errors.New("platform is required")
)

func (s *PostingImpl) ConnectAccount(ctx context.Context, userID int64, platformName string, grant posting.TokenGrant, accountID string) (*domain.Credential, error) {
	p := domain.ParsePlatform(platformName)
	if p == "" {
		return nil, invalid(posting.CodeMissingPlatform, ErrMissingPlatform)
	}
	if _, err := s.Registry.Get(p); err != nil {
		return nil, invalid(posting.CodeUnsupportedPlatform, fmt.Errorf("%w (supported: %s)", err, supported(s.Registry)))
	}
	if strings.TrimSpace(grant.AccessToken) == "" {
		return nil, invalid(posting.CodeMissingAccessToken, ErrMissingAccessToken)
	}

	cred, err := s.CredentialRepo.Upsert(ctx, domain.Credential{
		UserID:       userID,
		Platform:     p,
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    grant.ExpiresAt,
		AccountID:    strings.TrimSpace(accountID),
		Active:       true,
	})
	if err != nil {
		s.Logger.Error("Failed to store credential", "user_id", userID, "platform", p, "error", err)
		return nil, err
	}

	s.Logger.Info("Account connected", "user_id", userID, "platform", p)
	return cred, nil
}

func (s *PostingImpl) ListAccounts(ctx context.Context, userID int64) ([]*domain.Credential, error) {
	return s.CredentialRepo.ListByUser(ctx, userID)
}

func (s *PostingImpl) DisconnectAccount(ctx context.Context, userID int64, platformName string) error {
	p := domain.ParsePlatform(platformName)
	if p == "" {
		return invalid(posting.CodeMissingPlatform, ErrMissingPlatform)
	}

	if err := s.CredentialRepo.Deactivate(ctx, userID, p); err != nil {
		return classify(err)
	}

	s.Logger.Info("Account disconnected", "user_id", userID, "platform", p)
	return nil
}

func supported(r *platform.Registry) string {
	platforms := r.Platforms()
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}
