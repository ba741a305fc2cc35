package postingimpl

import (
	"errors"
	"time"

	"github.com/orgball2608/social-scheduler/internal/platform"
	"github.com/orgball2608/social-scheduler/internal/posting"
	"github.com/orgball2608/social-scheduler/internal/publisher"
	"github.com/orgball2608/social-scheduler/internal/recorder"
	"github.com/orgball2608/social-scheduler/internal/repositories/credential"
	"github.com/orgball2608/social-scheduler/internal/repositories/post"
	apperrors "github.com/orgball2608/social-scheduler/pkg/errors"
	"github.com/orgball2608/social-scheduler/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	PostRepo       post.Repository
	CredentialRepo credential.Repository
	Registry       *platform.Registry
	Publisher      publisher.Client
	Recorder       recorder.Client
	Logger         logger.Logger
}

type PostingImpl struct {
	PostRepo       post.Repository
	CredentialRepo credential.Repository
	Registry       *platform.Registry
	Publisher      publisher.Client
	Recorder       recorder.Client
	Logger         logger.Logger

	now func() time.Time
}

func New(opts Opts) *PostingImpl {
	return &PostingImpl{
		PostRepo:       opts.PostRepo,
		CredentialRepo: opts.CredentialRepo,
		Registry:       opts.Registry,
		Publisher:      opts.Publisher,
		Recorder:       opts.Recorder,
		Logger:         opts.Logger.WithComponent("posting"),
		now:            time.Now,
	}
}

var _ posting.Client = (*PostingImpl)(nil)

func invalid(code string, err error) error {
	return apperrors.WrapWithCode(apperrors.ErrInvalidInput, code, err)
}

// classify tags repository errors with the matching pkg/errors kind and code.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, post.ErrNotFound):
		return apperrors.WrapWithCode(apperrors.ErrNotFound, posting.CodePostNotFound, err)
	case errors.Is(err, credential.ErrNotFound):
		return apperrors.WrapWithCode(apperrors.ErrNotFound, posting.CodeAccountNotFound, err)
	case errors.Is(err, post.ErrNotEditable):
		return apperrors.WrapWithCode(apperrors.ErrConflict, posting.CodePostNotEditable, err)
	case errors.Is(err, post.ErrPublishInProgress):
		return apperrors.WrapWithCode(apperrors.ErrConflict, posting.CodePublishInProgress, err)
	}
	return err
}
