package fx

import (
	"github.com/orgball2608/social-scheduler/internal/repositories/credential"
	"github.com/orgball2608/social-scheduler/internal/repositories/post"
	"github.com/orgball2608/social-scheduler/internal/repositories/result"
	"go.uber.org/fx"
)

var Module = fx.Options(
	post.Module,
	credential.Module,
	result.Module,
)
