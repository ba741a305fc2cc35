package publisherimpl

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/internal/platform"
	mock_platform "github.com/orgball2608/social-scheduler/internal/platform/mocks"
	"github.com/orgball2608/social-scheduler/internal/ratelimit"
	mock_credential "github.com/orgball2608/social-scheduler/internal/repositories/credential/mocks"
	"github.com/orgball2608/social-scheduler/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	creds    *mock_credential.MockRepository
	twitter  *mock_platform.MockAdapter
	linkedin *mock_platform.MockAdapter
	impl     *PublisherImpl
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		creds:    mock_credential.NewMockRepository(ctrl),
		twitter:  mock_platform.NewMockAdapter(ctrl),
		linkedin: mock_platform.NewMockAdapter(ctrl),
	}
	f.twitter.EXPECT().Platform().Return(domain.PlatformTwitter).AnyTimes()
	f.twitter.EXPECT().MaxContentLength().Return(280).AnyTimes()
	f.linkedin.EXPECT().Platform().Return(domain.PlatformLinkedIn).AnyTimes()
	f.linkedin.EXPECT().MaxContentLength().Return(0).AnyTimes()

	f.impl = New(Opts{
		Registry:       platform.NewRegistry([]platform.Adapter{f.twitter, f.linkedin}),
		CredentialRepo: f.creds,
		Limiter:        ratelimit.NewInMemoryLimiter(0, time.Second, 1),
		Logger:         logger.NewNop(),
	})
	f.impl.now = func() time.Time { return fixedNow }
	return f
}

func cred(p domain.Platform) *domain.Credential {
	return &domain.Credential{UserID: 7, Platform: p, AccessToken: string(p) + "-token", Active: true}
}

func testPost(platforms ...domain.Platform) *domain.Post {
	return &domain.Post{ID: 1, UserID: 7, Content: "hello", Platforms: platforms, Status: domain.StatusPublishing}
}

func TestPublish_MissingCredential(t *testing.T) {
	f := newFixture(t)
	post := testPost(domain.PlatformTwitter, domain.PlatformLinkedIn)

	f.creds.EXPECT().GetActive(gomock.Any(), int64(7), post.Platforms).
		Return(map[domain.Platform]*domain.Credential{domain.PlatformTwitter: cred(domain.PlatformTwitter)}, nil)
	f.twitter.EXPECT().Publish(gomock.Any(), *cred(domain.PlatformTwitter), "hello").Return("tw-1", nil)
	f.linkedin.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	outcomes := f.impl.Publish(context.Background(), post)

	require.Len(t, outcomes, 2)
	assert.Equal(t, domain.PlatformOutcome{
		Platform: domain.PlatformTwitter, Success: true, RemoteID: "tw-1", Timestamp: fixedNow,
	}, outcomes[0])
	assert.Equal(t, domain.PlatformOutcome{
		Platform: domain.PlatformLinkedIn, Success: false, Error: "account not connected", Timestamp: fixedNow,
	}, outcomes[1])
	assert.Equal(t, domain.StatusFailed, domain.AggregateStatus(outcomes))
}

func TestPublish_ExpiredTokenSkipsAdapter(t *testing.T) {
	f := newFixture(t)
	post := testPost(domain.PlatformTwitter, domain.PlatformLinkedIn)

	expired := cred(domain.PlatformTwitter)
	expired.ExpiresAt = &fixedNow
	later := fixedNow.Add(time.Hour)
	valid := cred(domain.PlatformLinkedIn)
	valid.ExpiresAt = &later

	f.creds.EXPECT().GetActive(gomock.Any(), int64(7), post.Platforms).
		Return(map[domain.Platform]*domain.Credential{
			domain.PlatformTwitter:  expired,
			domain.PlatformLinkedIn: valid,
		}, nil)
	f.twitter.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.linkedin.EXPECT().Publish(gomock.Any(), *valid, "hello").Return("urn:li:share:1", nil)

	outcomes := f.impl.Publish(context.Background(), post)

	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Success)
	assert.Equal(t, "access token expired", outcomes[0].Error)
	assert.True(t, outcomes[1].Success)
}

func TestPublish_AllConnected(t *testing.T) {
	f := newFixture(t)
	post := testPost(domain.PlatformLinkedIn, domain.PlatformTwitter)

	f.creds.EXPECT().GetActive(gomock.Any(), int64(7), post.Platforms).
		Return(map[domain.Platform]*domain.Credential{
			domain.PlatformTwitter:  cred(domain.PlatformTwitter),
			domain.PlatformLinkedIn: cred(domain.PlatformLinkedIn),
		}, nil)
	f.twitter.EXPECT().Publish(gomock.Any(), gomock.Any(), "hello").Return("tw-1", nil)
	f.linkedin.EXPECT().Publish(gomock.Any(), gomock.Any(), "hello").Return("urn:li:share:9", nil)

	outcomes := f.impl.Publish(context.Background(), post)

	require.Len(t, outcomes, 2)
	assert.Equal(t, domain.PlatformLinkedIn, outcomes[0].Platform)
	assert.Equal(t, "urn:li:share:9", outcomes[0].RemoteID)
	assert.Equal(t, domain.PlatformTwitter, outcomes[1].Platform)
	assert.Equal(t, domain.StatusPublished, domain.AggregateStatus(outcomes))
}

func TestPublish_TruncatesPerAdapter(t *testing.T) {
	f := newFixture(t)
	post := testPost(domain.PlatformTwitter, domain.PlatformLinkedIn)
	post.Content = strings.Repeat("é", 300)

	f.creds.EXPECT().GetActive(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[domain.Platform]*domain.Credential{
			domain.PlatformTwitter:  cred(domain.PlatformTwitter),
			domain.PlatformLinkedIn: cred(domain.PlatformLinkedIn),
		}, nil)
	f.twitter.EXPECT().Publish(gomock.Any(), gomock.Any(), strings.Repeat("é", 280)).Return("tw", nil)
	f.linkedin.EXPECT().Publish(gomock.Any(), gomock.Any(), post.Content).Return("li", nil)

	outcomes := f.impl.Publish(context.Background(), post)

	assert.True(t, outcomes[0].Success)
	assert.True(t, outcomes[1].Success)
}

func TestPublish_ComposesTitleAndHashtags(t *testing.T) {
	f := newFixture(t)
	post := testPost(domain.PlatformLinkedIn)
	post.Title = "Launch"
	post.Hashtags = "#go"

	f.creds.EXPECT().GetActive(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[domain.Platform]*domain.Credential{domain.PlatformLinkedIn: cred(domain.PlatformLinkedIn)}, nil)
	f.linkedin.EXPECT().Publish(gomock.Any(), gomock.Any(), "Launch\n\nhello\n\n#go").Return("li", nil)

	outcomes := f.impl.Publish(context.Background(), post)

	assert.True(t, outcomes[0].Success)
}

func TestPublish_AdapterFailureIsIsolated(t *testing.T) {
	f := newFixture(t)
	post := testPost(domain.PlatformTwitter, domain.PlatformLinkedIn)

	f.creds.EXPECT().GetActive(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[domain.Platform]*domain.Credential{
			domain.PlatformTwitter:  cred(domain.PlatformTwitter),
			domain.PlatformLinkedIn: cred(domain.PlatformLinkedIn),
		}, nil)
	f.twitter.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("status 503"))
	f.linkedin.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return("li-1", nil)

	outcomes := f.impl.Publish(context.Background(), post)

	assert.False(t, outcomes[0].Success)
	assert.Equal(t, "status 503", outcomes[0].Error)
	assert.True(t, outcomes[1].Success)
	assert.Equal(t, domain.StatusFailed, domain.AggregateStatus(outcomes))
}

func TestPublish_AdapterPanicIsIsolated(t *testing.T) {
	f := newFixture(t)
	post := testPost(domain.PlatformTwitter, domain.PlatformLinkedIn)

	f.creds.EXPECT().GetActive(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[domain.Platform]*domain.Credential{
			domain.PlatformTwitter:  cred(domain.PlatformTwitter),
			domain.PlatformLinkedIn: cred(domain.PlatformLinkedIn),
		}, nil)
	f.twitter.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.Credential, string) (string, error) {
			panic("nil map")
		})
	f.linkedin.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return("li-1", nil)

	outcomes := f.impl.Publish(context.Background(), post)

	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Success)
	assert.Contains(t, outcomes[0].Error, "nil map")
	assert.True(t, outcomes[1].Success)
}

func TestPublish_UnsupportedPlatform(t *testing.T) {
	f := newFixture(t)
	post := testPost("myspace")

	f.creds.EXPECT().GetActive(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[domain.Platform]*domain.Credential{"myspace": cred("myspace")}, nil)

	outcomes := f.impl.Publish(context.Background(), post)

	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Success)
	assert.Contains(t, outcomes[0].Error, platform.ErrUnsupportedPlatform.Error())
}

func TestPublish_CredentialLookupFails(t *testing.T) {
	f := newFixture(t)
	post := testPost(domain.PlatformTwitter, domain.PlatformLinkedIn)

	f.creds.EXPECT().GetActive(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	outcomes := f.impl.Publish(context.Background(), post)

	require.Len(t, outcomes, 2)
	for i, p := range post.Platforms {
		assert.Equal(t, p, outcomes[i].Platform)
		assert.False(t, outcomes[i].Success)
		assert.Contains(t, outcomes[i].Error, "connection refused")
	}
}

func TestPublish_RunsPlatformsConcurrently(t *testing.T) {
	f := newFixture(t)
	post := testPost(domain.PlatformTwitter, domain.PlatformLinkedIn)

	f.creds.EXPECT().GetActive(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[domain.Platform]*domain.Credential{
			domain.PlatformTwitter:  cred(domain.PlatformTwitter),
			domain.PlatformLinkedIn: cred(domain.PlatformLinkedIn),
		}, nil)

	var inFlight, peak int32
	slow := func(context.Context, domain.Credential, string) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return "id", nil
	}
	f.twitter.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(slow)
	f.linkedin.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(slow)

	outcomes := f.impl.Publish(context.Background(), post)

	assert.Equal(t, domain.StatusPublished, domain.AggregateStatus(outcomes))
	assert.Equal(t, int32(2), atomic.LoadInt32(&peak))
}

func TestPublish_NoPlatforms(t *testing.T) {
	f := newFixture(t)

	outcomes := f.impl.Publish(context.Background(), testPost())

	assert.Empty(t, outcomes)
	assert.Equal(t, domain.StatusFailed, domain.AggregateStatus(outcomes))
}
