//go:build integration

package window

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hamon/internal/ratelimit/models"
	"hamon/internal/ratelimit/ports"
	dErrors "hamon/pkg/domain-errors"
	"hamon/pkg/testutil"
	"hamon/pkg/testutil/containers"
)

// WindowStoreContractSuite runs the same fixed-window rules against every
// shared backend.
type WindowStoreContractSuite struct {
	suite.Suite
	newStore func() ports.WindowStore
	reset    func(ctx context.Context) error
}

func TestRedisStoreContract(t *testing.T) {
	rc := containers.GetManager().GetRedis(t)
	suite.Run(t, &WindowStoreContractSuite{
		newStore: func() ports.WindowStore {
			return NewRedisStore(rc.Client, WithKeyPrefix("hamon-test:"+uuid.NewString()))
		},
		reset: rc.Flush,
	})
}

func TestPostgresStoreContract(t *testing.T) {
	pg := containers.GetManager().GetPostgres(t)
	suite.Run(t, &WindowStoreContractSuite{
		newStore: func() ports.WindowStore { return NewPostgresStore(pg.DB) },
		reset:    func(ctx context.Context) error { return pg.TruncateTables(ctx, "rate_limit_windows") },
	})
}

func (s *WindowStoreContractSuite) SetupTest() {
	s.Require().NoError(s.reset(context.Background()))
}

func (s *WindowStoreContractSuite) TestBudgetIsSpentThenRestored() {
	ctx := context.Background()
	store := s.newStore()

	for i := 1; i <= hourly.MaxRequests; i++ {
		d, err := store.Allow(ctx, "ip:a", hourly, t0)
		s.Require().NoError(err)
		s.True(d.Allowed, "request %d", i)
		s.Equal(hourly.MaxRequests-i, d.Remaining)
	}

	d, err := store.Allow(ctx, "ip:a", hourly, t0.Add(time.Minute))
	s.Require().NoError(err)
	s.False(d.Allowed)
	s.Equal(59*60, d.RetryAfter)

	d, err = store.Allow(ctx, "ip:a", hourly, t0.Add(hourly.Window))
	s.Require().NoError(err)
	s.True(d.Allowed, "window resets after expiry")
}

func (s *WindowStoreContractSuite) TestClientsAreIndependent() {
	ctx := context.Background()
	store := s.newStore()
	for range hourly.MaxRequests {
		_, err := store.Allow(ctx, "ip:a", hourly, t0)
		s.Require().NoError(err)
	}

	d, err := store.Allow(ctx, "ip:b", hourly, t0)
	s.Require().NoError(err)
	s.True(d.Allowed)
}

func (s *WindowStoreContractSuite) TestConcurrentRequestsNeverOverspend() {
	ctx := context.Background()
	store := s.newStore()
	limit := models.Limit{MaxRequests: 5, Window: time.Hour}

	result := testutil.RunConcurrent(50, func(int) error {
		d, err := store.Allow(ctx, "ip:burst", limit, t0)
		if err != nil {
			return err
		}
		if !d.Allowed {
			return dErrors.New(dErrors.CodeRateLimited, "denied")
		}
		return nil
	})

	s.Equal(int32(5), result.Successes)
	s.Equal(int32(45), result.Denied)
	s.Zero(result.Errors)
}

func (s *WindowStoreContractSuite) TestReset() {
	ctx := context.Background()
	store := s.newStore()
	for range hourly.MaxRequests {
		_, err := store.Allow(ctx, "ip:a", hourly, t0)
		s.Require().NoError(err)
	}

	s.Require().NoError(store.Reset(ctx, "ip:a"))

	d, err := store.Allow(ctx, "ip:a", hourly, t0)
	s.Require().NoError(err)
	s.True(d.Allowed)
}
