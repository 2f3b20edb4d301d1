package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "hamon/pkg/domain-errors"
)

type StepSuite struct {
	suite.Suite
	limit Limit
	t0    time.Time
}

func TestStepSuite(t *testing.T) {
	suite.Run(t, new(StepSuite))
}

func (s *StepSuite) SetupTest() {
	s.limit = Limit{MaxRequests: 5, Window: time.Hour}
	s.t0 = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StepSuite) TestAbsentWindowStartsAtOne() {
	w, d := Step("ip:a", ClientWindow{}, false, s.limit, s.t0)

	s.Equal(ClientWindow{Key: "ip:a", Count: 1, WindowStart: s.t0}, w)
	s.True(d.Allowed)
	s.Equal(4, d.Remaining)
	s.Equal(s.t0.Add(time.Hour), d.ResetAt)
	s.Zero(d.RetryAfter)
}

func (s *StepSuite) TestCountsUpToLimitThenDenies() {
	var w ClientWindow
	exists := false
	for i := range s.limit.MaxRequests {
		var d Decision
		w, d = Step("ip:a", w, exists, s.limit, s.t0.Add(time.Duration(i)*time.Minute))
		exists = true
		s.True(d.Allowed, "request %d", i+1)
		s.Equal(i+1, w.Count)
	}
	s.Equal(s.t0, w.WindowStart, "window is anchored at the first request")

	denied, d := Step("ip:a", w, true, s.limit, s.t0.Add(10*time.Minute))
	s.False(d.Allowed)
	s.Equal(0, d.Remaining)
	s.Equal(w, denied, "denial leaves state unchanged")
	s.Equal(s.t0.Add(time.Hour), d.ResetAt)
	s.Equal(50*60, d.RetryAfter)
}

func (s *StepSuite) TestExpiredWindowResets() {
	full := ClientWindow{Key: "ip:a", Count: 5, WindowStart: s.t0}

	_, d := Step("ip:a", full, true, s.limit, s.t0.Add(time.Hour-time.Nanosecond))
	s.False(d.Allowed, "window still open one tick before expiry")

	w, d := Step("ip:a", full, true, s.limit, s.t0.Add(time.Hour))
	s.True(d.Allowed, "window expires exactly at start+window")
	s.Equal(1, w.Count)
	s.Equal(s.t0.Add(time.Hour), w.WindowStart)
}

func (s *StepSuite) TestRetryAfterRoundsUp() {
	full := ClientWindow{Key: "ip:a", Count: 5, WindowStart: s.t0}
	_, d := Step("ip:a", full, true, s.limit, s.t0.Add(time.Hour-1500*time.Millisecond))
	s.Equal(2, d.RetryAfter)
}

func (s *StepSuite) TestLimitValidate() {
	s.NoError(s.limit.Validate())

	err := Limit{MaxRequests: 0, Window: time.Hour}.Validate()
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	err = Limit{MaxRequests: 1}.Validate()
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}
