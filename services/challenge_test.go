package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyquest-hq/pyquest_api/dto"
	"github.com/pyquest-hq/pyquest_api/model"
	"github.com/pyquest-hq/pyquest_api/shared"
)

func newTestChallengeService(t *testing.T) (*ChallengeService, *SqlService) {
	t.Helper()

	ds := newTestSqlService(t)
	svc := &ChallengeService{
		sqlSvc:    ds,
		rewardSvc: newTestRewardService(),
		streakSvc: newTestStreakService(),
	}
	return svc, ds
}

func seedChallengeForDate(t *testing.T, ds *SqlService, id, activeDate string) *model.DailyChallenge {
	t.Helper()

	expiration := ""
	if parsed, err := time.Parse(shared.DateLayout, activeDate); err == nil {
		expiration = parsed.AddDate(0, 0, 1).Format(shared.DateLayout)
	}

	challenge := &model.DailyChallenge{
		ID:             id,
		ActiveDate:     activeDate,
		ExpirationDate: expiration,
		XPReward:       100,
		CoinReward:     40,
	}
	require.NoError(t, ds.CreateChallenge(challenge))
	return challenge
}

func todayUTC() string {
	return time.Now().UTC().Format(shared.DateLayout)
}

func TestGetActiveChallengeNoneScheduled(t *testing.T) {
	svc, _ := newTestChallengeService(t)

	_, err := svc.GetActiveChallenge("")
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeNoChallengeScheduled))
}

func TestGetActiveChallengeWithCompletionState(t *testing.T) {
	svc, ds := newTestChallengeService(t)
	seedChallengeForDate(t, ds, "ch_today", todayUTC())

	resp, err := svc.GetActiveChallenge("learner_1")
	require.NoError(t, err)
	assert.Equal(t, "ch_today", resp.ID)
	assert.False(t, resp.Completed)

	_, err = svc.CompleteChallenge("learner_1", "ch_today")
	require.NoError(t, err)

	resp, err = svc.GetActiveChallenge("learner_1")
	require.NoError(t, err)
	assert.True(t, resp.Completed)
}

func TestCompleteChallengeRewards(t *testing.T) {
	svc, ds := newTestChallengeService(t)
	seedChallengeForDate(t, ds, "ch_today", todayUTC())

	resp, err := svc.CompleteChallenge("learner_1", "ch_today")
	require.NoError(t, err)

	assert.False(t, resp.AlreadyComplete)
	assert.Equal(t, 100, resp.XPGained)
	assert.Equal(t, 40, resp.CoinsGained)
	assert.Equal(t, 2, resp.Level)
	assert.True(t, resp.LeveledUp)
	assert.Equal(t, 1, resp.Streak)

	l, err := ds.GetLearner("learner_1")
	require.NoError(t, err)
	assert.True(t, l.HasCompletedChallenge(todayUTC()))
}

func TestCompleteChallengeReplayIsIdempotent(t *testing.T) {
	svc, ds := newTestChallengeService(t)
	seedChallengeForDate(t, ds, "ch_today", todayUTC())

	_, err := svc.CompleteChallenge("learner_1", "ch_today")
	require.NoError(t, err)

	replay, err := svc.CompleteChallenge("learner_1", "ch_today")
	require.NoError(t, err)

	assert.True(t, replay.AlreadyComplete)
	assert.Zero(t, replay.XPGained)
	assert.Zero(t, replay.CoinsGained)
	assert.Equal(t, 2, replay.Level)

	l, err := ds.GetLearner("learner_1")
	require.NoError(t, err)
	assert.Equal(t, 100, l.XP)
}

func TestCompleteChallengeNotActiveDate(t *testing.T) {
	svc, ds := newTestChallengeService(t)

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(shared.DateLayout)
	seedChallengeForDate(t, ds, "ch_old", yesterday)

	_, err := svc.CompleteChallenge("learner_1", "ch_old")
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeChallengeNotActive))
}

func TestCompleteChallengeExpired(t *testing.T) {
	svc, ds := newTestChallengeService(t)

	// Active today but the expiration boundary already passed: the window is
	// exclusive of the expiration date.
	challenge := &model.DailyChallenge{
		ID:             "ch_expired",
		ActiveDate:     todayUTC(),
		ExpirationDate: todayUTC(),
		XPReward:       100,
		CoinReward:     40,
	}
	require.NoError(t, ds.CreateChallenge(challenge))

	_, err := svc.CompleteChallenge("learner_1", "ch_expired")
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeChallengeNotActive))
}

func TestCompleteChallengeUnknownID(t *testing.T) {
	svc, _ := newTestChallengeService(t)

	_, err := svc.CompleteChallenge("learner_1", "missing")
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeNotFound))
}

func TestScheduleChallenge(t *testing.T) {
	svc, _ := newTestChallengeService(t)

	resp, err := svc.ScheduleChallenge(dto.ScheduleChallengeRequest{
		ActiveDate: "2030-01-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "2030-01-01", resp.ActiveDate)
	assert.Equal(t, 100, resp.XPReward, "defaults fill in when the request omits rewards")
	assert.Equal(t, 40, resp.CoinReward)
	assert.NotEmpty(t, resp.ID)
}

func TestScheduleChallengeDuplicateDate(t *testing.T) {
	svc, _ := newTestChallengeService(t)

	_, err := svc.ScheduleChallenge(dto.ScheduleChallengeRequest{ActiveDate: "2030-01-01"})
	require.NoError(t, err)

	_, err = svc.ScheduleChallenge(dto.ScheduleChallengeRequest{ActiveDate: "2030-01-01"})
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeConflict))
}

func TestScheduleChallengeRejectsInvertedWindow(t *testing.T) {
	svc, _ := newTestChallengeService(t)

	_, err := svc.ScheduleChallenge(dto.ScheduleChallengeRequest{
		ActiveDate:     "2030-01-02",
		ExpirationDate: "2030-01-01",
	})
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeBadRequest))
}
