package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyquest-hq/pyquest_api/model"
)

func newTestLeaderboardService(t *testing.T) (*LeaderboardService, *SqlService) {
	t.Helper()

	ds := newTestSqlService(t)
	svc := &LeaderboardService{
		sqlSvc:    ds,
		redisSvc:  &RedisService{}, // no client, cache disabled
		rewardSvc: newTestRewardService(),
		cacheTTL:  30 * time.Second,
	}
	return svc, ds
}

func seedLearners(t *testing.T, ds *SqlService, learners []model.Learner) {
	t.Helper()

	for _, l := range learners {
		require.NoError(t, ds.db.Create(&l).Error)
	}
}

func TestTopNOrdering(t *testing.T) {
	svc, ds := newTestLeaderboardService(t)
	seedLearners(t, ds, []model.Learner{
		{ID: "b", Username: "bob", XP: 400, Level: 3},
		{ID: "a", Username: "alice", XP: 900, Level: 4},
		{ID: "c", Username: "carol", XP: 400, Level: 3},
	})

	resp, err := svc.TopN(10, "")
	require.NoError(t, err)

	require.Len(t, resp.Entries, 3)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, "a", resp.Entries[0].LearnerID)
	assert.Equal(t, 1, resp.Entries[0].Rank)
	assert.Equal(t, "b", resp.Entries[1].LearnerID, "xp ties break by id ascending")
	assert.Equal(t, "c", resp.Entries[2].LearnerID)
	assert.Nil(t, resp.CurrentUser)
	assert.NotZero(t, resp.RefreshedAt)
}

func TestTopNLimitClamped(t *testing.T) {
	svc, ds := newTestLeaderboardService(t)
	seedLearners(t, ds, []model.Learner{
		{ID: "a", Username: "alice", XP: 100, Level: 2},
		{ID: "b", Username: "bob", XP: 50, Level: 1},
	})

	resp, err := svc.TopN(1, "")
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 1)
	assert.Equal(t, 2, resp.Total, "total reflects all learners, not the page size")

	resp, err = svc.TopN(0, "")
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 2, "non-positive limit falls back to the default page size")
}

func TestTopNIncludesCurrentUserOutsidePage(t *testing.T) {
	svc, ds := newTestLeaderboardService(t)
	seedLearners(t, ds, []model.Learner{
		{ID: "a", Username: "alice", XP: 900, Level: 4},
		{ID: "b", Username: "bob", XP: 500, Level: 3},
		{ID: "c", Username: "carol", XP: 100, Level: 2},
	})

	resp, err := svc.TopN(2, "c")
	require.NoError(t, err)

	require.Len(t, resp.Entries, 2)
	require.NotNil(t, resp.CurrentUser)
	assert.Equal(t, "c", resp.CurrentUser.LearnerID)
	assert.Equal(t, 3, resp.CurrentUser.Rank)
}

func TestTopNUnknownCurrentUser(t *testing.T) {
	svc, ds := newTestLeaderboardService(t)
	seedLearners(t, ds, []model.Learner{
		{ID: "a", Username: "alice", XP: 900, Level: 4},
	})

	resp, err := svc.TopN(10, "missing")
	require.NoError(t, err, "an unknown learner id must not fail the whole page")
	assert.Nil(t, resp.CurrentUser)
}

func TestLevelRecomputedFromXP(t *testing.T) {
	svc, ds := newTestLeaderboardService(t)

	// Stored level is stale on purpose; the projection recomputes from xp.
	seedLearners(t, ds, []model.Learner{
		{ID: "a", Username: "alice", XP: 400, Level: 1},
	})

	resp, err := svc.TopN(10, "")
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 3, resp.Entries[0].Level)
}

func TestGetLearnerRank(t *testing.T) {
	svc, ds := newTestLeaderboardService(t)
	seedLearners(t, ds, []model.Learner{
		{ID: "a", Username: "alice", XP: 900, Level: 4},
		{ID: "b", Username: "bob", XP: 500, Level: 3},
	})

	entry, err := svc.GetLearnerRank("b")
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Rank)
	assert.Equal(t, "bob", entry.Username)
}
