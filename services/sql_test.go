package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyquest-hq/pyquest_api/model"
	"github.com/pyquest-hq/pyquest_api/shared"
)

func newTestSqlService(t *testing.T) *SqlService {
	t.Helper()

	ds := &SqlService{driver: "sqlite", database: ":memory:"}
	require.NoError(t, ds.Start())
	return ds
}

func mustMarshalJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func seedLesson(t *testing.T, ds *SqlService, lesson model.Lesson) {
	t.Helper()

	if lesson.XPReward == 0 {
		lesson.XPReward = 50
	}
	if lesson.CoinReward == 0 {
		lesson.CoinReward = 20
	}
	lesson.IsActive = true
	lesson.CreatedAt = time.Now()
	lesson.UpdatedAt = time.Now()
	require.NoError(t, ds.CreateLesson(&lesson))
}

func TestGetOrCreateLearnerDefaults(t *testing.T) {
	ds := newTestSqlService(t)

	l, err := ds.GetOrCreateLearner("learner_abc12345")
	require.NoError(t, err)

	assert.Equal(t, "learner_abc12345", l.ID)
	assert.Zero(t, l.XP)
	assert.Equal(t, 1, l.Level)
	assert.Zero(t, l.Coins)
	assert.Zero(t, l.Streak)
	assert.Empty(t, l.CompletedBlockIDs())

	again, err := ds.GetOrCreateLearner("learner_abc12345")
	require.NoError(t, err)
	assert.Equal(t, l.ID, again.ID)
}

func TestGetLearnerNotFound(t *testing.T) {
	ds := newTestSqlService(t)

	_, err := ds.GetLearner("missing")
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeNotFound))
}

func TestWithLearnerPersistsMutation(t *testing.T) {
	ds := newTestSqlService(t)

	_, err := ds.WithLearner("learner_1", func(l *model.Learner) error {
		l.XP += 10
		l.AddCompletedBlock("blk_1")
		return nil
	})
	require.NoError(t, err)

	reloaded, err := ds.GetLearner("learner_1")
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.XP)
	assert.True(t, reloaded.HasCompletedBlock("blk_1"))
	assert.Equal(t, int64(1), reloaded.Version)
}

func TestWithLearnerRetriesOnVersionConflict(t *testing.T) {
	ds := newTestSqlService(t)

	_, err := ds.GetOrCreateLearner("learner_1")
	require.NoError(t, err)

	attempts := 0
	_, err = ds.WithLearner("learner_1", func(l *model.Learner) error {
		attempts++
		if attempts == 1 {
			// Simulate a concurrent writer landing between our read and CAS.
			res := ds.db.Model(&model.Learner{}).
				Where("id = ?", "learner_1").
				Update("version", l.Version+1)
			require.NoError(t, res.Error)
		}
		l.XP += 10
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts, "first CAS must fail and the closure must rerun")

	reloaded, err := ds.GetLearner("learner_1")
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.XP, "only the winning attempt's mutation may land")
}

func TestWithLearnerPropagatesFnError(t *testing.T) {
	ds := newTestSqlService(t)

	wantErr := shared.NewBadRequestError(nil, "nope")
	_, err := ds.WithLearner("learner_1", func(l *model.Learner) error {
		return wantErr
	})
	assert.Equal(t, wantErr, err)
}

func TestGetTopLearnersTotalOrder(t *testing.T) {
	ds := newTestSqlService(t)

	for _, l := range []model.Learner{
		{ID: "c", Username: "carol", XP: 300, Level: 2},
		{ID: "a", Username: "alice", XP: 500, Level: 3},
		{ID: "d", Username: "dave", XP: 300, Level: 2},
		{ID: "b", Username: "bob", XP: 300, Level: 3},
	} {
		l.CreatedAt = time.Now()
		l.UpdatedAt = time.Now()
		require.NoError(t, ds.db.Create(&l).Error)
	}

	top, err := ds.GetTopLearners(10)
	require.NoError(t, err)
	require.Len(t, top, 4)

	// xp desc, then level desc, then id asc.
	assert.Equal(t, "a", top[0].ID)
	assert.Equal(t, "b", top[1].ID)
	assert.Equal(t, "c", top[2].ID)
	assert.Equal(t, "d", top[3].ID)
}

func TestGetLearnerRankMatchesOrdering(t *testing.T) {
	ds := newTestSqlService(t)

	for _, l := range []model.Learner{
		{ID: "a", Username: "alice", XP: 500, Level: 3},
		{ID: "b", Username: "bob", XP: 300, Level: 2},
		{ID: "c", Username: "carol", XP: 300, Level: 2},
	} {
		require.NoError(t, ds.db.Create(&l).Error)
	}

	top, err := ds.GetTopLearners(10)
	require.NoError(t, err)

	for i := range top {
		rank, err := ds.GetLearnerRank(&top[i])
		require.NoError(t, err)
		assert.Equal(t, i+1, rank, "rank endpoint must agree with the page ordering for %s", top[i].ID)
	}
}

func TestCreateChallengeDuplicateDate(t *testing.T) {
	ds := newTestSqlService(t)

	first := &model.DailyChallenge{ID: "ch_1", ActiveDate: "2025-07-05", XPReward: 100, CoinReward: 40}
	require.NoError(t, ds.CreateChallenge(first))

	dup := &model.DailyChallenge{ID: "ch_2", ActiveDate: "2025-07-05", XPReward: 100, CoinReward: 40}
	err := ds.CreateChallenge(dup)
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeConflict))
}

func TestGetChallengeByDateMissing(t *testing.T) {
	ds := newTestSqlService(t)

	_, err := ds.GetChallengeByDate("2025-07-05")
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeNoChallengeScheduled))
}
