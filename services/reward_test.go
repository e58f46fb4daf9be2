package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pyquest-hq/pyquest_api/model"
	"github.com/pyquest-hq/pyquest_api/shared"
)

func newTestRewardService() *RewardService {
	return &RewardService{
		levelDivisor:       defaultLevelDivisor,
		blockXPReward:      defaultBlockXPReward,
		blockCoinReward:    defaultBlockCoinReward,
		subtopicXPReward:   defaultSubtopicXPReward,
		subtopicCoinReward: defaultSubtopicCoinReward,
	}
}

func TestLevelFromXP(t *testing.T) {
	svc := newTestRewardService()

	assert.Equal(t, 1, svc.LevelFromXP(0))
	assert.Equal(t, 1, svc.LevelFromXP(99))
	assert.Equal(t, 2, svc.LevelFromXP(100))
	assert.Equal(t, 2, svc.LevelFromXP(399))
	assert.Equal(t, 3, svc.LevelFromXP(400))
	assert.Equal(t, 4, svc.LevelFromXP(900))
}

func TestLevelFromXPMonotonic(t *testing.T) {
	svc := newTestRewardService()

	prev := svc.LevelFromXP(0)
	for xp := 1; xp <= 2000; xp++ {
		level := svc.LevelFromXP(xp)
		assert.GreaterOrEqual(t, level, prev, "level must never decrease as xp grows (xp=%d)", xp)
		prev = level
	}
}

func TestXPForLevelInvertsLevelFromXP(t *testing.T) {
	svc := newTestRewardService()

	for level := 1; level <= 10; level++ {
		threshold := svc.XPForLevel(level)
		assert.Equal(t, level, svc.LevelFromXP(threshold))
		if threshold > 0 {
			assert.Equal(t, level-1, svc.LevelFromXP(threshold-1))
		}
	}
}

func TestXPToNextLevel(t *testing.T) {
	svc := newTestRewardService()

	assert.Equal(t, 100, svc.XPToNextLevel(0))
	assert.Equal(t, 1, svc.XPToNextLevel(99))
	assert.Equal(t, 300, svc.XPToNextLevel(100))
}

func TestApplyBlockEvent(t *testing.T) {
	svc := newTestRewardService()
	l := &model.Learner{ID: "learner_1", Level: 1}

	result := svc.Apply(l, model.CompletionEvent{
		LearnerID:  "learner_1",
		TargetKind: shared.TargetKindBlock,
		TargetID:   "blk_1",
	})

	assert.Equal(t, defaultBlockXPReward, result.XPDelta)
	assert.Equal(t, defaultBlockCoinReward, result.CoinDelta)
	assert.Equal(t, defaultBlockXPReward, l.XP)
	assert.Equal(t, defaultBlockCoinReward, l.Coins)
	assert.True(t, l.HasCompletedBlock("blk_1"))
}

func TestApplyIsIdempotent(t *testing.T) {
	svc := newTestRewardService()
	l := &model.Learner{ID: "learner_1", Level: 1}

	ev := model.CompletionEvent{
		LearnerID:  "learner_1",
		TargetKind: shared.TargetKindLesson,
		TargetID:   "lesson_1",
		XPReward:   50,
		CoinReward: 20,
	}

	first := svc.Apply(l, ev)
	assert.Equal(t, 50, first.XPDelta)

	second := svc.Apply(l, ev)
	assert.Zero(t, second.XPDelta)
	assert.Zero(t, second.CoinDelta)
	assert.Equal(t, 50, l.XP, "duplicate event must not double-award")
	assert.Equal(t, 20, l.Coins)
}

func TestApplyLevelTransition(t *testing.T) {
	svc := newTestRewardService()
	l := &model.Learner{ID: "learner_1", XP: 95, Level: 1}

	result := svc.Apply(l, model.CompletionEvent{
		LearnerID:  "learner_1",
		TargetKind: shared.TargetKindBlock,
		TargetID:   "blk_1",
	})

	assert.Equal(t, 1, result.LevelBefore)
	assert.Equal(t, 2, result.LevelAfter)
	assert.Equal(t, 2, l.Level)
}

func TestApplyChallengeEventKeyedByDate(t *testing.T) {
	svc := newTestRewardService()
	l := &model.Learner{ID: "learner_1", Level: 1}

	ev := model.CompletionEvent{
		LearnerID:  "learner_1",
		TargetKind: shared.TargetKindDailyChallenge,
		TargetID:   "2025-07-05",
		XPReward:   100,
		CoinReward: 40,
	}

	result := svc.Apply(l, ev)
	assert.Equal(t, 100, result.XPDelta)
	assert.True(t, l.HasCompletedChallenge("2025-07-05"))

	replay := svc.Apply(l, ev)
	assert.Zero(t, replay.XPDelta)
	assert.Equal(t, 100, l.XP)
}
