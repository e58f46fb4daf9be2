package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearnerSetMembership(t *testing.T) {
	l := &Learner{CompletedBlocks: json.RawMessage("[]")}

	assert.False(t, l.HasCompletedBlock("blk_1"))

	added := l.AddCompletedBlock("blk_1")
	assert.True(t, added)
	assert.True(t, l.HasCompletedBlock("blk_1"))

	added = l.AddCompletedBlock("blk_1")
	assert.False(t, added, "second insert of the same id must not grow the set")

	assert.Equal(t, []string{"blk_1"}, l.CompletedBlockIDs())
}

func TestLearnerSetEmptyRaw(t *testing.T) {
	l := &Learner{}

	assert.False(t, l.HasCompletedLesson("lesson_1"))
	assert.True(t, l.AddCompletedLesson("lesson_1"))
	assert.True(t, l.HasCompletedLesson("lesson_1"))
}

func TestLearnerSetCorruptRawTreatedAsEmpty(t *testing.T) {
	l := &Learner{Achievements: json.RawMessage("not-json")}

	assert.Empty(t, l.AchievementIDs())
	assert.True(t, l.AddAchievement("streak_7"))
	assert.True(t, l.HasAchievement("streak_7"))
}

func TestLearnerChallengeDates(t *testing.T) {
	l := &Learner{}

	require.True(t, l.AddCompletedChallenge("2025-07-05"))
	assert.True(t, l.HasCompletedChallenge("2025-07-05"))
	assert.False(t, l.HasCompletedChallenge("2025-07-06"))
	assert.Equal(t, []string{"2025-07-05"}, l.CompletedChallengeDates())
}
