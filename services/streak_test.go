package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyquest-hq/pyquest_api/model"
)

func newTestStreakService() *StreakService {
	return &StreakService{loc: time.UTC}
}

func day(t *testing.T, date string) time.Time {
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return parsed.Add(12 * time.Hour)
}

func TestStreakFirstActivity(t *testing.T) {
	svc := newTestStreakService()
	l := &model.Learner{ID: "learner_1"}

	svc.RecordActivity(l, day(t, "2025-07-01"))

	assert.Equal(t, 1, l.Streak)
	assert.Equal(t, "2025-07-01", l.LastActiveDate)
}

func TestStreakConsecutiveDays(t *testing.T) {
	svc := newTestStreakService()
	l := &model.Learner{ID: "learner_1"}

	svc.RecordActivity(l, day(t, "2025-07-01"))
	svc.RecordActivity(l, day(t, "2025-07-02"))
	svc.RecordActivity(l, day(t, "2025-07-03"))

	assert.Equal(t, 3, l.Streak)
	assert.Equal(t, "2025-07-03", l.LastActiveDate)
}

func TestStreakSameDayNoOp(t *testing.T) {
	svc := newTestStreakService()
	l := &model.Learner{ID: "learner_1"}

	svc.RecordActivity(l, day(t, "2025-07-01"))
	svc.RecordActivity(l, day(t, "2025-07-01").Add(3*time.Hour))

	assert.Equal(t, 1, l.Streak)
}

func TestStreakGapResets(t *testing.T) {
	svc := newTestStreakService()
	l := &model.Learner{ID: "learner_1"}

	svc.RecordActivity(l, day(t, "2025-07-01"))
	svc.RecordActivity(l, day(t, "2025-07-02"))
	svc.RecordActivity(l, day(t, "2025-07-05"))

	assert.Equal(t, 1, l.Streak, "a missed day resets the streak, it does not zero it")
	assert.Equal(t, "2025-07-05", l.LastActiveDate)
}

func TestStreakOutOfOrderIgnored(t *testing.T) {
	svc := newTestStreakService()
	l := &model.Learner{ID: "learner_1"}

	svc.RecordActivity(l, day(t, "2025-07-03"))
	svc.RecordActivity(l, day(t, "2025-07-01"))

	assert.Equal(t, 1, l.Streak)
	assert.Equal(t, "2025-07-03", l.LastActiveDate, "last active date only moves forward")
}

func TestStreakMilestoneAchievements(t *testing.T) {
	svc := newTestStreakService()
	l := &model.Learner{ID: "learner_1", Streak: 6, LastActiveDate: "2025-07-06"}

	granted := svc.RecordActivity(l, day(t, "2025-07-07"))

	assert.Equal(t, 7, l.Streak)
	assert.Equal(t, []string{"streak_7"}, granted)
	assert.True(t, l.HasAchievement("streak_7"))
}

func TestStreakMilestoneGrantedOnce(t *testing.T) {
	svc := newTestStreakService()
	l := &model.Learner{ID: "learner_1", Streak: 6, LastActiveDate: "2025-07-06"}
	require.True(t, l.AddAchievement("streak_7"))

	granted := svc.RecordActivity(l, day(t, "2025-07-07"))

	assert.Equal(t, 7, l.Streak)
	assert.Empty(t, granted, "a previously earned milestone is not granted again")
}

func TestDayDiffAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	svc := &StreakService{loc: loc}

	// 2025-03-09 is the US spring-forward date: a 23-hour day.
	diff, ok := svc.dayDiff("2025-03-08", "2025-03-09")
	require.True(t, ok)
	assert.Equal(t, 1, diff)
}
