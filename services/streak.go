package services

import (
	"math"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/pyquest-hq/pyquest_api/model"
	"github.com/pyquest-hq/pyquest_api/shared"
)

// StreakService maintains the consecutive-day activity count. All date
// comparisons use one configured calendar-day boundary (STREAK_TIMEZONE,
// default UTC) so client-local clocks can't skew streak arithmetic.
type StreakService struct {
	context.DefaultService

	loc *time.Location
}

const STREAK_SVC = "streak_svc"

// Streak milestone achievements, granted when the count first reaches the
// threshold.
var streakMilestones = map[int]string{
	7:   "streak_7",
	30:  "streak_30",
	100: "streak_100",
}

func (svc StreakService) Id() string {
	return STREAK_SVC
}

func (svc *StreakService) Configure(ctx *context.Context) error {
	tz := os.Getenv("STREAK_TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.WithError(err).WithField("timezone", tz).Warn("Invalid STREAK_TIMEZONE, falling back to UTC")
		loc = time.UTC
	}
	svc.loc = loc

	return svc.DefaultService.Configure(ctx)
}

func (svc *StreakService) Start() error {
	return nil
}

// DayOf normalizes a timestamp to the engine's calendar date.
func (svc *StreakService) DayOf(t time.Time) string {
	return t.In(svc.loc).Format(shared.DateLayout)
}

func (svc *StreakService) Today() string {
	return svc.DayOf(time.Now())
}

func (svc *StreakService) dayDiff(from, to string) (int, bool) {
	a, err := time.ParseInLocation(shared.DateLayout, from, svc.loc)
	if err != nil {
		return 0, false
	}
	b, err := time.ParseInLocation(shared.DateLayout, to, svc.loc)
	if err != nil {
		return 0, false
	}
	// Round absorbs DST transitions where a "day" is 23 or 25 hours.
	return int(math.Round(b.Sub(a).Hours() / 24)), true
}

// RecordActivity advances the learner's streak for activity at the given
// time. Same-day repeats are no-ops, the next calendar day increments, a gap
// resets to 1, and out-of-order dates are ignored: last_active_date only
// moves forward. Returns newly earned milestone achievement ids.
func (svc *StreakService) RecordActivity(l *model.Learner, at time.Time) []string {
	day := svc.DayOf(at)

	if l.LastActiveDate == "" {
		l.Streak = 1
		l.LastActiveDate = day
		return svc.grantMilestones(l)
	}

	diff, ok := svc.dayDiff(l.LastActiveDate, day)
	if !ok {
		log.WithField("last_active_date", l.LastActiveDate).Warn("Unparseable last active date, resetting streak")
		l.Streak = 1
		l.LastActiveDate = day
		return svc.grantMilestones(l)
	}

	switch {
	case diff <= 0:
		// Same day, or a backfilled/retried event from the past.
		return nil
	case diff == 1:
		l.Streak++
	default:
		l.Streak = 1
	}

	l.LastActiveDate = day
	return svc.grantMilestones(l)
}

func (svc *StreakService) grantMilestones(l *model.Learner) []string {
	id, ok := streakMilestones[l.Streak]
	if !ok {
		return nil
	}
	if !l.AddAchievement(id) {
		return nil
	}
	return []string{id}
}
