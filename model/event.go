package model

import (
	"fmt"
	"time"
)

// CompletionEvent is the transient message the Progress Tracker and the Daily
// Challenge Scheduler emit towards the Reward Engine. It is never persisted;
// the learner's membership sets are the durable idempotency ledger.
type CompletionEvent struct {
	LearnerID  string
	TargetKind string // block, subtopic, lesson, daily_challenge
	TargetID   string
	XPReward   int
	CoinReward int
	Timestamp  time.Time
}

// IdempotencyKey is derived deterministically so repeated submissions of the
// same event collapse to one effect.
func (e CompletionEvent) IdempotencyKey() string {
	return fmt.Sprintf("%s:%s:%s", e.LearnerID, e.TargetKind, e.TargetID)
}
