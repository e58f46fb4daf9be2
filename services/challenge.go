// services/challenge.go
package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/pyquest-hq/pyquest_api/dto"
	"github.com/pyquest-hq/pyquest_api/model"
	"github.com/pyquest-hq/pyquest_api/shared"
)

// ChallengeService schedules and settles daily challenges. A challenge is
// active only on its active date (and before its optional exclusive
// expiration date); completion is idempotent per learner per date.
type ChallengeService struct {
	context.DefaultService

	sqlSvc    *SqlService
	rewardSvc *RewardService
	streakSvc *StreakService
}

const CHALLENGE_SVC = "challenge_svc"

func (svc ChallengeService) Id() string {
	return CHALLENGE_SVC
}

func (svc *ChallengeService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ChallengeService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.rewardSvc = svc.Service(REWARD_SVC).(*RewardService)
	svc.streakSvc = svc.Service(STREAK_SVC).(*StreakService)
	return nil
}

// GetActiveChallenge returns the challenge scheduled for today, flagged with
// the learner's completion state. NO_CHALLENGE_SCHEDULED when the date has no
// entry.
func (svc *ChallengeService) GetActiveChallenge(learnerID string) (*dto.ChallengeResponse, error) {
	today := svc.streakSvc.Today()

	challenge, err := svc.sqlSvc.GetChallengeByDate(today)
	if err != nil {
		return nil, err
	}

	completed := false
	if learnerID != "" {
		learner, err := svc.sqlSvc.GetOrCreateLearner(learnerID)
		if err != nil {
			return nil, err
		}
		completed = learner.HasCompletedChallenge(challenge.ActiveDate)
	}

	return &dto.ChallengeResponse{
		ID:             challenge.ID,
		ActiveDate:     challenge.ActiveDate,
		ExpirationDate: challenge.ExpirationDate,
		XPReward:       challenge.XPReward,
		CoinReward:     challenge.CoinReward,
		Payload:        challenge.Payload,
		Completed:      completed,
	}, nil
}

// CompleteChallenge settles a challenge for the learner. Completions outside
// the active window fail with CHALLENGE_NOT_ACTIVE; a repeat completion on the
// same date returns the already-complete state without a second reward.
func (svc *ChallengeService) CompleteChallenge(learnerID, challengeID string) (*dto.CompleteChallengeResponse, error) {
	challenge, err := svc.sqlSvc.GetChallenge(challengeID)
	if err != nil {
		return nil, err
	}

	today := svc.streakSvc.Today()
	if challenge.ActiveDate != today {
		return nil, shared.NewChallengeNotActiveError(
			fmt.Errorf("challenge %s active on %s, today is %s", challengeID, challenge.ActiveDate, today),
			"Challenge is not active today")
	}
	if challenge.ExpirationDate != "" && today >= challenge.ExpirationDate {
		return nil, shared.NewChallengeNotActiveError(
			fmt.Errorf("challenge %s expired on %s", challengeID, challenge.ExpirationDate),
			"Challenge has expired")
	}

	now := time.Now()
	resp := &dto.CompleteChallengeResponse{
		ChallengeID: challenge.ID,
		ActiveDate:  challenge.ActiveDate,
	}

	_, err = svc.sqlSvc.WithLearner(learnerID, func(l *model.Learner) error {
		resp.AlreadyComplete = false
		resp.XPGained = 0
		resp.CoinsGained = 0
		resp.LeveledUp = false

		if l.HasCompletedChallenge(challenge.ActiveDate) {
			resp.AlreadyComplete = true
			resp.Level = svc.rewardSvc.LevelFromXP(l.XP)
			resp.Streak = l.Streak
			return nil
		}

		result := svc.rewardSvc.Apply(l, model.CompletionEvent{
			LearnerID:  learnerID,
			TargetKind: shared.TargetKindDailyChallenge,
			TargetID:   challenge.ActiveDate,
			XPReward:   challenge.XPReward,
			CoinReward: challenge.CoinReward,
			Timestamp:  now,
		})
		svc.streakSvc.RecordActivity(l, now)

		resp.XPGained = result.XPDelta
		resp.CoinsGained = result.CoinDelta
		resp.Level = result.LevelAfter
		resp.LeveledUp = result.LevelAfter > result.LevelBefore
		resp.Streak = l.Streak
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !resp.AlreadyComplete {
		challengeCompletionsTotal.Inc()
		log.WithFields(log.Fields{
			"learner_id":   learnerID,
			"challenge_id": challengeID,
			"active_date":  challenge.ActiveDate,
		}).Info("Challenge completed")
	}

	return resp, nil
}

// ScheduleChallenge registers a challenge for a future (or current) date. One
// challenge per date; duplicates fail with CONFLICT.
func (svc *ChallengeService) ScheduleChallenge(req dto.ScheduleChallengeRequest) (*dto.ChallengeResponse, error) {
	if req.ExpirationDate != "" && req.ExpirationDate <= req.ActiveDate {
		return nil, shared.NewBadRequestError(
			fmt.Errorf("expiration %s not after active date %s", req.ExpirationDate, req.ActiveDate),
			"Expiration date must be after the active date")
	}

	xpReward := req.XPReward
	if xpReward == 0 {
		xpReward = 100
	}
	coinReward := req.CoinReward
	if coinReward == 0 {
		coinReward = 40
	}

	payload := req.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	id, _ := uuid.NewV7()
	challenge := &model.DailyChallenge{
		ID:             id.String(),
		ActiveDate:     req.ActiveDate,
		ExpirationDate: req.ExpirationDate,
		XPReward:       xpReward,
		CoinReward:     coinReward,
		Payload:        payload,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := svc.sqlSvc.CreateChallenge(challenge); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"challenge_id": challenge.ID,
		"active_date":  challenge.ActiveDate,
	}).Info("Challenge scheduled")

	return &dto.ChallengeResponse{
		ID:             challenge.ID,
		ActiveDate:     challenge.ActiveDate,
		ExpirationDate: challenge.ExpirationDate,
		XPReward:       challenge.XPReward,
		CoinReward:     challenge.CoinReward,
		Payload:        challenge.Payload,
	}, nil
}
