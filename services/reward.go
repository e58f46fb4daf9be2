package services

import (
	"math"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/pyquest-hq/pyquest_api/dto"
	"github.com/pyquest-hq/pyquest_api/model"
	"github.com/pyquest-hq/pyquest_api/shared"
)

// RewardService converts completion events into XP/coin deltas and level
// transitions. It never touches the store itself: Apply mutates the learner
// document the caller holds inside an open WithLearner transaction, and
// re-checks the idempotency ledger there so a duplicate event can never
// double-award between check and apply.
type RewardService struct {
	context.DefaultService

	levelDivisor       int
	blockXPReward      int
	blockCoinReward    int
	subtopicXPReward   int
	subtopicCoinReward int
}

const REWARD_SVC = "reward_svc"

const (
	defaultLevelDivisor       = 100
	defaultBlockXPReward      = 10
	defaultBlockCoinReward    = 5
	defaultSubtopicXPReward   = 25
	defaultSubtopicCoinReward = 10
)

func (svc RewardService) Id() string {
	return REWARD_SVC
}

func (svc *RewardService) Configure(ctx *context.Context) error {
	svc.levelDivisor = envInt("XP_LEVEL_DIVISOR", defaultLevelDivisor)
	svc.blockXPReward = envInt("BLOCK_XP_REWARD", defaultBlockXPReward)
	svc.blockCoinReward = envInt("BLOCK_COIN_REWARD", defaultBlockCoinReward)
	svc.subtopicXPReward = envInt("SUBTOPIC_XP_REWARD", defaultSubtopicXPReward)
	svc.subtopicCoinReward = envInt("SUBTOPIC_COIN_REWARD", defaultSubtopicCoinReward)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RewardService) Start() error {
	return nil
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

// LevelFromXP is the only source of truth for levels. Required XP grows
// quadratically, so level is always recomputable from xp alone.
func (svc *RewardService) LevelFromXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(xp)/float64(svc.levelDivisor))) + 1
}

// XPForLevel returns the minimum total XP at which the given level starts.
func (svc *RewardService) XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * (level - 1) * svc.levelDivisor
}

func (svc *RewardService) XPToNextLevel(xp int) int {
	return svc.XPForLevel(svc.LevelFromXP(xp)+1) - xp
}

func (svc *RewardService) eventRewards(ev model.CompletionEvent) (xp, coins int) {
	switch ev.TargetKind {
	case shared.TargetKindBlock:
		return svc.blockXPReward, svc.blockCoinReward
	case shared.TargetKindSubtopic:
		return svc.subtopicXPReward, svc.subtopicCoinReward
	default:
		// Lessons and daily challenges carry their own reward metadata.
		return ev.XPReward, ev.CoinReward
	}
}

func alreadyRewarded(l *model.Learner, ev model.CompletionEvent) bool {
	switch ev.TargetKind {
	case shared.TargetKindBlock:
		return l.HasCompletedBlock(ev.TargetID)
	case shared.TargetKindSubtopic:
		return l.HasCompletedSubtopic(ev.TargetID)
	case shared.TargetKindLesson:
		return l.HasCompletedLesson(ev.TargetID)
	case shared.TargetKindDailyChallenge:
		// Challenge events carry the active date as target id.
		return l.HasCompletedChallenge(ev.TargetID)
	}
	return true
}

func recordInLedger(l *model.Learner, ev model.CompletionEvent) {
	switch ev.TargetKind {
	case shared.TargetKindBlock:
		l.AddCompletedBlock(ev.TargetID)
	case shared.TargetKindSubtopic:
		l.AddCompletedSubtopic(ev.TargetID)
	case shared.TargetKindLesson:
		l.AddCompletedLesson(ev.TargetID)
	case shared.TargetKindDailyChallenge:
		l.AddCompletedChallenge(ev.TargetID)
	}
}

// Apply awards the event exactly once. The membership re-check and the ledger
// insert happen on the same learner snapshot the enclosing transaction will
// compare-and-swap, closing the race window between check and apply. A
// duplicate event returns zero deltas and no level transition.
func (svc *RewardService) Apply(l *model.Learner, ev model.CompletionEvent) dto.RewardResult {
	levelBefore := svc.LevelFromXP(l.XP)

	if alreadyRewarded(l, ev) {
		return dto.RewardResult{LevelBefore: levelBefore, LevelAfter: levelBefore}
	}

	xp, coins := svc.eventRewards(ev)
	recordInLedger(l, ev)

	l.XP += xp
	l.Coins += coins
	l.Level = svc.LevelFromXP(l.XP)

	rewardsXPTotal.Add(float64(xp))
	rewardsCoinsTotal.Add(float64(coins))

	if l.Level > levelBefore {
		log.WithFields(log.Fields{
			"learner_id": ev.LearnerID,
			"level":      l.Level,
		}).Info("Learner leveled up")
	}

	return dto.RewardResult{
		XPDelta:     xp,
		CoinDelta:   coins,
		LevelBefore: levelBefore,
		LevelAfter:  l.Level,
	}
}
