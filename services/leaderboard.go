// services/leaderboard.go
package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/pyquest-hq/pyquest_api/dto"
	"github.com/pyquest-hq/pyquest_api/shared"
)

// LeaderboardService projects learner XP into a ranked view. The ranking is
// a snapshot, not live truth: top-N pages are cached in Redis for a short
// window, and a learner's own rank is always computed against the store so a
// learner absent from the cached page still sees their position.
type LeaderboardService struct {
	appContext.DefaultService

	sqlSvc    *SqlService
	redisSvc  *RedisService
	rewardSvc *RewardService

	cacheTTL time.Duration
}

const LEADERBOARD_SVC = "leaderboard_svc"

const (
	leaderboardMaxLimit     = 100
	leaderboardDefaultLimit = 10
	leaderboardCacheKey     = "leaderboard:top:%d"
)

func (svc LeaderboardService) Id() string {
	return LEADERBOARD_SVC
}

func (svc *LeaderboardService) Configure(ctx *appContext.Context) error {
	seconds := 30
	if raw := os.Getenv("LEADERBOARD_CACHE_SECONDS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			seconds = v
		}
	}
	svc.cacheTTL = time.Duration(seconds) * time.Second

	return svc.DefaultService.Configure(ctx)
}

func (svc *LeaderboardService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.rewardSvc = svc.Service(REWARD_SVC).(*RewardService)
	return nil
}

// TopN returns the first `limit` entries of the ranking. learnerID, when set,
// attaches that learner's own rank even if they fall outside the page.
func (svc *LeaderboardService) TopN(limit int, learnerID string) (*dto.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = leaderboardDefaultLimit
	}
	if limit > leaderboardMaxLimit {
		limit = leaderboardMaxLimit
	}

	resp, err := svc.topNSnapshot(limit)
	if err != nil {
		return nil, err
	}

	if learnerID != "" {
		entry, err := svc.learnerEntry(learnerID)
		if err != nil {
			if !shared.HasCode(err, shared.CodeNotFound) {
				return nil, err
			}
		} else {
			resp.CurrentUser = entry
		}
	}

	return resp, nil
}

func (svc *LeaderboardService) topNSnapshot(limit int) (*dto.LeaderboardResponse, error) {
	ctx := context.Background()
	key := fmt.Sprintf(leaderboardCacheKey, limit)

	if svc.redisSvc.Enabled() {
		var cached dto.LeaderboardResponse
		if err := svc.redisSvc.GetJSON(ctx, key, &cached); err != nil {
			log.WithError(err).Warn("Leaderboard cache read failed")
		} else if len(cached.Entries) > 0 || cached.RefreshedAt > 0 {
			return &cached, nil
		}
	}

	resp, err := svc.buildTopN(limit)
	if err != nil {
		return nil, err
	}

	if svc.redisSvc.Enabled() {
		if err := svc.redisSvc.Set(ctx, key, resp, svc.cacheTTL); err != nil {
			log.WithError(err).Warn("Leaderboard cache write failed")
		}
	}

	return resp, nil
}

func (svc *LeaderboardService) buildTopN(limit int) (*dto.LeaderboardResponse, error) {
	learners, err := svc.sqlSvc.GetTopLearners(limit)
	if err != nil {
		return nil, err
	}

	total, err := svc.sqlSvc.CountLearners()
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, len(learners))
	for i := range learners {
		entries[i] = dto.LeaderboardEntry{
			Rank:      i + 1,
			LearnerID: learners[i].ID,
			Username:  learners[i].Username,
			XP:        learners[i].XP,
			Level:     svc.rewardSvc.LevelFromXP(learners[i].XP),
		}
	}

	return &dto.LeaderboardResponse{
		Entries:     entries,
		Total:       total,
		RefreshedAt: time.Now().Unix(),
	}, nil
}

// learnerEntry computes a single learner's rank directly against the store.
func (svc *LeaderboardService) learnerEntry(learnerID string) (*dto.LeaderboardEntry, error) {
	learner, err := svc.sqlSvc.GetLearner(learnerID)
	if err != nil {
		return nil, err
	}

	rank, err := svc.sqlSvc.GetLearnerRank(learner)
	if err != nil {
		return nil, err
	}

	return &dto.LeaderboardEntry{
		Rank:      rank,
		LearnerID: learner.ID,
		Username:  learner.Username,
		XP:        learner.XP,
		Level:     svc.rewardSvc.LevelFromXP(learner.XP),
	}, nil
}

// GetLearnerRank exposes the single-learner rank lookup.
func (svc *LeaderboardService) GetLearnerRank(learnerID string) (*dto.LeaderboardEntry, error) {
	return svc.learnerEntry(learnerID)
}
