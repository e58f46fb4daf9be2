// services/progress.go
package services

import (
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/pyquest-hq/pyquest_api/dto"
	"github.com/pyquest-hq/pyquest_api/model"
	"github.com/pyquest-hq/pyquest_api/shared"
)

// ProgressService is the per-learner state machine over blocks, subtopics and
// lessons. A block completes on its first accepted event; a subtopic when all
// of its blocks are complete; a lesson when all of its subtopics (or, without
// subtopics, all of its blocks) are complete. Each newly completed scope
// emits exactly one completion event to the Reward Engine and one activity
// signal to the Streak Calculator, all inside a single optimistic learner
// transaction.
type ProgressService struct {
	context.DefaultService

	sqlSvc     *SqlService
	contentSvc *ContentService
	rewardSvc  *RewardService
	streakSvc  *StreakService
}

const PROGRESS_SVC = "progress_svc"

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.rewardSvc = svc.Service(REWARD_SVC).(*RewardService)
	svc.streakSvc = svc.Service(STREAK_SVC).(*StreakService)
	return nil
}

// RecordCompletion accepts a block completion for a learner. Calling it twice
// for the same (learner, block) is a no-op on the second call: no "newly
// completed" flags, no reward, no duplicate events. Unknown blocks fail with
// UNKNOWN_BLOCK.
func (svc *ProgressService) RecordCompletion(learnerID, lessonID, blockID string) (*dto.CompleteBlockResponse, error) {
	structure, err := svc.contentSvc.Resolve(lessonID)
	if err != nil {
		return nil, err
	}

	if _, ok := structure.Block(blockID); !ok {
		return nil, shared.NewUnknownBlockError(
			fmt.Errorf("block %s is not part of lesson %s", blockID, lessonID),
			"Block is not part of the lesson")
	}

	now := time.Now()
	resp := &dto.CompleteBlockResponse{}

	learner, err := svc.sqlSvc.WithLearner(learnerID, func(l *model.Learner) error {
		// Reset per-attempt output; the closure may rerun on CAS conflict
		// against fresher state.
		*resp = dto.CompleteBlockResponse{}

		// Membership check and mutation share this snapshot, so a duplicate
		// request that raced us will re-read the winner's ledger here.
		if l.HasCompletedBlock(blockID) {
			resp.Level = svc.rewardSvc.LevelFromXP(l.XP)
			resp.Streak = l.Streak
			return nil
		}

		events := []model.CompletionEvent{{
			LearnerID:  learnerID,
			TargetKind: shared.TargetKindBlock,
			TargetID:   blockID,
			Timestamp:  now,
		}}
		resp.NewlyCompletedBlock = true

		if subtopic, done := svc.subtopicJustCompleted(structure, l, blockID); done {
			events = append(events, model.CompletionEvent{
				LearnerID:  learnerID,
				TargetKind: shared.TargetKindSubtopic,
				TargetID:   subtopic.ID,
				Timestamp:  now,
			})
			resp.NewlyCompletedSubtopic = subtopic.ID
		}

		if svc.lessonJustCompleted(structure, l, blockID, resp.NewlyCompletedSubtopic) {
			events = append(events, model.CompletionEvent{
				LearnerID:  learnerID,
				TargetKind: shared.TargetKindLesson,
				TargetID:   structure.LessonID,
				XPReward:   structure.XPReward,
				CoinReward: structure.CoinReward,
				Timestamp:  now,
			})
			resp.NewlyCompletedLesson = true
		}

		var levelBefore int
		for i, ev := range events {
			result := svc.rewardSvc.Apply(l, ev)
			if i == 0 {
				levelBefore = result.LevelBefore
			}
			resp.XPGained += result.XPDelta
			resp.CoinsGained += result.CoinDelta
			completionsTotal.WithLabelValues(ev.TargetKind).Inc()
		}

		resp.NewAchievements = svc.streakSvc.RecordActivity(l, now)
		resp.Level = l.Level
		resp.LeveledUp = l.Level > levelBefore
		resp.Streak = l.Streak
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.NewlyCompletedLesson {
		log.WithFields(log.Fields{
			"learner_id": learner.ID,
			"lesson_id":  lessonID,
		}).Info("Lesson completed")
	}

	return resp, nil
}

// subtopicJustCompleted reports whether completing blockID finished its
// subtopic: every other block assigned to that subtopic is in the ledger and
// the subtopic itself is not yet recorded.
func (svc *ProgressService) subtopicJustCompleted(structure *model.LessonStructure, l *model.Learner, blockID string) (model.Subtopic, bool) {
	block, _ := structure.Block(blockID)
	subtopic, ok := structure.Subtopic(block.SubtopicIndex)
	if !ok {
		return model.Subtopic{}, false
	}
	if l.HasCompletedSubtopic(subtopic.ID) {
		return model.Subtopic{}, false
	}

	for _, id := range structure.BlocksInSubtopic(block.SubtopicIndex) {
		// The finishing block is not in the ledger yet; it is recorded when
		// its own event settles.
		if id == blockID {
			continue
		}
		if !l.HasCompletedBlock(id) {
			return model.Subtopic{}, false
		}
	}
	return subtopic, true
}

// lessonJustCompleted evaluates lesson completion against the ledger state
// that already includes the current block (and possibly subtopic) insertions.
func (svc *ProgressService) lessonJustCompleted(structure *model.LessonStructure, l *model.Learner, blockID, newSubtopicID string) bool {
	if l.HasCompletedLesson(structure.LessonID) {
		return false
	}

	if structure.HasSubtopics() {
		for _, id := range structure.SubtopicIDs() {
			if id == newSubtopicID {
				continue
			}
			if !l.HasCompletedSubtopic(id) {
				return false
			}
		}
		return true
	}

	for _, id := range structure.BlockIDs() {
		if id == blockID {
			continue
		}
		if !l.HasCompletedBlock(id) {
			return false
		}
	}
	return true
}

// GetProgress returns the learner's current state, creating the record with
// default zeros on first interaction.
func (svc *ProgressService) GetProgress(learnerID string) (*dto.LearnerProgressResponse, error) {
	learner, err := svc.sqlSvc.GetOrCreateLearner(learnerID)
	if err != nil {
		return nil, err
	}

	return &dto.LearnerProgressResponse{
		LearnerID:          learner.ID,
		Username:           learner.Username,
		XP:                 learner.XP,
		Level:              svc.rewardSvc.LevelFromXP(learner.XP),
		XPToNextLevel:      svc.rewardSvc.XPToNextLevel(learner.XP),
		Coins:              learner.Coins,
		Streak:             learner.Streak,
		LastActiveDate:     learner.LastActiveDate,
		CompletedBlocks:    learner.CompletedBlockIDs(),
		CompletedSubtopics: learner.CompletedSubtopicIDs(),
		CompletedLessons:   learner.CompletedLessonIDs(),
		Achievements:       learner.AchievementIDs(),
	}, nil
}
