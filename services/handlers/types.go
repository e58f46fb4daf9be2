package handlers

import (
	"github.com/pyquest-hq/pyquest_api/dto"
)

type ContentServiceInterface interface {
	GetLessons() (*dto.LessonCollectionResponse, error)
	GetLessonContent(lessonID string) (*dto.LessonResponse, error)
	CreateLessonFromRequest(req dto.CreateLessonRequest) (*dto.LessonResponse, error)
}

type ProgressServiceInterface interface {
	RecordCompletion(learnerID, lessonID, blockID string) (*dto.CompleteBlockResponse, error)
	GetProgress(learnerID string) (*dto.LearnerProgressResponse, error)
}

type ChallengeServiceInterface interface {
	GetActiveChallenge(learnerID string) (*dto.ChallengeResponse, error)
	CompleteChallenge(learnerID, challengeID string) (*dto.CompleteChallengeResponse, error)
	ScheduleChallenge(req dto.ScheduleChallengeRequest) (*dto.ChallengeResponse, error)
}

type LeaderboardServiceInterface interface {
	TopN(limit int, learnerID string) (*dto.LeaderboardResponse, error)
	GetLearnerRank(learnerID string) (*dto.LeaderboardEntry, error)
}
