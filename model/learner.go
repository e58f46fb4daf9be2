package model

import (
	"encoding/json"
	"time"
)

// Learner holds all per-learner gamification state. The completed-* JSON sets
// double as the idempotency ledger: a reward is applied once per member, ever.
type Learner struct {
	ID                  string          `json:"id" gorm:"primaryKey"`
	Username            string          `json:"username" gorm:"not null"`
	XP                  int             `json:"xp" gorm:"default:0"`
	Level               int             `json:"level" gorm:"default:1"`
	Coins               int             `json:"coins" gorm:"default:0"`
	Streak              int             `json:"streak" gorm:"default:0"`
	LastActiveDate      string          `json:"last_active_date"` // calendar date, engine timezone
	CompletedBlocks     json.RawMessage `json:"completed_blocks" gorm:"type:text"`
	CompletedSubtopics  json.RawMessage `json:"completed_subtopics" gorm:"type:text"`
	CompletedLessons    json.RawMessage `json:"completed_lessons" gorm:"type:text"`
	CompletedChallenges json.RawMessage `json:"completed_challenges" gorm:"type:text"` // set of dates
	Achievements        json.RawMessage `json:"achievements" gorm:"type:text"`
	Version             int64           `json:"-" gorm:"default:0"` // optimistic concurrency token
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func decodeSet(raw json.RawMessage) []string {
	var ids []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ids); err != nil {
			return []string{}
		}
	}
	return ids
}

func encodeSet(ids []string) json.RawMessage {
	b, err := json.Marshal(ids)
	if err != nil {
		return json.RawMessage("[]")
	}
	return b
}

func setContains(raw json.RawMessage, id string) bool {
	for _, member := range decodeSet(raw) {
		if member == id {
			return true
		}
	}
	return false
}

// setAdd appends id and reports whether the set grew.
func setAdd(raw json.RawMessage, id string) (json.RawMessage, bool) {
	ids := decodeSet(raw)
	for _, member := range ids {
		if member == id {
			return raw, false
		}
	}
	return encodeSet(append(ids, id)), true
}

func (l *Learner) HasCompletedBlock(blockID string) bool {
	return setContains(l.CompletedBlocks, blockID)
}

func (l *Learner) HasCompletedSubtopic(subtopicID string) bool {
	return setContains(l.CompletedSubtopics, subtopicID)
}

func (l *Learner) HasCompletedLesson(lessonID string) bool {
	return setContains(l.CompletedLessons, lessonID)
}

func (l *Learner) HasCompletedChallenge(date string) bool {
	return setContains(l.CompletedChallenges, date)
}

func (l *Learner) HasAchievement(achievementID string) bool {
	return setContains(l.Achievements, achievementID)
}

// AddCompletedBlock records blockID and reports whether this is a new
// completion. False means the event was a duplicate and must not reward.
func (l *Learner) AddCompletedBlock(blockID string) bool {
	raw, added := setAdd(l.CompletedBlocks, blockID)
	l.CompletedBlocks = raw
	return added
}

func (l *Learner) AddCompletedSubtopic(subtopicID string) bool {
	raw, added := setAdd(l.CompletedSubtopics, subtopicID)
	l.CompletedSubtopics = raw
	return added
}

func (l *Learner) AddCompletedLesson(lessonID string) bool {
	raw, added := setAdd(l.CompletedLessons, lessonID)
	l.CompletedLessons = raw
	return added
}

func (l *Learner) AddCompletedChallenge(date string) bool {
	raw, added := setAdd(l.CompletedChallenges, date)
	l.CompletedChallenges = raw
	return added
}

func (l *Learner) AddAchievement(achievementID string) bool {
	raw, added := setAdd(l.Achievements, achievementID)
	l.Achievements = raw
	return added
}

func (l *Learner) CompletedBlockIDs() []string {
	return decodeSet(l.CompletedBlocks)
}

func (l *Learner) CompletedSubtopicIDs() []string {
	return decodeSet(l.CompletedSubtopics)
}

func (l *Learner) CompletedLessonIDs() []string {
	return decodeSet(l.CompletedLessons)
}

func (l *Learner) CompletedChallengeDates() []string {
	return decodeSet(l.CompletedChallenges)
}

func (l *Learner) AchievementIDs() []string {
	return decodeSet(l.Achievements)
}
