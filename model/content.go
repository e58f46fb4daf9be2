// model/content.go
package model

import (
	"encoding/json"
	"time"
)

// Lesson is the unit of learning content. Subtopics and Blocks are stored as
// JSON arrays; the engine treats lesson structure as read-only.
type Lesson struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	Title      string          `json:"title" gorm:"not null"`
	Order      int             `json:"order" gorm:"not null"`
	Subtopics  json.RawMessage `json:"subtopics" gorm:"type:text"`
	Blocks     json.RawMessage `json:"blocks" gorm:"type:text"`
	XPReward   int             `json:"xp_reward" gorm:"default:50"`
	CoinReward int             `json:"coin_reward" gorm:"default:20"`
	IsActive   bool            `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Subtopic is an ordered grouping of blocks within a lesson.
type Subtopic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// Block is the smallest addressable unit of lesson content. SubtopicIndex of
// -1 means the block belongs to no subtopic (lessons without subtopic
// partitioning are a valid mode). Payload is opaque to the progress engine.
type Block struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"` // text, code_example, interactive_challenge, quiz
	Order         int             `json:"order"`
	SubtopicIndex int             `json:"subtopic_index"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// DailyChallenge activates for exactly one calendar date. ActiveDate is
// unique across the schedule so "today's challenge" is a single-key read.
type DailyChallenge struct {
	ID             string          `json:"id" gorm:"primaryKey"`
	ActiveDate     string          `json:"active_date" gorm:"uniqueIndex;not null"`
	ExpirationDate string          `json:"expiration_date"` // exclusive
	XPReward       int             `json:"xp_reward" gorm:"default:100"`
	CoinReward     int             `json:"coin_reward" gorm:"default:40"`
	Payload        json.RawMessage `json:"payload" gorm:"type:text"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LessonStructure is the parsed, validated view of a lesson the Content Index
// hands to the Progress Tracker.
type LessonStructure struct {
	LessonID   string
	Title      string
	XPReward   int
	CoinReward int
	Subtopics  []Subtopic
	Blocks     []Block
}

func (s *LessonStructure) Block(blockID string) (Block, bool) {
	for _, b := range s.Blocks {
		if b.ID == blockID {
			return b, true
		}
	}
	return Block{}, false
}

func (s *LessonStructure) Subtopic(index int) (Subtopic, bool) {
	if index < 0 || index >= len(s.Subtopics) {
		return Subtopic{}, false
	}
	return s.Subtopics[index], true
}

// BlocksInSubtopic returns the block ids assigned to the subtopic at index.
func (s *LessonStructure) BlocksInSubtopic(index int) []string {
	var ids []string
	for _, b := range s.Blocks {
		if b.SubtopicIndex == index {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

func (s *LessonStructure) BlockIDs() []string {
	ids := make([]string, len(s.Blocks))
	for i, b := range s.Blocks {
		ids[i] = b.ID
	}
	return ids
}

func (s *LessonStructure) HasSubtopics() bool {
	return len(s.Subtopics) > 0
}

func (s *LessonStructure) SubtopicIDs() []string {
	ids := make([]string, len(s.Subtopics))
	for i, st := range s.Subtopics {
		ids[i] = st.ID
	}
	return ids
}
