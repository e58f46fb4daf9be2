package dto

import "encoding/json"

// Content DTOs
type SubtopicResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

type BlockResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	Order         int             `json:"order"`
	SubtopicIndex int             `json:"subtopic_index"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

type LessonResponse struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Order      int                `json:"order"`
	Subtopics  []SubtopicResponse `json:"subtopics"`
	Blocks     []BlockResponse    `json:"blocks"`
	XPReward   int                `json:"xp_reward"`
	CoinReward int                `json:"coin_reward"`
}

type LessonCollectionResponse struct {
	Lessons []LessonResponse `json:"lessons"`
	Total   int              `json:"total"`
}

type CreateBlockRequest struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind" validate:"required,oneof=text code_example interactive_challenge quiz"`
	Order         int             `json:"order"`
	SubtopicIndex int             `json:"subtopic_index"`
	Payload       json.RawMessage `json:"payload"`
}

type CreateSubtopicRequest struct {
	ID    string `json:"id"`
	Title string `json:"title" validate:"required"`
	Order int    `json:"order"`
}

type CreateLessonRequest struct {
	Title      string                  `json:"title" validate:"required"`
	Order      int                     `json:"order"`
	Subtopics  []CreateSubtopicRequest `json:"subtopics" validate:"dive"`
	Blocks     []CreateBlockRequest    `json:"blocks" validate:"required,min=1,dive"`
	XPReward   int                     `json:"xp_reward" validate:"omitempty,min=0"`
	CoinReward int                     `json:"coin_reward" validate:"omitempty,min=0"`
}

func (r CreateLessonRequest) Validate() error {
	return GetValidator().Struct(r)
}
