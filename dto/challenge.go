package dto

import "encoding/json"

// Daily challenge DTOs
type ChallengeResponse struct {
	ID             string          `json:"id"`
	ActiveDate     string          `json:"active_date"`
	ExpirationDate string          `json:"expiration_date,omitempty"`
	XPReward       int             `json:"xp_reward"`
	CoinReward     int             `json:"coin_reward"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Completed      bool            `json:"completed"`
}

type CompleteChallengeRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
}

func (r CompleteChallengeRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CompleteChallengeResponse struct {
	ChallengeID     string `json:"challenge_id"`
	ActiveDate      string `json:"active_date"`
	AlreadyComplete bool   `json:"already_complete"`
	XPGained        int    `json:"xp_gained"`
	CoinsGained     int    `json:"coins_gained"`
	Level           int    `json:"level"`
	LeveledUp       bool   `json:"leveled_up"`
	Streak          int    `json:"streak"`
}

type ScheduleChallengeRequest struct {
	ActiveDate     string          `json:"active_date" validate:"required,datetime=2006-01-02"`
	ExpirationDate string          `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	XPReward       int             `json:"xp_reward" validate:"omitempty,min=0"`
	CoinReward     int             `json:"coin_reward" validate:"omitempty,min=0"`
	Payload        json.RawMessage `json:"payload"`
}

func (r ScheduleChallengeRequest) Validate() error {
	return GetValidator().Struct(r)
}
