package dto

// Leaderboard DTOs. Entries are a read-only projection over learner state,
// never persisted truth.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	LearnerID string `json:"learner_id"`
	Username  string `json:"username"`
	XP        int    `json:"xp"`
	Level     int    `json:"level"`
}

type LeaderboardResponse struct {
	Entries     []LeaderboardEntry `json:"entries"`
	Total       int                `json:"total"`
	CurrentUser *LeaderboardEntry  `json:"current_user,omitempty"`
	RefreshedAt int64              `json:"refreshed_at"`
}
