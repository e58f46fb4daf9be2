package dto

// Progress DTOs
type CompleteBlockRequest struct {
	LessonID string `json:"lesson_id" validate:"required"`
	BlockID  string `json:"block_id" validate:"required"`
	// Pass/fail signal from the external grading sandbox for interactive
	// blocks. The engine only trusts it, it never grades.
	Passed *bool `json:"passed,omitempty"`
}

func (r CompleteBlockRequest) Validate() error {
	return GetValidator().Struct(r)
}

type RewardResult struct {
	XPDelta     int `json:"xp_delta"`
	CoinDelta   int `json:"coin_delta"`
	LevelBefore int `json:"level_before"`
	LevelAfter  int `json:"level_after"`
}

func (r RewardResult) LeveledUp() bool {
	return r.LevelAfter > r.LevelBefore
}

type CompleteBlockResponse struct {
	NewlyCompletedBlock    bool     `json:"newly_completed_block"`
	NewlyCompletedSubtopic string   `json:"newly_completed_subtopic,omitempty"`
	NewlyCompletedLesson   bool     `json:"newly_completed_lesson"`
	XPGained               int      `json:"xp_gained"`
	CoinsGained            int      `json:"coins_gained"`
	Level                  int      `json:"level"`
	LeveledUp              bool     `json:"leveled_up"`
	Streak                 int      `json:"streak"`
	NewAchievements        []string `json:"new_achievements,omitempty"`
}

type LearnerProgressResponse struct {
	LearnerID          string   `json:"learner_id"`
	Username           string   `json:"username"`
	XP                 int      `json:"xp"`
	Level              int      `json:"level"`
	XPToNextLevel      int      `json:"xp_to_next_level"`
	Coins              int      `json:"coins"`
	Streak             int      `json:"streak"`
	LastActiveDate     string   `json:"last_active_date,omitempty"`
	CompletedBlocks    []string `json:"completed_blocks"`
	CompletedSubtopics []string `json:"completed_subtopics"`
	CompletedLessons   []string `json:"completed_lessons"`
	Achievements       []string `json:"achievements"`
}
