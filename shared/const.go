package shared

const (
	LearnerID = "learner_id"

	BlockKindText                 = "text"
	BlockKindCodeExample          = "code_example"
	BlockKindInteractiveChallenge = "interactive_challenge"
	BlockKindQuiz                 = "quiz"

	TargetKindBlock          = "block"
	TargetKindSubtopic       = "subtopic"
	TargetKindLesson         = "lesson"
	TargetKindDailyChallenge = "daily_challenge"

	// Calendar dates are exchanged and persisted in this layout.
	DateLayout = "2006-01-02"
)
