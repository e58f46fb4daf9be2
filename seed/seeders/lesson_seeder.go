// seeders/lesson_seeder.go
package seeders

import (
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/pyquest-hq/pyquest_api/model"
	"github.com/pyquest-hq/pyquest_api/shared"
)

// LessonSeeder seeds an introductory Python course
type LessonSeeder struct {
	db *gorm.DB
}

func NewLessonSeeder(db *gorm.DB) *LessonSeeder {
	return &LessonSeeder{db: db}
}

func (s *LessonSeeder) SeedLessons() error {
	lessons := s.getCourseLessons()

	for _, lesson := range lessons {
		var existingLesson model.Lesson
		if err := s.db.Where("id = ?", lesson.ID).First(&existingLesson).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&lesson).Error; err != nil {
					log.Printf("Error creating lesson %s: %v", lesson.Title, err)
					return err
				}
				log.Printf("Created lesson: %s", lesson.Title)
			} else {
				log.Printf("Error checking lesson %s: %v", lesson.Title, err)
				return err
			}
		} else {
			log.Printf("Lesson %s already exists, skipping", lesson.Title)
		}
	}

	log.Println("Lesson seeding completed successfully")
	return nil
}

func mustJSON(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("Failed to marshal seed data: %v", err)
	}
	return b
}

func textPayload(text string) json.RawMessage {
	return mustJSON(map[string]string{"text": text})
}

func codePayload(code string) json.RawMessage {
	return mustJSON(map[string]string{"language": "python", "code": code})
}

func (s *LessonSeeder) getCourseLessons() []model.Lesson {
	now := time.Now()

	return []model.Lesson{
		{
			ID:    "lesson_py_basics",
			Title: "Python Basics",
			Order: 1,
			Subtopics: mustJSON([]model.Subtopic{
				{ID: "st_variables", Title: "Variables and Types", Order: 1},
				{ID: "st_strings", Title: "Working with Strings", Order: 2},
			}),
			Blocks: mustJSON([]model.Block{
				{ID: "blk_vars_intro", Kind: shared.BlockKindText, Order: 1, SubtopicIndex: 0,
					Payload: textPayload("A variable is a name bound to a value. Python infers the type from the value you assign.")},
				{ID: "blk_vars_example", Kind: shared.BlockKindCodeExample, Order: 2, SubtopicIndex: 0,
					Payload: codePayload("age = 27\nname = \"Ada\"\nprint(f\"{name} is {age}\")")},
				{ID: "blk_vars_quiz", Kind: shared.BlockKindQuiz, Order: 3, SubtopicIndex: 0,
					Payload: mustJSON(map[string]interface{}{
						"question": "What is the type of the value 3.14?",
						"options":  []string{"int", "float", "str", "bool"},
						"answer":   "float",
					})},
				{ID: "blk_str_intro", Kind: shared.BlockKindText, Order: 4, SubtopicIndex: 1,
					Payload: textPayload("Strings are immutable sequences of characters. Slicing and f-strings cover most day-to-day needs.")},
				{ID: "blk_str_challenge", Kind: shared.BlockKindInteractiveChallenge, Order: 5, SubtopicIndex: 1,
					Payload: mustJSON(map[string]interface{}{
						"prompt":  "Write a function shout(s) that returns s upper-cased with an exclamation mark appended.",
						"starter": "def shout(s):\n    ...",
						"tests":   []string{"assert shout('hi') == 'HI!'"},
					})},
			}),
			XPReward:   50,
			CoinReward: 20,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:    "lesson_py_control_flow",
			Title: "Control Flow",
			Order: 2,
			Blocks: mustJSON([]model.Block{
				{ID: "blk_if_intro", Kind: shared.BlockKindText, Order: 1, SubtopicIndex: -1,
					Payload: textPayload("Branching with if/elif/else lets a program react to its inputs.")},
				{ID: "blk_loop_example", Kind: shared.BlockKindCodeExample, Order: 2, SubtopicIndex: -1,
					Payload: codePayload("for n in range(3):\n    print(n)")},
				{ID: "blk_fizzbuzz", Kind: shared.BlockKindInteractiveChallenge, Order: 3, SubtopicIndex: -1,
					Payload: mustJSON(map[string]interface{}{
						"prompt":  "Implement fizzbuzz(n) returning 'Fizz', 'Buzz', 'FizzBuzz' or str(n).",
						"starter": "def fizzbuzz(n):\n    ...",
						"tests":   []string{"assert fizzbuzz(15) == 'FizzBuzz'"},
					})},
			}),
			XPReward:   60,
			CoinReward: 25,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
}
