package seeders

import (
	"log"

	"gorm.io/gorm"

	"github.com/pyquest-hq/pyquest_api/model"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.migrate(); err != nil {
		return err
	}

	lessonSeeder := NewLessonSeeder(s.db)
	if err := lessonSeeder.SeedLessons(); err != nil {
		log.Printf("Lesson seeding failed: %v", err)
		return err
	}

	challengeSeeder := NewChallengeSeeder(s.db)
	if err := challengeSeeder.SeedChallenges(); err != nil {
		log.Printf("Challenge seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) SeedLessonsOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	return NewLessonSeeder(s.db).SeedLessons()
}

func (s *MainSeeder) SeedChallengesOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	return NewChallengeSeeder(s.db).SeedChallenges()
}

func (s *MainSeeder) migrate() error {
	return s.db.AutoMigrate(
		&model.Learner{},
		&model.Lesson{},
		&model.DailyChallenge{},
	)
}
