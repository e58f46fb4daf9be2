// seeders/challenge_seeder.go
package seeders

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/pyquest-hq/pyquest_api/model"
	"github.com/pyquest-hq/pyquest_api/shared"
)

// ChallengeSeeder schedules a week of daily challenges starting today
type ChallengeSeeder struct {
	db *gorm.DB
}

func NewChallengeSeeder(db *gorm.DB) *ChallengeSeeder {
	return &ChallengeSeeder{db: db}
}

func (s *ChallengeSeeder) SeedChallenges() error {
	now := time.Now().UTC()

	prompts := []string{
		"Reverse a string without using slicing.",
		"Sum all even numbers in a list.",
		"Count vowels in a sentence.",
		"Find the largest value in a dict.",
		"Flatten a list of lists one level deep.",
		"Check whether a word is a palindrome.",
		"Deduplicate a list while preserving order.",
	}

	for i, prompt := range prompts {
		day := now.AddDate(0, 0, i)
		activeDate := day.Format(shared.DateLayout)
		expiration := day.AddDate(0, 0, 1).Format(shared.DateLayout)

		var existing model.DailyChallenge
		err := s.db.Where("active_date = ?", activeDate).First(&existing).Error
		if err == nil {
			log.Printf("Challenge for %s already exists, skipping", activeDate)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		challenge := model.DailyChallenge{
			ID:             fmt.Sprintf("challenge_%s", activeDate),
			ActiveDate:     activeDate,
			ExpirationDate: expiration,
			XPReward:       100,
			CoinReward:     40,
			Payload:        mustJSON(map[string]string{"prompt": prompt}),
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := s.db.Create(&challenge).Error; err != nil {
			log.Printf("Error creating challenge for %s: %v", activeDate, err)
			return err
		}
		log.Printf("Scheduled challenge for %s", activeDate)
	}

	log.Println("Challenge seeding completed successfully")
	return nil
}
