package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pyquest-hq/pyquest_api/model"
	"github.com/pyquest-hq/pyquest_api/shared"
)

// SqlService owns the document store. Learner, Lesson and DailyChallenge
// records live here; all learner mutations go through WithLearner so that
// membership checks and reward mutations share one atomic compare-and-swap.
type SqlService struct {
	context.DefaultService
	db *gorm.DB

	driver   string
	database string
}

const SQL_SVC = "sql_svc"

// Bounded retry budget for optimistic learner transactions.
const (
	learnerTxAttempts = 5
	learnerTxBackoff  = 20 * time.Millisecond
)

func (ds SqlService) Id() string {
	return SQL_SVC
}

// Db Access to raw SqlService db
func (ds SqlService) Db() *gorm.DB {
	return ds.db
}

func (ds *SqlService) Configure(ctx *context.Context) error {
	ds.driver = os.Getenv("DB_DRIVER")
	if ds.driver == "" {
		ds.driver = "sqlite"
	}

	ds.database = os.Getenv("DB_DATABASE")
	if ds.database == "" {
		ds.database = "pyquest.db"
	}

	return ds.DefaultService.Configure(ctx)
}

// Start opens the configured backend and migrates any tables that have
// changed since last runtime.
func (ds *SqlService) Start() (err error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	}

	switch ds.driver {
	case "postgres":
		ds.db, err = gorm.Open(postgres.Open(ds.database), cfg)
	case "sqlite":
		ds.db, err = gorm.Open(sqlite.Open(ds.database), cfg)
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", ds.driver)
	}
	if err != nil {
		return err
	}

	models := []interface{}{
		&model.Learner{},
		&model.Lesson{},
		&model.DailyChallenge{},
	}

	if err = ds.db.AutoMigrate(models...); err != nil {
		log.WithError(err).Error("Failed to migrate database")
		return err
	}

	log.WithField("driver", ds.driver).Info("Database connected and migrated")
	return nil
}

func (ds *SqlService) Shutdown() {
}

// ==================== LEARNER ====================

func (ds *SqlService) GetLearner(learnerID string) (*model.Learner, error) {
	var learner model.Learner
	if err := ds.db.First(&learner, "id = ?", learnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Learner not found")
		}
		return nil, ds.HandleError(err)
	}
	return &learner, nil
}

// GetOrCreateLearner creates the learner record with default zeros on first
// interaction. Lost create races fall back to the winner's row.
func (ds *SqlService) GetOrCreateLearner(learnerID string) (*model.Learner, error) {
	var learner model.Learner
	err := ds.db.First(&learner, "id = ?", learnerID).Error
	if err == nil {
		return &learner, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ds.HandleError(err)
	}

	username := learnerID
	if len(username) > 8 {
		username = username[:8]
	}

	learner = model.Learner{
		ID:                  learnerID,
		Username:            "learner_" + username,
		XP:                  0,
		Level:               1,
		Coins:               0,
		Streak:              0,
		CompletedBlocks:     json.RawMessage("[]"),
		CompletedSubtopics:  json.RawMessage("[]"),
		CompletedLessons:    json.RawMessage("[]"),
		CompletedChallenges: json.RawMessage("[]"),
		Achievements:        json.RawMessage("[]"),
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	if createErr := ds.db.Create(&learner).Error; createErr != nil {
		if err := ds.db.First(&learner, "id = ?", learnerID).Error; err == nil {
			return &learner, nil
		}
		return nil, ds.HandleError(createErr)
	}

	return &learner, nil
}

// WithLearner runs fn against the learner record as a single optimistic
// read-modify-write. The row version guards the compare-and-swap; on conflict
// the whole fn is retried against fresh state, so membership checks inside fn
// always see the latest ledger. Exhausting the retry budget surfaces a
// CONTENTION error for client-side retry.
func (ds *SqlService) WithLearner(learnerID string, fn func(l *model.Learner) error) (*model.Learner, error) {
	backoff := learnerTxBackoff

	for attempt := 0; attempt < learnerTxAttempts; attempt++ {
		learner, err := ds.GetOrCreateLearner(learnerID)
		if err != nil {
			return nil, err
		}

		version := learner.Version
		if err := fn(learner); err != nil {
			return nil, err
		}

		learner.Version = version + 1
		learner.UpdatedAt = time.Now()

		res := ds.db.Model(&model.Learner{}).
			Where("id = ? AND version = ?", learnerID, version).
			Select("*").
			Updates(learner)
		if res.Error != nil {
			return nil, ds.HandleError(res.Error)
		}
		if res.RowsAffected == 1 {
			return learner, nil
		}

		txConflictsTotal.Inc()
		log.WithFields(log.Fields{
			"learner_id": learnerID,
			"attempt":    attempt + 1,
		}).Warn("Learner update conflicted, retrying")

		time.Sleep(backoff)
		backoff *= 2
	}

	return nil, shared.NewContentionError(
		fmt.Errorf("learner %s: %d conflicting updates", learnerID, learnerTxAttempts),
		"Too many concurrent updates, please retry")
}

// ==================== LESSONS ====================

func (ds *SqlService) GetLesson(lessonID string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := ds.db.First(&lesson, "id = ? AND is_active = ?", lessonID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Lesson not found")
		}
		return nil, ds.HandleError(err)
	}
	return &lesson, nil
}

func (ds *SqlService) GetLessons() ([]model.Lesson, error) {
	var lessons []model.Lesson
	if err := ds.db.Where("is_active = ?", true).Order(`"order" ASC`).Find(&lessons).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return lessons, nil
}

func (ds *SqlService) CreateLesson(lesson *model.Lesson) error {
	if err := ds.db.Create(lesson).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// ==================== DAILY CHALLENGES ====================

func (ds *SqlService) GetChallenge(challengeID string) (*model.DailyChallenge, error) {
	var challenge model.DailyChallenge
	if err := ds.db.First(&challenge, "id = ?", challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Challenge not found")
		}
		return nil, ds.HandleError(err)
	}
	return &challenge, nil
}

// GetChallengeByDate is the single-key read for "today's challenge".
func (ds *SqlService) GetChallengeByDate(date string) (*model.DailyChallenge, error) {
	var challenge model.DailyChallenge
	if err := ds.db.First(&challenge, "active_date = ?", date).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNoChallengeScheduledError(err, "No challenge scheduled for "+date)
		}
		return nil, ds.HandleError(err)
	}
	return &challenge, nil
}

func (ds *SqlService) CreateChallenge(challenge *model.DailyChallenge) error {
	if err := ds.db.Create(challenge).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewConflictError(err, "A challenge is already scheduled for "+challenge.ActiveDate)
		}
		return ds.HandleError(err)
	}
	return nil
}

// ==================== LEADERBOARD ====================

// GetTopLearners orders by xp desc, then level desc, then id asc so the
// ranking is a deterministic total order.
func (ds *SqlService) GetTopLearners(limit int) ([]model.Learner, error) {
	var learners []model.Learner
	err := ds.db.
		Order("xp DESC").
		Order("level DESC").
		Order("id ASC").
		Limit(limit).
		Find(&learners).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return learners, nil
}

// GetLearnerRank returns the 1-based rank of the learner under the same total
// order as GetTopLearners.
func (ds *SqlService) GetLearnerRank(l *model.Learner) (int, error) {
	var ahead int64
	err := ds.db.Model(&model.Learner{}).
		Where("xp > ? OR (xp = ? AND level > ?) OR (xp = ? AND level = ? AND id < ?)",
			l.XP, l.XP, l.Level, l.XP, l.Level, l.ID).
		Count(&ahead).Error
	if err != nil {
		return 0, ds.HandleError(err)
	}
	return int(ahead) + 1, nil
}

func (ds *SqlService) CountLearners() (int, error) {
	var total int64
	if err := ds.db.Model(&model.Learner{}).Count(&total).Error; err != nil {
		return 0, ds.HandleError(err)
	}
	return int(total), nil
}

// ==================== ERROR MAPPING ====================

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func (ds *SqlService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		if isUniqueViolation(err) {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}
