// services/content.go
package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/pyquest-hq/pyquest_api/dto"
	"github.com/pyquest-hq/pyquest_api/model"
	"github.com/pyquest-hq/pyquest_api/shared"
)

// ContentService is the read-only Content Index: it resolves lesson ids into
// validated, ordered structure the Progress Tracker can trust. Lesson rows
// are immutable from the engine's perspective, so resolved structures are
// cached in memory.
type ContentService struct {
	context.DefaultService

	sqlSvc *SqlService

	mu    sync.RWMutex
	cache map[string]*model.LessonStructure
}

const CONTENT_SVC = "content_svc"

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *context.Context) error {
	svc.cache = make(map[string]*model.LessonStructure)
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	return nil
}

// Resolve returns the ordered subtopics and blocks of a lesson, failing with
// NOT_FOUND for unknown lessons and INVALID_STATE for malformed structure.
// Malformed structure is a data-integrity fault: logged and surfaced, never
// auto-repaired.
func (svc *ContentService) Resolve(lessonID string) (*model.LessonStructure, error) {
	svc.mu.RLock()
	structure, ok := svc.cache[lessonID]
	svc.mu.RUnlock()
	if ok {
		return structure, nil
	}

	lesson, err := svc.sqlSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	structure, err = svc.parseLesson(lesson)
	if err != nil {
		log.WithError(err).WithField("lesson_id", lessonID).Error("Malformed lesson structure")
		return nil, err
	}

	svc.mu.Lock()
	svc.cache[lessonID] = structure
	svc.mu.Unlock()

	return structure, nil
}

func (svc *ContentService) parseLesson(lesson *model.Lesson) (*model.LessonStructure, error) {
	var subtopics []model.Subtopic
	if len(lesson.Subtopics) > 0 {
		if err := json.Unmarshal(lesson.Subtopics, &subtopics); err != nil {
			return nil, shared.NewInvalidStateError(err, "Lesson subtopics are not decodable")
		}
	}

	var blocks []model.Block
	if len(lesson.Blocks) > 0 {
		if err := json.Unmarshal(lesson.Blocks, &blocks); err != nil {
			return nil, shared.NewInvalidStateError(err, "Lesson blocks are not decodable")
		}
	}

	if err := validateStructure(lesson.ID, subtopics, blocks); err != nil {
		return nil, err
	}

	// SubtopicIndex refers to the authored array. Sorting subtopics by Order
	// changes positions, so block references are remapped to follow their
	// subtopic.
	if len(subtopics) > 0 {
		perm := make([]int, len(subtopics))
		for i := range perm {
			perm[i] = i
		}
		sort.SliceStable(perm, func(i, j int) bool { return subtopics[perm[i]].Order < subtopics[perm[j]].Order })

		ordered := make([]model.Subtopic, len(subtopics))
		newPos := make([]int, len(subtopics))
		for newIdx, oldIdx := range perm {
			ordered[newIdx] = subtopics[oldIdx]
			newPos[oldIdx] = newIdx
		}
		subtopics = ordered

		for i := range blocks {
			if blocks[i].SubtopicIndex >= 0 {
				blocks[i].SubtopicIndex = newPos[blocks[i].SubtopicIndex]
			}
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Order < blocks[j].Order })

	return &model.LessonStructure{
		LessonID:   lesson.ID,
		Title:      lesson.Title,
		XPReward:   lesson.XPReward,
		CoinReward: lesson.CoinReward,
		Subtopics:  subtopics,
		Blocks:     blocks,
	}, nil
}

func validateStructure(lessonID string, subtopics []model.Subtopic, blocks []model.Block) error {
	if len(blocks) == 0 {
		return shared.NewInvalidStateError(
			fmt.Errorf("lesson %s has no blocks", lessonID), "Lesson has no blocks")
	}

	seenOrder := make(map[int]bool, len(blocks))
	seenID := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		if seenOrder[b.Order] {
			return shared.NewInvalidStateError(
				fmt.Errorf("lesson %s: duplicate block order %d", lessonID, b.Order),
				"Block order indices must be unique within a lesson")
		}
		seenOrder[b.Order] = true

		if seenID[b.ID] {
			return shared.NewInvalidStateError(
				fmt.Errorf("lesson %s: duplicate block id %s", lessonID, b.ID),
				"Block ids must be unique within a lesson")
		}
		seenID[b.ID] = true

		// A lesson without subtopics is a valid mode; every block must then
		// be unassigned. In a partitioned lesson every block must reference
		// an existing subtopic.
		if len(subtopics) == 0 {
			if b.SubtopicIndex != -1 {
				return shared.NewInvalidStateError(
					fmt.Errorf("lesson %s: block %s references subtopic %d but lesson has none", lessonID, b.ID, b.SubtopicIndex),
					"Block references a subtopic in a lesson without subtopics")
			}
		} else if b.SubtopicIndex < 0 || b.SubtopicIndex >= len(subtopics) {
			return shared.NewInvalidStateError(
				fmt.Errorf("lesson %s: block %s references missing subtopic %d", lessonID, b.ID, b.SubtopicIndex),
				"Block references a subtopic that does not exist")
		}
	}

	return nil
}

// BlockCountInSubtopic reports how many blocks the lesson assigns to the
// given subtopic id.
func (svc *ContentService) BlockCountInSubtopic(lessonID, subtopicID string) (int, error) {
	structure, err := svc.Resolve(lessonID)
	if err != nil {
		return 0, err
	}

	for i, st := range structure.Subtopics {
		if st.ID == subtopicID {
			return len(structure.BlocksInSubtopic(i)), nil
		}
	}

	return 0, shared.NewNotFoundError(
		fmt.Errorf("subtopic %s not in lesson %s", subtopicID, lessonID), "Subtopic not found")
}

// ==================== READ API ====================

func (svc *ContentService) GetLessonContent(lessonID string) (*dto.LessonResponse, error) {
	structure, err := svc.Resolve(lessonID)
	if err != nil {
		return nil, err
	}

	lesson, err := svc.sqlSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	resp := mapLessonToResponse(lesson, structure)
	return &resp, nil
}

func (svc *ContentService) GetLessons() (*dto.LessonCollectionResponse, error) {
	lessons, err := svc.sqlSvc.GetLessons()
	if err != nil {
		return nil, err
	}

	responses := make([]dto.LessonResponse, 0, len(lessons))
	for i := range lessons {
		structure, err := svc.Resolve(lessons[i].ID)
		if err != nil {
			log.WithError(err).WithField("lesson_id", lessons[i].ID).Error("Skipping unresolvable lesson")
			continue
		}
		responses = append(responses, mapLessonToResponse(&lessons[i], structure))
	}

	return &dto.LessonCollectionResponse{
		Lessons: responses,
		Total:   len(responses),
	}, nil
}

func mapLessonToResponse(lesson *model.Lesson, structure *model.LessonStructure) dto.LessonResponse {
	subtopics := make([]dto.SubtopicResponse, len(structure.Subtopics))
	for i, st := range structure.Subtopics {
		subtopics[i] = dto.SubtopicResponse{ID: st.ID, Title: st.Title, Order: st.Order}
	}

	blocks := make([]dto.BlockResponse, len(structure.Blocks))
	for i, b := range structure.Blocks {
		blocks[i] = dto.BlockResponse{
			ID:            b.ID,
			Kind:          b.Kind,
			Order:         b.Order,
			SubtopicIndex: b.SubtopicIndex,
			Payload:       b.Payload,
		}
	}

	return dto.LessonResponse{
		ID:         lesson.ID,
		Title:      lesson.Title,
		Order:      lesson.Order,
		Subtopics:  subtopics,
		Blocks:     blocks,
		XPReward:   lesson.XPReward,
		CoinReward: lesson.CoinReward,
	}
}

// ==================== ADMIN ====================

// CreateLessonFromRequest ingests an authored lesson. Structural invariants
// are enforced up front so Resolve never sees a malformed row from this path.
func (svc *ContentService) CreateLessonFromRequest(req dto.CreateLessonRequest) (*dto.LessonResponse, error) {
	subtopics := make([]model.Subtopic, len(req.Subtopics))
	for i, st := range req.Subtopics {
		id := st.ID
		if id == "" {
			sid, _ := uuid.NewV7()
			id = sid.String()
		}
		subtopics[i] = model.Subtopic{ID: id, Title: st.Title, Order: st.Order}
	}

	blocks := make([]model.Block, len(req.Blocks))
	for i, b := range req.Blocks {
		id := b.ID
		if id == "" {
			bid, _ := uuid.NewV7()
			id = bid.String()
		}
		blocks[i] = model.Block{
			ID:            id,
			Kind:          b.Kind,
			Order:         b.Order,
			SubtopicIndex: b.SubtopicIndex,
			Payload:       b.Payload,
		}
	}

	lessonID, _ := uuid.NewV7()
	if err := validateStructure(lessonID.String(), subtopics, blocks); err != nil {
		if appErr, ok := shared.GetAppError(err); ok {
			return nil, shared.NewBadRequestError(appErr.Err, appErr.Message)
		}
		return nil, err
	}

	subtopicsJSON, err := json.Marshal(subtopics)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode subtopics")
	}
	blocksJSON, err := json.Marshal(blocks)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode blocks")
	}

	xpReward := req.XPReward
	if xpReward == 0 {
		xpReward = 50
	}
	coinReward := req.CoinReward
	if coinReward == 0 {
		coinReward = 20
	}

	lesson := &model.Lesson{
		ID:         lessonID.String(),
		Title:      req.Title,
		Order:      req.Order,
		Subtopics:  subtopicsJSON,
		Blocks:     blocksJSON,
		XPReward:   xpReward,
		CoinReward: coinReward,
		IsActive:   true,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := svc.sqlSvc.CreateLesson(lesson); err != nil {
		return nil, err
	}

	return svc.GetLessonContent(lesson.ID)
}
