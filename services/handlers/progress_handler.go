package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pyquest-hq/pyquest_api/dto"
	"github.com/pyquest-hq/pyquest_api/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{
		progressSvc: progressSvc,
	}
}

// @Summary Complete Block
// @Description Record a block completion and settle rewards for any newly completed scopes
// @Tags progress
// @Accept json
// @Produce json
// @Param completeRequest body dto.CompleteBlockRequest true "Completion request"
// @Success 200 {object} shared.Response{data=dto.CompleteBlockResponse}
// @Security BearerAuth
// @Router /api/v1/progress/complete [post]
func (h *ProgressHandler) CompleteBlock(c *fiber.Ctx) error {
	learnerID := c.Locals(shared.LearnerID).(string)

	var req dto.CompleteBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.ResponseBadRequest(c, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		return shared.ResponseJSON(c, fiber.StatusBadRequest, "Validation failed", dto.CreateValidationErrorResponse(err))
	}

	// Interactive blocks report a sandbox verdict; a failed attempt is valid
	// traffic but never completes the block.
	if req.Passed != nil && !*req.Passed {
		progress, err := h.progressSvc.GetProgress(learnerID)
		if err != nil {
			return err
		}
		return shared.ResponseJSON(c, fiber.StatusOK, "Success", dto.CompleteBlockResponse{
			Level:  progress.Level,
			Streak: progress.Streak,
		})
	}

	result, err := h.progressSvc.RecordCompletion(learnerID, req.LessonID, req.BlockID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Get Progress
// @Description Get the authenticated learner's progress and gamification state
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.LearnerProgressResponse}
// @Security BearerAuth
// @Router /api/v1/progress [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	learnerID := c.Locals(shared.LearnerID).(string)

	progress, err := h.progressSvc.GetProgress(learnerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", progress)
}
