package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pyquest-hq/pyquest_api/dto"
	"github.com/pyquest-hq/pyquest_api/shared"
)

type ChallengeHandler struct {
	challengeSvc ChallengeServiceInterface
}

func NewChallengeHandler(challengeSvc ChallengeServiceInterface) *ChallengeHandler {
	return &ChallengeHandler{
		challengeSvc: challengeSvc,
	}
}

// @Summary Get Active Challenge
// @Description Get today's daily challenge with the learner's completion state
// @Tags challenges
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.ChallengeResponse}
// @Router /api/v1/challenges/today [get]
func (h *ChallengeHandler) GetActiveChallenge(c *fiber.Ctx) error {
	learnerID, _ := c.Locals(shared.LearnerID).(string)

	challenge, err := h.challengeSvc.GetActiveChallenge(learnerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", challenge)
}

// @Summary Complete Challenge
// @Description Settle a daily challenge completion for the authenticated learner
// @Tags challenges
// @Accept json
// @Produce json
// @Param completeRequest body dto.CompleteChallengeRequest true "Completion request"
// @Success 200 {object} shared.Response{data=dto.CompleteChallengeResponse}
// @Security BearerAuth
// @Router /api/v1/challenges/complete [post]
func (h *ChallengeHandler) CompleteChallenge(c *fiber.Ctx) error {
	learnerID := c.Locals(shared.LearnerID).(string)

	var req dto.CompleteChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.ResponseBadRequest(c, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		return shared.ResponseJSON(c, fiber.StatusBadRequest, "Validation failed", dto.CreateValidationErrorResponse(err))
	}

	result, err := h.challengeSvc.CompleteChallenge(learnerID, req.ChallengeID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Schedule Challenge
// @Description Schedule a daily challenge for a date (one per date)
// @Tags admin
// @Accept json
// @Produce json
// @Param scheduleRequest body dto.ScheduleChallengeRequest true "Challenge definition"
// @Success 200 {object} shared.Response{data=dto.ChallengeResponse}
// @Router /api/v1/admin/challenges [post]
func (h *ChallengeHandler) ScheduleChallenge(c *fiber.Ctx) error {
	var req dto.ScheduleChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.ResponseBadRequest(c, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		return shared.ResponseJSON(c, fiber.StatusBadRequest, "Validation failed", dto.CreateValidationErrorResponse(err))
	}

	challenge, err := h.challengeSvc.ScheduleChallenge(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", challenge)
}
