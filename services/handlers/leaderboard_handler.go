package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/pyquest-hq/pyquest_api/shared"
)

type LeaderboardHandler struct {
	leaderboardSvc LeaderboardServiceInterface
}

func NewLeaderboardHandler(leaderboardSvc LeaderboardServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardSvc: leaderboardSvc,
	}
}

// @Summary Get Leaderboard
// @Description Get the top learners ranked by XP. Rankings are a periodically refreshed snapshot.
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Number of entries (max 100)" default(10)
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	learnerID, _ := c.Locals(shared.LearnerID).(string)

	leaderboard, err := h.leaderboardSvc.TopN(limit, learnerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}

// @Summary Get My Rank
// @Description Get the authenticated learner's current leaderboard position
// @Tags leaderboard
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.LeaderboardEntry}
// @Security BearerAuth
// @Router /api/v1/leaderboard/me [get]
func (h *LeaderboardHandler) GetMyRank(c *fiber.Ctx) error {
	learnerID := c.Locals(shared.LearnerID).(string)

	entry, err := h.leaderboardSvc.GetLearnerRank(learnerID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", entry)
}
