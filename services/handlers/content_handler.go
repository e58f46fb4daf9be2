package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pyquest-hq/pyquest_api/dto"
	"github.com/pyquest-hq/pyquest_api/shared"
)

type ContentHandler struct {
	contentSvc ContentServiceInterface
}

func NewContentHandler(contentSvc ContentServiceInterface) *ContentHandler {
	return &ContentHandler{
		contentSvc: contentSvc,
	}
}

// @Summary Get Lessons
// @Description Get all active lessons in course order
// @Tags content
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.LessonCollectionResponse}
// @Router /api/v1/content/lessons [get]
func (h *ContentHandler) GetLessons(c *fiber.Ctx) error {
	lessons, err := h.contentSvc.GetLessons()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", lessons)
}

// @Summary Get Lesson
// @Description Get lesson content including ordered subtopics and blocks
// @Tags content
// @Accept json
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.LessonResponse}
// @Router /api/v1/content/lessons/{lessonId} [get]
func (h *ContentHandler) GetLesson(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	lesson, err := h.contentSvc.GetLessonContent(lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", lesson)
}

// @Summary Create Lesson
// @Description Create a lesson with its subtopics and blocks
// @Tags admin
// @Accept json
// @Produce json
// @Param lessonRequest body dto.CreateLessonRequest true "Lesson definition"
// @Success 200 {object} shared.Response{data=dto.LessonResponse}
// @Router /api/v1/admin/lessons [post]
func (h *ContentHandler) CreateLesson(c *fiber.Ctx) error {
	var req dto.CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.ResponseBadRequest(c, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		return shared.ResponseJSON(c, fiber.StatusBadRequest, "Validation failed", dto.CreateValidationErrorResponse(err))
	}

	lesson, err := h.contentSvc.CreateLessonFromRequest(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", lesson)
}
