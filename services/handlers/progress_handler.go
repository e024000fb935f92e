package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trigono-learn/trigono_api/dto"
	"github.com/trigono-learn/trigono_api/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{
		progressSvc: progressSvc,
	}
}

// @Summary Get user state
// @Description Get the user record with streak fields refreshed for today
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.UserStateResponse}
// @Router /api/v1/user [get]
func (h *ProgressHandler) GetUserState(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	state, err := h.progressSvc.GetUserState(userID, time.Now())
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, state)
}

// @Summary List lessons
// @Description Ordered lessons with completion, score and unlock state
// @Tags lessons
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.LessonListResponse}
// @Router /api/v1/lessons [get]
func (h *ProgressHandler) ListLessons(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	lessons, err := h.progressSvc.ListLessons(userID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, lessons)
}

// @Summary Complete lesson
// @Description Record a lesson completion and award its XP
// @Tags lessons
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param completeRequest body dto.CompleteLessonRequest true "Completion data"
// @Success 200 {object} shared.Response{data=dto.CompleteLessonResponse}
// @Router /api/v1/lessons/complete [post]
func (h *ProgressHandler) CompleteLesson(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CompleteLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return dto.NewValidationError(err, "Lesson id is required")
	}

	resp, err := h.progressSvc.CompleteLesson(userID, req.LessonID, req.Score)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}
