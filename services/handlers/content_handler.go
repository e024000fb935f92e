package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/trigono-learn/trigono_api/dto"
	"github.com/trigono-learn/trigono_api/shared"
)

type ContentHandler struct {
	contentSvc ContentServiceInterface
}

func NewContentHandler(contentSvc ContentServiceInterface) *ContentHandler {
	return &ContentHandler{
		contentSvc: contentSvc,
	}
}

// @Summary Get lesson
// @Description Get the content of a single lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.LessonResponse}
// @Router /api/v1/lessons/{id} [get]
func (h *ContentHandler) GetLesson(c *fiber.Ctx) error {
	lesson, err := h.contentSvc.GetLesson(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, lesson)
}

// @Summary Get exercises
// @Description Get a lesson's exercises with parsed option lists
// @Tags exercises
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.ExerciseListResponse}
// @Router /api/v1/lessons/{id}/exercises [get]
func (h *ContentHandler) GetExercises(c *fiber.Ctx) error {
	exercises, err := h.contentSvc.GetLessonExercises(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, exercises)
}

// @Summary Verify answer
// @Description Score a submitted answer and log it
// @Tags exercises
// @Accept json
// @Produce json
// @Security Bearer
// @Param verifyRequest body dto.VerifyAnswerRequest true "Submission"
// @Success 200 {object} shared.Response{data=dto.VerifyAnswerResponse}
// @Router /api/v1/exercises/verify [post]
func (h *ContentHandler) VerifyAnswer(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.VerifyAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	resp, err := h.contentSvc.VerifyAnswer(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Create lesson
// @Description Add a lesson to the curriculum
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param lessonRequest body dto.CreateLessonRequest true "Lesson"
// @Success 200 {object} shared.Response{data=dto.LessonResponse}
// @Router /api/v1/admin/lessons [post]
func (h *ContentHandler) CreateLesson(c *fiber.Ctx) error {
	var req dto.CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	lesson, err := h.contentSvc.CreateLesson(req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, lesson)
}

// @Summary Create exercise
// @Description Add an exercise to a lesson
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Lesson ID"
// @Param exerciseRequest body dto.CreateExerciseRequest true "Exercise"
// @Success 200 {object} shared.Response{data=dto.ExerciseResponse}
// @Router /api/v1/admin/lessons/{id}/exercises [post]
func (h *ContentHandler) CreateExercise(c *fiber.Ctx) error {
	var req dto.CreateExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	exercise, err := h.contentSvc.CreateExercise(c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, exercise)
}

// @Summary Upload lesson diagram
// @Description Store a diagram image for a lesson
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path string true "Lesson ID"
// @Param diagram formData file true "Diagram image"
// @Success 200 {object} shared.Response{data=dto.UploadDiagramResponse}
// @Router /api/v1/admin/lessons/{id}/diagram [post]
func (h *ContentHandler) UploadDiagram(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("diagram")
	if err != nil {
		return shared.NewBadRequestError(err, "Diagram file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return shared.NewBadRequestError(err, "Failed to read diagram file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return shared.NewBadRequestError(err, "Failed to read diagram file")
	}

	resp, err := h.contentSvc.UploadDiagram(c.Params("id"), fileHeader.Filename, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}
