// services/content.go
package services

import (
	"encoding/json"
	"strings"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/trigono-learn/trigono_api/dto"
	"github.com/trigono-learn/trigono_api/model"
	"github.com/trigono-learn/trigono_api/shared"
)

// ContentService serves the curriculum (lessons and exercises) and runs
// answer scoring.
type ContentService struct {
	context.DefaultService

	sqlSvc   *SqlService
	minioSvc *MinioService
}

const CONTENT_SVC = "content_svc"

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinioService)
	return nil
}

// ==================== LESSON METHODS ====================

func (svc *ContentService) GetLesson(lessonID string) (*dto.LessonResponse, error) {
	lesson, err := svc.sqlSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	response := svc.mapLessonToResponse(lesson)
	return &response, nil
}

func (svc *ContentService) mapLessonToResponse(lesson *model.Lesson) dto.LessonResponse {
	return dto.LessonResponse{
		ID:         lesson.ID,
		Title:      lesson.Title,
		Order:      lesson.Order,
		Content:    lesson.Content,
		DiagramURL: lesson.DiagramURL,
		XPReward:   lesson.XPReward,
		CreatedAt:  lesson.CreatedAt,
	}
}

// ==================== EXERCISE METHODS ====================

// GetLessonExercises returns a lesson's exercises with the option list
// parsed out of its JSON column. The correct answer stays server-side.
func (svc *ContentService) GetLessonExercises(lessonID string) (*dto.ExerciseListResponse, error) {
	if _, err := svc.sqlSvc.GetLesson(lessonID); err != nil {
		return nil, err
	}

	exercises, err := svc.sqlSvc.GetExercisesByLesson(lessonID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ExerciseResponse, len(exercises))
	for i, exercise := range exercises {
		responses[i] = svc.mapExerciseToResponse(&exercise)
	}

	return &dto.ExerciseListResponse{
		Exercises: responses,
		Total:     len(responses),
	}, nil
}

func (svc *ContentService) mapExerciseToResponse(exercise *model.Exercise) dto.ExerciseResponse {
	var options []string
	if exercise.Options != nil {
		if err := json.Unmarshal(exercise.Options, &options); err != nil {
			log.WithError(err).WithField("exercise_id", exercise.ID).Error("Failed to unmarshal exercise options")
			options = nil
		}
	}

	return dto.ExerciseResponse{
		ID:       exercise.ID,
		LessonID: exercise.LessonID,
		Type:     exercise.Type,
		Question: exercise.Question,
		Points:   exercise.Points,
		Options:  options,
	}
}

// ==================== ANSWER SCORING ====================

// answerMatches is the correctness rule: exact match after trimming
// leading/trailing whitespace on both sides. Case-sensitive, no further
// normalization, so " 30 " matches "30" but "30.0" does not.
func answerMatches(submitted, correct string) bool {
	return strings.TrimSpace(submitted) == strings.TrimSpace(correct)
}

// VerifyAnswer scores a submission against the exercise's stored answer.
// The submission is always appended to the answer log; a correct answer
// additionally awards the exercise's points, with the level recomputed
// in the same update.
func (svc *ContentService) VerifyAnswer(userID string, req dto.VerifyAnswerRequest) (*dto.VerifyAnswerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, dto.NewValidationError(err, "Exercise id is required")
	}

	exercise, err := svc.sqlSvc.GetExercise(req.ExerciseID)
	if err != nil {
		return nil, err
	}

	correct := answerMatches(req.Answer, exercise.CorrectAnswer)

	if err := svc.sqlSvc.CreateAnswer(&model.Answer{
		UserID:     userID,
		ExerciseID: exercise.ID,
		Submitted:  req.Answer,
		Correct:    correct,
	}); err != nil {
		return nil, err
	}

	points := 0
	if correct {
		points = exercise.Points
		if _, err := svc.sqlSvc.AddUserXP(userID, points); err != nil {
			return nil, err
		}
	}

	recordAnswerSubmitted(correct)

	return &dto.VerifyAnswerResponse{
		Correct:       correct,
		Explanation:   exercise.Explanation,
		PointsAwarded: points,
	}, nil
}

// ==================== ADMIN METHODS ====================

func (svc *ContentService) CreateLesson(req dto.CreateLessonRequest) (*dto.LessonResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, dto.NewValidationError(err, "Invalid lesson")
	}

	if req.XPReward == 0 {
		req.XPReward = 50
	}

	lesson, err := svc.sqlSvc.CreateLesson(&model.Lesson{
		Title:    req.Title,
		Order:    req.Order,
		Content:  req.Content,
		XPReward: req.XPReward,
		IsActive: true,
	})
	if err != nil {
		return nil, err
	}

	response := svc.mapLessonToResponse(lesson)
	return &response, nil
}

func (svc *ContentService) CreateExercise(lessonID string, req dto.CreateExerciseRequest) (*dto.ExerciseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, dto.NewValidationError(err, "Invalid exercise")
	}

	if _, err := svc.sqlSvc.GetLesson(lessonID); err != nil {
		return nil, err
	}

	if req.Type == "" {
		req.Type = shared.ExerciseTypeMultipleChoice
	}
	if req.Points == 0 {
		req.Points = 10
	}

	var optionsJSON json.RawMessage
	if len(req.Options) > 0 {
		b, err := json.Marshal(req.Options)
		if err != nil {
			return nil, shared.NewBadRequestError(err, "Invalid options")
		}
		optionsJSON = b
	}

	exercise, err := svc.sqlSvc.CreateExercise(&model.Exercise{
		LessonID:      lessonID,
		Type:          req.Type,
		Question:      req.Question,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		Points:        req.Points,
		Options:       optionsJSON,
	})
	if err != nil {
		return nil, err
	}

	response := svc.mapExerciseToResponse(exercise)
	return &response, nil
}

// UploadDiagram stores a lesson diagram image in object storage and
// records its URL on the lesson.
func (svc *ContentService) UploadDiagram(lessonID, filename string, data []byte, contentType string) (*dto.UploadDiagramResponse, error) {
	lesson, err := svc.sqlSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	url, err := svc.minioSvc.UploadDiagram(lessonID, filename, data, contentType)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to store diagram")
	}

	oldURL := lesson.DiagramURL
	lesson.DiagramURL = url
	if err := svc.sqlSvc.UpdateLesson(lesson); err != nil {
		return nil, err
	}

	// Best effort cleanup of the replaced object.
	if oldURL != "" && oldURL != url {
		if err := svc.minioSvc.DeleteDiagramByURL(oldURL); err != nil {
			log.WithError(err).WithField("lesson_id", lessonID).Warn("Failed to delete replaced diagram")
		}
	}

	return &dto.UploadDiagramResponse{
		LessonID:   lessonID,
		DiagramURL: url,
	}, nil
}
