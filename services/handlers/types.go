package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trigono-learn/trigono_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	RequiredAuth() fiber.Handler
}

type ProgressServiceInterface interface {
	GetUserState(userID string, now time.Time) (*dto.UserStateResponse, error)
	ListLessons(userID string) (*dto.LessonListResponse, error)
	CompleteLesson(userID, lessonID string, score int) (*dto.CompleteLessonResponse, error)
}

type ContentServiceInterface interface {
	GetLesson(lessonID string) (*dto.LessonResponse, error)
	GetLessonExercises(lessonID string) (*dto.ExerciseListResponse, error)
	VerifyAnswer(userID string, req dto.VerifyAnswerRequest) (*dto.VerifyAnswerResponse, error)
	CreateLesson(req dto.CreateLessonRequest) (*dto.LessonResponse, error)
	CreateExercise(lessonID string, req dto.CreateExerciseRequest) (*dto.ExerciseResponse, error)
	UploadDiagram(lessonID, filename string, data []byte, contentType string) (*dto.UploadDiagramResponse, error)
}
