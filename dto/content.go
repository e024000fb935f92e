package dto

import "time"

// ==================== LESSON DTOs ====================

// LessonListItem is a lesson joined with the calling user's progress.
// Unlocked is derived per request and never persisted.
type LessonListItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Order      int    `json:"order"`
	XPReward   int    `json:"xp_reward"`
	DiagramURL string `json:"diagram_url,omitempty"`
	Completed  bool   `json:"completed"`
	Score      int    `json:"score"`
	Unlocked   bool   `json:"unlocked"`
}

type LessonListResponse struct {
	Lessons []LessonListItem `json:"lessons"`
	Total   int              `json:"total"`
}

type LessonResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Order      int       `json:"order"`
	Content    string    `json:"content"`
	DiagramURL string    `json:"diagram_url,omitempty"`
	XPReward   int       `json:"xp_reward"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateLessonRequest struct {
	Title    string `json:"title" validate:"required"`
	Order    int    `json:"order" validate:"required,gte=1"`
	Content  string `json:"content"`
	XPReward int    `json:"xp_reward" validate:"gte=0"`
}

func (r CreateLessonRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== EXERCISE DTOs ====================

// ExerciseResponse carries the parsed option list. The correct answer
// never leaves the server.
type ExerciseResponse struct {
	ID       string   `json:"id"`
	LessonID string   `json:"lesson_id"`
	Type     string   `json:"type"`
	Question string   `json:"question"`
	Points   int      `json:"points"`
	Options  []string `json:"options,omitempty"`
}

type ExerciseListResponse struct {
	Exercises []ExerciseResponse `json:"exercises"`
	Total     int                `json:"total"`
}

type CreateExerciseRequest struct {
	Type          string   `json:"type" validate:"omitempty,oneof=multiple_choice free_input"`
	Question      string   `json:"question" validate:"required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Explanation   string   `json:"explanation"`
	Points        int      `json:"points" validate:"gte=0"`
	Options       []string `json:"options"`
}

func (r CreateExerciseRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== ANSWER / COMPLETION DTOs ====================

type VerifyAnswerRequest struct {
	ExerciseID string `json:"exercise_id" validate:"required"`
	Answer     string `json:"answer"`
}

func (r VerifyAnswerRequest) Validate() error {
	return GetValidator().Struct(r)
}

type VerifyAnswerResponse struct {
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
	PointsAwarded int    `json:"points_awarded"`
}

type CompleteLessonRequest struct {
	LessonID string `json:"lesson_id" validate:"required"`
	Score    int    `json:"score" validate:"gte=0,lte=100"`
}

func (r CompleteLessonRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CompleteLessonResponse struct {
	XPAwarded int `json:"xp_awarded"`
}

type UploadDiagramResponse struct {
	LessonID   string `json:"lesson_id"`
	DiagramURL string `json:"diagram_url"`
}
