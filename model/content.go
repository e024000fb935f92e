// model/content.go
package model

import (
	"encoding/json"
	"time"
)

// Lesson is one unit of the trigonometry curriculum. Order is a total
// order over all lessons and drives the linear unlock chain.
type Lesson struct {
	ID         string `json:"id" gorm:"primaryKey"`
	Title      string `json:"title" gorm:"not null"`
	Order      int    `json:"order" gorm:"column:lesson_order;uniqueIndex;not null"`
	Content    string `json:"content" gorm:"type:text"`
	DiagramURL string `json:"diagram_url"`
	XPReward   int    `json:"xp_reward" gorm:"default:50"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Exercise belongs to exactly one lesson. Options holds the
// multiple-choice list as a JSON array of strings; free-input exercises
// leave it null.
type Exercise struct {
	ID            string          `json:"id" gorm:"primaryKey"`
	LessonID      string          `json:"lesson_id" gorm:"index;not null"`
	Type          string          `json:"type" gorm:"default:multiple_choice"`
	Question      string          `json:"question" gorm:"type:text;not null"`
	CorrectAnswer string          `json:"-" gorm:"not null"`
	Explanation   string          `json:"explanation" gorm:"type:text"`
	Points        int             `json:"points" gorm:"default:10"`
	Options       json.RawMessage `json:"options" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lesson Lesson `json:"-" gorm:"foreignKey:LessonID"`
}

// Progress is the per-user-per-lesson completion record. One row per
// (user, lesson) pair, enforced by the composite unique index; retakes
// update the row in place.
type Progress struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"uniqueIndex:idx_user_lesson;not null"`
	LessonID    string    `json:"lesson_id" gorm:"uniqueIndex:idx_user_lesson;not null"`
	Completed   bool      `json:"completed" gorm:"default:false"`
	Score       int       `json:"score" gorm:"default:0"`
	CompletedAt time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Answer is the append-only submission log. Rows are never updated or
// deleted.
type Answer struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index;not null"`
	ExerciseID string    `json:"exercise_id" gorm:"index;not null"`
	Submitted  string    `json:"submitted" gorm:"type:text"`
	Correct    bool      `json:"correct"`
	CreatedAt  time.Time `json:"created_at"`
}
