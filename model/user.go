package model

import "time"

type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`

	// Gamification state. Level is derived (xp/100 + 1) but persisted so
	// leaderboard-style queries never recompute it.
	XP               int        `json:"xp" gorm:"default:0"`
	Level            int        `json:"level" gorm:"default:1"`
	StreakDays       int        `json:"streak_days" gorm:"default:0"`
	LastActivityDate *time.Time `json:"last_activity_date"`

	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
