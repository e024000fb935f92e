package dto

import "time"

// UserStateResponse is the streak-refreshed user record returned by
// GET /api/v1/user.
type UserStateResponse struct {
	UserID           string     `json:"user_id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	XP               int        `json:"xp"`
	Level            int        `json:"level"`
	XPToNextLevel    int        `json:"xp_to_next_level"`
	StreakDays       int        `json:"streak_days"`
	LastActivityDate *time.Time `json:"last_activity_date"`
}
