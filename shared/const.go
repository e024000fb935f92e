package shared

const (
	UserID = "user_id"

	ExerciseTypeMultipleChoice = "multiple_choice"
	ExerciseTypeFreeInput      = "free_input"

	// XPPerLevel drives the level rule: level = xp/XPPerLevel + 1.
	XPPerLevel = 100

	MinPasswordLength = 8
)
