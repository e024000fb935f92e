// services/progress.go
package services

import (
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/trigono-learn/trigono_api/dto"
	"github.com/trigono-learn/trigono_api/model"
	"github.com/trigono-learn/trigono_api/shared"
)

// ProgressService owns the per-user gamification state: daily streaks,
// lesson completion records and the lesson unlock chain.
type ProgressService struct {
	context.DefaultService

	sqlSvc *SqlService
}

const PROGRESS_SVC = "progress_svc"

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	return nil
}

// ==================== STREAK EVALUATION ====================

// EvaluateStreak computes the streak transition for a single activity
// on `today`. Date-only granularity in the caller's location:
//   - no prior activity     -> streak 1
//   - same day              -> unchanged
//   - exactly one day later -> streak + 1
//   - longer gap            -> reset to 1
//
// A last-activity date in the future means clock skew; the state is left
// untouched rather than letting the arithmetic reset the streak.
func EvaluateStreak(streakDays int, lastActivity *time.Time, today time.Time) (int, time.Time, bool) {
	day := dateOf(today)

	if lastActivity == nil {
		return 1, day, true
	}

	lastDay := dateOf(*lastActivity)
	daysDiff := int(day.Sub(lastDay).Hours() / 24)

	switch {
	case daysDiff == 0:
		return streakDays, lastDay, false
	case daysDiff == 1:
		return streakDays + 1, day, true
	case daysDiff > 1:
		return 1, day, true
	default:
		log.WithFields(log.Fields{
			"last_activity": lastDay,
			"today":         day,
		}).Warn("Last activity date is in the future, leaving streak unchanged")
		return streakDays, lastDay, false
	}
}

// dateOf pins the calendar date to UTC midnight so subtracting two
// dates always yields whole 24h days. Keeping the wall-clock location
// would make daylight-saving transition days 23h or 25h long and the
// day-difference arithmetic off by one around them.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// refreshStreak applies EvaluateStreak to the user and persists the
// result only when it changed.
func (svc *ProgressService) refreshStreak(user *model.User, now time.Time) error {
	streak, lastActivity, changed := EvaluateStreak(user.StreakDays, user.LastActivityDate, now)
	if !changed {
		return nil
	}

	if err := svc.sqlSvc.UpdateUserStreak(user.ID, streak, lastActivity); err != nil {
		return err
	}

	user.StreakDays = streak
	user.LastActivityDate = &lastActivity
	return nil
}

// ==================== USER STATE ====================

// GetUserState returns the user record with streak fields refreshed for
// `now`. Fetching the state counts as the day's qualifying activity.
func (svc *ProgressService) GetUserState(userID string, now time.Time) (*dto.UserStateResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if err := svc.refreshStreak(user, now); err != nil {
		return nil, err
	}

	return &dto.UserStateResponse{
		UserID:           user.ID,
		Username:         user.Username,
		Email:            user.Email,
		XP:               user.XP,
		Level:            user.Level,
		XPToNextLevel:    user.Level*shared.XPPerLevel - user.XP,
		StreakDays:       user.StreakDays,
		LastActivityDate: user.LastActivityDate,
	}, nil
}

// ==================== LESSON UNLOCK CHAIN ====================

// ResolveUnlocks derives the unlock flag over lessons already sorted by
// order: the first lesson is always unlocked, every other lesson is
// unlocked iff its predecessor is completed. Derived per query, never
// stored.
func ResolveUnlocks(lessons []dto.LessonListItem) {
	for i := range lessons {
		if i == 0 {
			lessons[i].Unlocked = true
		} else {
			lessons[i].Unlocked = lessons[i-1].Completed
		}
	}
}

// ListLessons returns the ordered curriculum joined with the user's
// completion state and the derived unlock flags.
func (svc *ProgressService) ListLessons(userID string) (*dto.LessonListResponse, error) {
	lessons, err := svc.sqlSvc.GetLessons()
	if err != nil {
		return nil, err
	}

	progress, err := svc.sqlSvc.GetUserProgress(userID)
	if err != nil {
		return nil, err
	}

	byLesson := make(map[string]model.Progress, len(progress))
	for _, p := range progress {
		byLesson[p.LessonID] = p
	}

	items := make([]dto.LessonListItem, len(lessons))
	for i, lesson := range lessons {
		items[i] = dto.LessonListItem{
			ID:         lesson.ID,
			Title:      lesson.Title,
			Order:      lesson.Order,
			XPReward:   lesson.XPReward,
			DiagramURL: lesson.DiagramURL,
		}
		if p, ok := byLesson[lesson.ID]; ok {
			items[i].Completed = p.Completed
			items[i].Score = p.Score
		}
	}

	ResolveUnlocks(items)

	return &dto.LessonListResponse{
		Lessons: items,
		Total:   len(items),
	}, nil
}

// ==================== LESSON COMPLETION ====================

// CompleteLesson upserts the completion record for (user, lesson) and
// awards the lesson's XP reward. The upsert keeps the row count at one
// per pair; the XP award is applied on every call, so retaking a lesson
// re-awards its XP. Returns the XP awarded by this call.
func (svc *ProgressService) CompleteLesson(userID, lessonID string, score int) (*dto.CompleteLessonResponse, error) {
	lesson, err := svc.sqlSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if err := svc.sqlSvc.UpsertProgress(&model.Progress{
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   true,
		Score:       score,
		CompletedAt: time.Now(),
	}); err != nil {
		return nil, err
	}

	updated, err := svc.sqlSvc.AddUserXP(userID, lesson.XPReward)
	if err != nil {
		return nil, err
	}

	if updated.Level > user.Level {
		log.WithFields(log.Fields{
			"user_id": userID,
			"level":   updated.Level,
		}).Info("User leveled up")
	}

	if err := svc.refreshStreak(updated, time.Now()); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to update streak")
	}

	recordLessonCompleted()

	return &dto.CompleteLessonResponse{
		XPAwarded: lesson.XPReward,
	}, nil
}
