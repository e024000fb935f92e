package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/trigono-learn/trigono_api/dto"
	"github.com/trigono-learn/trigono_api/model"
	"github.com/trigono-learn/trigono_api/shared"
)

func newTestSqlService(t *testing.T) *SqlService {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ds := &SqlService{db: db}
	require.NoError(t, ds.Migrate())
	return ds
}

func newTestProgressService(t *testing.T) (*ProgressService, *SqlService) {
	t.Helper()

	ds := newTestSqlService(t)
	return &ProgressService{sqlSvc: ds}, ds
}

func createTestUser(t *testing.T, ds *SqlService, xp int) *model.User {
	t.Helper()

	user, err := ds.CreateUser(&model.User{
		Email:    fmt.Sprintf("user%d@example.com", time.Now().UnixNano()),
		Username: fmt.Sprintf("user%d", time.Now().UnixNano()),
		Password: "hashed",
		XP:       xp,
		Level:    xp/shared.XPPerLevel + 1,
	})
	require.NoError(t, err)
	return user
}

func createTestLesson(t *testing.T, ds *SqlService, order, xpReward int) *model.Lesson {
	t.Helper()

	lesson, err := ds.CreateLesson(&model.Lesson{
		Title:    fmt.Sprintf("Lesson %d", order),
		Order:    order,
		Content:  "content",
		XPReward: xpReward,
		IsActive: true,
	})
	require.NoError(t, err)
	return lesson
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestEvaluateStreak(t *testing.T) {
	lastMonday := date(2025, time.March, 10)

	tests := []struct {
		name         string
		streakDays   int
		lastActivity *time.Time
		today        time.Time
		wantStreak   int
		wantChanged  bool
	}{
		{
			name:         "first activity starts streak at one",
			streakDays:   0,
			lastActivity: nil,
			today:        date(2025, time.March, 10),
			wantStreak:   1,
			wantChanged:  true,
		},
		{
			name:         "same day leaves streak unchanged",
			streakDays:   4,
			lastActivity: &lastMonday,
			today:        date(2025, time.March, 10),
			wantStreak:   4,
			wantChanged:  false,
		},
		{
			name:         "consecutive day increments",
			streakDays:   4,
			lastActivity: &lastMonday,
			today:        date(2025, time.March, 11),
			wantStreak:   5,
			wantChanged:  true,
		},
		{
			name:         "two day gap resets to one",
			streakDays:   4,
			lastActivity: &lastMonday,
			today:        date(2025, time.March, 12),
			wantStreak:   1,
			wantChanged:  true,
		},
		{
			name:         "long gap resets to one",
			streakDays:   30,
			lastActivity: &lastMonday,
			today:        date(2025, time.April, 20),
			wantStreak:   1,
			wantChanged:  true,
		},
		{
			name:         "future last activity is a no-op",
			streakDays:   4,
			lastActivity: &lastMonday,
			today:        date(2025, time.March, 9),
			wantStreak:   4,
			wantChanged:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streak, _, changed := EvaluateStreak(tt.streakDays, tt.lastActivity, tt.today)
			assert.Equal(t, tt.wantStreak, streak)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestEvaluateStreakDaylightSavingTransitions(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	t.Run("spring forward consecutive day increments", func(t *testing.T) {
		// March 9 2025 is only 23 wall-clock hours long in this zone.
		lastActivity := time.Date(2025, time.March, 9, 12, 0, 0, 0, loc)
		today := time.Date(2025, time.March, 10, 12, 0, 0, 0, loc)

		streak, day, changed := EvaluateStreak(3, &lastActivity, today)
		assert.Equal(t, 4, streak)
		assert.True(t, changed)
		assert.Equal(t, date(2025, time.March, 10), day)
	})

	t.Run("spring forward two day gap resets", func(t *testing.T) {
		lastActivity := time.Date(2025, time.March, 8, 12, 0, 0, 0, loc)
		today := time.Date(2025, time.March, 10, 12, 0, 0, 0, loc)

		streak, _, changed := EvaluateStreak(3, &lastActivity, today)
		assert.Equal(t, 1, streak)
		assert.True(t, changed)
	})

	t.Run("fall back consecutive day increments exactly once", func(t *testing.T) {
		// November 2 2025 is 25 wall-clock hours long in this zone.
		lastActivity := time.Date(2025, time.November, 1, 12, 0, 0, 0, loc)
		today := time.Date(2025, time.November, 2, 12, 0, 0, 0, loc)

		streak, _, changed := EvaluateStreak(7, &lastActivity, today)
		assert.Equal(t, 8, streak)
		assert.True(t, changed)
	})

	t.Run("fall back same day unchanged", func(t *testing.T) {
		lastActivity := time.Date(2025, time.November, 2, 0, 30, 0, 0, loc)
		today := time.Date(2025, time.November, 2, 23, 30, 0, 0, loc)

		streak, _, changed := EvaluateStreak(7, &lastActivity, today)
		assert.Equal(t, 7, streak)
		assert.False(t, changed)
	})
}

func TestEvaluateStreakUsesDateNotElapsedTime(t *testing.T) {
	// 23:59 yesterday to 00:01 today is two minutes apart but still a
	// consecutive-day increment.
	lastActivity := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	today := time.Date(2025, time.March, 11, 0, 1, 0, 0, time.UTC)

	streak, day, changed := EvaluateStreak(3, &lastActivity, today)
	assert.Equal(t, 4, streak)
	assert.True(t, changed)
	assert.Equal(t, date(2025, time.March, 11), day)
}

func TestResolveUnlocks(t *testing.T) {
	tests := []struct {
		name      string
		completed []bool
		want      []bool
	}{
		{
			name:      "nothing completed unlocks only the first",
			completed: []bool{false, false, false},
			want:      []bool{true, false, false},
		},
		{
			name:      "completion unlocks the successor",
			completed: []bool{true, false, false},
			want:      []bool{true, true, false},
		},
		{
			name:      "chain stops at the first incomplete lesson",
			completed: []bool{true, true, false, false},
			want:      []bool{true, true, true, false},
		},
		{
			name:      "gap in the middle keeps later lessons locked",
			completed: []bool{true, false, true},
			want:      []bool{true, true, false},
		},
		{
			name:      "single lesson is always unlocked",
			completed: []bool{false},
			want:      []bool{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]dto.LessonListItem, len(tt.completed))
			for i, c := range tt.completed {
				items[i].Completed = c
			}

			ResolveUnlocks(items)

			for i, want := range tt.want {
				assert.Equal(t, want, items[i].Unlocked, "lesson %d", i)
			}
		})
	}

	t.Run("empty list", func(t *testing.T) {
		assert.NotPanics(t, func() {
			ResolveUnlocks(nil)
		})
	})
}

func TestGetUserState(t *testing.T) {
	svc, ds := newTestProgressService(t)
	user := createTestUser(t, ds, 150)

	state, err := svc.GetUserState(user.ID, date(2025, time.March, 10))
	require.NoError(t, err)

	assert.Equal(t, user.ID, state.UserID)
	assert.Equal(t, 150, state.XP)
	assert.Equal(t, 2, state.Level)
	assert.Equal(t, 50, state.XPToNextLevel)
	assert.Equal(t, 1, state.StreakDays)
	require.NotNil(t, state.LastActivityDate)

	// Fetching the state counted as today's activity and persisted.
	stored, err := ds.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.StreakDays)

	// Same-day fetch changes nothing.
	state, err = svc.GetUserState(user.ID, date(2025, time.March, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, state.StreakDays)

	// Next day increments.
	state, err = svc.GetUserState(user.ID, date(2025, time.March, 11))
	require.NoError(t, err)
	assert.Equal(t, 2, state.StreakDays)

	// A gap resets.
	state, err = svc.GetUserState(user.ID, date(2025, time.March, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, state.StreakDays)
}

func TestGetUserStateUnknownUser(t *testing.T) {
	svc, _ := newTestProgressService(t)

	_, err := svc.GetUserState("missing", time.Now())
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestListLessonsUnlockChain(t *testing.T) {
	svc, ds := newTestProgressService(t)
	user := createTestUser(t, ds, 0)

	first := createTestLesson(t, ds, 1, 50)
	second := createTestLesson(t, ds, 2, 50)
	createTestLesson(t, ds, 3, 50)

	resp, err := svc.ListLessons(user.ID)
	require.NoError(t, err)
	require.Equal(t, 3, resp.Total)
	assert.True(t, resp.Lessons[0].Unlocked)
	assert.False(t, resp.Lessons[1].Unlocked)
	assert.False(t, resp.Lessons[2].Unlocked)

	_, err = svc.CompleteLesson(user.ID, first.ID, 90)
	require.NoError(t, err)

	resp, err = svc.ListLessons(user.ID)
	require.NoError(t, err)
	assert.True(t, resp.Lessons[0].Completed)
	assert.Equal(t, 90, resp.Lessons[0].Score)
	assert.True(t, resp.Lessons[1].Unlocked)
	assert.False(t, resp.Lessons[2].Unlocked)

	_, err = svc.CompleteLesson(user.ID, second.ID, 80)
	require.NoError(t, err)

	resp, err = svc.ListLessons(user.ID)
	require.NoError(t, err)
	assert.True(t, resp.Lessons[2].Unlocked)
}

func TestListLessonsInactiveExcluded(t *testing.T) {
	svc, ds := newTestProgressService(t)
	user := createTestUser(t, ds, 0)

	createTestLesson(t, ds, 1, 50)
	_, err := ds.CreateLesson(&model.Lesson{
		Title:    "Draft",
		Order:    2,
		IsActive: false,
	})
	require.NoError(t, err)

	resp, err := svc.ListLessons(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestCompleteLesson(t *testing.T) {
	svc, ds := newTestProgressService(t)
	user := createTestUser(t, ds, 0)
	lesson := createTestLesson(t, ds, 1, 50)

	resp, err := svc.CompleteLesson(user.ID, lesson.ID, 85)
	require.NoError(t, err)
	assert.Equal(t, 50, resp.XPAwarded)

	updated, err := ds.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, updated.XP)
	assert.Equal(t, 1, updated.Level)

	progress, err := ds.GetProgress(user.ID, lesson.ID)
	require.NoError(t, err)
	assert.True(t, progress.Completed)
	assert.Equal(t, 85, progress.Score)
}

func TestCompleteLessonRetakeKeepsOneRow(t *testing.T) {
	svc, ds := newTestProgressService(t)
	user := createTestUser(t, ds, 0)
	lesson := createTestLesson(t, ds, 1, 60)

	_, err := svc.CompleteLesson(user.ID, lesson.ID, 70)
	require.NoError(t, err)
	_, err = svc.CompleteLesson(user.ID, lesson.ID, 95)
	require.NoError(t, err)

	count, err := ds.CountProgress(user.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	progress, err := ds.GetProgress(user.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, 95, progress.Score)

	// The XP award applies on every completion call.
	updated, err := ds.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, updated.XP)
	assert.Equal(t, 2, updated.Level)
}

func TestCompleteLessonUnknownLesson(t *testing.T) {
	svc, ds := newTestProgressService(t)
	user := createTestUser(t, ds, 0)

	_, err := svc.CompleteLesson(user.ID, "missing", 80)
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestAddUserXPLevelBoundary(t *testing.T) {
	ds := newTestSqlService(t)
	user := createTestUser(t, ds, 95)

	updated, err := ds.AddUserXP(user.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 105, updated.XP)
	assert.Equal(t, 2, updated.Level)

	updated, err = ds.AddUserXP(user.ID, 200)
	require.NoError(t, err)
	assert.Equal(t, 305, updated.XP)
	assert.Equal(t, 4, updated.Level)
}
