package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/trigono-learn/trigono_api/model"
	"github.com/trigono-learn/trigono_api/shared"
)

type SqlService struct {
	context.DefaultService
	db *gorm.DB

	driver string
	dsn    string
}

const SQL_SVC = "sql_svc"

func (ds SqlService) Id() string {
	return SQL_SVC
}

func (ds *SqlService) Configure(ctx *context.Context) error {
	ds.driver = os.Getenv("DB_DRIVER")
	if ds.driver == "" {
		ds.driver = "postgres"
	}

	switch ds.driver {
	case "sqlite":
		ds.dsn = os.Getenv("DB_DATABASE")
		if ds.dsn == "" {
			ds.dsn = "trigono.db"
		}
	default:
		ds.dsn = os.Getenv("DATABASE_URL")
		if ds.dsn == "" {
			// Fallback to individual environment variables
			host := envOr("DB_HOST", "localhost")
			port := envOr("DB_PORT", "5432")
			user := envOr("DB_USER", "postgres")
			password := envOr("DB_PASSWORD", "postgres")
			dbname := envOr("DB_NAME", "trigono_api")
			sslmode := envOr("DB_SSLMODE", "disable")
			timezone := envOr("DB_TIMEZONE", "UTC")

			ds.dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
				host, user, password, dbname, port, sslmode, timezone)
		}
	}

	return ds.DefaultService.Configure(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (ds *SqlService) Start() (err error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	}

	if ds.driver == "sqlite" {
		ds.db, err = gorm.Open(sqlite.Open(ds.dsn), cfg)
		if err != nil {
			return err
		}
	} else {
		if err = ds.connectPostgres(cfg); err != nil {
			return err
		}
	}

	if err = ds.Migrate(); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *SqlService) connectPostgres(cfg *gorm.Config) (err error) {
	// Retry connection with exponential backoff
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.dsn), cfg)
		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				if pingErr := sqlDB.Ping(); pingErr == nil {
					log.Println("Successfully connected to database")
					return nil
				} else {
					err = pingErr
				}
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	return err
}

func (ds *SqlService) Migrate() error {
	return ds.db.AutoMigrate(
		&model.User{},
		&model.Lesson{},
		&model.Exercise{},
		&model.Progress{},
		&model.Answer{},
	)
}

func (ds *SqlService) Shutdown() {
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// HandleError maps storage failures onto the shared error taxonomy so
// handlers never inspect gorm errors directly.
func (ds *SqlService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	default:
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else if strings.Contains(err.Error(), "connection refused") {
			statusCode = http.StatusServiceUnavailable
			errorType = "DATABASE_CONNECTION_ERROR"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	switch statusCode {
	case http.StatusNotFound:
		return shared.NewNotFoundError(err, "Record not found")
	case http.StatusConflict:
		return shared.NewConflictError(err, "Record already exists")
	case http.StatusBadRequest:
		return shared.NewBadRequestError(err, "Invalid reference")
	default:
		return &shared.AppError{StatusCode: statusCode, Message: errorType, Err: err}
	}
}

// ==================== USER METHODS ====================

func (ds *SqlService) CreateUser(user *model.User) (*model.User, error) {
	if user.ID == "" {
		id, _ := uuid.NewV7()
		user.ID = id.String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := ds.db.Create(user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return user, nil
}

func (ds *SqlService) GetUser(id string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *SqlService) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *SqlService) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *SqlService) UpdateLastLogin(userID string) error {
	err := ds.db.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"last_login": time.Now(),
		"updated_at": time.Now(),
	}).Error
	return ds.HandleError(err)
}

// UpdateUserStreak persists a streak evaluation result.
func (ds *SqlService) UpdateUserStreak(userID string, streakDays int, lastActivity time.Time) error {
	err := ds.db.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"streak_days":        streakDays,
		"last_activity_date": lastActivity,
		"updated_at":         time.Now(),
	}).Error
	return ds.HandleError(err)
}

// AddUserXP applies an XP delta and recomputes the level inside a single
// UPDATE. Both expressions read the pre-update row, so concurrent awards
// serialize at the database instead of racing through read-modify-write.
func (ds *SqlService) AddUserXP(userID string, amount int) (*model.User, error) {
	res := ds.db.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"xp":         gorm.Expr("xp + ?", amount),
		"level":      gorm.Expr("(xp + ?) / ? + 1", amount, shared.XPPerLevel),
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return nil, ds.HandleError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, shared.NewNotFoundError(gorm.ErrRecordNotFound, "User not found")
	}

	return ds.GetUser(userID)
}

// ==================== LESSON METHODS ====================

func (ds *SqlService) CreateLesson(lesson *model.Lesson) (*model.Lesson, error) {
	if lesson.ID == "" {
		id, _ := uuid.NewV7()
		lesson.ID = id.String()
	}
	lesson.CreatedAt = time.Now()
	lesson.UpdatedAt = time.Now()

	if err := ds.db.Create(lesson).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return lesson, nil
}

func (ds *SqlService) GetLesson(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := ds.db.Where("id = ?", id).First(&lesson).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &lesson, nil
}

// GetLessons returns active lessons in unlock-chain order.
func (ds *SqlService) GetLessons() ([]model.Lesson, error) {
	var lessons []model.Lesson
	if err := ds.db.Where("is_active = ?", true).
		Order("lesson_order ASC").Find(&lessons).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return lessons, nil
}

func (ds *SqlService) UpdateLesson(lesson *model.Lesson) error {
	lesson.UpdatedAt = time.Now()
	if err := ds.db.Save(lesson).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// ==================== EXERCISE METHODS ====================

func (ds *SqlService) CreateExercise(exercise *model.Exercise) (*model.Exercise, error) {
	if exercise.ID == "" {
		id, _ := uuid.NewV7()
		exercise.ID = id.String()
	}
	exercise.CreatedAt = time.Now()
	exercise.UpdatedAt = time.Now()

	if err := ds.db.Create(exercise).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return exercise, nil
}

func (ds *SqlService) GetExercise(id string) (*model.Exercise, error) {
	var exercise model.Exercise
	if err := ds.db.Where("id = ?", id).First(&exercise).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &exercise, nil
}

func (ds *SqlService) GetExercisesByLesson(lessonID string) ([]model.Exercise, error) {
	var exercises []model.Exercise
	if err := ds.db.Where("lesson_id = ?", lessonID).
		Order("created_at ASC").Find(&exercises).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return exercises, nil
}

// ==================== PROGRESS METHODS ====================

func (ds *SqlService) GetProgress(userID, lessonID string) (*model.Progress, error) {
	var progress model.Progress
	if err := ds.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &progress, nil
}

func (ds *SqlService) GetUserProgress(userID string) ([]model.Progress, error) {
	var progress []model.Progress
	if err := ds.db.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return progress, nil
}

// UpsertProgress writes the completion record in one statement keyed on
// (user_id, lesson_id). Retakes overwrite score and timestamp in place;
// the row count for a pair never exceeds one.
func (ds *SqlService) UpsertProgress(progress *model.Progress) error {
	if progress.ID == "" {
		id, _ := uuid.NewV7()
		progress.ID = id.String()
	}
	now := time.Now()
	progress.CreatedAt = now
	progress.UpdatedAt = now

	err := ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":    progress.Completed,
			"score":        progress.Score,
			"completed_at": progress.CompletedAt,
			"updated_at":   now,
		}),
	}).Create(progress).Error

	return ds.HandleError(err)
}

func (ds *SqlService) CountProgress(userID, lessonID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.Progress{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).Count(&count).Error
	if err != nil {
		return 0, ds.HandleError(err)
	}
	return count, nil
}

// ==================== ANSWER METHODS ====================

// CreateAnswer appends to the submission log. There is deliberately no
// update or delete counterpart.
func (ds *SqlService) CreateAnswer(answer *model.Answer) error {
	if answer.ID == "" {
		id, _ := uuid.NewV7()
		answer.ID = id.String()
	}
	answer.CreatedAt = time.Now()

	if err := ds.db.Create(answer).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *SqlService) GetUserAnswers(userID string) ([]model.Answer, error) {
	var answers []model.Answer
	if err := ds.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&answers).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return answers, nil
}
