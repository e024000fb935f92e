package seeders

import (
	"log"

	"gorm.io/gorm"

	"github.com/trigono-learn/trigono_api/model"
)

// MainSeeder coordinates all seeding operations.
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in dependency order.
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.migrate(); err != nil {
		return err
	}

	lessonSeeder := NewLessonSeeder(s.db)
	if err := lessonSeeder.SeedLessons(); err != nil {
		log.Printf("Lesson seeding failed: %v", err)
		return err
	}

	exerciseSeeder := NewExerciseSeeder(s.db)
	if err := exerciseSeeder.SeedExercises(); err != nil {
		log.Printf("Exercise seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) migrate() error {
	return s.db.AutoMigrate(
		&model.User{},
		&model.Lesson{},
		&model.Exercise{},
		&model.Progress{},
		&model.Answer{},
	)
}

// SeedLessonsOnly seeds only lessons.
func (s *MainSeeder) SeedLessonsOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	lessonSeeder := NewLessonSeeder(s.db)
	return lessonSeeder.SeedLessons()
}

// SeedExercisesOnly seeds only exercises. Lessons must exist first.
func (s *MainSeeder) SeedExercisesOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	exerciseSeeder := NewExerciseSeeder(s.db)
	return exerciseSeeder.SeedExercises()
}
