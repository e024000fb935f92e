package seeders

import (
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/trigono-learn/trigono_api/model"
	"github.com/trigono-learn/trigono_api/shared"
)

// ExerciseSeeder seeds exercises for the curriculum lessons.
type ExerciseSeeder struct {
	db *gorm.DB
}

func NewExerciseSeeder(db *gorm.DB) *ExerciseSeeder {
	return &ExerciseSeeder{db: db}
}

// SeedExercises inserts exercises, skipping any that already exist.
func (s *ExerciseSeeder) SeedExercises() error {
	exercises := s.getCurriculumExercises()

	for _, exercise := range exercises {
		var existing model.Exercise
		if err := s.db.Where("id = ?", exercise.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&exercise).Error; err != nil {
					log.Printf("Error creating exercise %s: %v", exercise.ID, err)
					return err
				}
				log.Printf("Created exercise: %s", exercise.ID)
			} else {
				log.Printf("Error checking exercise %s: %v", exercise.ID, err)
				return err
			}
		} else {
			log.Printf("Exercise %s already exists, skipping", exercise.ID)
		}
	}

	log.Println("Exercise seeding completed successfully")
	return nil
}

func mustOptions(options []string) json.RawMessage {
	b, err := json.Marshal(options)
	if err != nil {
		log.Fatalf("Failed to marshal options: %v", err)
	}
	return b
}

func (s *ExerciseSeeder) getCurriculumExercises() []model.Exercise {
	now := time.Now()

	exercises := []model.Exercise{
		{
			ID:            "ex_rt_1",
			LessonID:      "lesson_right_triangle",
			Type:          shared.ExerciseTypeMultipleChoice,
			Question:      "Which side of a right triangle is always the longest?",
			Options:       mustOptions([]string{"The hypotenuse", "The opposite leg", "The adjacent leg", "They are equal"}),
			CorrectAnswer: "The hypotenuse",
			Explanation:   "The hypotenuse faces the 90° angle, the largest angle, so it is the longest side.",
			Points:        10,
		},
		{
			ID:            "ex_rt_2",
			LessonID:      "lesson_right_triangle",
			Type:          shared.ExerciseTypeFreeInput,
			Question:      "The legs of a right triangle measure 3 and 4. What is the length of the hypotenuse?",
			CorrectAnswer: "5",
			Explanation:   "By the Pythagorean theorem, c² = 3² + 4² = 25, so c = 5.",
			Points:        15,
		},
		{
			ID:            "ex_sc_1",
			LessonID:      "lesson_sine_cosine",
			Type:          shared.ExerciseTypeMultipleChoice,
			Question:      "What is sin 30°?",
			Options:       mustOptions([]string{"1/2", "√2/2", "√3/2", "1"}),
			CorrectAnswer: "1/2",
			Explanation:   "In a 30-60-90 triangle the side opposite 30° is half the hypotenuse.",
			Points:        10,
		},
		{
			ID:            "ex_sc_2",
			LessonID:      "lesson_sine_cosine",
			Type:          shared.ExerciseTypeFreeInput,
			Question:      "sin 45° and cos 45° are equal. Express their common value as √2/x and give x.",
			CorrectAnswer: "2",
			Explanation:   "sin 45° = cos 45° = √2/2, so x = 2.",
			Points:        15,
		},
		{
			ID:            "ex_tan_1",
			LessonID:      "lesson_tangent",
			Type:          shared.ExerciseTypeFreeInput,
			Question:      "What is tan 45°?",
			CorrectAnswer: "1",
			Explanation:   "A 45-45-90 triangle has equal legs, so their ratio is 1.",
			Points:        10,
		},
		{
			ID:            "ex_tan_2",
			LessonID:      "lesson_tangent",
			Type:          shared.ExerciseTypeMultipleChoice,
			Question:      "For which angle is the tangent undefined?",
			Options:       mustOptions([]string{"0°", "45°", "60°", "90°"}),
			CorrectAnswer: "90°",
			Explanation:   "cos 90° = 0, and tangent is sin over cos, so tan 90° is undefined.",
			Points:        10,
		},
		{
			ID:            "ex_uc_1",
			LessonID:      "lesson_unit_circle",
			Type:          shared.ExerciseTypeMultipleChoice,
			Question:      "A point on the unit circle at angle θ has which coordinates?",
			Options:       mustOptions([]string{"(sin θ, cos θ)", "(cos θ, sin θ)", "(tan θ, 1)", "(θ, 1)"}),
			CorrectAnswer: "(cos θ, sin θ)",
			Explanation:   "Cosine gives the horizontal coordinate and sine the vertical one.",
			Points:        10,
		},
		{
			ID:            "ex_uc_2",
			LessonID:      "lesson_unit_circle",
			Type:          shared.ExerciseTypeFreeInput,
			Question:      "How many radians is a half turn? Answer with a single Greek letter.",
			CorrectAnswer: "π",
			Explanation:   "A full turn is 2π radians, so a half turn is π.",
			Points:        15,
		},
		{
			ID:            "ex_id_1",
			LessonID:      "lesson_identities",
			Type:          shared.ExerciseTypeFreeInput,
			Question:      "What does sin²θ + cos²θ equal for every angle θ?",
			CorrectAnswer: "1",
			Explanation:   "The point (cos θ, sin θ) lies on a circle of radius 1, so the sum of squares is 1.",
			Points:        10,
		},
		{
			ID:            "ex_id_2",
			LessonID:      "lesson_identities",
			Type:          shared.ExerciseTypeMultipleChoice,
			Question:      "Which identity follows from dividing sin²θ + cos²θ = 1 by cos²θ?",
			Options:       mustOptions([]string{"1 + tan²θ = sec²θ", "1 + cot²θ = csc²θ", "sin 2θ = 2 sin θ cos θ", "cos 2θ = 1 − 2sin²θ"}),
			CorrectAnswer: "1 + tan²θ = sec²θ",
			Explanation:   "Dividing each term by cos²θ gives tan²θ + 1 = sec²θ.",
			Points:        15,
		},
		{
			ID:            "ex_law_1",
			LessonID:      "lesson_law_sines_cosines",
			Type:          shared.ExerciseTypeMultipleChoice,
			Question:      "The law of cosines reduces to the Pythagorean theorem when angle C equals what?",
			Options:       mustOptions([]string{"30°", "45°", "60°", "90°"}),
			CorrectAnswer: "90°",
			Explanation:   "cos 90° = 0, which removes the −2ab·cos C term and leaves c² = a² + b².",
			Points:        15,
		},
		{
			ID:            "ex_law_2",
			LessonID:      "lesson_law_sines_cosines",
			Type:          shared.ExerciseTypeFreeInput,
			Question:      "In the law of sines, a/sin A equals b divided by the sine of which angle?",
			CorrectAnswer: "B",
			Explanation:   "Each side is paired with the sine of its opposite angle.",
			Points:        10,
		},
	}

	for i := range exercises {
		exercises[i].CreatedAt = now
		exercises[i].UpdatedAt = now
	}

	return exercises
}
