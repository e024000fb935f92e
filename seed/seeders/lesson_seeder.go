package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/trigono-learn/trigono_api/model"
)

// LessonSeeder seeds the trigonometry curriculum.
type LessonSeeder struct {
	db *gorm.DB
}

func NewLessonSeeder(db *gorm.DB) *LessonSeeder {
	return &LessonSeeder{db: db}
}

// SeedLessons inserts the curriculum lessons, skipping any that already
// exist so the seeder is safe to re-run.
func (s *LessonSeeder) SeedLessons() error {
	lessons := s.getCurriculumLessons()

	for _, lesson := range lessons {
		var existing model.Lesson
		if err := s.db.Where("id = ?", lesson.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&lesson).Error; err != nil {
					log.Printf("Error creating lesson %s: %v", lesson.Title, err)
					return err
				}
				log.Printf("Created lesson: %s", lesson.Title)
			} else {
				log.Printf("Error checking lesson %s: %v", lesson.Title, err)
				return err
			}
		} else {
			log.Printf("Lesson %s already exists, skipping", lesson.Title)
		}
	}

	log.Println("Lesson seeding completed successfully")
	return nil
}

func (s *LessonSeeder) getCurriculumLessons() []model.Lesson {
	now := time.Now()

	return []model.Lesson{
		{
			ID:    "lesson_right_triangle",
			Title: "The Right Triangle",
			Order: 1,
			Content: "A right triangle has one angle of exactly 90 degrees. The side opposite " +
				"the right angle is the hypotenuse, always the longest side. The other two sides " +
				"are the legs, named opposite or adjacent relative to the angle under study. " +
				"The Pythagorean theorem ties them together: a² + b² = c².",
			XPReward:  50,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:    "lesson_sine_cosine",
			Title: "Sine and Cosine",
			Order: 2,
			Content: "For an acute angle θ in a right triangle, sine is the ratio of the opposite " +
				"leg to the hypotenuse and cosine is the ratio of the adjacent leg to the hypotenuse. " +
				"Both ratios depend only on the angle, not on the size of the triangle. " +
				"Memorable values: sin 30° = 1/2, cos 60° = 1/2, sin 45° = cos 45° = √2/2.",
			XPReward:  50,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:    "lesson_tangent",
			Title: "Tangent and Cotangent",
			Order: 3,
			Content: "Tangent is the ratio of the opposite leg to the adjacent leg, which also equals " +
				"sin θ / cos θ. Cotangent is its reciprocal. Tangent grows without bound as the angle " +
				"approaches 90°, which is why tan 90° is undefined. tan 45° = 1 because the legs of a " +
				"45-45-90 triangle are equal.",
			XPReward:  60,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:    "lesson_unit_circle",
			Title: "The Unit Circle",
			Order: 4,
			Content: "Placing a circle of radius 1 at the origin extends the trig functions to any angle. " +
				"A point on the circle at angle θ has coordinates (cos θ, sin θ). Angles are usually " +
				"measured in radians here: a full turn is 2π, a half turn is π, and a right angle is π/2. " +
				"The circle makes the signs of sine and cosine in each quadrant easy to read off.",
			XPReward:  70,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:    "lesson_identities",
			Title: "Fundamental Identities",
			Order: 5,
			Content: "The Pythagorean identity sin²θ + cos²θ = 1 follows directly from the unit circle. " +
				"From it derive 1 + tan²θ = sec²θ and 1 + cot²θ = csc²θ. Identities let you rewrite any " +
				"trig expression in terms of a single function, which is the main tool for solving " +
				"trigonometric equations.",
			XPReward:  80,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:    "lesson_law_sines_cosines",
			Title: "Law of Sines and Law of Cosines",
			Order: 6,
			Content: "Beyond right triangles, the law of sines states a/sin A = b/sin B = c/sin C, and the " +
				"law of cosines generalizes Pythagoras: c² = a² + b² − 2ab·cos C. Together they solve any " +
				"triangle from three known parts, a staple of navigation and surveying problems.",
			XPReward:  100,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
