package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trigono-learn/trigono_api/dto"
	"github.com/trigono-learn/trigono_api/model"
	"github.com/trigono-learn/trigono_api/shared"
)

func newTestContentService(t *testing.T) (*ContentService, *SqlService) {
	t.Helper()

	ds := newTestSqlService(t)
	return &ContentService{sqlSvc: ds}, ds
}

func createTestExercise(t *testing.T, ds *SqlService, lessonID, answer string, points int) *model.Exercise {
	t.Helper()

	exercise, err := ds.CreateExercise(&model.Exercise{
		LessonID:      lessonID,
		Type:          shared.ExerciseTypeFreeInput,
		Question:      "What is sin 30 in degrees, as a fraction?",
		CorrectAnswer: answer,
		Explanation:   "The side opposite 30 degrees is half the hypotenuse.",
		Points:        points,
	})
	require.NoError(t, err)
	return exercise
}

func TestAnswerMatches(t *testing.T) {
	tests := []struct {
		name      string
		submitted string
		correct   string
		want      bool
	}{
		{"exact match", "30", "30", true},
		{"surrounding whitespace trimmed", "  30  ", "30", true},
		{"whitespace on stored answer trimmed", "30", " 30 ", true},
		{"different numeric spelling is wrong", "30.0", "30", false},
		{"case sensitive", "Sin", "sin", false},
		{"interior whitespace significant", "3 0", "30", false},
		{"empty submission", "", "30", false},
		{"both empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, answerMatches(tt.submitted, tt.correct))
		})
	}
}

func TestVerifyAnswerCorrect(t *testing.T) {
	svc, ds := newTestContentService(t)
	user := createTestUser(t, ds, 95)
	lesson := createTestLesson(t, ds, 1, 50)
	exercise := createTestExercise(t, ds, lesson.ID, "1/2", 10)

	resp, err := svc.VerifyAnswer(user.ID, dto.VerifyAnswerRequest{
		ExerciseID: exercise.ID,
		Answer:     " 1/2 ",
	})
	require.NoError(t, err)

	assert.True(t, resp.Correct)
	assert.Equal(t, 10, resp.PointsAwarded)
	assert.Equal(t, exercise.Explanation, resp.Explanation)

	// Points pushed the user over the level boundary.
	updated, err := ds.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 105, updated.XP)
	assert.Equal(t, 2, updated.Level)
}

func TestVerifyAnswerIncorrect(t *testing.T) {
	svc, ds := newTestContentService(t)
	user := createTestUser(t, ds, 40)
	lesson := createTestLesson(t, ds, 1, 50)
	exercise := createTestExercise(t, ds, lesson.ID, "1/2", 10)

	resp, err := svc.VerifyAnswer(user.ID, dto.VerifyAnswerRequest{
		ExerciseID: exercise.ID,
		Answer:     "1/3",
	})
	require.NoError(t, err)

	assert.False(t, resp.Correct)
	assert.Equal(t, 0, resp.PointsAwarded)
	assert.Equal(t, exercise.Explanation, resp.Explanation)

	updated, err := ds.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.XP)
}

func TestVerifyAnswerAppendsLog(t *testing.T) {
	svc, ds := newTestContentService(t)
	user := createTestUser(t, ds, 0)
	lesson := createTestLesson(t, ds, 1, 50)
	exercise := createTestExercise(t, ds, lesson.ID, "1/2", 10)

	submissions := []string{"1/3", "1/2", "1/2"}
	for _, s := range submissions {
		_, err := svc.VerifyAnswer(user.ID, dto.VerifyAnswerRequest{
			ExerciseID: exercise.ID,
			Answer:     s,
		})
		require.NoError(t, err)
	}

	answers, err := ds.GetUserAnswers(user.ID)
	require.NoError(t, err)
	require.Len(t, answers, 3)

	correctCount := 0
	for _, a := range answers {
		assert.Equal(t, exercise.ID, a.ExerciseID)
		if a.Correct {
			correctCount++
		}
	}
	assert.Equal(t, 2, correctCount)

	// Every correct submission re-awards the points.
	updated, err := ds.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.XP)
}

func TestVerifyAnswerUnknownExercise(t *testing.T) {
	svc, ds := newTestContentService(t)
	user := createTestUser(t, ds, 0)

	_, err := svc.VerifyAnswer(user.ID, dto.VerifyAnswerRequest{
		ExerciseID: "missing",
		Answer:     "1/2",
	})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)

	// Nothing was logged for the failed lookup.
	answers, err := ds.GetUserAnswers(user.ID)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestVerifyAnswerMissingExerciseID(t *testing.T) {
	svc, ds := newTestContentService(t)
	user := createTestUser(t, ds, 0)

	_, err := svc.VerifyAnswer(user.ID, dto.VerifyAnswerRequest{Answer: "1/2"})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestGetLessonExercises(t *testing.T) {
	svc, ds := newTestContentService(t)
	lesson := createTestLesson(t, ds, 1, 50)

	options, err := json.Marshal([]string{"1/2", "√2/2", "√3/2"})
	require.NoError(t, err)

	_, err = ds.CreateExercise(&model.Exercise{
		LessonID:      lesson.ID,
		Type:          shared.ExerciseTypeMultipleChoice,
		Question:      "What is sin 30°?",
		CorrectAnswer: "1/2",
		Points:        10,
		Options:       options,
	})
	require.NoError(t, err)
	createTestExercise(t, ds, lesson.ID, "1", 15)

	resp, err := svc.GetLessonExercises(lesson.ID)
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)

	mc := resp.Exercises[0]
	assert.Equal(t, shared.ExerciseTypeMultipleChoice, mc.Type)
	assert.Equal(t, []string{"1/2", "√2/2", "√3/2"}, mc.Options)

	free := resp.Exercises[1]
	assert.Equal(t, shared.ExerciseTypeFreeInput, free.Type)
	assert.Empty(t, free.Options)
}

func TestGetLessonExercisesUnknownLesson(t *testing.T) {
	svc, _ := newTestContentService(t)

	_, err := svc.GetLessonExercises("missing")
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestCreateLessonDefaults(t *testing.T) {
	svc, _ := newTestContentService(t)

	resp, err := svc.CreateLesson(dto.CreateLessonRequest{
		Title:   "The Right Triangle",
		Order:   1,
		Content: "A right triangle has one angle of exactly 90 degrees.",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 50, resp.XPReward)
}

func TestCreateExerciseDefaults(t *testing.T) {
	svc, ds := newTestContentService(t)
	lesson := createTestLesson(t, ds, 1, 50)

	resp, err := svc.CreateExercise(lesson.ID, dto.CreateExerciseRequest{
		Question:      "What is tan 45°?",
		CorrectAnswer: "1",
		Options:       []string{"0", "1", "√2"},
	})
	require.NoError(t, err)

	assert.Equal(t, shared.ExerciseTypeMultipleChoice, resp.Type)
	assert.Equal(t, 10, resp.Points)
	assert.Equal(t, []string{"0", "1", "√2"}, resp.Options)

	// The correct answer must never appear in a client-facing payload.
	stored, err := ds.GetExercise(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", stored.CorrectAnswer)
}

func TestCreateExerciseUnknownLesson(t *testing.T) {
	svc, _ := newTestContentService(t)

	_, err := svc.CreateExercise("missing", dto.CreateExerciseRequest{
		Question:      "What is tan 45°?",
		CorrectAnswer: "1",
	})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}
