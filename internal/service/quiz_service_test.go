package service

import (
	"encoding/json"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeMultipleChoice(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 70,
		Questions: []model.QuizQuestion{
			{
				Type:    model.MultipleChoice,
				Options: model.QuestionOptions{{Text: "a"}, {Text: "b", IsCorrect: true}},
				Points:  2,
			},
		},
	}

	got := Grade(quiz, []Answer{ChoiceAnswer(1)})
	assert.Equal(t, float64(100), got.Score)
	assert.True(t, got.Passed)

	got = Grade(quiz, []Answer{ChoiceAnswer(0)})
	assert.Equal(t, float64(0), got.Score)
	assert.False(t, got.Passed)
}

func TestGradeTrueFalseRequiresBoolean(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 50,
		Questions: []model.QuizQuestion{
			{
				Type:    model.TrueFalse,
				Options: model.QuestionOptions{{Text: "true", IsCorrect: true}},
				Points:  1,
			},
		},
	}

	got := Grade(quiz, []Answer{BoolAnswer(true)})
	assert.Equal(t, float64(100), got.Score)

	got = Grade(quiz, []Answer{BoolAnswer(false)})
	assert.Equal(t, float64(0), got.Score)

	// A numeric answer never matches a true-false question, whatever its
	// value.
	got = Grade(quiz, []Answer{ChoiceAnswer(1)})
	assert.Equal(t, float64(0), got.Score)
}

func TestGradeShortAnswerCountsAgainstDenominator(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 70,
		Questions: []model.QuizQuestion{
			{
				Type:    model.MultipleChoice,
				Options: model.QuestionOptions{{Text: "a", IsCorrect: true}},
				Points:  1,
			},
			{Type: model.ShortAnswer, Points: 1},
		},
	}

	got := Grade(quiz, []Answer{ChoiceAnswer(0), BoolAnswer(true)})
	assert.Equal(t, float64(50), got.Score)
	assert.False(t, got.Passed)
}

func TestGradeMixedQuiz(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 70,
		Questions: []model.QuizQuestion{
			{
				Type:    model.MultipleChoice,
				Options: model.QuestionOptions{{Text: "a"}, {Text: "b", IsCorrect: true}},
				Points:  2,
			},
			{
				Type:    model.TrueFalse,
				Options: model.QuestionOptions{{Text: "true", IsCorrect: false}},
				Points:  1,
			},
			{
				Type:    model.MultipleChoice,
				Options: model.QuestionOptions{{Text: "a", IsCorrect: true}},
				Points:  1,
			},
		},
	}

	got := Grade(quiz, []Answer{ChoiceAnswer(1), BoolAnswer(false), ChoiceAnswer(2)})
	assert.Equal(t, float64(75), got.Score)
	assert.True(t, got.Passed)
	assert.Equal(t, 3, got.Awarded)
	assert.Equal(t, 4, got.Total)
}

func TestGradeMissingAnswersScoreZero(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 70,
		Questions: []model.QuizQuestion{
			{
				Type:    model.MultipleChoice,
				Options: model.QuestionOptions{{Text: "a", IsCorrect: true}},
				Points:  1,
			},
			{
				Type:    model.MultipleChoice,
				Options: model.QuestionOptions{{Text: "a", IsCorrect: true}},
				Points:  1,
			},
		},
	}

	got := Grade(quiz, []Answer{ChoiceAnswer(0)})
	assert.Equal(t, float64(50), got.Score)
}

func TestGradeZeroPointQuiz(t *testing.T) {
	quiz := &model.Quiz{PassingScore: 70}

	got := Grade(quiz, nil)
	assert.Equal(t, float64(0), got.Score)
	assert.False(t, got.Passed)
}

func TestAnswerUnmarshalDistinguishesTypes(t *testing.T) {
	var answers []Answer
	require.NoError(t, json.Unmarshal([]byte(`[2, true, "essay text"]`), &answers))
	require.Len(t, answers, 3)

	assert.Equal(t, ChoiceAnswer(2), answers[0])
	assert.Equal(t, BoolAnswer(true), answers[1])
	assert.Equal(t, Answer{}, answers[2])
}

func TestSubmitQuizRecordsResult(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	course := f.course(t, instructor, "Go Basics")
	f.enroll(t, student, course.ID)

	quiz, err := f.quizzes.CreateForCourse(course.ID, instructor.ID, instructor.Role, CreateQuizRequest{
		Title:     "Checkpoint",
		Questions: []QuestionRequest{mcQuestion("q1", 1, 2)},
	})
	require.NoError(t, err)

	result, err := f.quizzes.Submit(quiz.ID, student.ID, QuizSubmission{Answers: []Answer{ChoiceAnswer(1)}})
	require.NoError(t, err)

	assert.Equal(t, float64(100), result.Score)
	assert.True(t, result.Passed)
	require.Len(t, result.Progress.QuizResults, 1)
	assert.Equal(t, quiz.ID, result.Progress.QuizResults[0].QuizID)
	assert.Equal(t, float64(100), result.Progress.QuizResults[0].Score)

	// The stored progress row carries the result as well.
	progress, err := f.progress.CourseProgress(student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, progress.QuizResults, 1)
}

func TestSubmitQuizFailingScore(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	course := f.course(t, instructor, "Go Basics")
	f.enroll(t, student, course.ID)

	quiz, err := f.quizzes.CreateForCourse(course.ID, instructor.ID, instructor.Role, CreateQuizRequest{
		Title:     "Checkpoint",
		Questions: []QuestionRequest{mcQuestion("q1", 1, 2)},
	})
	require.NoError(t, err)

	result, err := f.quizzes.Submit(quiz.ID, student.ID, QuizSubmission{Answers: []Answer{ChoiceAnswer(0)}})
	require.NoError(t, err)

	assert.Equal(t, float64(0), result.Score)
	assert.False(t, result.Passed)
	require.Len(t, result.Progress.QuizResults, 1)
}

func TestSubmitQuizTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	course := f.course(t, instructor, "Go Basics")
	f.enroll(t, student, course.ID)

	quiz, err := f.quizzes.CreateForCourse(course.ID, instructor.ID, instructor.Role, CreateQuizRequest{
		Title:     "Checkpoint",
		Questions: []QuestionRequest{mcQuestion("q1", 0, 1)},
	})
	require.NoError(t, err)

	_, err = f.quizzes.Submit(quiz.ID, student.ID, QuizSubmission{Answers: []Answer{ChoiceAnswer(0)}})
	require.NoError(t, err)

	_, err = f.quizzes.Submit(quiz.ID, student.ID, QuizSubmission{Answers: []Answer{ChoiceAnswer(0)}})
	assert.ErrorIs(t, err, util.ErrQuizAlreadyTaken)

	// The first attempt's score stands.
	progress, err := f.progress.CourseProgress(student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, progress.QuizResults, 1)
	assert.Equal(t, float64(100), progress.QuizResults[0].Score)
}

func TestSubmitQuizRequiresEnrollment(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	course := f.course(t, instructor, "Go Basics")

	quiz, err := f.quizzes.CreateForCourse(course.ID, instructor.ID, instructor.Role, CreateQuizRequest{
		Title:     "Checkpoint",
		Questions: []QuestionRequest{mcQuestion("q1", 0, 1)},
	})
	require.NoError(t, err)

	_, err = f.quizzes.Submit(quiz.ID, student.ID, QuizSubmission{Answers: []Answer{ChoiceAnswer(0)}})
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestQuizCreateOwnershipPolicy(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.Instructor)
	other := f.user(t, "other", model.Instructor)
	course := f.course(t, owner, "Go Basics")

	_, err := f.quizzes.CreateForCourse(course.ID, other.ID, other.Role, CreateQuizRequest{
		Title: "Sneaky",
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestQuizCreateForLessonSetsCourse(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	course := f.course(t, instructor, "Go Basics")
	lesson := f.lesson(t, instructor, course.ID, "One")

	quiz, err := f.quizzes.CreateForLesson(lesson.ID, instructor.ID, instructor.Role, CreateQuizRequest{
		Title:     "Lesson Check",
		Questions: []QuestionRequest{tfQuestion("q1", true, 1)},
	})
	require.NoError(t, err)

	assert.Equal(t, course.ID, quiz.CourseID)
	require.NotNil(t, quiz.LessonID)
	assert.Equal(t, lesson.ID, *quiz.LessonID)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, 1, quiz.Questions[0].Order)

	quizzes, err := f.quizzes.ListByLesson(lesson.ID)
	require.NoError(t, err)
	assert.Len(t, quizzes, 1)
}

func TestQuizDefaultsPassingScoreAndPoints(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	course := f.course(t, instructor, "Go Basics")

	quiz, err := f.quizzes.CreateForCourse(course.ID, instructor.ID, instructor.Role, CreateQuizRequest{
		Title:     "Defaults",
		Questions: []QuestionRequest{{Text: "q1", Options: model.QuestionOptions{{Text: "a", IsCorrect: true}}}},
	})
	require.NoError(t, err)

	assert.Equal(t, 70, quiz.PassingScore)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, 1, quiz.Questions[0].Points)
	assert.Equal(t, model.MultipleChoice, quiz.Questions[0].Type)
}
