package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonOrderAssignedPerCourse(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	courseA := f.course(t, instructor, "Course A")
	courseB := f.course(t, instructor, "Course B")

	a1 := f.lesson(t, instructor, courseA.ID, "A1")
	a2 := f.lesson(t, instructor, courseA.ID, "A2")
	b1 := f.lesson(t, instructor, courseB.ID, "B1")
	a3 := f.lesson(t, instructor, courseA.ID, "A3")

	assert.Equal(t, 1, a1.Order)
	assert.Equal(t, 2, a2.Order)
	assert.Equal(t, 3, a3.Order)
	// Each course numbers its lessons independently.
	assert.Equal(t, 1, b1.Order)
}

func TestLessonCreateOwnershipPolicy(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.Instructor)
	other := f.user(t, "other", model.Instructor)
	course := f.course(t, owner, "Go Basics")

	_, err := f.lessons.Create(course.ID, other.ID, other.Role, CreateLessonRequest{
		Title: "Sneaky", Content: "c",
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestCompleteLessonUpdatesPercentage(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	course := f.course(t, instructor, "Go Basics")
	l1 := f.lesson(t, instructor, course.ID, "One")
	l2 := f.lesson(t, instructor, course.ID, "Two")
	l3 := f.lesson(t, instructor, course.ID, "Three")
	f.lesson(t, instructor, course.ID, "Four")
	f.enroll(t, student, course.ID)

	progress, err := f.lessons.Complete(l1.ID, student.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25, progress.CompletionPercentage, 0.001)
	assert.False(t, progress.Completed)

	progress, err = f.lessons.Complete(l2.ID, student.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50, progress.CompletionPercentage, 0.001)

	progress, err = f.lessons.Complete(l3.ID, student.ID)
	require.NoError(t, err)
	assert.InDelta(t, 75, progress.CompletionPercentage, 0.001)
	assert.False(t, progress.Completed)
	assert.Nil(t, progress.CompletedAt)
}

func TestCompleteAllLessonsFinishesCourseOnce(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	course := f.course(t, instructor, "Go Basics")
	l1 := f.lesson(t, instructor, course.ID, "One")
	l2 := f.lesson(t, instructor, course.ID, "Two")
	f.enroll(t, student, course.ID)

	_, err := f.lessons.Complete(l1.ID, student.ID)
	require.NoError(t, err)

	progress, err := f.lessons.Complete(l2.ID, student.ID)
	require.NoError(t, err)

	assert.Equal(t, float64(100), progress.CompletionPercentage)
	assert.True(t, progress.Completed)
	require.NotNil(t, progress.CompletedAt)
	firstStamp := *progress.CompletedAt

	// Adding a lesson afterwards lowers the percentage but never clears
	// the completion stamp.
	l3 := f.lesson(t, instructor, course.ID, "Three")
	progress, err = f.lessons.Complete(l3.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(100), progress.CompletionPercentage)
	assert.True(t, progress.Completed)
	require.NotNil(t, progress.CompletedAt)
	assert.Equal(t, firstStamp, *progress.CompletedAt)
}

func TestCompleteLessonTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	course := f.course(t, instructor, "Go Basics")
	lesson := f.lesson(t, instructor, course.ID, "One")
	f.lesson(t, instructor, course.ID, "Two")
	f.enroll(t, student, course.ID)

	_, err := f.lessons.Complete(lesson.ID, student.ID)
	require.NoError(t, err)

	_, err = f.lessons.Complete(lesson.ID, student.ID)
	assert.ErrorIs(t, err, util.ErrLessonAlreadyCompleted)

	// The double completion left the percentage untouched.
	progress, err := f.progress.CourseProgress(student.ID, course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50, progress.CompletionPercentage, 0.001)
	assert.Len(t, progress.CompletedLessons, 1)
}

func TestCompleteLessonRequiresEnrollment(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	course := f.course(t, instructor, "Go Basics")
	lesson := f.lesson(t, instructor, course.ID, "One")

	_, err := f.lessons.Complete(lesson.ID, student.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestCompleteMissingLesson(t *testing.T) {
	f := newFixture(t)
	student := f.user(t, "student", model.Student)

	_, err := f.lessons.Complete(9999, student.ID)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestLessonListInCourseOrder(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	course := f.course(t, instructor, "Go Basics")
	f.lesson(t, instructor, course.ID, "One")
	f.lesson(t, instructor, course.ID, "Two")

	lessons, err := f.lessons.ListByCourse(course.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "One", lessons[0].Title)
	assert.Equal(t, "Two", lessons[1].Title)
}
