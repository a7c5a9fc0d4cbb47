package service

import (
	"net/url"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollCreatesZeroedProgress(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	course := f.course(t, instructor, "Go Basics")
	f.lesson(t, instructor, course.ID, "Intro")

	progress := f.enroll(t, student, course.ID)

	assert.Equal(t, student.ID, progress.UserID)
	assert.Equal(t, course.ID, progress.CourseID)
	assert.Zero(t, progress.CompletionPercentage)
	assert.False(t, progress.Completed)
	assert.Nil(t, progress.CompletedAt)
	assert.Empty(t, progress.CompletedLessons)

	var count int64
	require.NoError(t, f.db.Model(&model.Progress{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnrollTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	course := f.course(t, instructor, "Go Basics")

	f.enroll(t, student, course.ID)

	_, err := f.courses.Enroll(course.ID, student.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestEnrollMissingCourse(t *testing.T) {
	f := newFixture(t)
	student := f.user(t, "student", model.Student)

	_, err := f.courses.Enroll(9999, student.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCourseUpdateOwnershipPolicy(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.Instructor)
	other := f.user(t, "other", model.Instructor)
	admin := f.user(t, "admin", model.Admin)
	course := f.course(t, owner, "Go Basics")

	title := "Go Basics, Revised"

	_, err := f.courses.Update(t.Context(), course.ID, other.ID, other.Role, UpdateCourseRequest{Title: &title})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := f.courses.Update(t.Context(), course.ID, owner.ID, owner.Role, UpdateCourseRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	adminTitle := "Go Basics, Admin Edit"
	updated, err = f.courses.Update(t.Context(), course.ID, admin.ID, admin.Role, UpdateCourseRequest{Title: &adminTitle})
	require.NoError(t, err)
	assert.Equal(t, adminTitle, updated.Title)
}

func TestCourseDeleteOwnershipPolicy(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.Instructor)
	other := f.user(t, "other", model.Instructor)
	course := f.course(t, owner, "Go Basics")

	err := f.courses.Delete(t.Context(), course.ID, other.ID, other.Role)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	require.NoError(t, f.courses.Delete(t.Context(), course.ID, owner.ID, owner.Role))

	_, err = f.courses.Get(t.Context(), course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCourseListFiltering(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)

	_, err := f.courses.Create(instructor.ID, instructor.Role, CreateCourseRequest{
		Title: "Go Basics", Description: "d", Category: "go",
	})
	require.NoError(t, err)
	_, err = f.courses.Create(instructor.ID, instructor.Role, CreateCourseRequest{
		Title: "Rust Basics", Description: "d", Category: "rust",
	})
	require.NoError(t, err)

	courses, err := f.courses.List(url.Values{"category": {"go"}})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Go Basics", courses[0].Title)
}

func TestCourseListRejectsUnknownFilter(t *testing.T) {
	f := newFixture(t)

	_, err := f.courses.List(url.Values{"password": {"x"}})
	require.Error(t, err)
	assert.True(t, util.IsValidationError(err))
}

func TestCourseGetIncludesOrderedLessons(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	course := f.course(t, instructor, "Go Basics")
	f.lesson(t, instructor, course.ID, "One")
	f.lesson(t, instructor, course.ID, "Two")
	f.lesson(t, instructor, course.ID, "Three")

	got, err := f.courses.Get(t.Context(), course.ID)
	require.NoError(t, err)
	require.Len(t, got.Lessons, 3)
	for i, lesson := range got.Lessons {
		assert.Equal(t, i+1, lesson.Order)
	}
}
