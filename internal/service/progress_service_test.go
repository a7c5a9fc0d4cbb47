package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMyProgressListsAllEnrollments(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	courseA := f.course(t, instructor, "Course A")
	courseB := f.course(t, instructor, "Course B")
	f.enroll(t, student, courseA.ID)
	f.enroll(t, student, courseB.ID)

	progress, err := f.progress.MyProgress(student.ID)
	require.NoError(t, err)
	assert.Len(t, progress, 2)
}

func TestCourseProgressRequiresEnrollment(t *testing.T) {
	f := newFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	course := f.course(t, instructor, "Go Basics")

	_, err := f.progress.CourseProgress(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrProgressNotFound)
}

func TestCourseRosterPolicy(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner", model.Instructor)
	other := f.user(t, "other", model.Instructor)
	admin := f.user(t, "admin", model.Admin)
	s1 := f.user(t, "student1", model.Student)
	s2 := f.user(t, "student2", model.Student)
	course := f.course(t, owner, "Go Basics")
	f.enroll(t, s1, course.ID)
	f.enroll(t, s2, course.ID)

	_, err := f.progress.CourseRoster(course.ID, other.ID, other.Role)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	roster, err := f.progress.CourseRoster(course.ID, owner.ID, owner.Role)
	require.NoError(t, err)
	assert.Len(t, roster, 2)

	roster, err = f.progress.CourseRoster(course.ID, admin.ID, admin.Role)
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}

func TestCourseRosterMissingCourse(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "admin", model.Admin)

	_, err := f.progress.CourseRoster(9999, admin.ID, admin.Role)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCanModifyCourse(t *testing.T) {
	course := &model.Course{InstructorID: 7}

	assert.True(t, CanModifyCourse(course, 7, model.Instructor))
	assert.False(t, CanModifyCourse(course, 8, model.Instructor))
	assert.False(t, CanModifyCourse(course, 8, model.Student))
	assert.True(t, CanModifyCourse(course, 8, model.Admin))
}
