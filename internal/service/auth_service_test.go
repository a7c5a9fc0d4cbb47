package service

import (
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*fixture, *AuthService) {
	t.Helper()

	f := newFixture(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return f, NewAuthService(repository.NewUserRepository(f.db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	_, auth := newAuthFixture(t)

	user, err := auth.Register(RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "password123", user.Password)

	token, err := auth.Login("ada@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, auth := newAuthFixture(t)

	req := RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"}
	_, err := auth.Register(req)
	require.NoError(t, err)

	_, err = auth.Register(req)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	_, auth := newAuthFixture(t)

	user, err := auth.Register(RegisterRequest{
		Name:     "Mallory",
		Email:    "mallory@example.com",
		Password: "password123",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)

	instructor, err := auth.Register(RegisterRequest{
		Name:     "Grace",
		Email:    "grace@example.com",
		Password: "password123",
		Role:     "instructor",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Instructor, instructor.Role)
}

func TestProfileIncludesEnrolledCourses(t *testing.T) {
	f, auth := newAuthFixture(t)
	instructor := f.user(t, "teacher", model.Instructor)
	student := f.user(t, "student", model.Student)
	course := f.course(t, instructor, "Go Basics")
	f.enroll(t, student, course.ID)

	profile, err := auth.Profile(student.ID)
	require.NoError(t, err)
	require.Len(t, profile.EnrolledCourses, 1)
	assert.Equal(t, course.ID, profile.EnrolledCourses[0].ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, auth := newAuthFixture(t)

	_, err := auth.Register(RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = auth.Login("ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = auth.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
