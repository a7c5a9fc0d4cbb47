package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	CourseRepo   *repository.CourseRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository, courseRepo *repository.CourseRepository) *ProgressService {
	return &ProgressService{ProgressRepo: progressRepo, CourseRepo: courseRepo}
}

// MyProgress returns the caller's progress across all enrolled courses.
func (s *ProgressService) MyProgress(userID uint) ([]model.Progress, error) {
	return s.ProgressRepo.ListByUser(userID)
}

// CourseProgress returns the caller's progress in one course.
func (s *ProgressService) CourseProgress(userID, courseID uint) (*model.Progress, error) {
	progress, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProgressNotFound
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// CourseRoster returns every student's progress in a course. Only the
// course owner or an admin may read it.
func (s *ProgressService) CourseRoster(courseID, callerID uint, role model.UserRole) ([]model.Progress, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	if !CanModifyCourse(course, callerID, role) {
		return nil, util.ErrPermissionDenied
	}

	return s.ProgressRepo.ListByCourse(courseID)
}
