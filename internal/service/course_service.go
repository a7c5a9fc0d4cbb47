package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const courseCacheTTL = 10 * time.Minute

func courseDetailKey(id uint) string {
	return fmt.Sprintf("course:detail:%d", id)
}

type CourseService struct {
	CourseRepo *repository.CourseRepository
	Storage    *StorageService
	Redis      *redis.Client
}

func NewCourseService(courseRepo *repository.CourseRepository, storage *StorageService, rdb *redis.Client) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		Storage:    storage,
		Redis:      rdb,
	}
}

type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Instructor  uint   `json:"instructor"`
}

type UpdateCourseRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Instructor  *uint   `json:"instructor"`
}

func (s *CourseService) List(query url.Values) ([]model.Course, error) {
	q, err := repository.ParseListQuery(query, repository.CourseFilterSchema)
	if err != nil {
		return nil, err
	}
	return s.CourseRepo.List(q)
}

// Get returns one course with its lessons, read through the redis cache
// when one is configured.
func (s *CourseService) Get(ctx context.Context, id uint) (*model.Course, error) {
	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, courseDetailKey(id)).Result(); err == nil {
			var cached model.Course
			if json.Unmarshal([]byte(val), &cached) == nil {
				return &cached, nil
			}
		}
	}

	course, err := s.CourseRepo.FindByIDWithLessons(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(course); err == nil {
			s.Redis.Set(ctx, courseDetailKey(id), raw, courseCacheTTL)
		}
	}
	return course, nil
}

func (s *CourseService) invalidate(ctx context.Context, id uint) {
	if s.Redis != nil {
		s.Redis.Del(ctx, courseDetailKey(id))
	}
}

func (s *CourseService) Create(callerID uint, role model.UserRole, req CreateCourseRequest) (*model.Course, error) {
	instructorID := callerID
	// Only admins may author a course on another instructor's behalf.
	if req.Instructor != 0 && role == model.Admin {
		instructorID = req.Instructor
	}

	course := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		InstructorID: instructorID,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, id, callerID uint, role model.UserRole, req UpdateCourseRequest) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	if !CanModifyCourse(course, callerID, role) {
		return nil, util.ErrPermissionDenied
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	// The instructor reference is immutable unless an admin reassigns it.
	if req.Instructor != nil && role == model.Admin {
		course.InstructorID = *req.Instructor
	}

	course.Instructor = nil
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id, callerID uint, role model.UserRole) error {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrCourseNotFound
	}
	if err != nil {
		return err
	}

	if !CanModifyCourse(course, callerID, role) {
		return util.ErrPermissionDenied
	}

	if err := s.CourseRepo.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Enroll adds the caller to the course and creates their Progress record.
func (s *CourseService) Enroll(courseID, userID uint) (*model.Progress, error) {
	_, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	enrolled, err := s.CourseRepo.IsEnrolled(courseID, userID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, util.ErrAlreadyEnrolled
	}

	return s.CourseRepo.Enroll(courseID, userID)
}

// UploadThumbnail stores a new course thumbnail and records its URL.
func (s *CourseService) UploadThumbnail(ctx context.Context, id, callerID uint, role model.UserRole, file *multipart.FileHeader) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	if !CanModifyCourse(course, callerID, role) {
		return nil, util.ErrPermissionDenied
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	name := ObjectName(fmt.Sprintf("thumbnails/%d", id), file.Filename)
	urlStr, err := s.Storage.Upload(ctx, name, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	course.Thumbnail = urlStr
	course.Instructor = nil
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return course, nil
}
