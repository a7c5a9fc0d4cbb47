package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".wmv": true, ".flv": true, ".webm": true,
}

type LessonService struct {
	LessonRepo   *repository.LessonRepository
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	Storage      *StorageService
	Redis        *redis.Client
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	storage *StorageService,
	rdb *redis.Client,
) *LessonService {
	return &LessonService{
		LessonRepo:   lessonRepo,
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		Storage:      storage,
		Redis:        rdb,
	}
}

type CreateLessonRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Duration int    `json:"duration"`
}

type UpdateLessonRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Duration *int    `json:"duration"`
}

func (s *LessonService) ListByCourse(courseID uint) ([]model.Lesson, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.LessonRepo.ListByCourse(courseID)
}

func (s *LessonService) Get(id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	return lesson, err
}

// Create appends a lesson to a course. The order is assigned by the store,
// never by the caller.
func (s *LessonService) Create(courseID, callerID uint, role model.UserRole, req CreateLessonRequest) (*model.Lesson, error) {
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

	lesson := &model.Lesson{
		Title:    req.Title,
		Content:  req.Content,
		CourseID: courseID,
		Duration: req.Duration,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	s.invalidateCourse(courseID)
	return lesson, nil
}

func (s *LessonService) Update(id, callerID uint, role model.UserRole, req UpdateLessonRequest) (*model.Lesson, error) {
	lesson, course, err := s.findWithCourse(id)
	if err != nil {
		return nil, err
	}

	if !CanModifyCourse(course, callerID, role) {
		return nil, util.ErrPermissionDenied
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.Duration != nil {
		lesson.Duration = *req.Duration
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	s.invalidateCourse(lesson.CourseID)
	return lesson, nil
}

func (s *LessonService) Delete(id, callerID uint, role model.UserRole) error {
	lesson, course, err := s.findWithCourse(id)
	if err != nil {
		return err
	}

	if !CanModifyCourse(course, callerID, role) {
		return util.ErrPermissionDenied
	}

	if err := s.LessonRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateCourse(lesson.CourseID)
	return nil
}

// Complete marks a lesson done for the caller and re-derives the completion
// percentage from authoritative state, all under the progress row lock.
func (s *LessonService) Complete(lessonID, userID uint) (*model.Progress, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}

	progress, err := s.ProgressRepo.MutateLocked(userID, lesson.CourseID, func(tx *gorm.DB, p *model.Progress) error {
		if p.CompletedLessons.Contains(lessonID) {
			return util.ErrLessonAlreadyCompleted
		}

		p.CompletedLessons = append(p.CompletedLessons, lessonID)
		p.LastAccessed = time.Now()

		var total int64
		if err := tx.Model(&model.Lesson{}).Where("course_id = ?", lesson.CourseID).Count(&total).Error; err != nil {
			return err
		}
		// A course without lessons counts as 0% complete.
		if total == 0 {
			p.CompletionPercentage = 0
		} else {
			p.CompletionPercentage = math.Min(float64(len(p.CompletedLessons))/float64(total)*100, 100)
		}

		if p.CompletionPercentage == 100 && !p.Completed {
			now := time.Now()
			p.Completed = true
			p.CompletedAt = &now
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// AddResource uploads a named file for a lesson. Video uploads are probed
// with ffprobe; when the lesson has no duration yet the probed length fills
// it in.
func (s *LessonService) AddResource(ctx context.Context, id, callerID uint, role model.UserRole, name string, file *multipart.FileHeader) (*model.Lesson, error) {
	lesson, course, err := s.findWithCourse(id)
	if err != nil {
		return nil, err
	}

	if !CanModifyCourse(course, callerID, role) {
		return nil, util.ErrPermissionDenied
	}

	if name == "" {
		name = file.Filename
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if videoExtensions[ext] && lesson.Duration == 0 {
		if minutes, err := s.probeDurationMinutes(src, ext); err == nil && minutes > 0 {
			lesson.Duration = minutes
		} else if err != nil {
			logger.Log.Warn("video probe failed", zap.Uint("lesson", id), zap.Error(err))
		}
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}

	object := ObjectName(fmt.Sprintf("lessons/%d", id), file.Filename)
	urlStr, err := s.Storage.Upload(ctx, object, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	lesson.Resources = append(lesson.Resources, model.LessonResource{Name: name, File: urlStr})
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	s.invalidateCourse(lesson.CourseID)
	return lesson, nil
}

// probeDurationMinutes copies the upload to a temp file so ffprobe can read
// it, and rounds the probed duration up to whole minutes.
func (s *LessonService) probeDurationMinutes(src io.Reader, ext string) (int, error) {
	tmp, err := os.CreateTemp("", "lesson-upload-*"+ext)
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		return 0, err
	}

	info, err := util.ProbeVideo(tmp.Name())
	if err != nil {
		return 0, err
	}
	return int(math.Ceil(info.Duration / 60)), nil
}

func (s *LessonService) findWithCourse(id uint) (*model.Lesson, *model.Course, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	course, err := s.CourseRepo.FindByID(lesson.CourseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return lesson, course, nil
}

func (s *LessonService) invalidateCourse(courseID uint) {
	if s.Redis != nil {
		s.Redis.Del(context.Background(), courseDetailKey(courseID))
	}
}
