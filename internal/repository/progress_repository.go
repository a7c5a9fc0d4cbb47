package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserAndCourse(userID, courseID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.Preload("QuizResults").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) ListByUser(userID uint) ([]model.Progress, error) {
	var progress []model.Progress
	err := r.DB.Preload("QuizResults").Preload("Course").
		Where("user_id = ?", userID).
		Find(&progress).Error
	return progress, err
}

func (r *ProgressRepository) ListByCourse(courseID uint) ([]model.Progress, error) {
	var progress []model.Progress
	err := r.DB.Preload("QuizResults").Preload("User").
		Where("course_id = ?", courseID).
		Find(&progress).Error
	return progress, err
}

// MutateLocked serializes read-modify-write cycles on one (user, course)
// progress row: the row is loaded under FOR UPDATE inside a transaction,
// handed to fn, and persisted. Concurrent completions of the same pair
// therefore cannot lose updates.
func (r *ProgressRepository) MutateLocked(userID, courseID uint, fn func(tx *gorm.DB, progress *model.Progress) error) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		q := tx.Preload("QuizResults")
		// sqlite has no row locks and serializes writers on its own.
		if tx.Dialector.Name() == "mysql" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Where("user_id = ? AND course_id = ?", userID, courseID).
			First(&progress).Error; err != nil {
			return err
		}
		if err := fn(tx, &progress); err != nil {
			return err
		}
		// Associations (quiz results) are written explicitly by callers.
		return tx.Omit(clause.Associations).Save(&progress).Error
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) CreateQuizResult(tx *gorm.DB, result *model.QuizResult) error {
	return tx.Create(result).Error
}
