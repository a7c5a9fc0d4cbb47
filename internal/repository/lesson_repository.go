package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

// Create assigns the lesson's order as max(order)+1 within its course
// before inserting. Assignment and insert share a transaction so two
// concurrent creates cannot claim the same slot.
func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		err := tx.Model(&model.Lesson{}).
			Where("course_id = ?", lesson.CourseID).
			Select("COALESCE(MAX(`order`), 0)").
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}
		lesson.Order = maxOrder + 1
		return tx.Create(lesson).Error
	})
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) ListByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).Order("`order` ASC").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}
