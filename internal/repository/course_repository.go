package repository

import (
	"time"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

// CourseFilterSchema is the allow-listed filter/sort/select surface of the
// course list endpoint.
var CourseFilterSchema = FieldSchema{
	"title":      "title",
	"category":   "category",
	"instructor": "instructor_id",
	"createdAt":  "created_at",
}

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Instructor").First(&course, id).Error
	return &course, err
}

// FindByIDWithLessons loads the course with its lessons in lesson order.
func (r *CourseRepository) FindByIDWithLessons(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Instructor").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.`order` ASC")
		}).
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List(q *ListQuery) ([]model.Course, error) {
	var courses []model.Course
	err := q.Apply(r.DB.Model(&model.Course{})).Preload("Instructor").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) IsEnrolled(courseID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Table("course_enrollments").
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

// Enroll adds the student to the course's enrolled set and creates the
// pair's Progress record in one transaction, so a failed write cannot leave
// a student enrolled without progress tracking.
func (r *CourseRepository) Enroll(courseID, userID uint) (*model.Progress, error) {
	progress := &model.Progress{
		UserID:           userID,
		CourseID:         courseID,
		CompletedLessons: model.LessonIDList{},
		LastAccessed:     time.Now(),
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		course := model.Course{BaseModel: model.BaseModel{ID: courseID}}
		student := model.User{BaseModel: model.BaseModel{ID: userID}}
		if err := tx.Model(&course).Association("EnrolledStudents").Append(&student); err != nil {
			return err
		}
		return tx.Create(progress).Error
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}
