package model

import "time"

type LessonIDList []uint

// Contains reports whether the lesson is already in the completed set.
func (l LessonIDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Progress is the per-(user, course) record mutated by the completion
// tracker and the grading engine. At most one row exists per pair.
// swagger:model Progress
type Progress struct {
	BaseModel
	UserID   uint    `gorm:"uniqueIndex:idx_progress_user_course;not null" json:"userId"`
	User     *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CourseID uint    `gorm:"uniqueIndex:idx_progress_user_course;not null" json:"courseId"`
	Course   *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`

	CompletedLessons     LessonIDList `gorm:"type:json;serializer:json" json:"completedLessons"`
	QuizResults          []QuizResult `gorm:"foreignKey:ProgressID" json:"quizResults"`
	LastAccessed         time.Time    `json:"lastAccessed"`
	CompletionPercentage float64      `gorm:"default:0" json:"completionPercentage"`
	Completed            bool         `gorm:"default:false" json:"completed"`
	CompletedAt          *time.Time   `json:"completedAt,omitempty"`
}

func (Progress) TableName() string {
	return "progress"
}

// QuizResult is the immutable-once-written outcome of a single quiz attempt.
// The unique (progress, quiz) index enforces single-attempt at the store.
// swagger:model QuizResult
type QuizResult struct {
	BaseModel
	ProgressID  uint      `gorm:"uniqueIndex:idx_result_progress_quiz;not null" json:"-"`
	QuizID      uint      `gorm:"uniqueIndex:idx_result_progress_quiz;not null" json:"quizId"`
	Score       float64   `gorm:"not null" json:"score"` // percentage
	Passed      bool      `gorm:"not null" json:"passed"`
	CompletedAt time.Time `json:"completedAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
