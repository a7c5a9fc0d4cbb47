package model

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	ShortAnswer    QuestionType = "short-answer"
)

// QuestionOption is one answer choice; order within the options list is
// significant for multiple-choice grading.
type QuestionOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionOptions []QuestionOption

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	CourseID     uint           `gorm:"index;not null" json:"courseId"`
	LessonID     *uint          `gorm:"index" json:"lessonId,omitempty"`
	Questions    []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	TimeLimit    int            `gorm:"default:0" json:"timeLimit"` // minutes, 0 = unlimited
	PassingScore int            `gorm:"default:70" json:"passingScore"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID  uint            `gorm:"index;not null" json:"quizId"`
	Text    string          `gorm:"type:text;not null" json:"text"`
	Type    QuestionType    `gorm:"size:20;default:'multiple-choice'" json:"type"`
	Options QuestionOptions `gorm:"type:json;serializer:json" json:"options"`
	Points  int             `gorm:"default:1" json:"points"`
	Order   int             `gorm:"default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// CorrectOptionIndex returns the lowest option index flagged correct, or -1
// when none is.
func (q *QuizQuestion) CorrectOptionIndex() int {
	for i, opt := range q.Options {
		if opt.IsCorrect {
			return i
		}
	}
	return -1
}
