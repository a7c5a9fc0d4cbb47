package model

// LessonResource is a named file attached to a lesson.
type LessonResource struct {
	Name string `json:"name"`
	File string `json:"file"`
}

type LessonResources []LessonResource

// swagger:model Lesson
type Lesson struct {
	BaseModel
	Title    string `gorm:"size:255;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	CourseID uint   `gorm:"index;not null" json:"courseId"`

	// Order is assigned as max(order in course)+1 on creation, never taken
	// from the caller.
	Order     int             `gorm:"not null;default:0" json:"order"`
	Duration  int             `gorm:"default:0" json:"duration"` // minutes
	Resources LessonResources `gorm:"type:json;serializer:json" json:"resources,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
