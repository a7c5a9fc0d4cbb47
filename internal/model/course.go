package model

// swagger:model Course
type Course struct {
	BaseModel
	Title        string `gorm:"size:100;not null" json:"title"`
	Description  string `gorm:"type:text;not null" json:"description"`
	InstructorID uint   `gorm:"index;not null" json:"instructorId"`
	Instructor   *User  `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Category     string `gorm:"size:100;not null" json:"category"`
	Thumbnail    string `gorm:"size:255;default:'default.jpg'" json:"thumbnail"`

	// Lessons are owned by the course; ordering is system assigned and
	// unique per course.
	Lessons          []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
	EnrolledStudents []User   `gorm:"many2many:course_enrollments" json:"enrolledStudents,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
