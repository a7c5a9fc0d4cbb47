package model

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name            string   `gorm:"size:100;not null" json:"name"`
	Email           string   `gorm:"size:100;unique;not null" json:"email"`
	Password        string   `gorm:"size:100;not null" json:"-"`
	Role            UserRole `gorm:"size:20;default:'student'" json:"role"`
	EnrolledCourses []Course `gorm:"many2many:course_enrollments" json:"enrolledCourses,omitempty"`
}

func (User) TableName() string {
	return "users"
}
