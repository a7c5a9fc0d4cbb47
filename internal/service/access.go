package service

import (
	"lms_backend/internal/model"
)

// CanModifyCourse decides whether a caller may mutate a course or anything
// it owns (lessons, quizzes). Admins may touch any course; everyone else
// only courses they instruct. Pure predicate, no side effects.
func CanModifyCourse(course *model.Course, callerID uint, role model.UserRole) bool {
	return role == model.Admin || course.InstructorID == callerID
}
