package service

import (
	"encoding/json"
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type answerKind int

const (
	answerNone answerKind = iota
	answerChoice
	answerBool
)

// Answer is one positional quiz answer: an option index for multiple-choice
// questions or a boolean for true-false questions. The distinction is
// typed on purpose: a numeric answer never matches a true-false question
// and a boolean never matches an option index.
type Answer struct {
	Choice int
	Bool   bool
	kind   answerKind
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		a.Bool = b
		a.kind = answerBool
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		a.Choice = n
		a.kind = answerChoice
		return nil
	}
	// Anything else (text, null) is recorded but never auto-scored.
	a.kind = answerNone
	return nil
}

func ChoiceAnswer(i int) Answer { return Answer{Choice: i, kind: answerChoice} }
func BoolAnswer(b bool) Answer  { return Answer{Bool: b, kind: answerBool} }

// GradeResult is the outcome of scoring one submission.
type GradeResult struct {
	Score   float64 // percentage
	Passed  bool
	Awarded int
	Total   int
}

// Grade scores a submission against the quiz's question list. Answers align
// positionally with the questions; missing answers score zero.
// Short-answer questions require manual grading and only contribute their
// points to the denominator. A quiz whose questions carry no points grades
// to 0%.
func Grade(quiz *model.Quiz, answers []Answer) GradeResult {
	awarded, total := 0, 0

	for i, q := range quiz.Questions {
		total += q.Points

		if i >= len(answers) {
			continue
		}
		ans := answers[i]

		switch q.Type {
		case model.MultipleChoice:
			if correct := q.CorrectOptionIndex(); correct >= 0 && ans.kind == answerChoice && ans.Choice == correct {
				awarded += q.Points
			}
		case model.TrueFalse:
			if len(q.Options) > 0 && ans.kind == answerBool && ans.Bool == q.Options[0].IsCorrect {
				awarded += q.Points
			}
		}
	}

	var percentage float64
	if total > 0 {
		percentage = float64(awarded) / float64(total) * 100
	}

	return GradeResult{
		Score:   percentage,
		Passed:  percentage >= float64(quiz.PassingScore),
		Awarded: awarded,
		Total:   total,
	}
}

type QuizService struct {
	QuizRepo     *repository.QuizRepository
	CourseRepo   *repository.CourseRepository
	LessonRepo   *repository.LessonRepository
	ProgressRepo *repository.ProgressRepository
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	progressRepo *repository.ProgressRepository,
) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		CourseRepo:   courseRepo,
		LessonRepo:   lessonRepo,
		ProgressRepo: progressRepo,
	}
}

type QuestionRequest struct {
	Text    string                `json:"text" binding:"required"`
	Type    model.QuestionType    `json:"type"`
	Options model.QuestionOptions `json:"options"`
	Points  int                   `json:"points"`
}

type CreateQuizRequest struct {
	Title        string            `json:"title" binding:"required"`
	Description  string            `json:"description"`
	Questions    []QuestionRequest `json:"questions"`
	TimeLimit    int               `json:"timeLimit"`
	PassingScore *int              `json:"passingScore"`
}

type UpdateQuizRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	TimeLimit    *int    `json:"timeLimit"`
	PassingScore *int    `json:"passingScore"`
}

type QuizSubmission struct {
	Answers []Answer `json:"answers" binding:"required"`
}

// SubmitResult is the payload returned to a student after grading.
type SubmitResult struct {
	Score    float64         `json:"score"`
	Passed   bool            `json:"passed"`
	Progress *model.Progress `json:"progress"`
}

func (s *QuizService) ListByCourse(courseID uint) ([]model.Quiz, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.QuizRepo.ListByCourse(courseID)
}

func (s *QuizService) ListByLesson(lessonID uint) ([]model.Quiz, error) {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return s.QuizRepo.ListByLesson(lessonID)
}

func (s *QuizService) Get(id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	return quiz, err
}

// CreateForCourse authors a quiz attached to a course.
func (s *QuizService) CreateForCourse(courseID, callerID uint, role model.UserRole, req CreateQuizRequest) (*model.Quiz, error) {
	return s.create(courseID, nil, callerID, role, req)
}

// CreateForLesson authors a quiz attached to one lesson of a course.
func (s *QuizService) CreateForLesson(lessonID, callerID uint, role model.UserRole, req CreateQuizRequest) (*model.Quiz, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.create(lesson.CourseID, &lesson.ID, callerID, role, req)
}

func (s *QuizService) create(courseID uint, lessonID *uint, callerID uint, role model.UserRole, req CreateQuizRequest) (*model.Quiz, error) {
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

	quiz := &model.Quiz{
		Title:        req.Title,
		Description:  req.Description,
		CourseID:     courseID,
		LessonID:     lessonID,
		TimeLimit:    req.TimeLimit,
		PassingScore: 70,
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}

	for i, qr := range req.Questions {
		qType := qr.Type
		if qType == "" {
			qType = model.MultipleChoice
		}
		points := qr.Points
		if points == 0 {
			points = 1
		}
		quiz.Questions = append(quiz.Questions, model.QuizQuestion{
			Text:    qr.Text,
			Type:    qType,
			Options: qr.Options,
			Points:  points,
			Order:   i + 1,
		})
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Update(id, callerID uint, role model.UserRole, req UpdateQuizRequest) (*model.Quiz, error) {
	quiz, course, err := s.findWithCourse(id)
	if err != nil {
		return nil, err
	}

	if !CanModifyCourse(course, callerID, role) {
		return nil, util.ErrPermissionDenied
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Delete(id, callerID uint, role model.UserRole) error {
	_, course, err := s.findWithCourse(id)
	if err != nil {
		return err
	}

	if !CanModifyCourse(course, callerID, role) {
		return util.ErrPermissionDenied
	}

	return s.QuizRepo.Delete(id)
}

// Submit grades the caller's answers and appends the immutable result to
// their progress. Quizzes are single-attempt: a second submission conflicts.
func (s *QuizService) Submit(quizID, userID uint, submission QuizSubmission) (*SubmitResult, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}

	grade := Grade(quiz, submission.Answers)

	progress, err := s.ProgressRepo.MutateLocked(userID, quiz.CourseID, func(tx *gorm.DB, p *model.Progress) error {
		for _, r := range p.QuizResults {
			if r.QuizID == quizID {
				return util.ErrQuizAlreadyTaken
			}
		}

		result := model.QuizResult{
			ProgressID:  p.ID,
			QuizID:      quizID,
			Score:       grade.Score,
			Passed:      grade.Passed,
			CompletedAt: time.Now(),
		}
		if err := s.ProgressRepo.CreateQuizResult(tx, &result); err != nil {
			return err
		}
		p.QuizResults = append(p.QuizResults, result)
		p.LastAccessed = time.Now()
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Score:    grade.Score,
		Passed:   grade.Passed,
		Progress: progress,
	}, nil
}

func (s *QuizService) findWithCourse(id uint) (*model.Quiz, *model.Course, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	course, err := s.CourseRepo.FindByID(quiz.CourseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return quiz, course, nil
}
