package controller

import (
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// ListByCourse godoc
// @Summary List a course's quizzes
// @Tags quizzes
// @Produce json
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/quizzes [get]
func (c *QuizController) ListByCourse(ctx *gin.Context) {
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	quizzes, err := c.QuizService.ListByCourse(courseID)
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}

	util.SuccessList(ctx, len(quizzes), gin.H{"quizzes": quizzes})
}

// ListByLesson godoc
// @Summary List a lesson's quizzes
// @Tags quizzes
// @Produce json
// @Param id path int true "lesson id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id}/quizzes [get]
func (c *QuizController) ListByLesson(ctx *gin.Context) {
	lessonID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	quizzes, err := c.QuizService.ListByLesson(lessonID)
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}

	util.SuccessList(ctx, len(quizzes), gin.H{"quizzes": quizzes})
}

// Get godoc
// @Summary Quiz detail
// @Tags quizzes
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	quiz, err := c.QuizService.Get(id)
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"quiz": quiz})
}

// CreateForCourse godoc
// @Summary Create a course quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param body body service.CreateQuizRequest true "quiz details"
// @Success 201 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/quizzes [post]
func (c *QuizController) CreateForCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	var req service.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateForCourse(courseID, claims.UserID, claims.Role, req)
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"quiz": quiz})
}

// CreateForLesson godoc
// @Summary Create a lesson quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "lesson id"
// @Param body body service.CreateQuizRequest true "quiz details"
// @Success 201 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id}/quizzes [post]
func (c *QuizController) CreateForLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	lessonID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	var req service.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateForLesson(lessonID, claims.UserID, claims.Role, req)
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"quiz": quiz})
}

// Update godoc
// @Summary Update a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "quiz id"
// @Param body body service.UpdateQuizRequest true "fields to change"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [patch]
func (c *QuizController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var req service.UpdateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Update(id, claims.UserID, claims.Role, req)
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"quiz": quiz})
}

// Delete godoc
// @Summary Delete a quiz
// @Tags quizzes
// @Security BearerAuth
// @Param id path int true "quiz id"
// @Success 204 "no content"
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	if err := c.QuizService.Delete(id, claims.UserID, claims.Role); err != nil {
		util.FailFromError(ctx, err)
		return
	}

	util.Deleted(ctx)
}

// Submit godoc
// @Summary Submit quiz answers
// @Description Grades the submission and records the single-attempt result
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "quiz id"
// @Param body body service.QuizSubmission true "positional answers"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var submission service.QuizSubmission
	if err := ctx.ShouldBindJSON(&submission); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.Submit(id, claims.UserID, submission)
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}

	monitoring.QuizSubmissionCounter.WithLabelValues(strconv.FormatBool(result.Passed)).Inc()
	util.Success(ctx, result)
}
