package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// My godoc
// @Summary The caller's progress across all courses
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress [get]
func (c *ProgressController) My(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	progress, err := c.ProgressService.MyProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.SuccessList(ctx, len(progress), gin.H{"progress": progress})
}

// ByCourse godoc
// @Summary The caller's progress in one course
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/progress/courses/{courseId} [get]
func (c *ProgressController) ByCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	courseID, err := util.ParseUintParam(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	progress, err := c.ProgressService.CourseProgress(claims.UserID, courseID)
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"progress": progress})
}

// CourseRoster godoc
// @Summary Every student's progress in a course
// @Description Restricted to the course owner or an admin
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/progress/instructor/courses/{courseId} [get]
func (c *ProgressController) CourseRoster(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	courseID, err := util.ParseUintParam(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	progress, err := c.ProgressService.CourseRoster(courseID, claims.UserID, claims.Role)
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}

	util.SuccessList(ctx, len(progress), gin.H{"progress": progress})
}
