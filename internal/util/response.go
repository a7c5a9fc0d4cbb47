package util

import (
	"errors"
	"net/http"

	"lms_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the envelope every endpoint returns. Status is "success" for
// 2xx outcomes, "fail" for domain failures (4xx) and "error" for store or
// server faults (5xx).
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Results *int        `json:"results,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// SuccessList responds like Success but carries a result count, mirroring
// list endpoints.
func SuccessList(c *gin.Context, results int, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status:  "success",
		Results: &results,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Status: "success",
		Data:   data,
	})
}

func Deleted(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Status:  "fail",
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Fail(c, http.StatusUnauthorized, "you are not logged in")
}

func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("internal server error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, Response{
		Status:  "error",
		Message: "internal server error",
	})
}

// FailFromError maps a service error onto the envelope: not-found sentinels
// become 404, permission denials 403, conflicts and validation failures 400.
// Anything unrecognized is treated as a store/server fault.
func FailFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrLessonNotFound),
		errors.Is(err, ErrQuizNotFound),
		errors.Is(err, ErrProgressNotFound),
		errors.Is(err, ErrNotEnrolled):
		NotFound(c, err.Error())
	case errors.Is(err, ErrPermissionDenied):
		Forbidden(c, err.Error())
	case errors.Is(err, ErrAlreadyEnrolled),
		errors.Is(err, ErrLessonAlreadyCompleted),
		errors.Is(err, ErrQuizAlreadyTaken),
		errors.Is(err, ErrEmailRegistered),
		errors.Is(err, ErrInvalidCredentials),
		IsValidationError(err):
		BadRequest(c, err.Error())
	default:
		LogInternalError(c, err)
	}
}
