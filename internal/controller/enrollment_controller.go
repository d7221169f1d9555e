package controller

import (
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// CreateEnrollmentRequest 报名请求，学生身份取自令牌
type CreateEnrollmentRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}

// CreateEnrollment godoc
// @Summary Enroll the current student in a course
// @Tags enrollments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param enrollment body CreateEnrollmentRequest true "Target course"
// @Success 201 {object} util.Response{data=model.Enrollment} "Created"
// @Failure 404 {object} util.Response "Course not found"
// @Failure 409 {object} util.Response "Already enrolled"
// @Router /api/enrollments [post]
func (c *EnrollmentController) CreateEnrollment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateEnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.CreateEnrollment(claims.UserID, req.CourseID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, enrollment)
}

// GetEnrollment godoc
// @Summary Get a single enrollment with its progress snapshot
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Enrollment ID"
// @Success 200 {object} util.Response{data=model.Enrollment} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/enrollments/{id} [get]
func (c *EnrollmentController) GetEnrollment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.EnrollmentService.GetEnrollment(ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	// 学生只能看自己的报名，教师/管理员可见
	if enrollment.UserID != claims.UserID && claims.Role == model.Student {
		util.Forbidden(ctx)
		return
	}

	util.Success(ctx, enrollment)
}

// GetMyEnrollments godoc
// @Summary List the current user's enrollments, most recent first
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment} "Success"
// @Router /api/enrollments [get]
func (c *EnrollmentController) GetMyEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentService.GetUserEnrollments(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, enrollments)
}

// GetCourseEnrollments godoc
// @Summary List all enrollments of a course (Teacher/Admin), most recent first
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment} "Success"
// @Router /api/teacher/courses/{id}/enrollments [get]
func (c *EnrollmentController) GetCourseEnrollments(ctx *gin.Context) {
	enrollments, err := c.EnrollmentService.GetCourseEnrollments(ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, enrollments)
}

// UpdateProgress godoc
// @Summary Replace the enrollment's progress snapshot wholesale
// @Description sections 与 overallProgress 由客户端保持一致，服务端不重算
// @Tags enrollments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Enrollment ID"
// @Param progress body service.UpdateProgressRequest true "Progress data"
// @Success 200 {object} util.Response{data=model.Enrollment} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/enrollments/{id}/progress [put]
func (c *EnrollmentController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.EnrollmentService.GetEnrollment(ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	if enrollment.UserID != claims.UserID && claims.Role == model.Student {
		util.Forbidden(ctx)
		return
	}

	var req service.UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.EnrollmentService.UpdateProgress(ctx.Param("id"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, updated)
}
