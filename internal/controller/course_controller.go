package controller

import (
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
	MediaService  *service.MediaService
}

func NewCourseController(courseService *service.CourseService, mediaService *service.MediaService) *CourseController {
	return &CourseController{
		CourseService: courseService,
		MediaService:  mediaService,
	}
}

// CreateCourse godoc
// @Summary Create a course (Teacher/Admin)
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param course body service.CreateCourseRequest true "Course data"
// @Success 201 {object} util.Response{data=model.Course} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Router /api/teacher/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req service.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 创建者默认进入教师列表
	if claims := util.GetUserFromContext(ctx); claims != nil && len(req.TeacherIDs) == 0 {
		req.TeacherIDs = []uint{claims.UserID}
	}

	course, err := c.CourseService.CreateCourse(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// GetAllCourses godoc
// @Summary List all courses without nested content
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course} "Success"
// @Router /api/courses [get]
func (c *CourseController) GetAllCourses(ctx *gin.Context) {
	courses, err := c.CourseService.GetAllCourses()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// GetCourseDetails godoc
// @Summary Get a course with its full section/lecture tree
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response{data=model.Course} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourseDetails(ctx *gin.Context) {
	course, err := c.CourseService.GetCourseDetails(ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// UpdateCourse godoc
// @Summary Update course fields (Teacher/Admin, rejected once enrolled)
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param course body service.UpdateCourseRequest true "Partial course data"
// @Success 200 {object} util.Response{data=model.Course} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Failure 409 {object} util.Response "Conflict - course has active enrollments"
// @Router /api/teacher/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req service.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(ctx.Param("id"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// AddSection godoc
// @Summary Append a section to a course (allowed even with enrollments)
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param section body service.AddSectionRequest true "Section data"
// @Success 201 {object} util.Response{data=model.Section} "Created"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/teacher/courses/{id}/sections [post]
func (c *CourseController) AddSection(ctx *gin.Context) {
	var req service.AddSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	section, err := c.CourseService.AddSection(ctx.Param("id"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, section)
}

// AddLecture godoc
// @Summary Append a lecture to a section (allowed even with enrollments)
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param sectionId path string true "Section ID"
// @Param lecture body service.AddLectureRequest true "Lecture data"
// @Success 201 {object} util.Response{data=model.Lecture} "Created"
// @Failure 400 {object} util.Response "Bad Request - invalid content kind"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/teacher/courses/{id}/sections/{sectionId}/lectures [post]
func (c *CourseController) AddLecture(ctx *gin.Context) {
	var req service.AddLectureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lecture, err := c.CourseService.AddLecture(ctx.Param("id"), ctx.Param("sectionId"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Created(ctx, lecture)
}

// DeleteSection godoc
// @Summary Delete a section and all its lectures (rejected once enrolled)
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param sectionId path string true "Section ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Failure 409 {object} util.Response "Conflict"
// @Router /api/teacher/courses/{id}/sections/{sectionId} [delete]
func (c *CourseController) DeleteSection(ctx *gin.Context) {
	if err := c.CourseService.DeleteSection(ctx.Param("id"), ctx.Param("sectionId")); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// DeleteLecture godoc
// @Summary Delete a single lecture (rejected once enrolled)
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param sectionId path string true "Section ID"
// @Param lectureId path string true "Lecture ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Failure 409 {object} util.Response "Conflict"
// @Router /api/teacher/courses/{id}/sections/{sectionId}/lectures/{lectureId} [delete]
func (c *CourseController) DeleteLecture(ctx *gin.Context) {
	err := c.CourseService.DeleteLecture(ctx.Param("id"), ctx.Param("sectionId"), ctx.Param("lectureId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// UploadCover 上传封面后走 UpdateCourse 落库，因此同样受报名锁限制
// @Summary Upload a course cover image (Teacher/Admin)
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param file formData file true "Cover image"
// @Success 200 {object} util.Response{data=model.Course} "Success"
// @Failure 409 {object} util.Response "Conflict"
// @Router /api/teacher/courses/{id}/cover [post]
func (c *CourseController) UploadCover(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}

	url, err := c.MediaService.UploadCoverImage(ctx, file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(ctx.Param("id"), service.UpdateCourseRequest{
		CoverImage: &url,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// UploadLectureVideo 上传课时视频，返回视频与缩略图 URL，供 AddLecture 使用
func (c *CourseController) UploadLectureVideo(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}

	result, err := c.MediaService.UploadLectureVideo(ctx, file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, result)
}

// UploadLecturePDF 上传课时 PDF，返回 URL
func (c *CourseController) UploadLecturePDF(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}

	url, err := c.MediaService.UploadLecturePDF(ctx, file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"pdfUrl": url})
}
