package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrCourseNotFound     = errors.New("course not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrLectureNotFound    = errors.New("lecture not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// ErrCourseLocked 课程已有报名记录，禁止编辑课程与删除章节/课时（只增不改）
	ErrCourseLocked = errors.New("course has active enrollments and is locked for structural edits")

	ErrAlreadyEnrolled    = errors.New("user is already enrolled in this course")
	ErrInvalidLectureKind = errors.New("lecture must have exactly one content kind")
	ErrInvalidProgress    = errors.New("overall progress must be between 0 and 100")

	// ErrPartialDelete 级联删除未全部完成，父章节保留以便重试
	ErrPartialDelete = errors.New("cascading delete partially completed")

	ErrInvalidImageExt = errors.New("invalid image extension")
	ErrInvalidVideoExt = errors.New("invalid video extension")
)
