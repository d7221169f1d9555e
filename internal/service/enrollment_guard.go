package service

import (
	"course_hub_backend/internal/repository"

	"gorm.io/gorm"
)

// EnrollmentGuard 回答"是否已有报名记录引用该课程"。
// 一旦为真，课程的编辑与章节/课时删除被拒绝，新增仍然允许（内容只增不减）。
type EnrollmentGuard struct {
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewEnrollmentGuard(enrollmentRepo *repository.EnrollmentRepository) *EnrollmentGuard {
	return &EnrollmentGuard{EnrollmentRepo: enrollmentRepo}
}

func (g *EnrollmentGuard) HasActiveEnrollments(courseID string) (bool, error) {
	count, err := g.EnrollmentRepo.CountByCourseID(courseID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasActiveEnrollmentsTx 在受保护修改所在的事务内执行检查，
// 避免检查与修改之间产生新报名的竞态
func (g *EnrollmentGuard) HasActiveEnrollmentsTx(tx *gorm.DB, courseID string) (bool, error) {
	count, err := g.EnrollmentRepo.WithTx(tx).CountByCourseID(courseID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
