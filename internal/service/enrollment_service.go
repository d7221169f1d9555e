package service

import (
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/monitoring"
	"errors"
	"time"

	"gorm.io/gorm"
)

// EnrollmentService 负责报名记录的创建与进度持久化契约。
// 进度更新是整体替换（last-writer-wins），overallProgress 由调用方给出，
// 服务端不重新计算，只做取值范围校验。
type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	DB             *gorm.DB
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	db *gorm.DB,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		DB:             db,
	}
}

// UpdateProgressRequest 进度更新请求，sections 与 overallProgress 必须由调用方保持一致
type UpdateProgressRequest struct {
	Sections        []model.SectionProgress `json:"sections" binding:"required"`
	OverallProgress float64                 `json:"overallProgress"`
}

// CreateEnrollment 创建报名。课程必须存在，同一 (user, course) 只允许一条记录。
func (s *EnrollmentService) CreateEnrollment(userID uint, courseID string) (*model.Enrollment, error) {
	now := time.Now()
	enrollment := &model.Enrollment{
		UserID:          userID,
		CourseID:        courseID,
		Sections:        model.SectionProgressList{},
		OverallProgress: 0,
		EnrolledAt:      now,
		LastAccessedAt:  now,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		exists, err := s.CourseRepo.WithTx(tx).Exists(courseID)
		if err != nil {
			return err
		}
		if !exists {
			return util.ErrCourseNotFound
		}

		enrolled, err := s.EnrollmentRepo.WithTx(tx).ExistsByUserAndCourse(userID, courseID)
		if err != nil {
			return err
		}
		if enrolled {
			return util.ErrAlreadyEnrolled
		}

		return s.EnrollmentRepo.WithTx(tx).Create(enrollment)
	})
	if err != nil {
		return nil, err
	}

	monitoring.EnrollmentsCreated.Inc()
	return enrollment, nil
}

func (s *EnrollmentService) GetEnrollment(enrollmentID string) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// GetUserEnrollments 某学生的全部报名，最近在前
func (s *EnrollmentService) GetUserEnrollments(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.FindByUserID(userID)
}

// GetCourseEnrollments 某课程的全部报名，最近在前。路由层限定教师/管理员可见。
func (s *EnrollmentService) GetCourseEnrollments(courseID string) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.FindByCourseID(courseID)
}

// UpdateProgress 整体替换进度数组与总进度并刷新 lastAccessedAt。
// 总进度首次达到 100 时落下 completedAt。
func (s *EnrollmentService) UpdateProgress(enrollmentID string, req UpdateProgressRequest) (*model.Enrollment, error) {
	if req.OverallProgress < 0 || req.OverallProgress > 100 {
		return nil, util.ErrInvalidProgress
	}

	enrollment, err := s.GetEnrollment(enrollmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	enrollment.Sections = model.SectionProgressList(req.Sections)
	enrollment.OverallProgress = req.OverallProgress
	enrollment.LastAccessedAt = now
	if req.OverallProgress >= 100 && enrollment.CompletedAt == nil {
		enrollment.CompletedAt = &now
	}

	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}
