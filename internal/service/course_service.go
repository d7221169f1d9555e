package service

import (
	"context"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// CourseService 持有课程内容三级层次（课程→章节→课时）的全部增删改查。
// 结构性修改（编辑课程、删除章节/课时）在同一事务内先经 EnrollmentGuard 检查，
// 已有报名的课程只允许新增内容。
type CourseService struct {
	CourseRepo  *repository.CourseRepository
	SectionRepo *repository.SectionRepository
	LectureRepo *repository.LectureRepository
	Guard       *EnrollmentGuard
	Redis       *redis.Client
	DB          *gorm.DB
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	sectionRepo *repository.SectionRepository,
	lectureRepo *repository.LectureRepository,
	guard *EnrollmentGuard,
	rdb *redis.Client,
	db *gorm.DB,
) *CourseService {
	return &CourseService{
		CourseRepo:  courseRepo,
		SectionRepo: sectionRepo,
		LectureRepo: lectureRepo,
		Guard:       guard,
		Redis:       rdb,
		DB:          db,
	}
}

const (
	courseDetailsKeyPrefix = "course_details:"
	courseDetailsCacheTTL  = 5 * time.Minute
)

// CreateCourseRequest 创建课程的请求结构
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"max=5000"`
	TeacherIDs  []uint `json:"teacherIds"`
	CoverImage  string `json:"coverImage" binding:"max=512"`
}

// AddSectionRequest 新增章节的请求结构
type AddSectionRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

// AddLectureRequest 新增课时的请求结构，四个内容类型标志必须恰好一个为真
type AddLectureRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	IsVideo bool   `json:"isVideo"`
	IsHTML  bool   `json:"isHTML"`
	IsPDF   bool   `json:"isPDF"`
	IsQuiz  bool   `json:"isQuiz"`

	VideoURL *string `json:"videoUrl"`
	HTML     *string `json:"html"`
	PDFURL   *string `json:"pdfUrl"`
	QuizID   *string `json:"quizId"`
}

// UpdateCourseRequest 部分更新，nil 字段不动
type UpdateCourseRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	TeacherIDs  *[]uint `json:"teacherIds"`
	CoverImage  *string `json:"coverImage" binding:"omitempty,max=512"`
}

// CreateCourse 新建课程，无任何前置业务校验
func (s *CourseService) CreateCourse(req CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		TeacherIDs:  model.UintList(req.TeacherIDs),
		CoverImage:  req.CoverImage,
	}
	if course.TeacherIDs == nil {
		course.TeacherIDs = model.UintList{}
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}

	course.Sections = []model.Section{}
	return course, nil
}

// AddSection 在课程末尾追加章节。即使课程已有报名也允许（只增不减）。
func (s *CourseService) AddSection(courseID string, req AddSectionRequest) (*model.Section, error) {
	section := &model.Section{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		exists, err := s.CourseRepo.WithTx(tx).Exists(courseID)
		if err != nil {
			return err
		}
		if !exists {
			return util.ErrCourseNotFound
		}

		count, err := s.SectionRepo.WithTx(tx).CountByCourseID(courseID)
		if err != nil {
			return err
		}

		section.CourseID = courseID
		section.Title = req.Title
		section.Position = int(count) + 1
		return s.SectionRepo.WithTx(tx).Create(section)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDetails(courseID)
	section.Lectures = []model.Lecture{}
	return section, nil
}

// AddLecture 在章节末尾追加课时，同样不受报名锁限制
func (s *CourseService) AddLecture(courseID, sectionID string, req AddLectureRequest) (*model.Lecture, error) {
	lecture := &model.Lecture{
		Title:    req.Title,
		IsVideo:  req.IsVideo,
		IsHTML:   req.IsHTML,
		IsPDF:    req.IsPDF,
		IsQuiz:   req.IsQuiz,
		VideoURL: req.VideoURL,
		HTML:     req.HTML,
		PDFURL:   req.PDFURL,
		QuizID:   req.QuizID,
	}
	if lecture.ContentKindCount() != 1 {
		return nil, util.ErrInvalidLectureKind
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		_, err := s.SectionRepo.WithTx(tx).FindByIDInCourse(courseID, sectionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSectionNotFound
		}
		if err != nil {
			return err
		}

		count, err := s.LectureRepo.WithTx(tx).CountBySectionID(sectionID)
		if err != nil {
			return err
		}

		lecture.SectionID = sectionID
		lecture.CourseID = courseID
		lecture.Position = int(count) + 1
		return s.LectureRepo.WithTx(tx).Create(lecture)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDetails(courseID)
	return lecture, nil
}

// GetAllCourses 批量列表，不拉取章节/课时
func (s *CourseService) GetAllCourses() ([]model.Course, error) {
	return s.CourseRepo.FindAll()
}

// GetCourseDetails 逐层读取并组装完整课程树。各层是独立读取，
// 并发修改下快照可能层间轻微不一致，这里不做跨层事务。
func (s *CourseService) GetCourseDetails(courseID string) (*model.Course, error) {
	if cached := s.cachedDetails(courseID); cached != nil {
		return cached, nil
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	sections, err := s.SectionRepo.FindByCourseID(courseID)
	if err != nil {
		return nil, err
	}
	if sections == nil {
		sections = []model.Section{}
	}

	for i := range sections {
		lectures, err := s.LectureRepo.FindBySectionID(sections[i].ID)
		if err != nil {
			return nil, err
		}
		if lectures == nil {
			lectures = []model.Lecture{}
		}
		sections[i].Lectures = lectures
	}

	course.Sections = sections
	s.cacheDetails(course)
	return course, nil
}

// UpdateCourse 报名锁检查与更新在同一事务内完成，成功后返回完整课程树
func (s *CourseService) UpdateCourse(courseID string, req UpdateCourseRequest) (*model.Course, error) {
	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.TeacherIDs != nil {
		fields["teacher_ids"] = model.UintList(*req.TeacherIDs)
	}
	if req.CoverImage != nil {
		fields["cover_image"] = *req.CoverImage
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		locked, err := s.Guard.HasActiveEnrollmentsTx(tx, courseID)
		if err != nil {
			return err
		}
		if locked {
			monitoring.LockedMutationsRejected.WithLabelValues("update_course").Inc()
			return util.ErrCourseLocked
		}

		exists, err := s.CourseRepo.WithTx(tx).Exists(courseID)
		if err != nil {
			return err
		}
		if !exists {
			return util.ErrCourseNotFound
		}

		if len(fields) == 0 {
			fields["updated_at"] = time.Now()
		}
		return s.CourseRepo.WithTx(tx).Update(courseID, fields)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDetails(courseID)
	return s.GetCourseDetails(courseID)
}

// DeleteSection 级联删除：先逐个删除子课时，全部成功才删除章节本身。
// 任一课时删除失败则整体回滚并以 ErrPartialDelete 上报，章节保留以便重试。
func (s *CourseService) DeleteSection(courseID, sectionID string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		locked, err := s.Guard.HasActiveEnrollmentsTx(tx, courseID)
		if err != nil {
			return err
		}
		if locked {
			monitoring.LockedMutationsRejected.WithLabelValues("delete_section").Inc()
			return util.ErrCourseLocked
		}

		_, err = s.SectionRepo.WithTx(tx).FindByIDInCourse(courseID, sectionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSectionNotFound
		}
		if err != nil {
			return err
		}

		lectures, err := s.LectureRepo.WithTx(tx).FindBySectionID(sectionID)
		if err != nil {
			return err
		}

		deleted := 0
		for _, lecture := range lectures {
			if err := s.LectureRepo.WithTx(tx).Delete(lecture.ID); err != nil {
				return fmt.Errorf("%w: deleted %d of %d lectures: %v",
					util.ErrPartialDelete, deleted, len(lectures), err)
			}
			deleted++
		}

		return s.SectionRepo.WithTx(tx).Delete(sectionID)
	})
	if err != nil {
		return err
	}

	s.invalidateDetails(courseID)
	return nil
}

// DeleteLecture 删除单个课时，受报名锁保护
func (s *CourseService) DeleteLecture(courseID, sectionID, lectureID string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		locked, err := s.Guard.HasActiveEnrollmentsTx(tx, courseID)
		if err != nil {
			return err
		}
		if locked {
			monitoring.LockedMutationsRejected.WithLabelValues("delete_lecture").Inc()
			return util.ErrCourseLocked
		}

		_, err = s.LectureRepo.WithTx(tx).FindByIDInSection(sectionID, lectureID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLectureNotFound
		}
		if err != nil {
			return err
		}

		return s.LectureRepo.WithTx(tx).Delete(lectureID)
	})
	if err != nil {
		return err
	}

	s.invalidateDetails(courseID)
	return nil
}

func (s *CourseService) cachedDetails(courseID string) *model.Course {
	if s.Redis == nil {
		return nil
	}
	data, err := s.Redis.Get(context.Background(), courseDetailsKeyPrefix+courseID).Bytes()
	if err != nil {
		return nil
	}
	var course model.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return nil
	}
	return &course
}

func (s *CourseService) cacheDetails(course *model.Course) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(course)
	if err != nil {
		return
	}
	s.Redis.Set(context.Background(), courseDetailsKeyPrefix+course.ID, data, courseDetailsCacheTTL)
}

func (s *CourseService) invalidateDetails(courseID string) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(context.Background(), courseDetailsKeyPrefix+courseID)
}
