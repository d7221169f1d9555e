package service

import (
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只允许一个连接，避免连接池拿到空库
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Course{},
		&model.Section{},
		&model.Lecture{},
		&model.Enrollment{},
	))

	return db
}

func newTestServices(t *testing.T) (*CourseService, *EnrollmentService) {
	t.Helper()

	db := setupTestDB(t)
	courseRepo := repository.NewCourseRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	lectureRepo := repository.NewLectureRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	guard := NewEnrollmentGuard(enrollmentRepo)

	courseService := NewCourseService(courseRepo, sectionRepo, lectureRepo, guard, nil, db)
	enrollmentService := NewEnrollmentService(enrollmentRepo, courseRepo, db)
	return courseService, enrollmentService
}

func strPtr(s string) *string { return &s }

func TestCreateCourseAssignsUniqueIDs(t *testing.T) {
	cs, _ := newTestServices(t)

	first, err := cs.CreateCourse(CreateCourseRequest{Title: "Go 基础"})
	require.NoError(t, err)
	second, err := cs.CreateCourse(CreateCourseRequest{Title: "Go 进阶"})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotNil(t, first.TeacherIDs)
	assert.Empty(t, first.Sections)
	assert.False(t, first.CreatedAt.IsZero())
	assert.False(t, first.UpdatedAt.IsZero())
}

func TestGetCourseDetailsAssemblesTreeInOrder(t *testing.T) {
	cs, _ := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "Web 开发"})
	require.NoError(t, err)

	s1, err := cs.AddSection(course.ID, AddSectionRequest{Title: "入门"})
	require.NoError(t, err)
	s2, err := cs.AddSection(course.ID, AddSectionRequest{Title: "部署"})
	require.NoError(t, err)

	l1, err := cs.AddLecture(course.ID, s1.ID, AddLectureRequest{
		Title: "环境搭建", IsVideo: true, VideoURL: strPtr("https://cdn.example.com/v1.mp4"),
	})
	require.NoError(t, err)
	l2, err := cs.AddLecture(course.ID, s1.ID, AddLectureRequest{
		Title: "第一个页面", IsHTML: true, HTML: strPtr("<p>hello</p>"),
	})
	require.NoError(t, err)

	details, err := cs.GetCourseDetails(course.ID)
	require.NoError(t, err)

	require.Len(t, details.Sections, 2)
	assert.Equal(t, s1.ID, details.Sections[0].ID)
	assert.Equal(t, s2.ID, details.Sections[1].ID)

	require.Len(t, details.Sections[0].Lectures, 2)
	assert.Equal(t, l1.ID, details.Sections[0].Lectures[0].ID)
	assert.Equal(t, l2.ID, details.Sections[0].Lectures[1].ID)
	assert.Empty(t, details.Sections[1].Lectures)
}

func TestGetCourseDetailsNotFound(t *testing.T) {
	cs, _ := newTestServices(t)

	_, err := cs.GetCourseDetails("missing-id")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestAddSectionCourseNotFound(t *testing.T) {
	cs, _ := newTestServices(t)

	_, err := cs.AddSection("missing-id", AddSectionRequest{Title: "孤儿章节"})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestAddLectureRequiresExactlyOneKind(t *testing.T) {
	cs, _ := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)
	section, err := cs.AddSection(course.ID, AddSectionRequest{Title: "S"})
	require.NoError(t, err)

	_, err = cs.AddLecture(course.ID, section.ID, AddLectureRequest{Title: "无类型"})
	assert.ErrorIs(t, err, util.ErrInvalidLectureKind)

	_, err = cs.AddLecture(course.ID, section.ID, AddLectureRequest{
		Title: "双类型", IsVideo: true, IsQuiz: true,
	})
	assert.ErrorIs(t, err, util.ErrInvalidLectureKind)
}

func TestAddLectureSectionNotFound(t *testing.T) {
	cs, _ := newTestServices(t)

	courseA, err := cs.CreateCourse(CreateCourseRequest{Title: "A"})
	require.NoError(t, err)
	courseB, err := cs.CreateCourse(CreateCourseRequest{Title: "B"})
	require.NoError(t, err)
	sectionB, err := cs.AddSection(courseB.ID, AddSectionRequest{Title: "B 的章节"})
	require.NoError(t, err)

	// 章节必须属于给定课程
	_, err = cs.AddLecture(courseA.ID, sectionB.ID, AddLectureRequest{
		Title: "越界", IsQuiz: true, QuizID: strPtr("quiz-1"),
	})
	assert.ErrorIs(t, err, util.ErrSectionNotFound)
}

func TestUpdateCourseMergesPartialFields(t *testing.T) {
	cs, _ := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "旧标题", Description: "原始描述"})
	require.NoError(t, err)

	updated, err := cs.UpdateCourse(course.ID, UpdateCourseRequest{Title: strPtr("新标题")})
	require.NoError(t, err)

	assert.Equal(t, "新标题", updated.Title)
	assert.Equal(t, "原始描述", updated.Description)
	assert.NotNil(t, updated.Sections)
}

func TestUpdateCourseNotFound(t *testing.T) {
	cs, _ := newTestServices(t)

	_, err := cs.UpdateCourse("missing-id", UpdateCourseRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestStructuralMutationsSucceedWithoutEnrollments(t *testing.T) {
	cs, _ := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "自由编辑"})
	require.NoError(t, err)
	section, err := cs.AddSection(course.ID, AddSectionRequest{Title: "S"})
	require.NoError(t, err)
	lecture, err := cs.AddLecture(course.ID, section.ID, AddLectureRequest{
		Title: "L", IsHTML: true, HTML: strPtr("<p>x</p>"),
	})
	require.NoError(t, err)

	_, err = cs.UpdateCourse(course.ID, UpdateCourseRequest{Title: strPtr("改名")})
	assert.NoError(t, err)
	assert.NoError(t, cs.DeleteLecture(course.ID, section.ID, lecture.ID))
	assert.NoError(t, cs.DeleteSection(course.ID, section.ID))
}

func TestEnrollmentLockBlocksEditsButAllowsGrowth(t *testing.T) {
	cs, es := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "已开课"})
	require.NoError(t, err)
	section, err := cs.AddSection(course.ID, AddSectionRequest{Title: "第一章"})
	require.NoError(t, err)
	lecture, err := cs.AddLecture(course.ID, section.ID, AddLectureRequest{
		Title: "导读", IsHTML: true, HTML: strPtr("<p>intro</p>"),
	})
	require.NoError(t, err)

	_, err = es.CreateEnrollment(42, course.ID)
	require.NoError(t, err)

	_, err = cs.UpdateCourse(course.ID, UpdateCourseRequest{Title: strPtr("换名")})
	assert.ErrorIs(t, err, util.ErrCourseLocked)
	assert.ErrorIs(t, cs.DeleteSection(course.ID, section.ID), util.ErrCourseLocked)
	assert.ErrorIs(t, cs.DeleteLecture(course.ID, section.ID, lecture.ID), util.ErrCourseLocked)

	// 已有报名时内容仍可增长
	newSection, err := cs.AddSection(course.ID, AddSectionRequest{Title: "第二章"})
	assert.NoError(t, err)
	_, err = cs.AddLecture(course.ID, newSection.ID, AddLectureRequest{
		Title: "新课时", IsPDF: true, PDFURL: strPtr("https://cdn.example.com/a.pdf"),
	})
	assert.NoError(t, err)
}

func TestDeleteSectionCascadesToLectures(t *testing.T) {
	cs, _ := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "级联删除"})
	require.NoError(t, err)
	section, err := cs.AddSection(course.ID, AddSectionRequest{Title: "S"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := cs.AddLecture(course.ID, section.ID, AddLectureRequest{
			Title: "L", IsQuiz: true, QuizID: strPtr("quiz-x"),
		})
		require.NoError(t, err)
	}

	require.NoError(t, cs.DeleteSection(course.ID, section.ID))

	var lectureCount int64
	require.NoError(t, cs.DB.Model(&model.Lecture{}).Where("section_id = ?", section.ID).Count(&lectureCount).Error)
	assert.Zero(t, lectureCount)

	var sectionCount int64
	require.NoError(t, cs.DB.Model(&model.Section{}).Where("id = ?", section.ID).Count(&sectionCount).Error)
	assert.Zero(t, sectionCount)
}

func TestDeleteSectionNotFound(t *testing.T) {
	cs, _ := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)

	assert.ErrorIs(t, cs.DeleteSection(course.ID, "missing"), util.ErrSectionNotFound)
}

func TestDeleteLectureNotFound(t *testing.T) {
	cs, _ := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)
	section, err := cs.AddSection(course.ID, AddSectionRequest{Title: "S"})
	require.NoError(t, err)

	assert.ErrorIs(t, cs.DeleteLecture(course.ID, section.ID, "missing"), util.ErrLectureNotFound)
}

func TestHTMLLectureEndToEnd(t *testing.T) {
	cs, _ := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)
	section, err := cs.AddSection(course.ID, AddSectionRequest{Title: "S"})
	require.NoError(t, err)
	_, err = cs.AddLecture(course.ID, section.ID, AddLectureRequest{
		Title: "L", IsHTML: true, HTML: strPtr("<p>x</p>"),
	})
	require.NoError(t, err)

	details, err := cs.GetCourseDetails(course.ID)
	require.NoError(t, err)

	require.Len(t, details.Sections, 1)
	assert.Equal(t, "S", details.Sections[0].Title)
	require.Len(t, details.Sections[0].Lectures, 1)

	got := details.Sections[0].Lectures[0]
	assert.Equal(t, "L", got.Title)
	assert.True(t, got.IsHTML)
	require.NotNil(t, got.HTML)
	assert.Contains(t, *got.HTML, "x")
	assert.Nil(t, got.VideoURL)
	assert.Nil(t, got.PDFURL)
	assert.Nil(t, got.QuizID)
}

func TestDeleteSectionBlockedKeepsSectionIntact(t *testing.T) {
	cs, es := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)
	section, err := cs.AddSection(course.ID, AddSectionRequest{Title: "S"})
	require.NoError(t, err)

	_, err = es.CreateEnrollment(7, course.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, cs.DeleteSection(course.ID, section.ID), util.ErrCourseLocked)

	details, err := cs.GetCourseDetails(course.ID)
	require.NoError(t, err)
	require.Len(t, details.Sections, 1)
	assert.Equal(t, section.ID, details.Sections[0].ID)
}
