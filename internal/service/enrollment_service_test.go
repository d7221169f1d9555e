package service

import (
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEnrollmentDefaults(t *testing.T) {
	cs, es := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)

	enrollment, err := es.CreateEnrollment(1, course.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, enrollment.ID)
	assert.Equal(t, uint(1), enrollment.UserID)
	assert.Equal(t, course.ID, enrollment.CourseID)
	assert.Zero(t, enrollment.OverallProgress)
	assert.Empty(t, enrollment.Sections)
	assert.False(t, enrollment.EnrolledAt.IsZero())
	assert.False(t, enrollment.LastAccessedAt.IsZero())
	assert.Nil(t, enrollment.CompletedAt)

	// 落库后再读一遍，确认契约字段原样持久化
	got, err := es.GetEnrollment(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, got.ID)
	assert.Zero(t, got.OverallProgress)
	assert.Empty(t, got.Sections)
	assert.Nil(t, got.CompletedAt)
}

func TestCreateEnrollmentUniqueIDs(t *testing.T) {
	cs, es := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)

	first, err := es.CreateEnrollment(1, course.ID)
	require.NoError(t, err)
	second, err := es.CreateEnrollment(2, course.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateEnrollmentCourseNotFound(t *testing.T) {
	_, es := newTestServices(t)

	_, err := es.CreateEnrollment(1, "missing-course")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCreateEnrollmentDuplicateRejected(t *testing.T) {
	cs, es := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)

	_, err = es.CreateEnrollment(9, course.ID)
	require.NoError(t, err)

	_, err = es.CreateEnrollment(9, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestGetEnrollmentNotFound(t *testing.T) {
	_, es := newTestServices(t)

	_, err := es.GetEnrollment("no-such-enrollment")
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestGetUserEnrollmentsNewestFirst(t *testing.T) {
	cs, es := newTestServices(t)

	courseA, err := cs.CreateCourse(CreateCourseRequest{Title: "A"})
	require.NoError(t, err)
	courseB, err := cs.CreateCourse(CreateCourseRequest{Title: "B"})
	require.NoError(t, err)

	first, err := es.CreateEnrollment(5, courseA.ID)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := es.CreateEnrollment(5, courseB.ID)
	require.NoError(t, err)

	list, err := es.GetUserEnrollments(5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestGetCourseEnrollments(t *testing.T) {
	cs, es := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)
	other, err := cs.CreateCourse(CreateCourseRequest{Title: "D"})
	require.NoError(t, err)

	_, err = es.CreateEnrollment(1, course.ID)
	require.NoError(t, err)
	_, err = es.CreateEnrollment(2, course.ID)
	require.NoError(t, err)
	_, err = es.CreateEnrollment(3, other.ID)
	require.NoError(t, err)

	list, err := es.GetCourseEnrollments(course.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, e := range list {
		assert.Equal(t, course.ID, e.CourseID)
	}
}

func TestUpdateProgressReplacesSnapshot(t *testing.T) {
	cs, es := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)
	section, err := cs.AddSection(course.ID, AddSectionRequest{Title: "S"})
	require.NoError(t, err)
	lecture, err := cs.AddLecture(course.ID, section.ID, AddLectureRequest{
		Title: "L", IsHTML: true, HTML: strPtr("<p>x</p>"),
	})
	require.NoError(t, err)

	enrollment, err := es.CreateEnrollment(1, course.ID)
	require.NoError(t, err)
	before := enrollment.LastAccessedAt

	score := 87.5
	snapshot := []model.SectionProgress{
		{
			SectionID: section.ID,
			Completed: false,
			Lectures: []model.LectureProgress{
				{LectureID: lecture.ID, Completed: true, LastAccessedAt: time.Now(), QuizScore: &score},
			},
		},
	}

	time.Sleep(2 * time.Millisecond)
	updated, err := es.UpdateProgress(enrollment.ID, UpdateProgressRequest{
		Sections:        snapshot,
		OverallProgress: 40,
	})
	require.NoError(t, err)

	assert.Equal(t, 40.0, updated.OverallProgress)
	assert.True(t, updated.LastAccessedAt.After(before))
	assert.Nil(t, updated.CompletedAt)

	got, err := es.GetEnrollment(enrollment.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, section.ID, got.Sections[0].SectionID)
	require.Len(t, got.Sections[0].Lectures, 1)
	assert.Equal(t, lecture.ID, got.Sections[0].Lectures[0].LectureID)
	assert.True(t, got.Sections[0].Lectures[0].Completed)
	require.NotNil(t, got.Sections[0].Lectures[0].QuizScore)
	assert.Equal(t, score, *got.Sections[0].Lectures[0].QuizScore)
}

func TestUpdateProgressSetsCompletedAtOnce(t *testing.T) {
	cs, es := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)
	enrollment, err := es.CreateEnrollment(1, course.ID)
	require.NoError(t, err)

	done, err := es.UpdateProgress(enrollment.ID, UpdateProgressRequest{
		Sections:        []model.SectionProgress{},
		OverallProgress: 100,
	})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	firstCompletion := *done.CompletedAt

	time.Sleep(2 * time.Millisecond)
	again, err := es.UpdateProgress(enrollment.ID, UpdateProgressRequest{
		Sections:        []model.SectionProgress{},
		OverallProgress: 100,
	})
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	// 完成时间只落一次
	assert.WithinDuration(t, firstCompletion, *again.CompletedAt, time.Millisecond)
}

func TestUpdateProgressRejectsOutOfRange(t *testing.T) {
	cs, es := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)
	enrollment, err := es.CreateEnrollment(1, course.ID)
	require.NoError(t, err)

	_, err = es.UpdateProgress(enrollment.ID, UpdateProgressRequest{OverallProgress: 150})
	assert.ErrorIs(t, err, util.ErrInvalidProgress)

	_, err = es.UpdateProgress(enrollment.ID, UpdateProgressRequest{OverallProgress: -1})
	assert.ErrorIs(t, err, util.ErrInvalidProgress)
}

func TestUpdateProgressEnrollmentNotFound(t *testing.T) {
	_, es := newTestServices(t)

	_, err := es.UpdateProgress("missing", UpdateProgressRequest{OverallProgress: 10})
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}
