package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentGuardFlipsOnFirstEnrollment(t *testing.T) {
	cs, es := newTestServices(t)

	course, err := cs.CreateCourse(CreateCourseRequest{Title: "C"})
	require.NoError(t, err)

	locked, err := cs.Guard.HasActiveEnrollments(course.ID)
	require.NoError(t, err)
	assert.False(t, locked)

	_, err = es.CreateEnrollment(1, course.ID)
	require.NoError(t, err)

	locked, err = cs.Guard.HasActiveEnrollments(course.ID)
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestEnrollmentGuardIgnoresOtherCourses(t *testing.T) {
	cs, es := newTestServices(t)

	courseA, err := cs.CreateCourse(CreateCourseRequest{Title: "A"})
	require.NoError(t, err)
	courseB, err := cs.CreateCourse(CreateCourseRequest{Title: "B"})
	require.NoError(t, err)

	_, err = es.CreateEnrollment(1, courseA.ID)
	require.NoError(t, err)

	locked, err := cs.Guard.HasActiveEnrollments(courseB.ID)
	require.NoError(t, err)
	assert.False(t, locked)
}
