package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/university-api/pkg/errors"
)

func newRecord(t *testing.T) *AcademicRecord {
	t.Helper()
	student, err := NewStudent("S2023001", "Alice Johnson", "alice@university.edu", "Computer Science", 2023)
	require.NoError(t, err)
	return &AcademicRecord{Student: *student}
}

func TestNewStudentValidation(t *testing.T) {
	_, err := NewStudent("", "Name", "a@b.edu", "CS", 2023)
	require.Error(t, err)

	_, err = NewStudent("S1", "Name", "not-an-email", "CS", 2023)
	require.Error(t, err)

	student, err := NewStudent("S1", "Name", "a@b.edu", "CS", 2023)
	require.NoError(t, err)
	assert.Equal(t, StudentStatusActive, student.Status)
	assert.Zero(t, student.GPA)
}

func TestRecordEnrollAndDrop(t *testing.T) {
	record := newRecord(t)

	require.NoError(t, record.EnrollInCourse("CS101"))
	assert.ErrorIs(t, record.EnrollInCourse("CS101"), appErrors.ErrAlreadyEnrolled)

	require.NoError(t, record.DropCourse("CS101"))
	assert.ErrorIs(t, record.DropCourse("CS101"), appErrors.ErrNotEnrolled)
}

func TestRecordEnrollBlockedForInactiveStatuses(t *testing.T) {
	for _, status := range []StudentStatus{StudentStatusInactive, StudentStatusGraduated, StudentStatusSuspended, StudentStatusExpelled, StudentStatusOnLeave} {
		record := newRecord(t)
		record.Status = status
		err := record.EnrollInCourse("CS101")
		assert.ErrorIs(t, err, appErrors.ErrEnrollmentBlocked, "status %s", status)
	}
}

func TestRecordAddGradeMovesCourse(t *testing.T) {
	record := newRecord(t)
	require.NoError(t, record.EnrollInCourse("CS101"))

	grade, err := NewGradeFromLetter("A")
	require.NoError(t, err)
	require.NoError(t, record.AddGrade("CS101", grade))

	assert.Empty(t, record.EnrolledCourses)
	assert.Contains(t, record.Grades, "CS101")
	assert.Equal(t, 1, record.CompletedCourses())
	assert.InDelta(t, 4.0, record.GPA, 0.0001)
}

func TestRecordAddGradeNotEnrolled(t *testing.T) {
	record := newRecord(t)
	grade, err := NewGradeFromPercentage(88)
	require.NoError(t, err)

	err = record.AddGrade("CS999", grade)
	assert.ErrorIs(t, err, appErrors.ErrNotEnrolled)
	assert.Empty(t, record.Grades)
	assert.Empty(t, record.EnrolledCourses)
}

func TestRecordGPAUnweightedMean(t *testing.T) {
	record := newRecord(t)

	a, err := NewGradeFromLetter("A")
	require.NoError(t, err)
	bPlus, err := NewGradeFromLetter("B+")
	require.NoError(t, err)
	f, err := NewGradeFromLetter("F")
	require.NoError(t, err)

	require.NoError(t, record.EnrollInCourse("CS101"))
	require.NoError(t, record.AddGrade("CS101", a))

	require.NoError(t, record.EnrollInCourse("CS102"))
	require.NoError(t, record.AddGrade("CS102", bPlus))
	assert.InDelta(t, 3.65, record.GPA, 0.0001)

	require.NoError(t, record.EnrollInCourse("MATH101"))
	require.NoError(t, record.AddGrade("MATH101", f))
	assert.InDelta(t, (4.0+3.3+0.0)/3, record.GPA, 0.0001)
}

func TestStandingBoundaries(t *testing.T) {
	cases := []struct {
		gpa  float64
		want string
	}{
		{4.0, "Dean's List"},
		{3.5, "Dean's List"},
		{3.499, "Good Standing"},
		{3.0, "Good Standing"},
		{2.5, "Satisfactory"},
		{2.0, "Academic Warning"},
		{1.999, "Academic Probation"},
		{0, "Academic Probation"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StandingForGPA(tc.gpa), "gpa %v", tc.gpa)
	}
}

// Full scenario from the enrollment lifecycle: a dropped course cannot be
// graded, and the course seat reopens.
func TestEnrollDropGradeScenario(t *testing.T) {
	record := newRecord(t)
	course, err := NewCourse("C1", "Seminar", "", 3, "F1")
	require.NoError(t, err)
	course.MaxCapacity = 1
	roster := &CourseRoster{Course: *course}

	require.NoError(t, roster.Enroll(record.StudentID))
	require.NoError(t, record.EnrollInCourse("C1"))
	assert.Equal(t, CourseStatusFull, roster.Status)

	assert.ErrorIs(t, roster.Enroll("S2023002"), appErrors.ErrCourseNotOpen)

	require.NoError(t, roster.Drop(record.StudentID))
	require.NoError(t, record.DropCourse("C1"))
	assert.Equal(t, CourseStatusOpen, roster.Status)

	grade, err := NewGradeFromPercentage(88.0)
	require.NoError(t, err)
	assert.ErrorIs(t, record.AddGrade("C1", grade), appErrors.ErrNotEnrolled)
}
