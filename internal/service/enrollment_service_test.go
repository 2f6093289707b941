package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/university-api/internal/models"
	appErrors "github.com/noah-isme/university-api/pkg/errors"
)

type mockRecordRepo struct {
	record *models.AcademicRecord
}

func (m *mockRecordRepo) GetRecord(ctx context.Context, studentID string) (*models.AcademicRecord, error) {
	if m.record == nil || m.record.StudentID != studentID {
		return nil, sql.ErrNoRows
	}
	return m.record, nil
}

type mockRosterRepo struct {
	roster *models.CourseRoster
}

func (m *mockRosterRepo) GetRoster(ctx context.Context, courseID string) (*models.CourseRoster, error) {
	if m.roster == nil || m.roster.CourseID != courseID {
		return nil, sql.ErrNoRows
	}
	return m.roster, nil
}

type mockEnrollmentRepo struct {
	savedStatus   models.CourseStatus
	removedStatus models.CourseStatus
	savedGrade    *models.CourseGrade
	savedGPA      float64
	saveCalls     int
	removeCalls   int
	gradeCalls    int
	saveErr       error
}

func (m *mockEnrollmentRepo) SaveEnrollment(ctx context.Context, studentID, courseID string, status models.CourseStatus) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCalls++
	m.savedStatus = status
	return nil
}

func (m *mockEnrollmentRepo) RemoveEnrollment(ctx context.Context, studentID, courseID string, status models.CourseStatus) error {
	m.removeCalls++
	m.removedStatus = status
	return nil
}

func (m *mockEnrollmentRepo) SaveGrade(ctx context.Context, grade models.CourseGrade, gpa float64) error {
	m.gradeCalls++
	m.savedGrade = &grade
	m.savedGPA = gpa
	return nil
}

func activeRecord(studentID string, enrolled ...string) *models.AcademicRecord {
	return &models.AcademicRecord{
		Student: models.Student{
			StudentID: studentID,
			FullName:  "Alice Johnson",
			Status:    models.StudentStatusActive,
		},
		EnrolledCourses: enrolled,
	}
}

func openRoster(courseID string, capacity int, enrolled ...string) *models.CourseRoster {
	return &models.CourseRoster{
		Course: models.Course{
			CourseID:    courseID,
			CourseName:  "Intro to Programming",
			MaxCapacity: capacity,
			Status:      models.CourseStatusOpen,
		},
		Enrolled: enrolled,
	}
}

func newEnrollmentTestService(record *models.AcademicRecord, roster *models.CourseRoster, repo *mockEnrollmentRepo) *EnrollmentService {
	return NewEnrollmentService(&mockRecordRepo{record: record}, &mockRosterRepo{roster: roster}, repo, validator.New(), zap.NewNop())
}

func TestEnrollSuccess(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(activeRecord("S2023001"), openRoster("CS101", 30), repo)

	result, err := svc.Enroll(context.Background(), "S2023001", "CS101")
	require.NoError(t, err)

	assert.Equal(t, models.CourseStatusOpen, result.CourseStatus)
	assert.Equal(t, 1, result.EnrolledCount)
	assert.Equal(t, 29, result.AvailableSpots)
	assert.Equal(t, 1, repo.saveCalls)
}

func TestEnrollLastSeatFlipsFull(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(activeRecord("S2023003"), openRoster("CS101", 2, "S2023001"), repo)

	result, err := svc.Enroll(context.Background(), "S2023003", "CS101")
	require.NoError(t, err)

	assert.Equal(t, models.CourseStatusFull, result.CourseStatus)
	assert.Equal(t, 0, result.AvailableSpots)
	assert.Equal(t, models.CourseStatusFull, repo.savedStatus)
}

func TestEnrollRejectsFullCourse(t *testing.T) {
	roster := openRoster("CS101", 1, "S2023001")
	roster.Status = models.CourseStatusFull
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(activeRecord("S2023002"), roster, repo)

	_, err := svc.Enroll(context.Background(), "S2023002", "CS101")
	require.ErrorIs(t, err, appErrors.ErrCourseNotOpen)
	assert.Zero(t, repo.saveCalls)
}

func TestEnrollRejectsInactiveStudent(t *testing.T) {
	record := activeRecord("S2023001")
	record.Status = models.StudentStatusSuspended
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(record, openRoster("CS101", 30), repo)

	_, err := svc.Enroll(context.Background(), "S2023001", "CS101")
	require.ErrorIs(t, err, appErrors.ErrEnrollmentBlocked)
	assert.Zero(t, repo.saveCalls)
}

func TestEnrollRejectsDuplicate(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(activeRecord("S2023001", "CS101"), openRoster("CS101", 30, "S2023001"), repo)

	_, err := svc.Enroll(context.Background(), "S2023001", "CS101")
	require.ErrorIs(t, err, appErrors.ErrAlreadyEnrolled)
	assert.Zero(t, repo.saveCalls)
}

func TestEnrollUnknownStudent(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(activeRecord("S2023001"), openRoster("CS101", 30), repo)

	_, err := svc.Enroll(context.Background(), "S9999999", "CS101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "student not found")
}

func TestDropReopensFullCourse(t *testing.T) {
	roster := openRoster("CS101", 2, "S2023001", "S2023002")
	roster.Status = models.CourseStatusFull
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(activeRecord("S2023001", "CS101"), roster, repo)

	result, err := svc.Drop(context.Background(), "S2023001", "CS101")
	require.NoError(t, err)

	assert.Equal(t, models.CourseStatusOpen, result.CourseStatus)
	assert.Equal(t, 1, result.EnrolledCount)
	assert.Equal(t, models.CourseStatusOpen, repo.removedStatus)
}

func TestDropNotEnrolled(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(activeRecord("S2023001"), openRoster("CS101", 30), repo)

	_, err := svc.Drop(context.Background(), "S2023001", "CS101")
	require.ErrorIs(t, err, appErrors.ErrNotEnrolled)
	assert.Zero(t, repo.removeCalls)
}

func TestAssignGradeFromPercentage(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(activeRecord("S2023001", "CS101"), openRoster("CS101", 30, "S2023001"), repo)

	pct := 95.0
	result, err := svc.AssignGrade(context.Background(), "S2023001", "CS101", GradeRequest{Percentage: &pct, Semester: "Fall 2026"})
	require.NoError(t, err)

	assert.Equal(t, "A", result.Grade.LetterGrade)
	assert.InDelta(t, 4.0, result.GPA, 0.001)
	assert.Equal(t, "Dean's List", result.Standing)
	assert.Equal(t, 1, repo.gradeCalls)
	assert.InDelta(t, 4.0, repo.savedGPA, 0.001)
	assert.Equal(t, "Fall 2026", repo.savedGrade.Semester)
}

func TestAssignGradeFromLetter(t *testing.T) {
	record := activeRecord("S2023001", "CS101")
	record.Grades = map[string]models.Grade{
		"MATH101": {Percentage: 95, LetterGrade: "A", GradePoints: 4.0},
	}
	record.GPA = 4.0
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(record, openRoster("CS101", 30, "S2023001"), repo)

	result, err := svc.AssignGrade(context.Background(), "S2023001", "CS101", GradeRequest{LetterGrade: "C"})
	require.NoError(t, err)

	// Unweighted mean of 4.0 and 2.0.
	assert.InDelta(t, 3.0, result.GPA, 0.001)
	assert.Equal(t, "Good Standing", result.Standing)
}

func TestAssignGradeRequiresEnrollment(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(activeRecord("S2023001"), openRoster("CS101", 30), repo)

	pct := 80.0
	_, err := svc.AssignGrade(context.Background(), "S2023001", "CS101", GradeRequest{Percentage: &pct})
	require.ErrorIs(t, err, appErrors.ErrNotEnrolled)
	assert.Zero(t, repo.gradeCalls)
}

func TestAssignGradeRejectsAmbiguousInput(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(activeRecord("S2023001", "CS101"), openRoster("CS101", 30, "S2023001"), repo)

	pct := 80.0
	_, err := svc.AssignGrade(context.Background(), "S2023001", "CS101", GradeRequest{Percentage: &pct, LetterGrade: "B"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")

	_, err = svc.AssignGrade(context.Background(), "S2023001", "CS101", GradeRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestAssignGradeLeavesCourseStatusAlone(t *testing.T) {
	roster := openRoster("CS101", 1, "S2023001")
	roster.Status = models.CourseStatusFull
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentTestService(activeRecord("S2023001", "CS101"), roster, repo)

	pct := 70.0
	_, err := svc.AssignGrade(context.Background(), "S2023001", "CS101", GradeRequest{Percentage: &pct})
	require.NoError(t, err)

	// Grading consumes the enrollment row but never frees the seat.
	assert.Equal(t, models.CourseStatusFull, roster.Status)
}
