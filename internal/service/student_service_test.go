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
)

type mockStudentRepo struct {
	student       *models.Student
	record        *models.AcademicRecord
	emailTaken    bool
	created       *models.Student
	updatedStatus models.StudentStatus
	deleted       bool
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	if m.student == nil {
		return nil, 0, nil
	}
	return []models.Student{*m.student}, 1, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, studentID string) (*models.Student, error) {
	if m.student == nil || m.student.StudentID != studentID {
		return nil, sql.ErrNoRows
	}
	return m.student, nil
}

func (m *mockStudentRepo) GetRecord(ctx context.Context, studentID string) (*models.AcademicRecord, error) {
	if m.record == nil || m.record.StudentID != studentID {
		return nil, sql.ErrNoRows
	}
	return m.record, nil
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return m.emailTaken, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.created = student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	return nil
}

func (m *mockStudentRepo) UpdateStatus(ctx context.Context, studentID string, status models.StudentStatus) error {
	m.updatedStatus = status
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, studentID string) error {
	m.deleted = true
	return nil
}

type mockTranscriptRepo struct {
	rows []models.TranscriptRow
}

func (m *mockTranscriptRepo) TranscriptRows(ctx context.Context, studentID string) ([]models.TranscriptRow, error) {
	return m.rows, nil
}

func newStudentTestService(repo *mockStudentRepo, transcripts *mockTranscriptRepo) *StudentService {
	if transcripts == nil {
		transcripts = &mockTranscriptRepo{}
	}
	return NewStudentService(repo, transcripts, validator.New(), zap.NewNop())
}

func TestStudentCreateDefaultsToActive(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentTestService(repo, nil)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		StudentID:      "S2023001",
		FullName:       "Alice Johnson",
		Email:          "alice@university.edu",
		Major:          "Computer Science",
		EnrollmentYear: 2023,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StudentStatusActive, student.Status)
	assert.Zero(t, student.GPA)
	assert.NotNil(t, repo.created)
}

func TestStudentCreateRejectsDuplicateEmail(t *testing.T) {
	repo := &mockStudentRepo{emailTaken: true}
	svc := newStudentTestService(repo, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		StudentID:      "S2023001",
		FullName:       "Alice Johnson",
		Email:          "alice@university.edu",
		EnrollmentYear: 2023,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already registered")
}

func TestStudentCreateRejectsDuplicateID(t *testing.T) {
	existing, err := models.NewStudent("S2023001", "Alice Johnson", "alice@university.edu", "CS", 2023)
	require.NoError(t, err)
	repo := &mockStudentRepo{student: existing}
	svc := newStudentTestService(repo, nil)

	_, err = svc.Create(context.Background(), CreateStudentRequest{
		StudentID:      "S2023001",
		FullName:       "Someone Else",
		Email:          "other@university.edu",
		EnrollmentYear: 2023,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "student id already exists")
}

func TestStudentUpdateStatusValidatesValue(t *testing.T) {
	existing, err := models.NewStudent("S2023001", "Alice Johnson", "alice@university.edu", "CS", 2023)
	require.NoError(t, err)
	repo := &mockStudentRepo{student: existing}
	svc := newStudentTestService(repo, nil)

	student, err := svc.UpdateStatus(context.Background(), "S2023001", models.StudentStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusSuspended, student.Status)
	assert.Equal(t, models.StudentStatusSuspended, repo.updatedStatus)

	_, err = svc.UpdateStatus(context.Background(), "S2023001", models.StudentStatus("BOGUS"))
	require.Error(t, err)
}

func TestStudentStanding(t *testing.T) {
	repo := &mockStudentRepo{
		record: &models.AcademicRecord{
			Student: models.Student{StudentID: "S2023001", FullName: "Alice Johnson", GPA: 1.7},
			Grades: map[string]models.Grade{
				"CS101":   {LetterGrade: "D", GradePoints: 1.0},
				"MATH101": {LetterGrade: "C", GradePoints: 2.0},
			},
		},
	}
	svc := newStudentTestService(repo, nil)

	standing, err := svc.Standing(context.Background(), "S2023001")
	require.NoError(t, err)
	assert.Equal(t, "Academic Probation", standing.Standing)
	assert.Equal(t, 2, standing.CompletedCourses)
}

func TestStudentTranscript(t *testing.T) {
	repo := &mockStudentRepo{
		record: &models.AcademicRecord{
			Student: models.Student{
				StudentID:      "S2023001",
				FullName:       "Alice Johnson",
				Major:          "Computer Science",
				EnrollmentYear: 2023,
				GPA:            3.7,
			},
			EnrolledCourses: []string{"CS102"},
		},
	}
	transcripts := &mockTranscriptRepo{
		rows: []models.TranscriptRow{
			{CourseID: "CS101", CourseName: "Intro to Programming", CreditHours: 3, LetterGrade: "A-", GradePoints: 3.7, Percentage: 91.0},
		},
	}
	svc := newStudentTestService(repo, transcripts)

	transcript, err := svc.Transcript(context.Background(), "S2023001")
	require.NoError(t, err)

	assert.Equal(t, "Dean's List", transcript.Standing)
	assert.Len(t, transcript.CompletedCourses, 1)
	assert.Equal(t, []string{"CS102"}, transcript.InProgress)
	assert.False(t, transcript.GeneratedAt.IsZero())
}

func TestStudentGetNotFound(t *testing.T) {
	svc := newStudentTestService(&mockStudentRepo{}, nil)

	_, err := svc.Get(context.Background(), "S9999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "student not found")
}
