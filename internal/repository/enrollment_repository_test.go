package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/university-api/internal/models"
)

func TestSaveEnrollmentTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO student_enrollments").
		WithArgs("S2023001", "CS101", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET status = $2, updated_at = $3 WHERE course_id = $1")).
		WithArgs("CS101", string(models.CourseStatusFull), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SaveEnrollment(context.Background(), "S2023001", "CS101", models.CourseStatusFull)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveEnrollmentRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM student_enrollments").
		WithArgs("S2023001", "CS101").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE courses SET status").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.RemoveEnrollment(context.Background(), "S2023001", "CS101", models.CourseStatusOpen)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveGradeTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM student_enrollments").
		WithArgs("S2023001", "CS101").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO student_grades").
		WithArgs("S2023001", "CS101", 95.0, "A", 4.0, "Fall 2024", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET gpa = $2, updated_at = $3 WHERE student_id = $1")).
		WithArgs("S2023001", 4.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	grade := models.CourseGrade{StudentID: "S2023001", CourseID: "CS101", Percentage: 95.0, LetterGrade: "A", GradePoints: 4.0, Semester: "Fall 2024"}
	err := repo.SaveGrade(context.Background(), grade, 4.0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranscriptRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("SELECT g.course_id, COALESCE").
		WithArgs("S2023001").
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "course_name", "credit_hours", "letter_grade", "grade_points", "percentage", "semester"}).
			AddRow("CS101", "Introduction to Programming", 3, "A", 4.0, 95.0, "Fall 2023"))

	rows, err := repo.TranscriptRows(context.Background(), "S2023001")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Introduction to Programming", rows[0].CourseName)
	assert.InDelta(t, 4.0, rows[0].GradePoints, 0.0001)
	assert.NoError(t, mock.ExpectationsWereMet())
}
