package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/university-api/internal/models"
)

func studentColumns() []string {
	return []string{"student_id", "full_name", "email", "major", "enrollment_year", "status", "gpa", "created_at", "updated_at"}
}

func TestStudentFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(studentColumns()).
		AddRow("S2023001", "Alice Johnson", "alice@university.edu", "Computer Science", 2023, string(models.StudentStatusActive), 3.65, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, full_name, email, major, enrollment_year, status, gpa, created_at, updated_at FROM students WHERE student_id = $1 LIMIT 1")).
		WithArgs("S2023001").
		WillReturnRows(rows)

	student, err := repo.FindByID(context.Background(), "S2023001")
	require.NoError(t, err)
	assert.Equal(t, "S2023001", student.StudentID)
	assert.InDelta(t, 3.65, student.GPA, 0.0001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentGetRecord(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT student_id, full_name, email, major, enrollment_year, status, gpa, created_at, updated_at FROM students").
		WithArgs("S2023001").
		WillReturnRows(sqlmock.NewRows(studentColumns()).
			AddRow("S2023001", "Alice Johnson", "alice@university.edu", "Computer Science", 2023, string(models.StudentStatusActive), 4.0, now, now))

	mock.ExpectQuery("SELECT course_id FROM student_enrollments").
		WithArgs("S2023001").
		WillReturnRows(sqlmock.NewRows([]string{"course_id"}).AddRow("CS102"))

	mock.ExpectQuery("SELECT student_id, course_id, percentage, letter_grade, points, semester FROM student_grades").
		WithArgs("S2023001").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "course_id", "percentage", "letter_grade", "points", "semester"}).
			AddRow("S2023001", "CS101", 95.0, "A", 4.0, "Fall 2023"))

	record, err := repo.GetRecord(context.Background(), "S2023001")
	require.NoError(t, err)
	assert.Equal(t, []string{"CS102"}, record.EnrolledCourses)
	require.Contains(t, record.Grades, "CS101")
	assert.Equal(t, "A", record.Grades["CS101"].LetterGrade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentListProbationFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT s\.student_id, .+ FROM students s WHERE 1=1 AND s\.gpa < 2\.0 ORDER BY s\.student_id ASC LIMIT 20 OFFSET 0`).
		WillReturnRows(sqlmock.NewRows(studentColumns()).
			AddRow("S2023003", "Charlie Brown", "charlie@university.edu", "Computer Science", 2023, string(models.StudentStatusActive), 1.7, now, now))
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT s\.student_id\) FROM students s WHERE 1=1 AND s\.gpa < 2\.0`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Probation: true})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").WillReturnResult(sqlmock.NewResult(1, 1))

	student, err := models.NewStudent("S2023009", "Dana Scully", "dana@university.edu", "Physics", 2023)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), student))
	assert.False(t, student.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
