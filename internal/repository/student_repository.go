package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/university-api/internal/models"
)

// StudentRepository manages persistence for student records and their
// academic aggregates.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students s"
	var args []interface{}
	conditions := []string{"1=1"}

	if filter.CourseID != "" {
		base += " JOIN student_enrollments e ON e.student_id = s.student_id"
		conditions = append(conditions, fmt.Sprintf("e.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Major != "" {
		conditions = append(conditions, fmt.Sprintf("s.major = $%d", len(args)+1))
		args = append(args, filter.Major)
	}
	if filter.EnrollmentYear != 0 {
		conditions = append(conditions, fmt.Sprintf("s.enrollment_year = $%d", len(args)+1))
		args = append(args, filter.EnrollmentYear)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.MinGPA != nil {
		conditions = append(conditions, fmt.Sprintf("s.gpa >= $%d", len(args)+1))
		args = append(args, *filter.MinGPA)
	}
	if filter.MaxGPA != nil {
		conditions = append(conditions, fmt.Sprintf("s.gpa <= $%d", len(args)+1))
		args = append(args, *filter.MaxGPA)
	}
	if filter.Probation {
		conditions = append(conditions, "s.gpa < 2.0")
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.full_name) LIKE $%d OR LOWER(s.student_id) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"student_id":      "s.student_id",
		"full_name":       "s.full_name",
		"gpa":             "s.gpa",
		"enrollment_year": "s.enrollment_year",
		"created_at":      "s.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "s.student_id"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.student_id, s.full_name, s.email, s.major, s.enrollment_year, s.status, s.gpa, s.created_at, s.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT s.student_id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by student ID.
func (r *StudentRepository) FindByID(ctx context.Context, studentID string) (*models.Student, error) {
	const query = `SELECT student_id, full_name, email, major, enrollment_year, status, gpa, created_at, updated_at FROM students WHERE student_id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

// GetRecord loads the full academic record: the student row, in-progress
// course IDs and grades for completed courses.
func (r *StudentRepository) GetRecord(ctx context.Context, studentID string) (*models.AcademicRecord, error) {
	student, err := r.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	record := &models.AcademicRecord{Student: *student, Grades: make(map[string]models.Grade)}

	const enrolledQuery = `SELECT course_id FROM student_enrollments WHERE student_id = $1 ORDER BY enrolled_at`
	if err := r.db.SelectContext(ctx, &record.EnrolledCourses, enrolledQuery, studentID); err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}

	const gradesQuery = `SELECT student_id, course_id, percentage, letter_grade, points, semester FROM student_grades WHERE student_id = $1 ORDER BY graded_at`
	var rows []models.CourseGrade
	if err := r.db.SelectContext(ctx, &rows, gradesQuery, studentID); err != nil {
		return nil, fmt.Errorf("load grades: %w", err)
	}
	for _, row := range rows {
		record.Grades[row.CourseID] = row.Grade()
	}
	return record, nil
}

// ExistsByEmail checks if a student with the given email exists, optionally
// excluding a student ID.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND student_id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (student_id, full_name, email, major, enrollment_year, status, gpa, created_at, updated_at)
        VALUES (:student_id, :full_name, :email, :major, :enrollment_year, :status, :gpa, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies the mutable fields of a student row. GPA is maintained by
// the grading path, not here.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET full_name = :full_name, email = :email, major = :major, enrollment_year = :enrollment_year, status = :status, updated_at = :updated_at WHERE student_id = :student_id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// UpdateStatus changes only the administrative status.
func (r *StudentRepository) UpdateStatus(ctx context.Context, studentID string, status models.StudentStatus) error {
	const query = `UPDATE students SET status = $2, updated_at = $3 WHERE student_id = $1`
	if _, err := r.db.ExecContext(ctx, query, studentID, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update student status: %w", err)
	}
	return nil
}

// Delete removes the student row. Enrollments and grades cascade.
func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	const query = `DELETE FROM students WHERE student_id = $1`
	if _, err := r.db.ExecContext(ctx, query, studentID); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
