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

// CourseRepository manages persistence for course offerings and their
// rosters.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses with their enrollment counts, matching the filters.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	base := "FROM courses c LEFT JOIN student_enrollments e ON e.course_id = c.course_id"
	var args []interface{}
	conditions := []string{"1=1"}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("c.instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.CreditHours != 0 {
		conditions = append(conditions, fmt.Sprintf("c.credit_hours = $%d", len(args)+1))
		args = append(args, filter.CreditHours)
	}
	if filter.Available {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", len(args)+1))
		args = append(args, models.CourseStatusOpen)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.course_name) LIKE $%d OR LOWER(c.course_id) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"course_id":    "c.course_id",
		"course_name":  "c.course_name",
		"credit_hours": "c.credit_hours",
		"status":       "c.status",
		"created_at":   "c.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "c.course_id"
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

	query := fmt.Sprintf(`SELECT c.course_id, c.course_name, c.description, c.credit_hours, c.instructor_id, c.max_capacity,
        c.schedule, c.classroom, c.status, c.semester, c.year, c.created_at, c.updated_at,
        COUNT(e.student_id) AS enrolled_count
        %s WHERE %s
        GROUP BY c.course_id
        ORDER BY %s %s LIMIT %d OFFSET %d`, base, where, column, order, size, offset)

	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT c.course_id) %s WHERE %s", base, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// FindByID fetches a course by course ID.
func (r *CourseRepository) FindByID(ctx context.Context, courseID string) (*models.Course, error) {
	const query = `SELECT course_id, course_name, description, credit_hours, instructor_id, max_capacity, schedule, classroom, status, semester, year, created_at, updated_at FROM courses WHERE course_id = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// GetRoster loads the course aggregate: the course row plus the IDs of the
// currently enrolled students.
func (r *CourseRepository) GetRoster(ctx context.Context, courseID string) (*models.CourseRoster, error) {
	course, err := r.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	roster := &models.CourseRoster{Course: *course}
	const query = `SELECT student_id FROM student_enrollments WHERE course_id = $1 ORDER BY enrolled_at`
	if err := r.db.SelectContext(ctx, &roster.Enrolled, query, courseID); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return roster, nil
}

// RosterRows returns the enrolled students with names for roster reports.
func (r *CourseRepository) RosterRows(ctx context.Context, courseID string) ([]models.RosterRow, error) {
	const query = `SELECT s.student_id, s.full_name, s.major, e.enrolled_at
        FROM student_enrollments e
        JOIN students s ON s.student_id = e.student_id
        WHERE e.course_id = $1
        ORDER BY s.full_name`
	var rows []models.RosterRow
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("load roster rows: %w", err)
	}
	return rows, nil
}

// Create inserts a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (course_id, course_name, description, credit_hours, instructor_id, max_capacity, schedule, classroom, status, semester, year, created_at, updated_at)
        VALUES (:course_id, :course_name, :description, :credit_hours, :instructor_id, :max_capacity, :schedule, :classroom, :status, :semester, :year, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies the descriptive fields of a course. Capacity and status
// have dedicated update paths.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET course_name = :course_name, description = :description, credit_hours = :credit_hours, instructor_id = :instructor_id, schedule = :schedule, classroom = :classroom, semester = :semester, year = :year, updated_at = :updated_at WHERE course_id = :course_id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// UpdateStatus sets the course status directly.
func (r *CourseRepository) UpdateStatus(ctx context.Context, courseID string, status models.CourseStatus) error {
	const query = `UPDATE courses SET status = $2, updated_at = $3 WHERE course_id = $1`
	if _, err := r.db.ExecContext(ctx, query, courseID, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update course status: %w", err)
	}
	return nil
}

// UpdateCapacity persists a capacity change along with the status the
// aggregate derived from it.
func (r *CourseRepository) UpdateCapacity(ctx context.Context, courseID string, maxCapacity int, status models.CourseStatus) error {
	const query = `UPDATE courses SET max_capacity = $2, status = $3, updated_at = $4 WHERE course_id = $1`
	if _, err := r.db.ExecContext(ctx, query, courseID, maxCapacity, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update course capacity: %w", err)
	}
	return nil
}

// Delete removes the course row. Enrollments cascade.
func (r *CourseRepository) Delete(ctx context.Context, courseID string) error {
	const query = `DELETE FROM courses WHERE course_id = $1`
	if _, err := r.db.ExecContext(ctx, query, courseID); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

// Statistics aggregates enrollment figures across all courses.
func (r *CourseRepository) Statistics(ctx context.Context) (*models.CourseStatistics, error) {
	const query = `SELECT
        COUNT(*) AS total_courses,
        COUNT(*) FILTER (WHERE status = 'OPEN') AS open_courses,
        COUNT(*) FILTER (WHERE status = 'FULL') AS full_courses,
        COUNT(*) FILTER (WHERE status IN ('OPEN', 'FULL', 'IN_PROGRESS')) AS active_courses,
        COALESCE((SELECT COUNT(*) FROM student_enrollments), 0) AS total_enrollments,
        CASE WHEN COUNT(*) = 0 THEN 0
             ELSE COALESCE((SELECT COUNT(*) FROM student_enrollments), 0)::float / COUNT(*)
        END AS average_enrollment
        FROM courses`
	var stats models.CourseStatistics
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("course statistics: %w", err)
	}
	return &stats, nil
}
