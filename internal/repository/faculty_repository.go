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

// FacultyRepository manages persistence for faculty members and their course
// assignments.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns faculty members matching the provided filters.
func (r *FacultyRepository) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	baseQuery := `FROM faculty WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Position != "" {
		conditions = append(conditions, fmt.Sprintf("position = $%d", len(args)+1))
		args = append(args, filter.Position)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(faculty_id) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"faculty_id": true,
		"full_name":  true,
		"department": true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "faculty_id"
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

	listQuery := fmt.Sprintf("SELECT faculty_id, full_name, email, department, position, office_location, phone_number, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", baseQuery, sortBy, order, size, offset)

	var members []models.Faculty
	if err := r.db.SelectContext(ctx, &members, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list faculty: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count faculty: %w", err)
	}
	return members, total, nil
}

// FindByID fetches a faculty member by faculty ID.
func (r *FacultyRepository) FindByID(ctx context.Context, facultyID string) (*models.Faculty, error) {
	const query = `SELECT faculty_id, full_name, email, department, position, office_location, phone_number, created_at, updated_at FROM faculty WHERE faculty_id = $1 LIMIT 1`
	var member models.Faculty
	if err := r.db.GetContext(ctx, &member, query, facultyID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find faculty by id: %w", err)
	}
	return &member, nil
}

// GetTeachingLoad loads the faculty aggregate with assigned course IDs.
func (r *FacultyRepository) GetTeachingLoad(ctx context.Context, facultyID string) (*models.TeachingLoad, error) {
	member, err := r.FindByID(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	load := &models.TeachingLoad{Faculty: *member}
	const query = `SELECT course_id FROM faculty_courses WHERE faculty_id = $1 ORDER BY assigned_at`
	if err := r.db.SelectContext(ctx, &load.CoursesTaught, query, facultyID); err != nil {
		return nil, fmt.Errorf("load teaching assignments: %w", err)
	}
	return load, nil
}

// Create inserts a new faculty record.
func (r *FacultyRepository) Create(ctx context.Context, member *models.Faculty) error {
	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now
	const query = `INSERT INTO faculty (faculty_id, full_name, email, department, position, office_location, phone_number, created_at, updated_at)
        VALUES (:faculty_id, :full_name, :email, :department, :position, :office_location, :phone_number, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// Update modifies an existing faculty member.
func (r *FacultyRepository) Update(ctx context.Context, member *models.Faculty) error {
	member.UpdatedAt = time.Now().UTC()
	const query = `UPDATE faculty SET full_name = :full_name, email = :email, department = :department, position = :position, office_location = :office_location, phone_number = :phone_number, updated_at = :updated_at WHERE faculty_id = :faculty_id`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("update faculty: %w", err)
	}
	return nil
}

// Delete removes the faculty row. Course assignments cascade.
func (r *FacultyRepository) Delete(ctx context.Context, facultyID string) error {
	const query = `DELETE FROM faculty WHERE faculty_id = $1`
	if _, err := r.db.ExecContext(ctx, query, facultyID); err != nil {
		return fmt.Errorf("delete faculty: %w", err)
	}
	return nil
}

// AssignCourse records a teaching assignment.
func (r *FacultyRepository) AssignCourse(ctx context.Context, facultyID, courseID string) error {
	const query = `INSERT INTO faculty_courses (faculty_id, course_id, assigned_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, facultyID, courseID, time.Now().UTC()); err != nil {
		return fmt.Errorf("assign course: %w", err)
	}
	return nil
}

// RemoveAssignment deletes a teaching assignment.
func (r *FacultyRepository) RemoveAssignment(ctx context.Context, facultyID, courseID string) error {
	const query = `DELETE FROM faculty_courses WHERE faculty_id = $1 AND course_id = $2`
	if _, err := r.db.ExecContext(ctx, query, facultyID, courseID); err != nil {
		return fmt.Errorf("remove course assignment: %w", err)
	}
	return nil
}
