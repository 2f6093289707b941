package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/university-api/internal/models"
)

// EnrollmentRepository persists the cross-aggregate effects of enrollment and
// grading. Each operation writes the enrollment row together with the derived
// course status or student GPA in one transaction, so the two aggregates never
// drift apart.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// SaveEnrollment inserts the enrollment row and persists the course status
// derived by the roster aggregate.
func (r *EnrollmentRepository) SaveEnrollment(ctx context.Context, studentID, courseID string, status models.CourseStatus) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `INSERT INTO student_enrollments (student_id, course_id, enrolled_at) VALUES ($1, $2, $3)`, studentID, courseID, now); err != nil {
			return fmt.Errorf("insert enrollment: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE courses SET status = $2, updated_at = $3 WHERE course_id = $1`, courseID, status, now); err != nil {
			return fmt.Errorf("update course status: %w", err)
		}
		return nil
	})
}

// RemoveEnrollment deletes the enrollment row and persists the course status
// derived by the roster aggregate.
func (r *EnrollmentRepository) RemoveEnrollment(ctx context.Context, studentID, courseID string, status models.CourseStatus) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `DELETE FROM student_enrollments WHERE student_id = $1 AND course_id = $2`, studentID, courseID); err != nil {
			return fmt.Errorf("delete enrollment: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE courses SET status = $2, updated_at = $3 WHERE course_id = $1`, courseID, status, now); err != nil {
			return fmt.Errorf("update course status: %w", err)
		}
		return nil
	})
}

// SaveGrade completes a course for a student: the enrollment row is consumed,
// the grade row is written and the recomputed GPA is stored. The course status
// is not touched; grading does not free the seat.
func (r *EnrollmentRepository) SaveGrade(ctx context.Context, grade models.CourseGrade, gpa float64) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `DELETE FROM student_enrollments WHERE student_id = $1 AND course_id = $2`, grade.StudentID, grade.CourseID); err != nil {
			return fmt.Errorf("consume enrollment: %w", err)
		}
		const insert = `INSERT INTO student_grades (student_id, course_id, percentage, letter_grade, points, semester, graded_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            ON CONFLICT (student_id, course_id) DO UPDATE SET percentage = $3, letter_grade = $4, points = $5, semester = $6, graded_at = $7`
		if _, err := tx.ExecContext(ctx, insert, grade.StudentID, grade.CourseID, grade.Percentage, grade.LetterGrade, grade.GradePoints, grade.Semester, now); err != nil {
			return fmt.Errorf("insert grade: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE students SET gpa = $2, updated_at = $3 WHERE student_id = $1`, grade.StudentID, gpa, now); err != nil {
			return fmt.Errorf("update gpa: %w", err)
		}
		return nil
	})
}

// TranscriptRows returns the graded courses joined with course metadata for a
// student transcript, in grading order.
func (r *EnrollmentRepository) TranscriptRows(ctx context.Context, studentID string) ([]models.TranscriptRow, error) {
	const query = `SELECT g.course_id, COALESCE(c.course_name, '') AS course_name, COALESCE(c.credit_hours, 0) AS credit_hours,
        g.letter_grade, g.points AS grade_points, g.percentage, g.semester
        FROM student_grades g
        LEFT JOIN courses c ON c.course_id = g.course_id
        WHERE g.student_id = $1
        ORDER BY g.graded_at`
	var rows []models.TranscriptRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("load transcript rows: %w", err)
	}
	return rows, nil
}

func (r *EnrollmentRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
