package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements holds the DDL applied at startup. Primary keys are the
// natural identifiers (username, student_id, course_id, faculty_id).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username      TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL,
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		last_login    TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         TEXT PRIMARY KEY,
		username   TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		token      TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		revoked    BOOLEAN NOT NULL DEFAULT FALSE,
		revoked_at TIMESTAMPTZ,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		student_id      TEXT PRIMARY KEY,
		full_name       TEXT NOT NULL,
		email           TEXT NOT NULL,
		major           TEXT NOT NULL DEFAULT '',
		enrollment_year INTEGER NOT NULL,
		status          TEXT NOT NULL DEFAULT 'ACTIVE',
		gpa             DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS faculty (
		faculty_id      TEXT PRIMARY KEY,
		full_name       TEXT NOT NULL,
		email           TEXT NOT NULL,
		department      TEXT NOT NULL DEFAULT '',
		position        TEXT NOT NULL DEFAULT '',
		office_location TEXT NOT NULL DEFAULT '',
		phone_number    TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		course_id     TEXT PRIMARY KEY,
		course_name   TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		credit_hours  INTEGER NOT NULL,
		instructor_id TEXT NOT NULL DEFAULT '',
		max_capacity  INTEGER NOT NULL DEFAULT 30,
		schedule      TEXT NOT NULL DEFAULT '',
		classroom     TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL DEFAULT 'OPEN',
		semester      TEXT NOT NULL DEFAULT '',
		year          INTEGER NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS faculty_courses (
		faculty_id  TEXT NOT NULL REFERENCES faculty(faculty_id) ON DELETE CASCADE,
		course_id   TEXT NOT NULL,
		assigned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (faculty_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS student_enrollments (
		student_id  TEXT NOT NULL REFERENCES students(student_id) ON DELETE CASCADE,
		course_id   TEXT NOT NULL REFERENCES courses(course_id) ON DELETE CASCADE,
		enrolled_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (student_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS student_grades (
		student_id   TEXT NOT NULL REFERENCES students(student_id) ON DELETE CASCADE,
		course_id    TEXT NOT NULL,
		percentage   DOUBLE PRECISION NOT NULL,
		letter_grade TEXT NOT NULL,
		points       DOUBLE PRECISION NOT NULL,
		semester     TEXT NOT NULL DEFAULT '',
		graded_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (student_id, course_id)
	)`,
	// Declared by the legacy schema; no service reads it yet.
	`CREATE TABLE IF NOT EXISTS departments (
		name     TEXT PRIMARY KEY,
		building TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_major ON students (major)`,
	`CREATE INDEX IF NOT EXISTS idx_students_status ON students (status)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_status ON courses (status)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_course ON student_enrollments (course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_username ON refresh_tokens (username)`,
}

// Migrate applies the schema statements in order.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
