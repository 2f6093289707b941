package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/university-api/internal/models"
)

type seedUser struct {
	username string
	password string
	fullName string
	role     models.UserRole
}

var seedUsers = []seedUser{
	{"admin", "admin123", "Admin User", models.RoleAdminStaff},
	{"sysadmin", "sysadmin123", "System Administrator", models.RoleSystemAdmin},
	{"F2024001", "faculty123", "Dr. John Smith", models.RoleFaculty},
	{"F2024002", "faculty123", "Dr. Sarah Johnson", models.RoleFaculty},
	{"S2023001", "student123", "Alice Johnson", models.RoleStudent},
	{"S2023002", "student123", "Bob Williams", models.RoleStudent},
	{"S2023003", "student123", "Charlie Brown", models.RoleStudent},
}

// Seed loads demo accounts, students, faculty and courses on an empty
// database. It is a no-op when any user already exists.
func Seed(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	users := NewUserRepository(db)
	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, su := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		user := &models.User{
			Username:     su.username,
			PasswordHash: string(hash),
			FullName:     su.fullName,
			Role:         su.role,
			Active:       true,
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
	}

	students := NewStudentRepository(db)
	for _, s := range []struct {
		id, name, email, major string
		year                   int
	}{
		{"S2023001", "Alice Johnson", "alice.johnson@university.edu", "Computer Science", 2023},
		{"S2023002", "Bob Williams", "bob.williams@university.edu", "Mathematics", 2023},
		{"S2023003", "Charlie Brown", "charlie.brown@university.edu", "Computer Science", 2023},
	} {
		student, err := models.NewStudent(s.id, s.name, s.email, s.major, s.year)
		if err != nil {
			return err
		}
		if err := students.Create(ctx, student); err != nil {
			return err
		}
	}

	faculty := NewFacultyRepository(db)
	for _, f := range []struct {
		id, name, email, department, position string
	}{
		{"F2024001", "Dr. John Smith", "john.smith@university.edu", "Computer Science", "Associate Professor"},
		{"F2024002", "Dr. Sarah Johnson", "sarah.johnson@university.edu", "Mathematics", "Professor"},
	} {
		member, err := models.NewFaculty(f.id, f.name, f.email, f.department, f.position)
		if err != nil {
			return err
		}
		if err := faculty.Create(ctx, member); err != nil {
			return err
		}
	}

	courses := NewCourseRepository(db)
	for _, c := range []struct {
		id, name, description string
		credits               int
		instructorID          string
	}{
		{"CS101", "Introduction to Programming", "Basic programming concepts", 3, "F2024001"},
		{"CS102", "Data Structures", "Fundamental data structures and algorithms", 4, "F2024001"},
		{"MATH101", "Calculus I", "Limits, derivatives and integrals", 4, "F2024002"},
	} {
		course, err := models.NewCourse(c.id, c.name, c.description, c.credits, c.instructorID)
		if err != nil {
			return err
		}
		if err := courses.Create(ctx, course); err != nil {
			return err
		}
		if err := faculty.AssignCourse(ctx, c.instructorID, c.id); err != nil {
			return err
		}
	}

	logger.Info("seeded demo data",
		zap.Int("users", len(seedUsers)),
		zap.Int("students", 3),
		zap.Int("faculty", 2),
		zap.Int("courses", 3))
	return nil
}
