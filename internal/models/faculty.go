package models

import (
	"strings"
	"time"

	appErrors "github.com/noah-isme/university-api/pkg/errors"
)

// Faculty represents a university faculty member.
type Faculty struct {
	FacultyID      string    `db:"faculty_id" json:"faculty_id"`
	FullName       string    `db:"full_name" json:"full_name"`
	Email          string    `db:"email" json:"email"`
	Department     string    `db:"department" json:"department"`
	Position       string    `db:"position" json:"position"`
	OfficeLocation string    `db:"office_location" json:"office_location,omitempty"`
	PhoneNumber    string    `db:"phone_number" json:"phone_number,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// NewFaculty validates identifiers and email.
func NewFaculty(facultyID, fullName, email, department, position string) (*Faculty, error) {
	if strings.TrimSpace(facultyID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "faculty id cannot be empty")
	}
	if !strings.Contains(email, "@") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid email address")
	}
	return &Faculty{
		FacultyID:  facultyID,
		FullName:   fullName,
		Email:      email,
		Department: department,
		Position:   position,
	}, nil
}

// TeachingLoad is the faculty aggregate: the faculty row plus the set of
// course IDs currently taught. The set has no capacity bound.
type TeachingLoad struct {
	Faculty
	CoursesTaught []string `json:"courses_taught"`
}

// AssignCourse adds a course to the taught set; assigning a course twice
// fails without changing the set.
func (t *TeachingLoad) AssignCourse(courseID string) error {
	if strings.TrimSpace(courseID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course id cannot be empty")
	}
	for _, id := range t.CoursesTaught {
		if id == courseID {
			return appErrors.Clone(appErrors.ErrConflict, "course already assigned")
		}
	}
	t.CoursesTaught = append(t.CoursesTaught, courseID)
	return nil
}

// RemoveCourseAssignment drops a course from the taught set.
func (t *TeachingLoad) RemoveCourseAssignment(courseID string) error {
	for i, id := range t.CoursesTaught {
		if id == courseID {
			t.CoursesTaught = append(t.CoursesTaught[:i], t.CoursesTaught[i+1:]...)
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "course not assigned")
}

// CourseLoad returns the number of courses currently taught.
func (t *TeachingLoad) CourseLoad() int {
	return len(t.CoursesTaught)
}

// FacultyFilter provides filters for listing faculty members.
type FacultyFilter struct {
	Department string
	Position   string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
