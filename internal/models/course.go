package models

import (
	"strings"
	"time"

	appErrors "github.com/noah-isme/university-api/pkg/errors"
)

// CourseStatus represents the lifecycle of a course offering.
type CourseStatus string

// Possible course statuses. Only OPEN and FULL participate in automatic
// transitions; the rest are set administratively and never auto-reverted.
const (
	CourseStatusOpen       CourseStatus = "OPEN"
	CourseStatusFull       CourseStatus = "FULL"
	CourseStatusClosed     CourseStatus = "CLOSED"
	CourseStatusCancelled  CourseStatus = "CANCELLED"
	CourseStatusInProgress CourseStatus = "IN_PROGRESS"
	CourseStatusCompleted  CourseStatus = "COMPLETED"
)

// ValidCourseStatus reports whether the value belongs to the closed status set.
func ValidCourseStatus(s CourseStatus) bool {
	switch s {
	case CourseStatusOpen, CourseStatusFull, CourseStatusClosed,
		CourseStatusCancelled, CourseStatusInProgress, CourseStatusCompleted:
		return true
	}
	return false
}

// AllowsEnrollment reports whether students may enroll under this status.
func (s CourseStatus) AllowsEnrollment() bool {
	return s == CourseStatusOpen
}

// IsActive reports whether students are attending courses with this status.
func (s CourseStatus) IsActive() bool {
	return s == CourseStatusInProgress || s == CourseStatusOpen || s == CourseStatusFull
}

// DefaultCourseCapacity is applied when a course is created without an
// explicit maximum.
const DefaultCourseCapacity = 30

// Course represents a university course offering.
type Course struct {
	CourseID     string       `db:"course_id" json:"course_id"`
	CourseName   string       `db:"course_name" json:"course_name"`
	Description  string       `db:"description" json:"description"`
	CreditHours  int          `db:"credit_hours" json:"credit_hours"`
	InstructorID string       `db:"instructor_id" json:"instructor_id"`
	MaxCapacity  int          `db:"max_capacity" json:"max_capacity"`
	Schedule     string       `db:"schedule" json:"schedule,omitempty"`
	Classroom    string       `db:"classroom" json:"classroom,omitempty"`
	Status       CourseStatus `db:"status" json:"status"`
	Semester     string       `db:"semester" json:"semester,omitempty"`
	Year         int          `db:"year" json:"year"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// NewCourse validates identifiers and credit hours and applies defaults.
func NewCourse(courseID, courseName, description string, creditHours int, instructorID string) (*Course, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id cannot be empty")
	}
	if creditHours < 1 || creditHours > 6 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "credit hours must be between 1 and 6")
	}
	return &Course{
		CourseID:     courseID,
		CourseName:   courseName,
		Description:  description,
		CreditHours:  creditHours,
		InstructorID: instructorID,
		MaxCapacity:  DefaultCourseCapacity,
		Status:       CourseStatusOpen,
		Year:         time.Now().UTC().Year(),
	}, nil
}

// CourseRoster is the course aggregate used for enrollment transitions: the
// course row plus the set of currently enrolled student IDs.
type CourseRoster struct {
	Course
	Enrolled []string `json:"enrolled_students"`
}

// Enroll adds a student to the roster. It fails when the course is not OPEN,
// the roster is at capacity, or the student is already present. Reaching
// capacity flips the status to FULL.
func (r *CourseRoster) Enroll(studentID string) error {
	if !r.Status.AllowsEnrollment() {
		return appErrors.ErrCourseNotOpen
	}
	if len(r.Enrolled) >= r.MaxCapacity {
		return appErrors.ErrCourseFull
	}
	for _, id := range r.Enrolled {
		if id == studentID {
			return appErrors.ErrAlreadyEnrolled
		}
	}
	r.Enrolled = append(r.Enrolled, studentID)
	if len(r.Enrolled) >= r.MaxCapacity {
		r.Status = CourseStatusFull
	}
	return nil
}

// Drop removes a student from the roster. A FULL course reopens
// unconditionally; other statuses are left untouched.
func (r *CourseRoster) Drop(studentID string) error {
	for i, id := range r.Enrolled {
		if id == studentID {
			r.Enrolled = append(r.Enrolled[:i], r.Enrolled[i+1:]...)
			if r.Status == CourseStatusFull {
				r.Status = CourseStatusOpen
			}
			return nil
		}
	}
	return appErrors.ErrNotEnrolled
}

// SetMaxCapacity updates the capacity (minimum 1) and re-evaluates only the
// FULL/OPEN pair against the current roster size.
func (r *CourseRoster) SetMaxCapacity(maxCapacity int) error {
	if maxCapacity < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "max capacity must be at least 1")
	}
	r.MaxCapacity = maxCapacity
	if len(r.Enrolled) >= maxCapacity {
		if r.Status == CourseStatusOpen {
			r.Status = CourseStatusFull
		}
	} else if r.Status == CourseStatusFull {
		r.Status = CourseStatusOpen
	}
	return nil
}

// HasAvailableSpots reports whether the course can accept another enrollment.
func (r *CourseRoster) HasAvailableSpots() bool {
	return len(r.Enrolled) < r.MaxCapacity && r.Status == CourseStatusOpen
}

// AvailableSpots returns the number of open seats.
func (r *CourseRoster) AvailableSpots() int {
	spots := r.MaxCapacity - len(r.Enrolled)
	if spots < 0 {
		return 0
	}
	return spots
}

// EnrollmentPercentage returns roster size relative to capacity.
func (r *CourseRoster) EnrollmentPercentage() float64 {
	if r.MaxCapacity == 0 {
		return 0
	}
	return float64(len(r.Enrolled)) / float64(r.MaxCapacity) * 100
}

// CourseDetail enriches a course row with its current enrollment count.
type CourseDetail struct {
	Course
	EnrolledCount int `db:"enrolled_count" json:"enrolled_count"`
}

// CourseFilter provides filters for listing courses.
type CourseFilter struct {
	Status       CourseStatus
	InstructorID string
	CreditHours  int
	Search       string
	Available    bool
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// CourseStatistics aggregates enrollment figures across all courses.
type CourseStatistics struct {
	TotalCourses      int     `db:"total_courses" json:"total_courses"`
	OpenCourses       int     `db:"open_courses" json:"open_courses"`
	FullCourses       int     `db:"full_courses" json:"full_courses"`
	ActiveCourses     int     `db:"active_courses" json:"active_courses"`
	TotalEnrollments  int     `db:"total_enrollments" json:"total_enrollments"`
	AverageEnrollment float64 `db:"average_enrollment" json:"average_enrollment"`
}
