package models

import (
	"strings"
	"time"

	appErrors "github.com/noah-isme/university-api/pkg/errors"
)

// StudentStatus represents a student's administrative status.
type StudentStatus string

// Possible student statuses.
const (
	StudentStatusActive    StudentStatus = "ACTIVE"
	StudentStatusInactive  StudentStatus = "INACTIVE"
	StudentStatusGraduated StudentStatus = "GRADUATED"
	StudentStatusSuspended StudentStatus = "SUSPENDED"
	StudentStatusExpelled  StudentStatus = "EXPELLED"
	StudentStatusOnLeave   StudentStatus = "ON_LEAVE"
)

// ValidStudentStatus reports whether the value belongs to the closed status set.
func ValidStudentStatus(s StudentStatus) bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusGraduated,
		StudentStatusSuspended, StudentStatusExpelled, StudentStatusOnLeave:
		return true
	}
	return false
}

// CanEnroll reports whether students with this status may enroll in courses.
func (s StudentStatus) CanEnroll() bool {
	return s == StudentStatusActive
}

// Student represents a learner registered at the university.
type Student struct {
	StudentID      string        `db:"student_id" json:"student_id"`
	FullName       string        `db:"full_name" json:"full_name"`
	Email          string        `db:"email" json:"email"`
	Major          string        `db:"major" json:"major"`
	EnrollmentYear int           `db:"enrollment_year" json:"enrollment_year"`
	Status         StudentStatus `db:"status" json:"status"`
	GPA            float64       `db:"gpa" json:"gpa"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// NewStudent validates identifiers and email and applies defaults.
func NewStudent(studentID, fullName, email, major string, enrollmentYear int) (*Student, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id cannot be empty")
	}
	if !strings.Contains(email, "@") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid email address")
	}
	return &Student{
		StudentID:      studentID,
		FullName:       fullName,
		Email:          email,
		Major:          major,
		EnrollmentYear: enrollmentYear,
		Status:         StudentStatusActive,
	}, nil
}

// AcademicRecord is the student aggregate for enrollment and grading: the
// student row, the set of in-progress course IDs, and grades for completed
// courses keyed by course ID. A course ID is never in both sets at once.
type AcademicRecord struct {
	Student
	EnrolledCourses []string         `json:"enrolled_courses"`
	Grades          map[string]Grade `json:"grades"`
}

// EnrollInCourse adds a course to the in-progress set. Only ACTIVE students
// may enroll, and re-enrolling an in-progress course fails.
func (r *AcademicRecord) EnrollInCourse(courseID string) error {
	if !r.Status.CanEnroll() {
		return appErrors.ErrEnrollmentBlocked
	}
	for _, id := range r.EnrolledCourses {
		if id == courseID {
			return appErrors.ErrAlreadyEnrolled
		}
	}
	r.EnrolledCourses = append(r.EnrolledCourses, courseID)
	return nil
}

// DropCourse removes an in-progress course without recording a grade.
func (r *AcademicRecord) DropCourse(courseID string) error {
	for i, id := range r.EnrolledCourses {
		if id == courseID {
			r.EnrolledCourses = append(r.EnrolledCourses[:i], r.EnrolledCourses[i+1:]...)
			return nil
		}
	}
	return appErrors.ErrNotEnrolled
}

// AddGrade completes a course: it moves the course from the in-progress set
// into the grade map and recomputes the GPA. It fails when the course is not
// currently in progress, leaving the record unchanged.
func (r *AcademicRecord) AddGrade(courseID string, grade Grade) error {
	idx := -1
	for i, id := range r.EnrolledCourses {
		if id == courseID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotEnrolled, "student is not enrolled in course: "+courseID)
	}
	r.EnrolledCourses = append(r.EnrolledCourses[:idx], r.EnrolledCourses[idx+1:]...)
	if r.Grades == nil {
		r.Grades = make(map[string]Grade)
	}
	r.Grades[courseID] = grade
	r.GPA = r.computeGPA()
	return nil
}

// computeGPA returns the unweighted arithmetic mean of grade points across
// all completed courses. Credit hours do not weight the mean.
func (r *AcademicRecord) computeGPA() float64 {
	if len(r.Grades) == 0 {
		return 0
	}
	var total float64
	for _, g := range r.Grades {
		total += g.GradePoints
	}
	return total / float64(len(r.Grades))
}

// CompletedCourses returns the number of graded courses.
func (r *AcademicRecord) CompletedCourses() int {
	return len(r.Grades)
}

// AcademicStanding derives the standing label from the current GPA.
func (r *AcademicRecord) AcademicStanding() string {
	return StandingForGPA(r.GPA)
}

// StandingForGPA maps a GPA to its academic standing label.
func StandingForGPA(gpa float64) string {
	switch {
	case gpa >= 3.5:
		return "Dean's List"
	case gpa >= 3.0:
		return "Good Standing"
	case gpa >= 2.5:
		return "Satisfactory"
	case gpa >= 2.0:
		return "Academic Warning"
	default:
		return "Academic Probation"
	}
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Major          string
	EnrollmentYear int
	Status         StudentStatus
	CourseID       string
	MinGPA         *float64
	MaxGPA         *float64
	Probation      bool
	Search         string
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}

// StudentStanding pairs a student with the derived standing label.
type StudentStanding struct {
	StudentID        string  `json:"student_id"`
	FullName         string  `json:"full_name"`
	GPA              float64 `json:"gpa"`
	CompletedCourses int     `json:"completed_courses"`
	Standing         string  `json:"standing"`
}
