package models

import "time"

// ReportFormat selects the rendered output for generated reports.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportJobStatus tracks asynchronous report generation.
type ReportJobStatus string

const (
	ReportJobPending   ReportJobStatus = "PENDING"
	ReportJobRunning   ReportJobStatus = "RUNNING"
	ReportJobCompleted ReportJobStatus = "COMPLETED"
	ReportJobFailed    ReportJobStatus = "FAILED"
)

// ReportJob describes a queued transcript generation request.
type ReportJob struct {
	ID          string          `json:"id"`
	StudentID   string          `json:"student_id"`
	Format      ReportFormat    `json:"format"`
	Status      ReportJobStatus `json:"status"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`

	Result      []byte `json:"-"`
	ContentType string `json:"-"`
	Filename    string `json:"filename,omitempty"`
}

// TranscriptRow is one completed course on a student transcript.
type TranscriptRow struct {
	CourseID    string  `db:"course_id" json:"course_id"`
	CourseName  string  `db:"course_name" json:"course_name"`
	CreditHours int     `db:"credit_hours" json:"credit_hours"`
	LetterGrade string  `db:"letter_grade" json:"letter_grade"`
	GradePoints float64 `db:"grade_points" json:"grade_points"`
	Percentage  float64 `db:"percentage" json:"percentage"`
	Semester    string  `db:"semester" json:"semester,omitempty"`
}

// Transcript is the full academic transcript for a student.
type Transcript struct {
	StudentID        string          `json:"student_id"`
	FullName         string          `json:"full_name"`
	Major            string          `json:"major"`
	EnrollmentYear   int             `json:"enrollment_year"`
	GPA              float64         `json:"gpa"`
	Standing         string          `json:"standing"`
	CompletedCourses []TranscriptRow `json:"completed_courses"`
	InProgress       []string        `json:"in_progress"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// RosterRow is one student on a course roster report.
type RosterRow struct {
	StudentID  string    `db:"student_id" json:"student_id"`
	FullName   string    `db:"full_name" json:"full_name"`
	Major      string    `db:"major" json:"major"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}
