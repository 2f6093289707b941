package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/university-api/internal/models"
	appErrors "github.com/noah-isme/university-api/pkg/errors"
)

type enrollmentStudentRepository interface {
	GetRecord(ctx context.Context, studentID string) (*models.AcademicRecord, error)
}

type enrollmentCourseRepository interface {
	GetRoster(ctx context.Context, courseID string) (*models.CourseRoster, error)
}

type enrollmentRepository interface {
	SaveEnrollment(ctx context.Context, studentID, courseID string, status models.CourseStatus) error
	RemoveEnrollment(ctx context.Context, studentID, courseID string, status models.CourseStatus) error
	SaveGrade(ctx context.Context, grade models.CourseGrade, gpa float64) error
}

// GradeRequest carries a grade either as a percentage score or a letter.
// Exactly one of the two must be provided.
type GradeRequest struct {
	Percentage  *float64 `json:"percentage" validate:"omitempty,gte=0,lte=100"`
	LetterGrade string   `json:"letter_grade"`
	Semester    string   `json:"semester"`
}

// EnrollmentResult reports the state of both aggregates after an enrollment
// operation.
type EnrollmentResult struct {
	StudentID      string              `json:"student_id"`
	CourseID       string              `json:"course_id"`
	CourseStatus   models.CourseStatus `json:"course_status"`
	EnrolledCount  int                 `json:"enrolled_count"`
	AvailableSpots int                 `json:"available_spots"`
}

// GradeResult reports the student's record after grading.
type GradeResult struct {
	StudentID string       `json:"student_id"`
	CourseID  string       `json:"course_id"`
	Grade     models.Grade `json:"grade"`
	GPA       float64      `json:"gpa"`
	Standing  string       `json:"standing"`
}

// EnrollmentService coordinates the student and course aggregates for
// enrollment, dropping and grading. Both aggregates must accept an operation
// before anything is persisted.
type EnrollmentService struct {
	students  enrollmentStudentRepository
	courses   enrollmentCourseRepository
	repo      enrollmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService creates an instance of EnrollmentService.
func NewEnrollmentService(students enrollmentStudentRepository, courses enrollmentCourseRepository, repo enrollmentRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{students: students, courses: courses, repo: repo, validator: validate, logger: logger}
}

// Enroll places a student in a course. The course must be OPEN with a free
// seat and the student must be ACTIVE and not already enrolled.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (*EnrollmentResult, error) {
	record, roster, err := s.loadAggregates(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	if err := roster.Enroll(studentID); err != nil {
		return nil, err
	}
	if err := record.EnrollInCourse(courseID); err != nil {
		return nil, err
	}

	if err := s.repo.SaveEnrollment(ctx, studentID, courseID, roster.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist enrollment")
	}

	s.logger.Info("student enrolled",
		zap.String("student_id", studentID),
		zap.String("course_id", courseID),
		zap.String("course_status", string(roster.Status)))

	return &EnrollmentResult{
		StudentID:      studentID,
		CourseID:       courseID,
		CourseStatus:   roster.Status,
		EnrolledCount:  len(roster.Enrolled),
		AvailableSpots: roster.AvailableSpots(),
	}, nil
}

// Drop removes a student from a course without recording a grade. Dropping
// reopens a FULL course.
func (s *EnrollmentService) Drop(ctx context.Context, studentID, courseID string) (*EnrollmentResult, error) {
	record, roster, err := s.loadAggregates(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	if err := roster.Drop(studentID); err != nil {
		return nil, err
	}
	if err := record.DropCourse(courseID); err != nil {
		return nil, err
	}

	if err := s.repo.RemoveEnrollment(ctx, studentID, courseID, roster.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist drop")
	}

	s.logger.Info("student dropped",
		zap.String("student_id", studentID),
		zap.String("course_id", courseID),
		zap.String("course_status", string(roster.Status)))

	return &EnrollmentResult{
		StudentID:      studentID,
		CourseID:       courseID,
		CourseStatus:   roster.Status,
		EnrolledCount:  len(roster.Enrolled),
		AvailableSpots: roster.AvailableSpots(),
	}, nil
}

// AssignGrade completes a course for a student. The grade may be given as a
// percentage or a letter; the enrollment is consumed and the GPA recomputed.
// The course status is left untouched.
func (s *EnrollmentService) AssignGrade(ctx context.Context, studentID, courseID string, req GradeRequest) (*GradeResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	grade, err := s.buildGrade(req)
	if err != nil {
		return nil, err
	}

	record, err := s.students.GetRecord(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic record")
	}

	if err := record.AddGrade(courseID, grade); err != nil {
		return nil, err
	}

	row := models.CourseGrade{
		StudentID:   studentID,
		CourseID:    courseID,
		Percentage:  grade.Percentage,
		LetterGrade: grade.LetterGrade,
		GradePoints: grade.GradePoints,
		Semester:    req.Semester,
	}
	if err := s.repo.SaveGrade(ctx, row, record.GPA); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist grade")
	}

	s.logger.Info("grade recorded",
		zap.String("student_id", studentID),
		zap.String("course_id", courseID),
		zap.String("letter_grade", grade.LetterGrade),
		zap.Float64("gpa", record.GPA))

	return &GradeResult{
		StudentID: studentID,
		CourseID:  courseID,
		Grade:     grade,
		GPA:       record.GPA,
		Standing:  record.AcademicStanding(),
	}, nil
}

func (s *EnrollmentService) buildGrade(req GradeRequest) (models.Grade, error) {
	switch {
	case req.Percentage != nil && req.LetterGrade != "":
		return models.Grade{}, appErrors.Clone(appErrors.ErrValidation, "provide either percentage or letter_grade, not both")
	case req.Percentage != nil:
		return models.NewGradeFromPercentage(*req.Percentage)
	case req.LetterGrade != "":
		return models.NewGradeFromLetter(req.LetterGrade)
	default:
		return models.Grade{}, appErrors.Clone(appErrors.ErrValidation, "either percentage or letter_grade is required")
	}
}

func (s *EnrollmentService) loadAggregates(ctx context.Context, studentID, courseID string) (*models.AcademicRecord, *models.CourseRoster, error) {
	record, err := s.students.GetRecord(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic record")
	}

	roster, err := s.courses.GetRoster(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course roster")
	}

	return record, roster, nil
}
