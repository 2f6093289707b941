package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/university-api/internal/models"
	appErrors "github.com/noah-isme/university-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, studentID string) (*models.Student, error)
	GetRecord(ctx context.Context, studentID string) (*models.AcademicRecord, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	UpdateStatus(ctx context.Context, studentID string, status models.StudentStatus) error
	Delete(ctx context.Context, studentID string) error
}

type transcriptRepository interface {
	TranscriptRows(ctx context.Context, studentID string) ([]models.TranscriptRow, error)
}

// CreateStudentRequest represents payload for registering a student.
type CreateStudentRequest struct {
	StudentID      string `json:"student_id" validate:"required"`
	FullName       string `json:"full_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Major          string `json:"major"`
	EnrollmentYear int    `json:"enrollment_year" validate:"required,gte=1900"`
}

// UpdateStudentRequest payload for updating student details.
type UpdateStudentRequest struct {
	FullName       string               `json:"full_name" validate:"required"`
	Email          string               `json:"email" validate:"required,email"`
	Major          string               `json:"major"`
	EnrollmentYear int                  `json:"enrollment_year" validate:"required,gte=1900"`
	Status         models.StudentStatus `json:"status" validate:"required"`
}

// StudentService handles student management workflows.
type StudentService struct {
	repo        studentRepository
	transcripts transcriptRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService creates an instance of StudentService.
func NewStudentService(repo studentRepository, transcripts transcriptRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, transcripts: transcripts, validator: validate, logger: logger}
}

// List returns paginated students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return students, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a student by ID.
func (s *StudentService) Get(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// GetRecord returns the full academic record with enrollments and grades.
func (s *StudentService) GetRecord(ctx context.Context, studentID string) (*models.AcademicRecord, error) {
	record, err := s.repo.GetRecord(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic record")
	}
	return record, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create student payload")
	}

	student, err := models.NewStudent(req.StudentID, req.FullName, req.Email, req.Major, req.EnrollmentYear)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, student.StudentID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student id already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student id uniqueness")
	}

	exists, err := s.repo.ExistsByEmail(ctx, student.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	return student, nil
}

// Update modifies the student attributes.
func (s *StudentService) Update(ctx context.Context, studentID string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update student payload")
	}
	if !models.ValidStudentStatus(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid student status")
	}

	student, err := s.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	student.FullName = req.FullName
	student.Email = req.Email
	student.Major = req.Major
	student.EnrollmentYear = req.EnrollmentYear
	student.Status = req.Status

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	return student, nil
}

// UpdateStatus changes only the administrative status.
func (s *StudentService) UpdateStatus(ctx context.Context, studentID string, status models.StudentStatus) (*models.Student, error) {
	if !models.ValidStudentStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid student status")
	}

	student, err := s.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, studentID, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student status")
	}
	student.Status = status

	return student, nil
}

// Delete removes a student along with enrollments and grades.
func (s *StudentService) Delete(ctx context.Context, studentID string) error {
	if _, err := s.Get(ctx, studentID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

// Standing derives the academic standing for a student.
func (s *StudentService) Standing(ctx context.Context, studentID string) (*models.StudentStanding, error) {
	record, err := s.GetRecord(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &models.StudentStanding{
		StudentID:        record.StudentID,
		FullName:         record.FullName,
		GPA:              record.GPA,
		CompletedCourses: record.CompletedCourses(),
		Standing:         record.AcademicStanding(),
	}, nil
}

// Transcript assembles the full transcript with course metadata.
func (s *StudentService) Transcript(ctx context.Context, studentID string) (*models.Transcript, error) {
	record, err := s.GetRecord(ctx, studentID)
	if err != nil {
		return nil, err
	}

	rows, err := s.transcripts.TranscriptRows(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load transcript")
	}

	return &models.Transcript{
		StudentID:        record.StudentID,
		FullName:         record.FullName,
		Major:            record.Major,
		EnrollmentYear:   record.EnrollmentYear,
		GPA:              record.GPA,
		Standing:         record.AcademicStanding(),
		CompletedCourses: rows,
		InProgress:       record.EnrolledCourses,
		GeneratedAt:      time.Now().UTC(),
	}, nil
}
