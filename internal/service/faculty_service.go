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

type facultyRepository interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error)
	FindByID(ctx context.Context, facultyID string) (*models.Faculty, error)
	GetTeachingLoad(ctx context.Context, facultyID string) (*models.TeachingLoad, error)
	Create(ctx context.Context, member *models.Faculty) error
	Update(ctx context.Context, member *models.Faculty) error
	Delete(ctx context.Context, facultyID string) error
	AssignCourse(ctx context.Context, facultyID, courseID string) error
	RemoveAssignment(ctx context.Context, facultyID, courseID string) error
}

type facultyCourseLookup interface {
	FindByID(ctx context.Context, courseID string) (*models.Course, error)
}

// CreateFacultyRequest represents payload for registering a faculty member.
type CreateFacultyRequest struct {
	FacultyID      string `json:"faculty_id" validate:"required"`
	FullName       string `json:"full_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Department     string `json:"department"`
	Position       string `json:"position"`
	OfficeLocation string `json:"office_location"`
	PhoneNumber    string `json:"phone_number"`
}

// UpdateFacultyRequest payload for updating faculty details.
type UpdateFacultyRequest struct {
	FullName       string `json:"full_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Department     string `json:"department"`
	Position       string `json:"position"`
	OfficeLocation string `json:"office_location"`
	PhoneNumber    string `json:"phone_number"`
}

// FacultyService handles faculty management workflows.
type FacultyService struct {
	repo      facultyRepository
	courses   facultyCourseLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService creates an instance of FacultyService.
func NewFacultyService(repo facultyRepository, courses facultyCourseLookup, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FacultyService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// List returns paginated faculty members.
func (s *FacultyService) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, *models.Pagination, error) {
	members, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return members, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a faculty member by ID.
func (s *FacultyService) Get(ctx context.Context, facultyID string) (*models.Faculty, error) {
	member, err := s.repo.FindByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty member")
	}
	return member, nil
}

// GetTeachingLoad returns the faculty member with assigned courses.
func (s *FacultyService) GetTeachingLoad(ctx context.Context, facultyID string) (*models.TeachingLoad, error) {
	load, err := s.repo.GetTeachingLoad(ctx, facultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teaching load")
	}
	return load, nil
}

// Create registers a new faculty member.
func (s *FacultyService) Create(ctx context.Context, req CreateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create faculty payload")
	}

	member, err := models.NewFaculty(req.FacultyID, req.FullName, req.Email, req.Department, req.Position)
	if err != nil {
		return nil, err
	}
	member.OfficeLocation = req.OfficeLocation
	member.PhoneNumber = req.PhoneNumber

	if _, err := s.repo.FindByID(ctx, member.FacultyID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "faculty id already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check faculty id uniqueness")
	}

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty member")
	}

	return member, nil
}

// Update modifies the faculty member attributes.
func (s *FacultyService) Update(ctx context.Context, facultyID string, req UpdateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update faculty payload")
	}

	member, err := s.Get(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	member.FullName = req.FullName
	member.Email = req.Email
	member.Department = req.Department
	member.Position = req.Position
	member.OfficeLocation = req.OfficeLocation
	member.PhoneNumber = req.PhoneNumber

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty member")
	}

	return member, nil
}

// Delete removes a faculty member along with course assignments.
func (s *FacultyService) Delete(ctx context.Context, facultyID string) error {
	if _, err := s.Get(ctx, facultyID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, facultyID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faculty member")
	}
	return nil
}

// AssignCourse records that the faculty member teaches the given course.
func (s *FacultyService) AssignCourse(ctx context.Context, facultyID, courseID string) (*models.TeachingLoad, error) {
	load, err := s.GetTeachingLoad(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if err := load.AssignCourse(courseID); err != nil {
		return nil, err
	}

	if err := s.repo.AssignCourse(ctx, facultyID, courseID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist course assignment")
	}

	return load, nil
}

// RemoveCourseAssignment drops a teaching assignment.
func (s *FacultyService) RemoveCourseAssignment(ctx context.Context, facultyID, courseID string) (*models.TeachingLoad, error) {
	load, err := s.GetTeachingLoad(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	if err := load.RemoveCourseAssignment(courseID); err != nil {
		return nil, err
	}

	if err := s.repo.RemoveAssignment(ctx, facultyID, courseID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove course assignment")
	}

	return load, nil
}
