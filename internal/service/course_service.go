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

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error)
	FindByID(ctx context.Context, courseID string) (*models.Course, error)
	GetRoster(ctx context.Context, courseID string) (*models.CourseRoster, error)
	RosterRows(ctx context.Context, courseID string) ([]models.RosterRow, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	UpdateStatus(ctx context.Context, courseID string, status models.CourseStatus) error
	UpdateCapacity(ctx context.Context, courseID string, maxCapacity int, status models.CourseStatus) error
	Delete(ctx context.Context, courseID string) error
	Statistics(ctx context.Context) (*models.CourseStatistics, error)
}

type statisticsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const courseStatisticsCacheKey = "stats:courses"

// CreateCourseRequest represents payload for creating a course offering.
type CreateCourseRequest struct {
	CourseID     string `json:"course_id" validate:"required"`
	CourseName   string `json:"course_name" validate:"required"`
	Description  string `json:"description"`
	CreditHours  int    `json:"credit_hours" validate:"required,gte=1,lte=6"`
	InstructorID string `json:"instructor_id"`
	MaxCapacity  int    `json:"max_capacity" validate:"omitempty,gte=1"`
	Schedule     string `json:"schedule"`
	Classroom    string `json:"classroom"`
	Semester     string `json:"semester"`
	Year         int    `json:"year"`
}

// UpdateCourseRequest payload for updating course details. Status and
// capacity have dedicated operations.
type UpdateCourseRequest struct {
	CourseName   string `json:"course_name" validate:"required"`
	Description  string `json:"description"`
	CreditHours  int    `json:"credit_hours" validate:"required,gte=1,lte=6"`
	InstructorID string `json:"instructor_id"`
	Schedule     string `json:"schedule"`
	Classroom    string `json:"classroom"`
	Semester     string `json:"semester"`
	Year         int    `json:"year"`
}

// CourseService handles course management workflows.
type CourseService struct {
	repo      courseRepository
	cache     statisticsCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates an instance of CourseService.
func NewCourseService(repo courseRepository, cache statisticsCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns paginated courses with enrollment counts.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return courses, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a course by ID.
func (s *CourseService) Get(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// GetRoster returns the course with enrolled student names.
func (s *CourseService) GetRoster(ctx context.Context, courseID string) (*models.Course, []models.RosterRow, error) {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.repo.RosterRows(ctx, courseID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return course, rows, nil
}

// Create adds a new course offering.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create course payload")
	}

	course, err := models.NewCourse(req.CourseID, req.CourseName, req.Description, req.CreditHours, req.InstructorID)
	if err != nil {
		return nil, err
	}
	if req.MaxCapacity > 0 {
		course.MaxCapacity = req.MaxCapacity
	}
	course.Schedule = req.Schedule
	course.Classroom = req.Classroom
	course.Semester = req.Semester
	if req.Year > 0 {
		course.Year = req.Year
	}

	if _, err := s.repo.FindByID(ctx, course.CourseID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course id already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course id uniqueness")
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.invalidateStatistics(ctx)
	return course, nil
}

// Update modifies the descriptive attributes of a course.
func (s *CourseService) Update(ctx context.Context, courseID string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update course payload")
	}

	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	course.CourseName = req.CourseName
	course.Description = req.Description
	course.CreditHours = req.CreditHours
	course.InstructorID = req.InstructorID
	course.Schedule = req.Schedule
	course.Classroom = req.Classroom
	course.Semester = req.Semester
	if req.Year > 0 {
		course.Year = req.Year
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	return course, nil
}

// UpdateStatus sets the course status administratively. Forcing a status
// bypasses the OPEN/FULL bookkeeping on purpose.
func (s *CourseService) UpdateStatus(ctx context.Context, courseID string, status models.CourseStatus) (*models.Course, error) {
	if !models.ValidCourseStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid course status")
	}

	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, courseID, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course status")
	}
	course.Status = status

	s.invalidateStatistics(ctx)
	return course, nil
}

// UpdateCapacity changes the maximum capacity, letting the roster aggregate
// re-derive the OPEN/FULL status against the current enrollment.
func (s *CourseService) UpdateCapacity(ctx context.Context, courseID string, maxCapacity int) (*models.CourseRoster, error) {
	roster, err := s.repo.GetRoster(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if err := roster.SetMaxCapacity(maxCapacity); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCapacity(ctx, courseID, roster.MaxCapacity, roster.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course capacity")
	}

	s.invalidateStatistics(ctx)
	return roster, nil
}

// Delete removes a course along with its enrollments.
func (s *CourseService) Delete(ctx context.Context, courseID string) error {
	if _, err := s.Get(ctx, courseID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, courseID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.invalidateStatistics(ctx)
	return nil
}

// Statistics returns aggregate enrollment figures, served from cache when
// fresh.
func (s *CourseService) Statistics(ctx context.Context) (*models.CourseStatistics, error) {
	if s.cache != nil {
		var cached models.CourseStatistics
		if err := s.cache.Get(ctx, courseStatisticsCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("statistics cache read failed", zap.Error(err))
		}
	}

	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute statistics")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, courseStatisticsCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("statistics cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *CourseService) invalidateStatistics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "stats:*"); err != nil {
		s.logger.Warn("statistics cache invalidation failed", zap.Error(err))
	}
}
