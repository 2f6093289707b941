package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/university-api/internal/models"
	appErrors "github.com/noah-isme/university-api/pkg/errors"
)

type mockCourseRepo struct {
	course        *models.Course
	roster        *models.CourseRoster
	stats         *models.CourseStatistics
	statsCalls    int
	savedCapacity int
	savedStatus   models.CourseStatus
	created       *models.Course
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	if m.course == nil {
		return nil, 0, nil
	}
	return []models.CourseDetail{{Course: *m.course}}, 1, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, courseID string) (*models.Course, error) {
	if m.course == nil || m.course.CourseID != courseID {
		return nil, sql.ErrNoRows
	}
	return m.course, nil
}

func (m *mockCourseRepo) GetRoster(ctx context.Context, courseID string) (*models.CourseRoster, error) {
	if m.roster == nil || m.roster.CourseID != courseID {
		return nil, sql.ErrNoRows
	}
	return m.roster, nil
}

func (m *mockCourseRepo) RosterRows(ctx context.Context, courseID string) ([]models.RosterRow, error) {
	return nil, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	m.created = course
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	return nil
}

func (m *mockCourseRepo) UpdateStatus(ctx context.Context, courseID string, status models.CourseStatus) error {
	m.savedStatus = status
	return nil
}

func (m *mockCourseRepo) UpdateCapacity(ctx context.Context, courseID string, maxCapacity int, status models.CourseStatus) error {
	m.savedCapacity = maxCapacity
	m.savedStatus = status
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, courseID string) error {
	return nil
}

func (m *mockCourseRepo) Statistics(ctx context.Context) (*models.CourseStatistics, error) {
	m.statsCalls++
	return m.stats, nil
}

type mockStatsCache struct {
	stats       *models.CourseStatistics
	sets        int
	invalidated int
}

func (m *mockStatsCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.stats == nil {
		return appErrors.ErrCacheMiss
	}
	*dest.(*models.CourseStatistics) = *m.stats
	return nil
}

func (m *mockStatsCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	if stats, ok := value.(*models.CourseStatistics); ok {
		copied := *stats
		m.stats = &copied
	}
	return nil
}

func (m *mockStatsCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated++
	m.stats = nil
	return nil
}

func TestCourseCreateAppliesDefaults(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCourseService(repo, nil, time.Minute, validator.New(), zap.NewNop())

	course, err := svc.Create(context.Background(), CreateCourseRequest{
		CourseID:    "CS101",
		CourseName:  "Intro to Programming",
		CreditHours: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, models.CourseStatusOpen, course.Status)
	assert.Equal(t, models.DefaultCourseCapacity, course.MaxCapacity)
	assert.NotNil(t, repo.created)
}

func TestCourseCreateRejectsDuplicateID(t *testing.T) {
	existing, err := models.NewCourse("CS101", "Intro to Programming", "", 3, "F2024001")
	require.NoError(t, err)
	repo := &mockCourseRepo{course: existing}
	svc := NewCourseService(repo, nil, time.Minute, validator.New(), zap.NewNop())

	_, err = svc.Create(context.Background(), CreateCourseRequest{
		CourseID:    "CS101",
		CourseName:  "Another",
		CreditHours: 3,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCourseUpdateCapacityRederivesStatus(t *testing.T) {
	repo := &mockCourseRepo{
		roster: &models.CourseRoster{
			Course: models.Course{
				CourseID:    "CS101",
				MaxCapacity: 30,
				Status:      models.CourseStatusOpen,
			},
			Enrolled: []string{"S2023001", "S2023002", "S2023003"},
		},
	}
	svc := NewCourseService(repo, nil, time.Minute, validator.New(), zap.NewNop())

	roster, err := svc.UpdateCapacity(context.Background(), "CS101", 3)
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusFull, roster.Status)
	assert.Equal(t, 3, repo.savedCapacity)
	assert.Equal(t, models.CourseStatusFull, repo.savedStatus)

	roster, err = svc.UpdateCapacity(context.Background(), "CS101", 10)
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusOpen, roster.Status)
}

func TestCourseUpdateCapacityRejectsZero(t *testing.T) {
	repo := &mockCourseRepo{
		roster: &models.CourseRoster{Course: models.Course{CourseID: "CS101", MaxCapacity: 30, Status: models.CourseStatusOpen}},
	}
	svc := NewCourseService(repo, nil, time.Minute, validator.New(), zap.NewNop())

	_, err := svc.UpdateCapacity(context.Background(), "CS101", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1")
}

func TestCourseUpdateStatusPreservesForcedValue(t *testing.T) {
	course, err := models.NewCourse("CS101", "Intro to Programming", "", 3, "")
	require.NoError(t, err)
	repo := &mockCourseRepo{course: course}
	svc := NewCourseService(repo, nil, time.Minute, validator.New(), zap.NewNop())

	updated, err := svc.UpdateStatus(context.Background(), "CS101", models.CourseStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusCancelled, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), "CS101", models.CourseStatus("BOGUS"))
	require.Error(t, err)
}

func TestCourseStatisticsCacheMissThenHit(t *testing.T) {
	repo := &mockCourseRepo{stats: &models.CourseStatistics{TotalCourses: 3, OpenCourses: 2, FullCourses: 1}}
	cache := &mockStatsCache{}
	svc := NewCourseService(repo, cache, time.Minute, validator.New(), zap.NewNop())

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCourses)
	assert.Equal(t, 1, repo.statsCalls)
	assert.Equal(t, 1, cache.sets)

	// Second call is served from the cache.
	stats, err = svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCourses)
	assert.Equal(t, 1, repo.statsCalls)
}

func TestCourseMutationsInvalidateStatistics(t *testing.T) {
	course, err := models.NewCourse("CS101", "Intro to Programming", "", 3, "")
	require.NoError(t, err)
	repo := &mockCourseRepo{course: course, stats: &models.CourseStatistics{TotalCourses: 1}}
	cache := &mockStatsCache{stats: &models.CourseStatistics{TotalCourses: 99}}
	svc := NewCourseService(repo, cache, time.Minute, validator.New(), zap.NewNop())

	_, err = svc.UpdateStatus(context.Background(), "CS101", models.CourseStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCourses)
}
