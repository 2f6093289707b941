package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/university-api/internal/models"
)

type mockFacultyRepo struct {
	member   *models.Faculty
	load     *models.TeachingLoad
	assigned []string
	removed  []string
	created  *models.Faculty
}

func (m *mockFacultyRepo) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	if m.member == nil {
		return nil, 0, nil
	}
	return []models.Faculty{*m.member}, 1, nil
}

func (m *mockFacultyRepo) FindByID(ctx context.Context, facultyID string) (*models.Faculty, error) {
	if m.member == nil || m.member.FacultyID != facultyID {
		return nil, sql.ErrNoRows
	}
	return m.member, nil
}

func (m *mockFacultyRepo) GetTeachingLoad(ctx context.Context, facultyID string) (*models.TeachingLoad, error) {
	if m.load == nil || m.load.FacultyID != facultyID {
		return nil, sql.ErrNoRows
	}
	return m.load, nil
}

func (m *mockFacultyRepo) Create(ctx context.Context, member *models.Faculty) error {
	m.created = member
	return nil
}

func (m *mockFacultyRepo) Update(ctx context.Context, member *models.Faculty) error {
	return nil
}

func (m *mockFacultyRepo) Delete(ctx context.Context, facultyID string) error {
	return nil
}

func (m *mockFacultyRepo) AssignCourse(ctx context.Context, facultyID, courseID string) error {
	m.assigned = append(m.assigned, courseID)
	return nil
}

func (m *mockFacultyRepo) RemoveAssignment(ctx context.Context, facultyID, courseID string) error {
	m.removed = append(m.removed, courseID)
	return nil
}

type mockCourseLookup struct {
	course *models.Course
}

func (m *mockCourseLookup) FindByID(ctx context.Context, courseID string) (*models.Course, error) {
	if m.course == nil || m.course.CourseID != courseID {
		return nil, sql.ErrNoRows
	}
	return m.course, nil
}

func newFacultyTestService(repo *mockFacultyRepo, courses *mockCourseLookup) *FacultyService {
	if courses == nil {
		courses = &mockCourseLookup{}
	}
	return NewFacultyService(repo, courses, validator.New(), zap.NewNop())
}

func TestFacultyCreate(t *testing.T) {
	repo := &mockFacultyRepo{}
	svc := newFacultyTestService(repo, nil)

	member, err := svc.Create(context.Background(), CreateFacultyRequest{
		FacultyID:  "F2024001",
		FullName:   "Dr. John Smith",
		Email:      "john.smith@university.edu",
		Department: "Computer Science",
		Position:   "Professor",
	})
	require.NoError(t, err)

	assert.Equal(t, "F2024001", member.FacultyID)
	assert.NotNil(t, repo.created)
}

func TestFacultyCreateRejectsDuplicateID(t *testing.T) {
	existing, err := models.NewFaculty("F2024001", "Dr. John Smith", "john.smith@university.edu", "CS", "Professor")
	require.NoError(t, err)
	svc := newFacultyTestService(&mockFacultyRepo{member: existing}, nil)

	_, err = svc.Create(context.Background(), CreateFacultyRequest{
		FacultyID: "F2024001",
		FullName:  "Another Person",
		Email:     "other@university.edu",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "faculty id already exists")
}

func TestFacultyAssignCourse(t *testing.T) {
	course, err := models.NewCourse("CS101", "Intro to Programming", "", 3, "F2024001")
	require.NoError(t, err)
	repo := &mockFacultyRepo{
		load: &models.TeachingLoad{Faculty: models.Faculty{FacultyID: "F2024001"}},
	}
	svc := newFacultyTestService(repo, &mockCourseLookup{course: course})

	load, err := svc.AssignCourse(context.Background(), "F2024001", "CS101")
	require.NoError(t, err)

	assert.Equal(t, []string{"CS101"}, load.CoursesTaught)
	assert.Equal(t, []string{"CS101"}, repo.assigned)

	// Assigning the same course twice conflicts.
	_, err = svc.AssignCourse(context.Background(), "F2024001", "CS101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already assigned")
}

func TestFacultyAssignCourseRequiresCourse(t *testing.T) {
	repo := &mockFacultyRepo{
		load: &models.TeachingLoad{Faculty: models.Faculty{FacultyID: "F2024001"}},
	}
	svc := newFacultyTestService(repo, nil)

	_, err := svc.AssignCourse(context.Background(), "F2024001", "CS999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "course not found")
	assert.Empty(t, repo.assigned)
}

func TestFacultyRemoveCourseAssignment(t *testing.T) {
	repo := &mockFacultyRepo{
		load: &models.TeachingLoad{
			Faculty:       models.Faculty{FacultyID: "F2024001"},
			CoursesTaught: []string{"CS101", "CS102"},
		},
	}
	svc := newFacultyTestService(repo, nil)

	load, err := svc.RemoveCourseAssignment(context.Background(), "F2024001", "CS101")
	require.NoError(t, err)
	assert.Equal(t, []string{"CS102"}, load.CoursesTaught)

	_, err = svc.RemoveCourseAssignment(context.Background(), "F2024001", "MATH101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not assigned")
}
