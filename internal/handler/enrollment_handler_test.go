package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	internalmiddleware "github.com/noah-isme/university-api/internal/middleware"
	"github.com/noah-isme/university-api/internal/models"
	"github.com/noah-isme/university-api/internal/service"
)

type stubRecordRepo struct {
	record *models.AcademicRecord
}

func (s *stubRecordRepo) GetRecord(ctx context.Context, studentID string) (*models.AcademicRecord, error) {
	if s.record == nil || s.record.StudentID != studentID {
		return nil, sql.ErrNoRows
	}
	return s.record, nil
}

type stubRosterRepo struct {
	roster *models.CourseRoster
}

func (s *stubRosterRepo) GetRoster(ctx context.Context, courseID string) (*models.CourseRoster, error) {
	if s.roster == nil || s.roster.CourseID != courseID {
		return nil, sql.ErrNoRows
	}
	return s.roster, nil
}

type stubEnrollmentRepo struct{}

func (s *stubEnrollmentRepo) SaveEnrollment(ctx context.Context, studentID, courseID string, status models.CourseStatus) error {
	return nil
}

func (s *stubEnrollmentRepo) RemoveEnrollment(ctx context.Context, studentID, courseID string, status models.CourseStatus) error {
	return nil
}

func (s *stubEnrollmentRepo) SaveGrade(ctx context.Context, grade models.CourseGrade, gpa float64) error {
	return nil
}

func buildEnrollmentRouter(record *models.AcademicRecord, roster *models.CourseRoster) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewEnrollmentService(&stubRecordRepo{record: record}, &stubRosterRepo{roster: roster}, &stubEnrollmentRepo{}, nil, nil)
	h := NewEnrollmentHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		role := c.GetHeader("X-Test-Role")
		if role == "" {
			c.Next()
			return
		}
		c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{
			Username: c.GetHeader("X-Test-User"),
			Role:     models.UserRole(role),
		})
		c.Next()
	})

	students := router.Group("/students")
	students.POST("/:id/enrollments/:course_id", internalmiddleware.RequireCapabilityOrSelf(models.CapManageEnrollment, "id"), h.Enroll)
	students.DELETE("/:id/enrollments/:course_id", internalmiddleware.RequireCapabilityOrSelf(models.CapManageEnrollment, "id"), h.Drop)
	return router
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestEnrollmentRoutes(t *testing.T) {
	newRecord := func() *models.AcademicRecord {
		return &models.AcademicRecord{
			Student: models.Student{StudentID: "S2023001", Status: models.StudentStatusActive},
		}
	}
	newRoster := func(capacity int) *models.CourseRoster {
		return &models.CourseRoster{
			Course: models.Course{CourseID: "CS101", MaxCapacity: capacity, Status: models.CourseStatusOpen},
		}
	}

	t.Run("admin enrolls student", func(t *testing.T) {
		router := buildEnrollmentRouter(newRecord(), newRoster(30))
		req, _ := http.NewRequest(http.MethodPost, "/students/S2023001/enrollments/CS101", nil)
		req.Header.Set("X-Test-Role", string(models.RoleAdminStaff))
		req.Header.Set("X-Test-User", "admin")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
		require.Contains(t, resp.Body.String(), `"course_status":"OPEN"`)
	})

	t.Run("student enrolls self", func(t *testing.T) {
		router := buildEnrollmentRouter(newRecord(), newRoster(30))
		req, _ := http.NewRequest(http.MethodPost, "/students/S2023001/enrollments/CS101", nil)
		req.Header.Set("X-Test-Role", string(models.RoleStudent))
		req.Header.Set("X-Test-User", "S2023001")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
	})

	t.Run("unauthenticated rejected", func(t *testing.T) {
		router := buildEnrollmentRouter(newRecord(), newRoster(30))
		req, _ := http.NewRequest(http.MethodPost, "/students/S2023001/enrollments/CS101", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("full course conflicts", func(t *testing.T) {
		roster := newRoster(1)
		roster.Enrolled = []string{"S2023002"}
		roster.Status = models.CourseStatusFull
		router := buildEnrollmentRouter(newRecord(), roster)
		req, _ := http.NewRequest(http.MethodPost, "/students/S2023001/enrollments/CS101", nil)
		req.Header.Set("X-Test-Role", string(models.RoleAdminStaff))
		req.Header.Set("X-Test-User", "admin")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("unknown student not found", func(t *testing.T) {
		router := buildEnrollmentRouter(newRecord(), newRoster(30))
		req, _ := http.NewRequest(http.MethodPost, "/students/S9999999/enrollments/CS101", nil)
		req.Header.Set("X-Test-Role", string(models.RoleAdminStaff))
		req.Header.Set("X-Test-User", "admin")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("drop not enrolled conflicts", func(t *testing.T) {
		router := buildEnrollmentRouter(newRecord(), newRoster(30))
		req, _ := http.NewRequest(http.MethodDelete, "/students/S2023001/enrollments/CS101", nil)
		req.Header.Set("X-Test-Role", string(models.RoleAdminStaff))
		req.Header.Set("X-Test-User", "admin")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusConflict, resp.Code)
	})
}
