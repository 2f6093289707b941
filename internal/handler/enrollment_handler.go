package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-api/internal/service"
	appErrors "github.com/noah-isme/university-api/pkg/errors"
	"github.com/noah-isme/university-api/pkg/response"
)

// EnrollmentHandler exposes the enrollment and grading endpoints under the
// student resource.
type EnrollmentHandler struct {
	service *service.EnrollmentService
}

// NewEnrollmentHandler creates a new handler.
func NewEnrollmentHandler(svc *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// Enroll godoc
// @Summary Enroll student in course
// @Description Place a student into an OPEN course with a free seat
// @Tags Enrollment
// @Produce json
// @Param id path string true "Student ID"
// @Param course_id path string true "Course ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/enrollments/{course_id} [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	result, err := h.service.Enroll(c.Request.Context(), c.Param("id"), c.Param("course_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Drop godoc
// @Summary Drop student from course
// @Description Remove an in-progress enrollment without a grade
// @Tags Enrollment
// @Produce json
// @Param id path string true "Student ID"
// @Param course_id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/enrollments/{course_id} [delete]
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	result, err := h.service.Drop(c.Request.Context(), c.Param("id"), c.Param("course_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AssignGrade godoc
// @Summary Record final grade
// @Description Complete an enrolled course with a percentage or letter grade
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param course_id path string true "Course ID"
// @Param payload body service.GradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/grades/{course_id} [put]
func (h *EnrollmentHandler) AssignGrade(c *gin.Context) {
	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}

	result, err := h.service.AssignGrade(c.Request.Context(), c.Param("id"), c.Param("course_id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}
