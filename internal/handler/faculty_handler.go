package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-api/internal/models"
	"github.com/noah-isme/university-api/internal/service"
	appErrors "github.com/noah-isme/university-api/pkg/errors"
	"github.com/noah-isme/university-api/pkg/response"
)

// FacultyHandler exposes faculty management endpoints.
type FacultyHandler struct {
	service *service.FacultyService
}

// NewFacultyHandler creates a new handler.
func NewFacultyHandler(svc *service.FacultyService) *FacultyHandler {
	return &FacultyHandler{service: svc}
}

// List godoc
// @Summary List faculty
// @Description List faculty members with filters
// @Tags Faculty
// @Produce json
// @Param department query string false "Filter by department"
// @Param position query string false "Filter by position"
// @Param search query string false "Search name or faculty id"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /faculty [get]
func (h *FacultyHandler) List(c *gin.Context) {
	filter := models.FacultyFilter{
		Department: c.Query("department"),
		Position:   c.Query("position"),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	members, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, members, pagination)
}

// Get godoc
// @Summary Get faculty member
// @Description Fetch a faculty member by ID
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id} [get]
func (h *FacultyHandler) Get(c *gin.Context) {
	member, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// TeachingLoad godoc
// @Summary Get teaching load
// @Description Fetch a faculty member with assigned courses
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id}/courses [get]
func (h *FacultyHandler) TeachingLoad(c *gin.Context) {
	load, err := h.service.GetTeachingLoad(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, load, nil)
}

// Create godoc
// @Summary Register faculty member
// @Description Register a new faculty member
// @Tags Faculty
// @Accept json
// @Produce json
// @Param payload body service.CreateFacultyRequest true "Create faculty payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /faculty [post]
func (h *FacultyHandler) Create(c *gin.Context) {
	var req service.CreateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid create faculty payload"))
		return
	}

	member, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, member)
}

// Update godoc
// @Summary Update faculty member
// @Description Update faculty member attributes
// @Tags Faculty
// @Accept json
// @Produce json
// @Param id path string true "Faculty ID"
// @Param payload body service.UpdateFacultyRequest true "Update faculty payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id} [put]
func (h *FacultyHandler) Update(c *gin.Context) {
	var req service.UpdateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update faculty payload"))
		return
	}

	member, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, member, nil)
}

// Delete godoc
// @Summary Delete faculty member
// @Description Remove a faculty member and course assignments
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id} [delete]
func (h *FacultyHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AssignCourse godoc
// @Summary Assign course
// @Description Record that the faculty member teaches a course
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Param course_id path string true "Course ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /faculty/{id}/courses/{course_id} [post]
func (h *FacultyHandler) AssignCourse(c *gin.Context) {
	load, err := h.service.AssignCourse(c.Request.Context(), c.Param("id"), c.Param("course_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, load)
}

// RemoveCourse godoc
// @Summary Remove course assignment
// @Description Drop a teaching assignment
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Param course_id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id}/courses/{course_id} [delete]
func (h *FacultyHandler) RemoveCourse(c *gin.Context) {
	load, err := h.service.RemoveCourseAssignment(c.Request.Context(), c.Param("id"), c.Param("course_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, load, nil)
}
