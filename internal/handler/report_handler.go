package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-api/internal/models"
	"github.com/noah-isme/university-api/internal/service"
	appErrors "github.com/noah-isme/university-api/pkg/errors"
	"github.com/noah-isme/university-api/pkg/response"
)

// ReportHandler exposes the asynchronous transcript report endpoints.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

type enqueueTranscriptRequest struct {
	StudentID string              `json:"student_id" binding:"required"`
	Format    models.ReportFormat `json:"format" binding:"required"`
}

// EnqueueTranscript godoc
// @Summary Request a transcript report
// @Description Queue transcript generation for a student
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body enqueueTranscriptRequest true "Report request"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/transcripts [post]
func (h *ReportHandler) EnqueueTranscript(c *gin.Context) {
	var req enqueueTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report request"))
		return
	}

	job, err := h.service.EnqueueTranscript(c.Request.Context(), req.StudentID, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, job, nil)
}

// GetJob godoc
// @Summary Get report job status
// @Description Fetch the current state of a report job
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/transcripts/{id} [get]
func (h *ReportHandler) GetJob(c *gin.Context) {
	job, err := h.service.GetJob(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a completed report
// @Description Download the rendered transcript document
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Job ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reports/transcripts/{id}/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	job, err := h.service.GetResult(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+job.Filename)
	c.Data(http.StatusOK, job.ContentType, job.Result)
}
