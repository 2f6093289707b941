package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/university-api/internal/models"
	appErrors "github.com/noah-isme/university-api/pkg/errors"
	"github.com/noah-isme/university-api/pkg/export"
	"github.com/noah-isme/university-api/pkg/jobs"
)

type transcriptProvider interface {
	Transcript(ctx context.Context, studentID string) (*models.Transcript, error)
}

type rosterProvider interface {
	GetRoster(ctx context.Context, courseID string) (*models.Course, []models.RosterRow, error)
}

// ReportConfig tunes the background transcript workers.
type ReportConfig struct {
	WorkerConcurrency int
	WorkerRetries     int
	ResultTTL         time.Duration
}

// ReportService renders transcripts and rosters as CSV or PDF. Transcript
// generation runs asynchronously on a worker queue; results are held in
// memory until the TTL expires.
type ReportService struct {
	students transcriptProvider
	rosters  rosterProvider
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger

	resultTTL time.Duration
	queue     *jobs.Queue

	mu      sync.RWMutex
	entries map[string]*models.ReportJob
}

// NewReportService creates an instance of ReportService.
func NewReportService(students transcriptProvider, rosters rosterProvider, cfg ReportConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}

	s := &ReportService{
		students:  students,
		rosters:   rosters,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
		resultTTL: cfg.ResultTTL,
		entries:   make(map[string]*models.ReportJob),
	}
	s.queue = jobs.NewQueue("transcripts", s.handleTranscriptJob, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the transcript workers.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the transcript workers.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// EnqueueTranscript queues transcript generation for a student and returns
// the pending job.
func (s *ReportService) EnqueueTranscript(ctx context.Context, studentID string, format models.ReportFormat) (*models.ReportJob, error) {
	if format != models.ReportFormatCSV && format != models.ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	job := &models.ReportJob{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Format:    format,
		Status:    models.ReportJobPending,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.entries[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "transcript", Payload: job.ID}); err != nil {
		s.mu.Lock()
		delete(s.entries, job.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}

	return s.snapshot(job.ID), nil
}

// GetJob returns the current state of a report job.
func (s *ReportService) GetJob(id string) (*models.ReportJob, error) {
	job := s.snapshot(id)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	return job, nil
}

// GetResult returns the rendered document for a completed job.
func (s *ReportService) GetResult(id string) (*models.ReportJob, error) {
	s.mu.RLock()
	job, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	if job.Status != models.ReportJobCompleted {
		return nil, appErrors.Clone(appErrors.ErrConflict, "report job is not completed")
	}
	return job, nil
}

// ExportRoster renders a course roster synchronously.
func (s *ReportService) ExportRoster(ctx context.Context, courseID string, format models.ReportFormat) ([]byte, string, string, error) {
	course, rows, err := s.rosters.GetRoster(ctx, courseID)
	if err != nil {
		return nil, "", "", err
	}

	headers := []string{"Student ID", "Full Name", "Major", "Enrolled At"}
	dataset := export.Dataset{Headers: headers}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student ID":  row.StudentID,
			"Full Name":   row.FullName,
			"Major":       row.Major,
			"Enrolled At": row.EnrolledAt.UTC().Format(time.RFC3339),
		})
	}

	switch format {
	case models.ReportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
		}
		return payload, "text/csv", fmt.Sprintf("roster_%s.csv", course.CourseID), nil
	case models.ReportFormatPDF:
		payload, err := s.pdf.Render(dataset, fmt.Sprintf("Roster %s - %s", course.CourseID, course.CourseName))
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster pdf")
		}
		return payload, "application/pdf", fmt.Sprintf("roster_%s.pdf", course.CourseID), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (s *ReportService) handleTranscriptJob(ctx context.Context, job jobs.Job) error {
	id, _ := job.Payload.(string)
	s.setStatus(id, models.ReportJobRunning, "")

	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	transcript, err := s.students.Transcript(ctx, entry.StudentID)
	if err != nil {
		s.setStatus(id, models.ReportJobFailed, err.Error())
		return err
	}

	payload, contentType, filename, err := s.renderTranscript(transcript, entry.Format)
	if err != nil {
		s.setStatus(id, models.ReportJobFailed, err.Error())
		return err
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if entry, ok := s.entries[id]; ok {
		entry.Status = models.ReportJobCompleted
		entry.Result = payload
		entry.ContentType = contentType
		entry.Filename = filename
		entry.CompletedAt = &now
	}
	s.mu.Unlock()
	return nil
}

func (s *ReportService) renderTranscript(transcript *models.Transcript, format models.ReportFormat) ([]byte, string, string, error) {
	headers := []string{"Course ID", "Course Name", "Credits", "Letter", "Points", "Percentage", "Semester"}
	dataset := export.Dataset{Headers: headers}
	for _, row := range transcript.CompletedCourses {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Course ID":   row.CourseID,
			"Course Name": row.CourseName,
			"Credits":     strconv.Itoa(row.CreditHours),
			"Letter":      row.LetterGrade,
			"Points":      strconv.FormatFloat(row.GradePoints, 'f', 1, 64),
			"Percentage":  strconv.FormatFloat(row.Percentage, 'f', 1, 64),
			"Semester":    row.Semester,
		})
	}

	title := fmt.Sprintf("Transcript %s - %s (GPA %.2f, %s)", transcript.StudentID, transcript.FullName, transcript.GPA, transcript.Standing)

	switch format {
	case models.ReportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", err
		}
		return payload, "text/csv", fmt.Sprintf("transcript_%s.csv", transcript.StudentID), nil
	case models.ReportFormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", "", err
		}
		return payload, "application/pdf", fmt.Sprintf("transcript_%s.pdf", transcript.StudentID), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (s *ReportService) setStatus(id string, status models.ReportJobStatus, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[id]; ok {
		entry.Status = status
		entry.Error = errMsg
	}
}

// snapshot returns a copy of the job without the rendered payload.
func (s *ReportService) snapshot(id string) *models.ReportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil
	}
	copied := *entry
	copied.Result = nil
	return &copied
}

// pruneLocked evicts completed jobs older than the result TTL. Callers hold
// the write lock.
func (s *ReportService) pruneLocked() {
	cutoff := time.Now().UTC().Add(-s.resultTTL)
	for id, entry := range s.entries {
		if entry.CompletedAt != nil && entry.CompletedAt.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}
