package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/RishiKendai/overlap/internal/config"
	"github.com/RishiKendai/overlap/internal/ingest"
	"github.com/RishiKendai/overlap/internal/models"
	"github.com/RishiKendai/overlap/internal/plagiarism"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DocumentStore is what the handlers need from the documents repository
type DocumentStore interface {
	plagiarism.DocumentSource
	CountDocumentsByCorpusID(ctx context.Context, corpusID string) (int64, error)
}

// ReportStore is what the handlers need from the reports repository
type ReportStore interface {
	plagiarism.ReportSink
	InsertReport(ctx context.Context, report *models.Report) error
	FailReport(ctx context.Context, reportID, reason string) error
	GetLatestReportByCorpusID(ctx context.Context, corpusID string) (*models.Report, error)
}

// Ingester stores submitted documents
type Ingester interface {
	ProcessSubmission(ctx context.Context, submission *models.Submission) error
}

// StatusClient reads and writes run progress
type StatusClient interface {
	plagiarism.StatusStore
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Handler holds dependencies for handlers
type Handler struct {
	cfg            *config.Config
	documents      DocumentStore
	reports        ReportStore
	ingester       Ingester
	statuses       StatusClient
	workerPool     *plagiarism.WorkerPool
	computeSem     chan struct{} // Semaphore for bounded concurrency
	computeTimeout time.Duration
	running        sync.WaitGroup
	newID          func() string
}

// NewHandler creates a new handler
func NewHandler(
	cfg *config.Config,
	documents DocumentStore,
	reports ReportStore,
	ingester Ingester,
	statuses StatusClient,
	workerPool *plagiarism.WorkerPool,
) *Handler {
	// Create semaphore for bounded concurrency
	sem := make(chan struct{}, cfg.MaxConcurrentCompute)

	return &Handler{
		cfg:            cfg,
		documents:      documents,
		reports:        reports,
		ingester:       ingester,
		statuses:       statuses,
		workerPool:     workerPool,
		computeSem:     sem,
		computeTimeout: cfg.ComputationTimeout,
		newID:          uuid.NewString,
	}
}

// Wait blocks until background computations finish or ctx is done
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func (h *Handler) Compute(c *gin.Context) {
	var req models.ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	params, err := h.runParams(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_PARAMETERS",
		})
		return
	}

	ctx := c.Request.Context()
	count, err := h.documents.CountDocumentsByCorpusID(ctx, req.CorpusID)
	if err != nil {
		log.Error().Err(err).Str("corpusId", req.CorpusID).Msg("Failed to count documents")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to check documents",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if count == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No documents found for corpusId",
			Code:  "CORPUS_NOT_FOUND",
		})
		return
	}

	// Acquire semaphore (bounded concurrency)
	select {
	case h.computeSem <- struct{}{}:
	case <-ctx.Done():
		c.JSON(http.StatusRequestTimeout, ErrorResponse{
			Error: "Request cancelled",
			Code:  "REQUEST_TIMEOUT",
		})
		return
	}

	pendingReport := &models.Report{
		ReportID:    params.ReportID,
		CorpusID:    params.CorpusID,
		Status:      models.StatusPending,
		Sensitivity: params.Sensitivity,
		Similarity:  params.Metric.Cutoff,
		Metric:      params.Metric.String(),
	}
	if err := h.reports.InsertReport(ctx, pendingReport); err != nil {
		<-h.computeSem
		log.Error().Err(err).Str("corpusId", req.CorpusID).Msg("Failed to create pending report")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to create report",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if err := plagiarism.UpdateStatus(ctx, h.statuses, req.CorpusID, models.StepInitiated); err != nil {
		log.Warn().Err(err).Str("corpusId", req.CorpusID).Msg("Failed to update initiated status")
	}

	c.JSON(http.StatusAccepted, models.ComputeResponse{
		Step:     models.StepInitiated,
		CorpusID: params.CorpusID,
		ReportID: params.ReportID,
	})

	h.running.Add(1)
	go h.processComputation(params)
}

// runParams applies the configured defaults to a compute request
func (h *Handler) runParams(req models.ComputeRequest) (plagiarism.RunParams, error) {
	sensitivity := req.Sensitivity
	if sensitivity == 0 {
		sensitivity = h.cfg.DefaultSensitivity
	}
	if sensitivity < 1 {
		return plagiarism.RunParams{}, plagiarism.ErrInvalidSensitivity
	}

	similarity := h.cfg.DefaultSimilarity
	if req.Similarity != nil {
		similarity = *req.Similarity
	}
	metricName := req.Metric
	if metricName == "" {
		metricName = h.cfg.DefaultMetric
	}
	metric, err := plagiarism.ParseMetric(metricName, similarity)
	if err != nil {
		return plagiarism.RunParams{}, err
	}

	return plagiarism.RunParams{
		CorpusID:    req.CorpusID,
		ReportID:    h.newID(),
		Sensitivity: sensitivity,
		Metric:      metric,
	}, nil
}

// processComputation runs one engine run in the background
func (h *Handler) processComputation(params plagiarism.RunParams) {
	defer h.running.Done()
	defer func() { <-h.computeSem }() // Release semaphore

	ctx, cancel := context.WithTimeout(context.Background(), h.computeTimeout)
	defer cancel()

	_, err := plagiarism.ComputePlagiarism(ctx, params, h.documents, h.reports, h.statuses, h.workerPool)
	if err != nil {
		log.Error().Err(err).Str("corpusId", params.CorpusID).Str("reportId", params.ReportID).Msg("Computation failed")
		// the run context may be the reason for the failure
		if failErr := h.reports.FailReport(context.WithoutCancel(ctx), params.ReportID, err.Error()); failErr != nil {
			log.Error().Err(failErr).Str("reportId", params.ReportID).Msg("Failed to update failed report")
		}
		return
	}

	log.Debug().Str("corpusId", params.CorpusID).Msg("Computation completed successfully")
}

func (h *Handler) GetReport(c *gin.Context) {
	corpusID := c.Param("corpusId")

	report, err := h.reports.GetLatestReportByCorpusID(c.Request.Context(), corpusID)
	if err != nil {
		_ = c.Error(fmt.Errorf("failed to load report for %s: %w", corpusID, err))
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "No report found for corpusId",
			Code:  "REPORT_NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetStatus(c *gin.Context) {
	corpusID := c.Param("corpusId")

	step := models.StepIdle
	if h.statuses != nil {
		value, err := h.statuses.Get(c.Request.Context(), plagiarism.StatusKey(corpusID)).Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			_ = c.Error(fmt.Errorf("failed to read status for %s: %w", corpusID, err))
			return
		default:
			step = models.Step(value)
		}
	}

	c.JSON(http.StatusOK, models.ComputeResponse{Step: step, CorpusID: corpusID})
}

func (h *Handler) CreateDocument(c *gin.Context) {
	var req models.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	submission := &models.Submission{
		OwnerID:  req.OwnerID,
		CorpusID: req.CorpusID,
		Role:     req.Role,
		Text:     req.Text,
	}
	if err := h.ingester.ProcessSubmission(c.Request.Context(), submission); err != nil {
		if errors.Is(err, ingest.ErrInvalidSubmission) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_DOCUMENT",
			})
			return
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ownerId":  submission.OwnerID,
		"corpusId": submission.CorpusID,
		"role":     submission.Role,
	})
}
