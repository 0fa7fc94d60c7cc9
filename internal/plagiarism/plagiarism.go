package plagiarism

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/overlap/internal/metrics"
	"github.com/RishiKendai/overlap/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrNoDocuments is returned when a corpus has nothing to compare
var ErrNoDocuments = errors.New("no documents found")

// DocumentSource loads the stored texts of a corpus
type DocumentSource interface {
	GetDocumentsByCorpusID(ctx context.Context, corpusID string) ([]*models.Document, error)
}

// ReportSink persists the finished report of a run
type ReportSink interface {
	CompleteReport(ctx context.Context, report *models.Report) error
}

// RunParams configures one run over a stored corpus
type RunParams struct {
	CorpusID    string
	ReportID    string
	Sensitivity int
	Metric      Metric
}

// Sweeps runs both comparison sweeps and orders each by severity.
// A nil pool runs them sequentially.
func Sweeps(ctx context.Context, db *Database, pool *WorkerPool) (untrusted, trusted []PlagiarismResult, err error) {
	if pool == nil {
		untrusted = db.CheckUntrustedPlagiarism()
		trusted = db.CheckTrustedPlagiarism()
	} else {
		untrusted, err = db.CheckUntrustedPlagiarismParallel(ctx, pool)
		if err != nil {
			return nil, nil, fmt.Errorf("untrusted sweep failed: %w", err)
		}
		trusted, err = db.CheckTrustedPlagiarismParallel(ctx, pool)
		if err != nil {
			return nil, nil, fmt.Errorf("trusted sweep failed: %w", err)
		}
	}

	metrics.ObserveSweep(metrics.SweepUntrusted, db.UntrustedPairCount(), len(untrusted))
	metrics.ObserveSweep(metrics.SweepTrusted, db.TrustedPairCount(), len(trusted))

	SortBySeverity(untrusted)
	SortBySeverity(trusted)
	return untrusted, trusted, nil
}

// ComputePlagiarism loads a corpus, runs both sweeps and stores the highlighted report
func ComputePlagiarism(
	ctx context.Context,
	params RunParams,
	docs DocumentSource,
	reports ReportSink,
	statuses StatusStore,
	workerPool *WorkerPool,
) (*models.Report, error) {
	start := time.Now()
	report, err := computePlagiarism(ctx, params, docs, reports, statuses, workerPool)
	metrics.RunDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RunsTotal.WithLabelValues(models.StatusFailed).Inc()
		if statusErr := UpdateStatus(ctx, statuses, params.CorpusID, models.StepFailed); statusErr != nil {
			log.Warn().Err(statusErr).Str("corpusId", params.CorpusID).Msg("Failed to update failed status")
		}
		return nil, err
	}

	metrics.RunsTotal.WithLabelValues(models.StatusCompleted).Inc()
	return report, nil
}

func computePlagiarism(
	ctx context.Context,
	params RunParams,
	docs DocumentSource,
	reports ReportSink,
	statuses StatusStore,
	workerPool *WorkerPool,
) (*models.Report, error) {
	setStep := func(step models.Step) {
		if err := UpdateStatus(ctx, statuses, params.CorpusID, step); err != nil {
			log.Warn().Err(err).Str("corpusId", params.CorpusID).Str("step", string(step)).Msg("Failed to update status")
		}
	}

	setStep(models.StepLoading)
	documents, err := docs.GetDocumentsByCorpusID(ctx, params.CorpusID)
	if err != nil {
		log.Error().Err(err).Str("corpusId", params.CorpusID).Msg("Failed to load documents")
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	db, err := BuildDatabase(params.Sensitivity, params.Metric, documents)
	if err != nil {
		return nil, err
	}
	if len(db.UntrustedOwners()) == 0 {
		return nil, fmt.Errorf("%w: corpus %s has no untrusted documents", ErrNoDocuments, params.CorpusID)
	}

	setStep(models.StepMatching)
	untrusted, trusted, err := Sweeps(ctx, db, workerPool)
	if err != nil {
		return nil, err
	}

	setStep(models.StepHighlighting)
	untrustedHighlights := db.HighlightAll(untrusted)
	trustedHighlights := db.HighlightAll(trusted)
	summary := Summarize(append(append([]Highlight{}, untrustedHighlights...), trustedHighlights...))

	report := &models.Report{
		ReportID:      params.ReportID,
		CorpusID:      params.CorpusID,
		Status:        models.StatusCompleted,
		Sensitivity:   db.N(),
		Similarity:    db.Similarity(),
		Metric:        db.Metric().String(),
		Untrusted:     toEntries(untrusted, untrustedHighlights),
		Trusted:       toEntries(trusted, trustedHighlights),
		TotalAnalyzed: len(db.UntrustedOwners()) + len(db.TrustedOwners()),
		FlaggedOwners: summary.FlaggedOwners,
		Risk:          summary.Risk,
	}

	if err := reports.CompleteReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	setStep(models.StepCompleted)

	log.Info().
		Str("corpusId", params.CorpusID).
		Str("reportId", params.ReportID).
		Int("untrustedResults", len(untrusted)).
		Int("trustedResults", len(trusted)).
		Int("flagged", summary.FlaggedOwners).
		Str("risk", summary.Risk).
		Msg("Computation completed successfully")

	return report, nil
}

// BuildDatabase indexes stored documents by role. Ignore documents are
// collected first since the ignore set must exist before any text is added.
func BuildDatabase(n int, metric Metric, documents []*models.Document) (*Database, error) {
	var ignored []string
	for _, doc := range documents {
		if doc.Role == models.RoleIgnore {
			ignored = append(ignored, doc.Text)
		}
	}

	db, err := NewDatabase(n, metric, ignored)
	if err != nil {
		return nil, err
	}

	for _, doc := range documents {
		switch doc.Role {
		case models.RoleTrusted:
			db.AddTrustedText(doc.OwnerID, doc.Text)
		case models.RoleUntrusted:
			db.AddUntrustedText(doc.OwnerID, doc.Text)
		case models.RoleIgnore:
		default:
			log.Warn().Str("ownerId", doc.OwnerID).Str("role", string(doc.Role)).Msg("Skipping document with unknown role")
		}
	}

	return db, nil
}

func toEntries(results []PlagiarismResult, highlights []Highlight) []models.ResultEntry {
	entries := make([]models.ResultEntry, 0, len(results))
	for i, r := range results {
		h := highlights[i]
		fragments := make([]models.MatchedFragment, 0, len(r.MatchingFragments))
		for _, f := range r.MatchingFragments {
			fragments = append(fragments, models.MatchedFragment{First: f.First, Second: f.Second})
		}
		entries = append(entries, models.ResultEntry{
			OwnerID1:       r.OwnerID1,
			OwnerID2:       r.OwnerID2,
			TrustedOwner1:  r.TrustedOwner1,
			EqualFragments: r.EqualFragments,
			Fragments:      fragments,
			Display1:       toSegments(h.Display1),
			Display2:       toSegments(h.Display2),
			Coverage1:      h.Coverage1,
			Coverage2:      h.Coverage2,
			Risk:           h.Risk,
		})
	}
	return entries
}

func toSegments(segments []Segment) []models.Segment {
	out := make([]models.Segment, 0, len(segments))
	for _, s := range segments {
		out = append(out, models.Segment{Text: s.Text, Bold: s.Bold})
	}
	return out
}
