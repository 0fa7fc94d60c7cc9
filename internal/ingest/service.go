// Package ingest turns submissions into stored corpus documents
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/RishiKendai/overlap/internal/metrics"
	"github.com/RishiKendai/overlap/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrInvalidSubmission marks submissions that can never be stored; retrying them is pointless
var ErrInvalidSubmission = errors.New("invalid submission")

// DocumentStore persists corpus documents
type DocumentStore interface {
	UpsertDocument(ctx context.Context, doc *models.Document) error
}

type Service struct {
	documents DocumentStore
	now       func() time.Time
}

func NewService(documents DocumentStore) *Service {
	return &Service{
		documents: documents,
		now:       time.Now,
	}
}

// Validate fills the default role and rejects submissions that cannot be indexed
func Validate(submission *models.Submission) error {
	submission.OwnerID = strings.TrimSpace(submission.OwnerID)
	submission.CorpusID = strings.TrimSpace(submission.CorpusID)

	if submission.OwnerID == "" {
		return fmt.Errorf("%w: ownerId is required", ErrInvalidSubmission)
	}
	if submission.CorpusID == "" {
		return fmt.Errorf("%w: corpusId is required", ErrInvalidSubmission)
	}
	if submission.Role == "" {
		submission.Role = models.RoleUntrusted
	}
	if !submission.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidSubmission, submission.Role)
	}
	if !utf8.ValidString(submission.Text) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidSubmission)
	}
	return nil
}

// ProcessSubmission validates a submission and stores it, replacing any
// earlier document of the same owner and role in the corpus.
func (s *Service) ProcessSubmission(ctx context.Context, submission *models.Submission) error {
	if err := Validate(submission); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	doc := &models.Document{
		OwnerID:   submission.OwnerID,
		CorpusID:  submission.CorpusID,
		Role:      submission.Role,
		Text:      submission.Text,
		CreatedAt: s.now(),
	}

	if err := s.documents.UpsertDocument(ctx, doc); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to store document: %w", err)
	}

	metrics.SubmissionsTotal.WithLabelValues("stored").Inc()
	log.Debug().
		Str("corpusId", doc.CorpusID).
		Str("ownerId", doc.OwnerID).
		Str("role", string(doc.Role)).
		Int("bytes", len(doc.Text)).
		Msg("Document stored")
	return nil
}
