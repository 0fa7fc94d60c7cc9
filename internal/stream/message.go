package stream

import (
	"fmt"

	"github.com/RishiKendai/overlap/internal/ingest"
	"github.com/RishiKendai/overlap/internal/models"
)

// Stream field names of a submission message
const (
	FieldOwnerID  = "ownerId"
	FieldCorpusID = "corpusId"
	FieldRole     = "role"
	FieldText     = "text"
)

// StreamMessage is a stream entry with its string fields
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ParseSubmission reads a submission out of msg. The text field must be
// present but may be empty; the role defaults to untrusted.
func ParseSubmission(msg *StreamMessage) (*models.Submission, error) {
	text, ok := msg.Fields[FieldText]
	if !ok {
		return nil, fmt.Errorf("%w: message %s has no %s field", ingest.ErrInvalidSubmission, msg.ID, FieldText)
	}

	submission := &models.Submission{
		OwnerID:  msg.Fields[FieldOwnerID],
		CorpusID: msg.Fields[FieldCorpusID],
		Role:     models.Role(msg.Fields[FieldRole]),
		Text:     text,
	}
	if err := ingest.Validate(submission); err != nil {
		return nil, fmt.Errorf("message %s: %w", msg.ID, err)
	}
	return submission, nil
}
