package messages

import (
	"github.com/google/uuid"

	"flatbot/pkg/models"
)

// HandleUtterance starts one reasoning episode. The sender blocks on a
// future; the episode actor answers with Answer or ReportError and stops.
type HandleUtterance struct {
	RequestID uuid.UUID
	Utterance models.Utterance
}

type Answer struct {
	RequestID uuid.UUID
	Text      string
}

type ReportError struct {
	RequestID uuid.UUID
	Err       error
}
