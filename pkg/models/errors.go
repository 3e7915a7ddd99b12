package models

import "errors"

// Episode-level failures. Unlike tool failures these surface to the
// transport layer, which must reply with a degraded fallback answer.
var (
	ErrReasoningTimeout     = errors.New("step bound exceeded without a final answer")
	ErrInferenceUnavailable = errors.New("inference unavailable")
)
