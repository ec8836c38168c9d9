package extractor

import (
	"context"
	"errors"

	"github.com/foxseedlab/kasirsuara/internal/domain"
)

// ErrMalformedOutput marks model output that could not be decoded into
// the draft schema at all.
var ErrMalformedOutput = errors.New("extractor output does not match draft schema")

// Extractor turns a transcript plus catalog into a draft. Its output is
// untrusted and must be validated by the caller.
type Extractor interface {
	Extract(ctx context.Context, req domain.ExtractionRequest) (*domain.Draft, error)
}
