package pipeline

import (
	"strings"

	"github.com/foxseedlab/kasirsuara/internal/domain"
)

// PrepareTranscript bundles a transcript with its grounding catalog.
func PrepareTranscript(merchantID int64, transcript string, catalog []domain.CatalogEntry) (domain.ExtractionRequest, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return domain.ExtractionRequest{}, invalidInput("transcript is empty")
	}
	if catalog == nil {
		catalog = []domain.CatalogEntry{}
	}
	return domain.ExtractionRequest{
		MerchantID: merchantID,
		Transcript: transcript,
		Catalog:    catalog,
	}, nil
}
