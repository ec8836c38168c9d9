package pipeline

import (
	"errors"
	"testing"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/shopspring/decimal"
)

func TestPrepareTranscript(t *testing.T) {
	catalog := []domain.CatalogEntry{{ProductID: 1, Name: "Kopi", Price: decimal.NewFromInt(5000)}}

	req, err := PrepareTranscript(1, "  beli kopi dua \n", catalog)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if req.MerchantID != 1 || req.Transcript != "beli kopi dua" || len(req.Catalog) != 1 {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestPrepareTranscript_EmptyTranscript(t *testing.T) {
	for _, transcript := range []string{"", "   ", "\n\t"} {
		if _, err := PrepareTranscript(1, transcript, nil); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("transcript %q: expected ErrInvalidInput, got %v", transcript, err)
		}
	}
}

func TestPrepareTranscript_NilCatalogBecomesEmpty(t *testing.T) {
	req, err := PrepareTranscript(1, "beli kopi", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if req.Catalog == nil {
		t.Fatal("expected empty catalog, got nil")
	}
}
