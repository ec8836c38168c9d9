package pipeline

import (
	"context"
	"errors"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/foxseedlab/kasirsuara/internal/extractor"
)

type DraftExtractorConfig struct {
	AllowPurchase bool
}

// DraftExtractor calls the extraction capability and refuses to pass on
// anything that does not check out against the request's catalog.
type DraftExtractor struct {
	extractor     extractor.Extractor
	allowPurchase bool
}

func NewDraftExtractor(ex extractor.Extractor, cfg DraftExtractorConfig) *DraftExtractor {
	return &DraftExtractor{
		extractor:     ex,
		allowPurchase: cfg.AllowPurchase,
	}
}

func (e *DraftExtractor) Extract(ctx context.Context, req domain.ExtractionRequest) (*domain.Draft, error) {
	if req.Transcript == "" {
		return nil, invalidInput("transcript is empty")
	}
	raw, err := e.extractor.Extract(ctx, req)
	if err != nil {
		if errors.Is(err, extractor.ErrMalformedOutput) {
			return nil, draftInvalid("%v", err)
		}
		return nil, externalCapability("extract draft", err)
	}
	if raw == nil {
		return nil, draftInvalid("extractor returned no draft")
	}
	return e.normalize(req, raw)
}

func (e *DraftExtractor) normalize(req domain.ExtractionRequest, raw *domain.Draft) (*domain.Draft, error) {
	draft := &domain.Draft{
		MerchantID:      req.MerchantID,
		TransactionType: raw.TransactionType,
		SupplierID:      raw.SupplierID,
		Transcript:      req.Transcript,
		Items:           make([]domain.DraftItem, 0, len(raw.Items)),
	}

	if draft.TransactionType == "" {
		draft.TransactionType = domain.TransactionTypeSale
	}
	if !draft.TransactionType.Valid() {
		return nil, draftInvalid("unknown transaction type %q", raw.TransactionType)
	}
	if draft.TransactionType == domain.TransactionTypePurchase && !e.allowPurchase {
		return nil, draftInvalid("purchase extraction is not enabled")
	}
	if draft.TransactionType == domain.TransactionTypeSale {
		draft.SupplierID = nil
	}

	if len(raw.Items) == 0 {
		return nil, draftInvalid("draft has no items")
	}
	byID := make(map[int64]domain.CatalogEntry, len(req.Catalog))
	for _, entry := range req.Catalog {
		byID[entry.ProductID] = entry
	}
	for i, item := range raw.Items {
		entry, ok := byID[item.ProductID]
		if !ok {
			return nil, draftInvalid("item %d: product %d is not in the catalog", i, item.ProductID)
		}
		if item.Quantity <= 0 {
			return nil, draftInvalid("item %d: quantity must be positive, got %d", i, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return nil, draftInvalid("item %d: unit price must not be negative, got %s", i, item.UnitPrice)
		}
		if item.Name == "" {
			item.Name = entry.Name
		}
		draft.Items = append(draft.Items, item)
	}
	return draft, nil
}
