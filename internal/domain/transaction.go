// Package domain holds the value types that flow through the
// draft-then-confirm pipeline.
package domain

import "github.com/shopspring/decimal"

type TransactionType string

const (
	TransactionTypeSale     TransactionType = "sale"
	TransactionTypePurchase TransactionType = "purchase"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeSale || t == TransactionTypePurchase
}

// CatalogEntry is the read-only view of a product used to ground extraction.
type CatalogEntry struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

type ExtractionRequest struct {
	MerchantID int64
	Transcript string
	Catalog    []CatalogEntry
}

// Draft is an extractor-proposed transaction awaiting human confirmation.
// It is never persisted as-is.
type Draft struct {
	DraftID         string          `json:"draft_id,omitempty"`
	MerchantID      int64           `json:"umkm_id"`
	TransactionType TransactionType `json:"transaction_type"`
	SupplierID      *int64          `json:"supplier_id"`
	Transcript      string          `json:"transcript"`
	Items           []DraftItem     `json:"items"`
}

type DraftItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ConfirmRequest is the caller-confirmed, possibly edited, draft.
// TotalAmount is accepted on the wire but never trusted.
type ConfirmRequest struct {
	Draft
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
}

type CommitResult struct {
	TransactionID   int64           `json:"transaction_id"`
	TransactionType TransactionType `json:"transaction_type"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Transcript      string          `json:"transcript"`
}

// LineTotal is quantity × unit price.
func (i DraftItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalAmount sums the line totals of items.
func TotalAmount(items []DraftItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
