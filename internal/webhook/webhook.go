package webhook

import (
	"context"
	"time"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionCommittedPayload struct {
	Event           string                 `json:"event"`
	TransactionID   int64                  `json:"transaction_id"`
	MerchantID      int64                  `json:"umkm_id"`
	TransactionType domain.TransactionType `json:"transaction_type"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	Transcript      string                 `json:"transcript"`
	Items           []domain.DraftItem     `json:"items"`
	CommittedAt     time.Time              `json:"committed_at"`
}

type Sender interface {
	SendTransactionCommitted(ctx context.Context, payload TransactionCommittedPayload) error
}
