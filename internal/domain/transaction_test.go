package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTotalAmount_NoFloatingDrift(t *testing.T) {
	items := []DraftItem{
		{ProductID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
		{ProductID: 2, Quantity: 7, UnitPrice: decimal.RequireFromString("0.20")},
		{ProductID: 3, Quantity: 1, UnitPrice: decimal.RequireFromString("1999.99")},
	}
	got := TotalAmount(items)
	want := decimal.RequireFromString("2001.69")
	if !got.Equal(want) {
		t.Fatalf("unexpected total: got %s want %s", got, want)
	}
}

func TestTotalAmount_Empty(t *testing.T) {
	if got := TotalAmount(nil); !got.IsZero() {
		t.Fatalf("expected zero total, got %s", got)
	}
}

func TestTransactionTypeValid(t *testing.T) {
	tests := []struct {
		in   TransactionType
		want bool
	}{
		{TransactionTypeSale, true},
		{TransactionTypePurchase, true},
		{"", false},
		{"refund", false},
	}
	for _, tt := range tests {
		if got := tt.in.Valid(); got != tt.want {
			t.Fatalf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
