package repository

import (
	"time"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
)

const DefaultSaleCustomerName = "Auto (LLM)"

type Product struct {
	ProductID  int64
	MerchantID int64
	Name       string
	Category   string
	Price      decimal.Decimal
	Stock      int
	Active     bool
}

type Transaction struct {
	TransactionID   int64
	MerchantID      int64
	TransactionType domain.TransactionType
	SupplierID      *int64
	CustomerName    string
	TotalAmount     decimal.Decimal
	Transcript      string
	Status          TransactionStatus
	CreatedAt       time.Time
}

type TransactionItem struct {
	TransactionID int64
	ProductID     int64
	ProductName   string
	Category      string
	Quantity      int
	UnitPrice     decimal.Decimal
}

type DailyTotal struct {
	Date        time.Time
	TotalAmount decimal.Decimal
}

type PeriodSummary struct {
	TotalSales        decimal.Decimal
	TotalTransactions int
}

type RecentTransaction struct {
	Transaction
	Items []TransactionItem
}
