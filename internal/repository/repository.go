package repository

import (
	"context"
	"time"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/shopspring/decimal"
)

type InsertTransactionInput struct {
	MerchantID      int64
	TransactionType domain.TransactionType
	SupplierID      *int64
	CustomerName    string
	TotalAmount     decimal.Decimal
	Transcript      string
	Status          TransactionStatus
}

type InsertTransactionItemInput struct {
	TransactionID int64
	ProductID     int64
	Quantity      int
	UnitPrice     decimal.Decimal
}

type CatalogRepository interface {
	ListActiveProducts(ctx context.Context, merchantID int64) ([]Product, error)
}

// TransactionStore is the set of writes available inside one unit of work.
type TransactionStore interface {
	GetProducts(ctx context.Context, merchantID int64, productIDs []int64) (map[int64]Product, error)
	InsertTransaction(ctx context.Context, input InsertTransactionInput) (int64, error)
	InsertTransactionItem(ctx context.Context, input InsertTransactionItemInput) error
	// DecrementStock subtracts quantity only while stock >= quantity and
	// reports whether a row was updated.
	DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error)
	IncrementStock(ctx context.Context, productID int64, quantity int) (bool, error)
}

// UnitOfWork runs fn atomically. Any error returned by fn rolls back every
// write made through the store.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, store TransactionStore) error) error
}

type ReportRepository interface {
	ListDailySaleTotals(ctx context.Context, merchantID int64, from, to time.Time, loc *time.Location) ([]DailyTotal, error)
	SummarizeSales(ctx context.Context, merchantID int64, from, to time.Time) (PeriodSummary, error)
	ListRecentSales(ctx context.Context, merchantID int64, limit int) ([]RecentTransaction, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Repository interface {
	CatalogRepository
	UnitOfWork
	ReportRepository
	HealthChecker
}
