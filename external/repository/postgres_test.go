package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/foxseedlab/kasirsuara/internal/pipeline"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// These tests need a disposable database; they create their own rows.
const testDatabaseURLEnv = "KASIRSUARA_TEST_DATABASE_URL"

func newTestRepository(t *testing.T) (*PostgresRepository, *pgxpool.Pool) {
	t.Helper()
	url := os.Getenv(testDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s is not set", testDatabaseURLEnv)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	p, err := NewPool(ctx, url)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(p.Close)
	if err := RunMigration(ctx, p); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewPostgresRepository(p), p
}

func seedProduct(t *testing.T, p *pgxpool.Pool, stock int) (merchantID, productID int64) {
	t.Helper()
	ctx := context.Background()
	if err := p.QueryRow(ctx, `INSERT INTO umkm (name) VALUES ('Warung Test') RETURNING umkm_id`).Scan(&merchantID); err != nil {
		t.Fatalf("failed to seed umkm: %v", err)
	}
	if err := p.QueryRow(ctx,
		`INSERT INTO products (umkm_id, name, price, stock) VALUES ($1, 'Kopi', $2, $3) RETURNING product_id`,
		merchantID, decimal.NewFromInt(5000), stock).Scan(&productID); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return merchantID, productID
}

func stockOf(t *testing.T, p *pgxpool.Pool, productID int64) int {
	t.Helper()
	var stock int
	if err := p.QueryRow(context.Background(), `SELECT stock FROM products WHERE product_id = $1`, productID).Scan(&stock); err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	return stock
}

func countTransactions(t *testing.T, p *pgxpool.Pool, merchantID int64) int {
	t.Helper()
	var n int
	if err := p.QueryRow(context.Background(), `SELECT COUNT(*) FROM transactions WHERE umkm_id = $1`, merchantID).Scan(&n); err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	return n
}

func saleRequest(merchantID, productID int64, quantity int) domain.ConfirmRequest {
	return domain.ConfirmRequest{Draft: domain.Draft{
		MerchantID:      merchantID,
		TransactionType: domain.TransactionTypeSale,
		Transcript:      "beli kopi",
		Items:           []domain.DraftItem{{ProductID: productID, Quantity: quantity, UnitPrice: decimal.NewFromInt(5000)}},
	}}
}

func TestPostgres_CommitSaleAndCatalog(t *testing.T) {
	repo, p := newTestRepository(t)
	merchantID, productID := seedProduct(t, p, 10)

	catalog, err := pipeline.NewCatalogResolver(repo).Resolve(context.Background(), merchantID)
	if err != nil || len(catalog) != 1 || catalog[0].Name != "Kopi" {
		t.Fatalf("unexpected catalog: %+v, err=%v", catalog, err)
	}

	result, err := pipeline.NewTransactionCommitter(repo).Commit(context.Background(), saleRequest(merchantID, productID, 2))
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if !result.TotalAmount.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("unexpected total: %s", result.TotalAmount)
	}
	if got := stockOf(t, p, productID); got != 8 {
		t.Fatalf("expected stock 8, got %d", got)
	}

	recent, err := repo.ListRecentSales(context.Background(), merchantID, 5)
	if err != nil {
		t.Fatalf("list recent failed: %v", err)
	}
	if len(recent) != 1 || len(recent[0].Items) != 1 || recent[0].Items[0].ProductName != "Kopi" {
		t.Fatalf("unexpected recent sales: %+v", recent)
	}
}

func TestPostgres_ConcurrentSalesDoNotOversell(t *testing.T) {
	repo, p := newTestRepository(t)
	merchantID, productID := seedProduct(t, p, 5)
	committer := pipeline.NewTransactionCommitter(repo)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = committer.Commit(context.Background(), saleRequest(merchantID, productID, 3))
		}()
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, pipeline.ErrStockConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || conflicted != 1 {
		t.Fatalf("expected one success and one conflict, got %d and %d", succeeded, conflicted)
	}
	if got := stockOf(t, p, productID); got != 2 {
		t.Fatalf("expected final stock 2, got %d", got)
	}
	if got := countTransactions(t, p, merchantID); got != 1 {
		t.Fatalf("expected one persisted transaction, got %d", got)
	}
}

func TestPostgres_FailedCommitRollsBack(t *testing.T) {
	repo, p := newTestRepository(t)
	merchantID, productID := seedProduct(t, p, 1)

	_, err := pipeline.NewTransactionCommitter(repo).Commit(context.Background(), saleRequest(merchantID, productID, 3))
	if !errors.Is(err, pipeline.ErrStockConflict) {
		t.Fatalf("expected ErrStockConflict, got %v", err)
	}
	if got := stockOf(t, p, productID); got != 1 {
		t.Fatalf("expected stock 1, got %d", got)
	}
	if got := countTransactions(t, p, merchantID); got != 0 {
		t.Fatalf("expected no transactions, got %d", got)
	}
}
