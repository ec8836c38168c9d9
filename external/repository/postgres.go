package repository

import (
	"context"

	"github.com/foxseedlab/kasirsuara/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func (r *PostgresRepository) ListActiveProducts(ctx context.Context, merchantID int64) ([]repository.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, umkm_id, name, category, price, stock, is_active
		 FROM products WHERE umkm_id = $1 AND is_active = TRUE
		 ORDER BY product_id ASC`,
		merchantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []repository.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// WithinTransaction runs fn in a READ COMMITTED transaction. Sale stock
// decrements are conditional, so a concurrent writer that wins the row
// lock makes the loser see zero affected rows.
func (r *PostgresRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, store repository.TransactionStore) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txStore{tx: tx})
	})
}

type txStore struct {
	tx pgx.Tx
}

func (s *txStore) GetProducts(ctx context.Context, merchantID int64, productIDs []int64) (map[int64]repository.Product, error) {
	rows, err := s.tx.Query(ctx,
		`SELECT product_id, umkm_id, name, category, price, stock, is_active
		 FROM products WHERE umkm_id = $1 AND product_id = ANY($2)`,
		merchantID, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]repository.Product, len(productIDs))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ProductID] = p
	}
	return out, rows.Err()
}

func (s *txStore) InsertTransaction(ctx context.Context, input repository.InsertTransactionInput) (int64, error) {
	var id int64
	err := s.tx.QueryRow(ctx,
		`INSERT INTO transactions (umkm_id, transaction_type, supplier_id, customer_name, total_amount, transcript, status)
		 VALUES ($1, $2::text::transaction_type, $3, $4, $5, $6, $7)
		 RETURNING transaction_id`,
		input.MerchantID, string(input.TransactionType), input.SupplierID, input.CustomerName,
		input.TotalAmount, input.Transcript, string(input.Status)).Scan(&id)
	return id, err
}

func (s *txStore) InsertTransactionItem(ctx context.Context, input repository.InsertTransactionItemInput) error {
	_, err := s.tx.Exec(ctx,
		`INSERT INTO transaction_items (transaction_id, product_id, quantity, unit_price)
		 VALUES ($1, $2, $3, $4)`,
		input.TransactionID, input.ProductID, input.Quantity, input.UnitPrice)
	return err
}

func (s *txStore) DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	tag, err := s.tx.Exec(ctx,
		`UPDATE products SET stock = stock - $2 WHERE product_id = $1 AND stock >= $2`,
		productID, quantity)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *txStore) IncrementStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	tag, err := s.tx.Exec(ctx,
		`UPDATE products SET stock = stock + $2 WHERE product_id = $1`,
		productID, quantity)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanProduct(row pgx.Row) (repository.Product, error) {
	var p repository.Product
	err := row.Scan(&p.ProductID, &p.MerchantID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Active)
	return p, err
}

var _ repository.Repository = (*PostgresRepository)(nil)
