package repository

import (
	"context"
	"time"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/foxseedlab/kasirsuara/internal/repository"
)

func (r *PostgresRepository) ListDailySaleTotals(ctx context.Context, merchantID int64, from, to time.Time, loc *time.Location) ([]repository.DailyTotal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT (created_at AT TIME ZONE $4)::date AS day, SUM(total_amount)
		 FROM transactions
		 WHERE umkm_id = $1 AND transaction_type = 'sale' AND created_at >= $2 AND created_at < $3
		 GROUP BY day
		 ORDER BY day DESC`,
		merchantID, from, to, loc.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []repository.DailyTotal{}
	for rows.Next() {
		var d repository.DailyTotal
		var day time.Time
		if err := rows.Scan(&day, &d.TotalAmount); err != nil {
			return nil, err
		}
		d.Date = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) SummarizeSales(ctx context.Context, merchantID int64, from, to time.Time) (repository.PeriodSummary, error) {
	var s repository.PeriodSummary
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		 FROM transactions
		 WHERE umkm_id = $1 AND transaction_type = 'sale' AND created_at >= $2 AND created_at < $3`,
		merchantID, from, to).Scan(&s.TotalSales, &s.TotalTransactions)
	return s, err
}

// ListRecentSales limits on transactions, then loads the items of those
// transactions in a second query.
func (r *PostgresRepository) ListRecentSales(ctx context.Context, merchantID int64, limit int) ([]repository.RecentTransaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT transaction_id, umkm_id, transaction_type::text, supplier_id, customer_name, total_amount, transcript, status, created_at
		 FROM transactions
		 WHERE umkm_id = $1 AND transaction_type = 'sale'
		 ORDER BY created_at DESC, transaction_id DESC
		 LIMIT $2`,
		merchantID, limit)
	if err != nil {
		return nil, err
	}
	list := []repository.RecentTransaction{}
	index := make(map[int64]int)
	ids := []int64{}
	for rows.Next() {
		var t repository.RecentTransaction
		var txType, status string
		if err := rows.Scan(&t.TransactionID, &t.MerchantID, &txType, &t.SupplierID, &t.CustomerName, &t.TotalAmount, &t.Transcript, &status, &t.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		t.TransactionType = domain.TransactionType(txType)
		t.Status = repository.TransactionStatus(status)
		t.Items = []repository.TransactionItem{}
		index[t.TransactionID] = len(list)
		ids = append(ids, t.TransactionID)
		list = append(list, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	itemRows, err := r.pool.Query(ctx,
		`SELECT ti.transaction_id, ti.product_id, p.name, p.category, ti.quantity, ti.unit_price
		 FROM transaction_items ti
		 JOIN products p ON p.product_id = ti.product_id
		 WHERE ti.transaction_id = ANY($1)
		 ORDER BY ti.transaction_item_id ASC`,
		ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it repository.TransactionItem
		if err := itemRows.Scan(&it.TransactionID, &it.ProductID, &it.ProductName, &it.Category, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		i := index[it.TransactionID]
		list[i].Items = append(list[i].Items, it)
	}
	return list, itemRows.Err()
}
