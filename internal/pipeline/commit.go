package pipeline

import (
	"context"
	"log/slog"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/foxseedlab/kasirsuara/internal/repository"
)

// TransactionCommitter persists a confirmed transaction, its items, and
// its stock deltas as one unit of work.
type TransactionCommitter struct {
	uow repository.UnitOfWork
}

func NewTransactionCommitter(uow repository.UnitOfWork) *TransactionCommitter {
	return &TransactionCommitter{uow: uow}
}

func (c *TransactionCommitter) Commit(ctx context.Context, req domain.ConfirmRequest) (domain.CommitResult, error) {
	if err := validateConfirm(req); err != nil {
		return domain.CommitResult{}, err
	}
	// The caller's total is never used.
	total := domain.TotalAmount(req.Items)

	var transactionID int64
	err := c.uow.WithinTransaction(ctx, func(ctx context.Context, store repository.TransactionStore) error {
		if err := checkPreconditions(ctx, store, req); err != nil {
			return err
		}

		input := repository.InsertTransactionInput{
			MerchantID:      req.MerchantID,
			TransactionType: req.TransactionType,
			TotalAmount:     total,
			Transcript:      req.Transcript,
			Status:          repository.TransactionStatusCompleted,
		}
		if req.TransactionType == domain.TransactionTypeSale {
			input.CustomerName = repository.DefaultSaleCustomerName
		} else {
			input.SupplierID = req.SupplierID
		}
		id, err := store.InsertTransaction(ctx, input)
		if err != nil {
			return dataAccess("insert transaction", err)
		}
		transactionID = id

		for _, item := range req.Items {
			if err := store.InsertTransactionItem(ctx, repository.InsertTransactionItemInput{
				TransactionID: id,
				ProductID:     item.ProductID,
				Quantity:      item.Quantity,
				UnitPrice:     item.UnitPrice,
			}); err != nil {
				return dataAccess("insert transaction item", err)
			}
		}

		for _, item := range req.Items {
			if err := applyStockDelta(ctx, store, req.TransactionType, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !isClassified(err) {
			err = dataAccess("commit transaction", err)
		}
		slog.Warn("transaction commit rolled back", "merchant_id", req.MerchantID, "transaction_type", req.TransactionType, "error", err)
		return domain.CommitResult{}, err
	}

	slog.Info("transaction committed", "merchant_id", req.MerchantID, "transaction_id", transactionID, "transaction_type", req.TransactionType, "total_amount", total.String(), "items", len(req.Items))
	return domain.CommitResult{
		TransactionID:   transactionID,
		TransactionType: req.TransactionType,
		TotalAmount:     total,
		Transcript:      req.Transcript,
	}, nil
}

func validateConfirm(req domain.ConfirmRequest) error {
	if req.MerchantID <= 0 {
		return invalidInput("umkm_id must be positive")
	}
	if !req.TransactionType.Valid() {
		return invalidInput("unknown transaction type %q", req.TransactionType)
	}
	if req.TransactionType == domain.TransactionTypePurchase && req.SupplierID == nil {
		return invalidInput("supplier_id is required for purchase")
	}
	if len(req.Items) == 0 {
		return invalidInput("items must not be empty")
	}
	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return invalidInput("item %d: product_id must be positive", i)
		}
		if item.Quantity <= 0 {
			return invalidInput("item %d: quantity must be positive, got %d", i, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return invalidInput("item %d: unit price must not be negative, got %s", i, item.UnitPrice)
		}
	}
	return nil
}

// checkPreconditions verifies every product exists for the merchant and,
// for sales, that the summed quantity per product fits current stock.
func checkPreconditions(ctx context.Context, store repository.TransactionStore, req domain.ConfirmRequest) error {
	requested := make(map[int64]int, len(req.Items))
	ids := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		if _, seen := requested[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}

	products, err := store.GetProducts(ctx, req.MerchantID, ids)
	if err != nil {
		return dataAccess("get products", err)
	}
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			return invalidInput("product %d not found for umkm %d", id, req.MerchantID)
		}
		if req.TransactionType == domain.TransactionTypeSale && requested[id] > p.Stock {
			return stockConflict("product %d has stock %d, requested %d", id, p.Stock, requested[id])
		}
	}
	return nil
}

func applyStockDelta(ctx context.Context, store repository.TransactionStore, txType domain.TransactionType, item domain.DraftItem) error {
	switch txType {
	case domain.TransactionTypeSale:
		ok, err := store.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return dataAccess("decrement stock", err)
		}
		if !ok {
			return stockConflict("product %d stock dropped below %d", item.ProductID, item.Quantity)
		}
	case domain.TransactionTypePurchase:
		ok, err := store.IncrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return dataAccess("increment stock", err)
		}
		if !ok {
			return invalidInput("product %d disappeared during commit", item.ProductID)
		}
	}
	return nil
}
