package pipeline

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/foxseedlab/kasirsuara/internal/repository"
	"github.com/foxseedlab/kasirsuara/internal/webhook"
	"github.com/shopspring/decimal"
)

// memoryStore runs each unit of work serially against a copy of its
// state and only publishes the copy when fn succeeds.
type memoryStore struct {
	mu           sync.Mutex
	products     map[int64]repository.Product
	transactions []repository.Transaction
	items        []repository.TransactionItem
	nextID       int64

	listErr          error
	insertItemErr    error
	reportedStock    map[int64]int
	listCalls        int
	unitsOfWorkBegun int
}

func newMemoryStore(products ...repository.Product) *memoryStore {
	s := &memoryStore{products: make(map[int64]repository.Product), nextID: 1}
	for _, p := range products {
		s.products[p.ProductID] = p
	}
	return s
}

func (s *memoryStore) ListActiveProducts(_ context.Context, merchantID int64) ([]repository.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var list []repository.Product
	for _, p := range s.products {
		if p.MerchantID == merchantID && p.Active {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return list, nil
}

func (s *memoryStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, store repository.TransactionStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unitsOfWorkBegun++
	tx := &memoryTx{store: s, products: maps.Clone(s.products), nextID: s.nextID}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.products = tx.products
	s.transactions = append(s.transactions, tx.transactions...)
	s.items = append(s.items, tx.items...)
	s.nextID = tx.nextID
	return nil
}

func (s *memoryStore) stock(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].Stock
}

func (s *memoryStore) committed() ([]repository.Transaction, []repository.TransactionItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.Transaction(nil), s.transactions...), append([]repository.TransactionItem(nil), s.items...)
}

type memoryTx struct {
	store        *memoryStore
	products     map[int64]repository.Product
	transactions []repository.Transaction
	items        []repository.TransactionItem
	nextID       int64
}

func (t *memoryTx) GetProducts(_ context.Context, merchantID int64, productIDs []int64) (map[int64]repository.Product, error) {
	out := make(map[int64]repository.Product, len(productIDs))
	for _, id := range productIDs {
		p, ok := t.products[id]
		if !ok || p.MerchantID != merchantID {
			continue
		}
		if stock, ok := t.store.reportedStock[id]; ok {
			p.Stock = stock
		}
		out[id] = p
	}
	return out, nil
}

func (t *memoryTx) InsertTransaction(_ context.Context, input repository.InsertTransactionInput) (int64, error) {
	id := t.nextID
	t.nextID++
	t.transactions = append(t.transactions, repository.Transaction{
		TransactionID:   id,
		MerchantID:      input.MerchantID,
		TransactionType: input.TransactionType,
		SupplierID:      input.SupplierID,
		CustomerName:    input.CustomerName,
		TotalAmount:     input.TotalAmount,
		Transcript:      input.Transcript,
		Status:          input.Status,
	})
	return id, nil
}

func (t *memoryTx) InsertTransactionItem(_ context.Context, input repository.InsertTransactionItemInput) error {
	if t.store.insertItemErr != nil {
		return t.store.insertItemErr
	}
	t.items = append(t.items, repository.TransactionItem{
		TransactionID: input.TransactionID,
		ProductID:     input.ProductID,
		Quantity:      input.Quantity,
		UnitPrice:     input.UnitPrice,
	})
	return nil
}

func (t *memoryTx) DecrementStock(_ context.Context, productID int64, quantity int) (bool, error) {
	p, ok := t.products[productID]
	if !ok || p.Stock < quantity {
		return false, nil
	}
	p.Stock -= quantity
	t.products[productID] = p
	return true, nil
}

func (t *memoryTx) IncrementStock(_ context.Context, productID int64, quantity int) (bool, error) {
	p, ok := t.products[productID]
	if !ok {
		return false, nil
	}
	p.Stock += quantity
	t.products[productID] = p
	return true, nil
}

type stubExtractor struct {
	mu      sync.Mutex
	draft   *domain.Draft
	err     error
	calls   int
	lastReq domain.ExtractionRequest
}

func (s *stubExtractor) Extract(_ context.Context, req domain.ExtractionRequest) (*domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	if s.draft == nil {
		return nil, nil
	}
	d := *s.draft
	d.Items = append([]domain.DraftItem(nil), s.draft.Items...)
	return &d, nil
}

type stubTranscriber struct {
	text  string
	err   error
	calls int
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubArchiver struct {
	keys []string
	err  error
}

func (s *stubArchiver) StoreAudio(_ context.Context, key string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "gs://audio/" + key, nil
}

type recordingWebhook struct {
	payloads []webhook.TransactionCommittedPayload
	err      error
}

func (r *recordingWebhook) SendTransactionCommitted(_ context.Context, payload webhook.TransactionCommittedPayload) error {
	r.payloads = append(r.payloads, payload)
	return r.err
}

var errStoreDown = errors.New("connection refused")

func kopi(stock int) repository.Product {
	return repository.Product{
		ProductID:  1,
		MerchantID: 1,
		Name:       "Kopi",
		Price:      decimal.NewFromInt(5000),
		Stock:      stock,
		Active:     true,
	}
}

func teh(stock int) repository.Product {
	return repository.Product{
		ProductID:  2,
		MerchantID: 1,
		Name:       "Teh Manis",
		Price:      decimal.NewFromInt(3000),
		Stock:      stock,
		Active:     true,
	}
}

func saleOf(items ...domain.DraftItem) domain.ConfirmRequest {
	return domain.ConfirmRequest{Draft: domain.Draft{
		MerchantID:      1,
		TransactionType: domain.TransactionTypeSale,
		Transcript:      "beli kopi dua",
		Items:           items,
	}}
}

func item(productID int64, quantity int, unitPrice int64) domain.DraftItem {
	return domain.DraftItem{ProductID: productID, Quantity: quantity, UnitPrice: decimal.NewFromInt(unitPrice)}
}
