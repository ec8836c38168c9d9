package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/foxseedlab/kasirsuara/internal/repository"
	"github.com/shopspring/decimal"
)

func TestResolve_ReturnsOnlyActiveProductsOfMerchant(t *testing.T) {
	inactive := teh(3)
	inactive.Active = false
	other := repository.Product{ProductID: 9, MerchantID: 2, Name: "Roti", Price: decimal.NewFromInt(8000), Active: true}
	store := newMemoryStore(kopi(10), inactive, other)

	catalog, err := NewCatalogResolver(store).Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(catalog) != 1 {
		t.Fatalf("expected one entry, got %d: %+v", len(catalog), catalog)
	}
	got := catalog[0]
	if got.ProductID != 1 || got.Name != "Kopi" || !got.Price.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestResolve_EmptyCatalogIsNotAnError(t *testing.T) {
	catalog, err := NewCatalogResolver(newMemoryStore()).Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if catalog == nil || len(catalog) != 0 {
		t.Fatalf("expected empty non-nil catalog, got %#v", catalog)
	}
}

func TestResolve_StoreFailureIsDataAccess(t *testing.T) {
	store := newMemoryStore()
	store.listErr = errStoreDown

	_, err := NewCatalogResolver(store).Resolve(context.Background(), 1)
	if !errors.Is(err, ErrDataAccess) {
		t.Fatalf("expected ErrDataAccess, got %v", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected underlying error to be kept, got %v", err)
	}
	if store.listCalls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", store.listCalls)
	}
}

func TestResolve_IdempotentRead(t *testing.T) {
	store := newMemoryStore(kopi(10), teh(4))
	resolver := NewCatalogResolver(store)

	first, err := resolver.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	second, err := resolver.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("catalog changed between reads: %+v vs %+v", first, second)
	}
}
