package pipeline

import (
	"context"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/foxseedlab/kasirsuara/internal/repository"
)

type CatalogResolver struct {
	repo repository.CatalogRepository
}

func NewCatalogResolver(repo repository.CatalogRepository) *CatalogResolver {
	return &CatalogResolver{repo: repo}
}

// Resolve returns the merchant's active products. An empty catalog is
// returned as an empty, non-nil slice.
func (r *CatalogResolver) Resolve(ctx context.Context, merchantID int64) ([]domain.CatalogEntry, error) {
	products, err := r.repo.ListActiveProducts(ctx, merchantID)
	if err != nil {
		return nil, dataAccess("list active products", err)
	}
	catalog := make([]domain.CatalogEntry, 0, len(products))
	for _, p := range products {
		if !p.Active {
			continue
		}
		catalog = append(catalog, domain.CatalogEntry{
			ProductID: p.ProductID,
			Name:      p.Name,
			Price:     p.Price,
		})
	}
	return catalog, nil
}
