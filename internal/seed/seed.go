package seed

import (
	"context"
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

type productWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// Apply upserts the reference catalog. It is idempotent.
func Apply(ctx context.Context, products productWriter) (int, error) {
	items := catalog.Default()
	for _, p := range items {
		if _, err := products.Upsert(ctx, p); err != nil {
			return 0, fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	return len(items), nil
}
