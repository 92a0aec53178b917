// Package catalog holds the reference product list and the storefront's
// search and category filters.
package catalog

import (
	"strings"

	"storefront/internal/domain"
)

// AllCategories is the sentinel category that disables category filtering.
const AllCategories = "all"

// Query narrows a product listing.
type Query struct {
	Text     string
	Category string
}

// Filter returns the products whose name or description contains q.Text
// (case-insensitive) and whose category equals q.Category. An empty category
// or AllCategories matches everything. Input order is preserved.
func Filter(products []domain.Product, q Query) []domain.Product {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	category := strings.TrimSpace(q.Category)
	matchAny := category == "" || strings.EqualFold(category, AllCategories)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if text != "" &&
			!strings.Contains(strings.ToLower(p.Name), text) &&
			!strings.Contains(strings.ToLower(p.Description), text) {
			continue
		}
		if !matchAny && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
