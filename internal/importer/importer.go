package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV files and inserts/updates products.
//
// Expected header: id,name,description,price,image,category,inStock. Column
// order is free; price is a decimal amount such as 12.99 and a blank inStock
// means in stock.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

var requiredColumns = []string{"id", "name", "price"}

// Run parses every row and upserts it. It stops at the first invalid row and
// returns how many products were written before it.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			line, _ := i.reader.FieldPos(0)
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.ID, err)
		}
		imported++
	}
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	id := pick(record, index, "id")
	name := pick(record, index, "name")
	priceStr := pick(record, index, "price")
	if id == "" || name == "" || priceStr == "" {
		return domain.Product{}, errors.New("invalid product row (missing id, name or price)")
	}

	price, err := decimal.NewFromString(strings.TrimPrefix(priceStr, "$"))
	if err != nil || price.IsNegative() {
		return domain.Product{}, fmt.Errorf("invalid price %q for product %q", priceStr, id)
	}

	inStock := true
	if v := pick(record, index, "inStock"); v != "" {
		inStock, err = strconv.ParseBool(v)
		if err != nil {
			return domain.Product{}, fmt.Errorf("invalid inStock %q for product %q", v, id)
		}
	}

	return domain.Product{
		ID:          id,
		Name:        name,
		Description: pick(record, index, "description"),
		PriceCents:  pricing.ToCents(price),
		Image:       pick(record, index, "image"),
		Category:    pick(record, index, "category"),
		InStock:     inStock,
	}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
