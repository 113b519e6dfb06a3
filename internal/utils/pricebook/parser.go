// Package pricebook parses the tab-separated product catalog file used to
// seed the products table on startup.
package pricebook

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sdejesus/pos_register_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ParseFile reads a TSV pricebook from disk. Each line is upc, name, price
// separated by tabs. Lines with fewer than three columns or an unparseable
// price are skipped; later lines win on duplicate UPCs.
func ParseFile(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pricebook %s: %w", path, err)
	}
	defer f.Close()

	return parse(bufio.NewScanner(f))
}

func parse(scanner *bufio.Scanner) ([]domain.Product, error) {
	var products []domain.Product
	index := make(map[string]int)

	for scanner.Scan() {
		columns := strings.Split(scanner.Text(), "\t")
		if len(columns) < 3 {
			continue
		}

		upc := strings.TrimSpace(columns[0])
		name := strings.TrimSpace(columns[1])
		price, err := decimal.NewFromString(strings.TrimSpace(columns[2]))
		if err != nil || upc == "" {
			continue
		}

		product := domain.Product{Code: upc, Name: name, UnitPrice: price}
		if i, ok := index[upc]; ok {
			products[i] = product
			continue
		}
		index[upc] = len(products)
		products = append(products, product)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pricebook: %w", err)
	}

	return products, nil
}
