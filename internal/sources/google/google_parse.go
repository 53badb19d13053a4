package google

import (
	"fmt"
	"strconv"
	"strings"

	"txstats/internal/core"
	"txstats/internal/sources"
)

// Accepted header spellings per column, matched case-insensitively.
var headerAliases = map[string][]string{
	"dateOfSale":         {"dateOfSale", "date", "date of sale"},
	"productTitle":       {"productTitle", "title", "product"},
	"productDescription": {"productDescription", "description"},
	"price":              {"price", "amount"},
	"category":           {"category"},
}

// parseTransactions converts a values matrix into transactions using the
// header row to locate columns. Blank rows are skipped.
func parseTransactions(values [][]interface{}) ([]core.Transaction, error) {
	if len(values) == 0 {
		return []core.Transaction{}, nil
	}

	headers := toStrings(values[0])
	cols := map[string]int{}
	var missing []string
	for field, aliases := range headerAliases {
		idx := -1
		for _, a := range aliases {
			if idx = indexOf(headers, a); idx != -1 {
				break
			}
		}
		if idx == -1 && (field == "dateOfSale" || field == "price") {
			missing = append(missing, field)
		}
		cols[field] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: sheet header missing %s; got headers=%v",
			sources.ErrMalformedPayload, strings.Join(missing, ","), headers)
	}

	out := make([]core.Transaction, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}

		price, err := parsePrice(safeGet(row, cols["price"]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", sources.ErrMalformedPayload, i+1, err)
		}

		out = append(out, core.Transaction{
			DateOfSale:         safeGet(row, cols["dateOfSale"]),
			ProductTitle:       safeGet(row, cols["productTitle"]),
			ProductDescription: safeGet(row, cols["productDescription"]),
			Price:              price,
			Category:           safeGet(row, cols["category"]),
		})
	}
	return out, nil
}

// parsePrice returns nil for an empty cell. A decimal comma is accepted.
func parsePrice(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", s)
	}
	return &f, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(v, target) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
