package core

import (
	"errors"
	"math"
	"strings"
)

type (
	// Transaction is a single sale row as stored and served.
	// Price is nil when the item has no recorded price ("not sold").
	Transaction struct {
		ID                 int64    `json:"id"`
		DateOfSale         string   `json:"dateOfSale"`
		ProductTitle       string   `json:"productTitle"`
		ProductDescription string   `json:"productDescription"`
		Price              *float64 `json:"price"`
		Category           string   `json:"category"`
	}

	// ListParams selects one page of the month-filtered listing.
	ListParams struct {
		Month   Month
		Page    int
		PerPage int
		Search  string
	}
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

var (
	ErrEmptyDataset = errors.New("dataset is empty")
	ErrMissingDate  = errors.New("missing dateOfSale")
)

// Validate reports whether the row can be loaded. Only the sale date is
// required: without it the row can never match a month filter.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.DateOfSale) == "" {
		return ErrMissingDate
	}
	return nil
}

// HasPrice reports whether the transaction carries a price.
func (t Transaction) HasPrice() bool {
	return t.Price != nil
}

// Normalize applies defaults to out-of-range paging values.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	return p
}

// Offset returns the row offset of the requested page. Pages whose offset
// does not fit in an int saturate at math.MaxInt, past any stored row.
func (p ListParams) Offset() int {
	n := p.Normalize()
	if n.Page-1 > math.MaxInt/n.PerPage {
		return math.MaxInt
	}
	return (n.Page - 1) * n.PerPage
}

// Float64 returns a pointer to v, handy for building priced rows.
func Float64(v float64) *float64 {
	return &v
}
