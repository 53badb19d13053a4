package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestListParamsNormalize(t *testing.T) {
	tests := []struct {
		name        string
		in          ListParams
		wantPage    int
		wantPerPage int
		wantOffset  int
	}{
		{"defaults", ListParams{}, 1, 10, 0},
		{"negative", ListParams{Page: -2, PerPage: -5}, 1, 10, 0},
		{"page three", ListParams{Page: 3, PerPage: 10}, 3, 10, 20},
		{"custom size", ListParams{Page: 2, PerPage: 25}, 2, 25, 25},
		{"offset overflow", ListParams{Page: math.MaxInt/2 + 1, PerPage: 4}, math.MaxInt/2 + 1, 4, math.MaxInt},
		{"largest page", ListParams{Page: math.MaxInt, PerPage: math.MaxInt}, math.MaxInt, math.MaxInt, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got.Page != tt.wantPage || got.PerPage != tt.wantPerPage {
				t.Errorf("Normalize() = page %d perPage %d, want %d/%d", got.Page, got.PerPage, tt.wantPage, tt.wantPerPage)
			}
			if off := tt.in.Offset(); off != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", off, tt.wantOffset)
			}
		})
	}
}

func TestTransactionDecode(t *testing.T) {
	payload := `[
		{"id":1,"title":"x","productTitle":"Shirt","productDescription":"cotton","price":329.85,"category":"men's clothing","sold":false,"image":"u","dateOfSale":"2021-11-27T20:29:54+05:30"},
		{"productTitle":"Gift","productDescription":"","price":null,"category":"misc","dateOfSale":"2022-01-02T10:00:00+05:30"}
	]`

	var rows []Transaction
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if !rows[0].HasPrice() || *rows[0].Price != 329.85 {
		t.Errorf("row 0 price = %v", rows[0].Price)
	}
	if rows[1].HasPrice() {
		t.Errorf("row 1 should have no price")
	}
	for i, r := range rows {
		if err := r.Validate(); err != nil {
			t.Errorf("row %d Validate() = %v", i, err)
		}
	}
	if err := (Transaction{}).Validate(); err != ErrMissingDate {
		t.Errorf("empty Validate() = %v, want ErrMissingDate", err)
	}
}
