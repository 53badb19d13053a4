package storage

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"txstats/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func januaryFixture() []core.Transaction {
	return []core.Transaction{
		{DateOfSale: "2022-01-05T10:00:00+05:30", ProductTitle: "Cotton Shirt", ProductDescription: "plain", Price: core.Float64(50), Category: "A"},
		{DateOfSale: "2022-01-12T10:00:00+05:30", ProductTitle: "Gift Card", ProductDescription: "no charge", Price: nil, Category: "A"},
		{DateOfSale: "2022-01-20T10:00:00+05:30", ProductTitle: "Backpack", ProductDescription: "fits laptop", Price: core.Float64(250), Category: "B"},
		{DateOfSale: "2022-02-14T10:00:00+05:30", ProductTitle: "Ring", ProductDescription: "gold", Price: core.Float64(999), Category: "jewelery"},
	}
}

func TestReplaceAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for run := 1; run <= 2; run++ {
		n, err := repo.ReplaceAll(ctx, januaryFixture())
		if err != nil {
			t.Fatalf("run %d: ReplaceAll() error = %v", run, err)
		}
		if n != 4 {
			t.Fatalf("run %d: inserted = %d, want 4", run, n)
		}

		total, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if total != 4 {
			t.Fatalf("run %d: Count() = %d, want 4", run, total)
		}

		rows, err := repo.ListTransactions(ctx, core.ListParams{Month: "01", PerPage: 10})
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(rows) != 3 || rows[0].ID != 1 || rows[2].ID != 3 {
			t.Fatalf("run %d: unexpected ids %+v", run, rows)
		}
	}
}

func TestReplaceAllRollsBackOnCancel(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.ReplaceAll(context.Background(), januaryFixture()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.ReplaceAll(ctx, januaryFixture()[:1]); err == nil {
		t.Fatal("ReplaceAll() with cancelled context should fail")
	}

	total, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if total != 4 {
		t.Errorf("Count() after failed load = %d, want 4 (previous dataset)", total)
	}
}

func TestAggregates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if _, err := repo.ReplaceAll(ctx, januaryFixture()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sum, err := repo.SumPrice(ctx, "01")
	if err != nil || sum != 300 {
		t.Errorf("SumPrice() = %v, %v; want 300", sum, err)
	}
	all, err := repo.CountAll(ctx, "01")
	if err != nil || all != 3 {
		t.Errorf("CountAll() = %v, %v; want 3", all, err)
	}
	unpriced, err := repo.CountUnpriced(ctx, "01")
	if err != nil || unpriced != 1 {
		t.Errorf("CountUnpriced() = %v, %v; want 1", unpriced, err)
	}

	empty, err := repo.SumPrice(ctx, "07")
	if err != nil || empty != 0 {
		t.Errorf("SumPrice(07) = %v, %v; want 0", empty, err)
	}

	buckets := core.PriceBuckets()
	want := []int64{1, 0, 1, 0, 0, 0, 0, 0, 0, 0}
	for i := range buckets {
		n, err := repo.CountInBucket(ctx, "01", buckets, i)
		if err != nil {
			t.Fatalf("CountInBucket(%d) error = %v", i, err)
		}
		if n != want[i] {
			t.Errorf("bucket %s = %d, want %d", buckets[i].Label(), n, want[i])
		}
	}

	cats, err := repo.CountByCategory(ctx, "01")
	if err != nil {
		t.Fatalf("CountByCategory() error = %v", err)
	}
	if len(cats) != 2 || cats[0] != (core.CategoryCount{Category: "A", Count: 2}) || cats[1] != (core.CategoryCount{Category: "B", Count: 1}) {
		t.Errorf("CountByCategory() = %+v", cats)
	}
}

func TestListTransactionsSearch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if _, err := repo.ReplaceAll(ctx, januaryFixture()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"title", "shirt", 1},
		{"description", "LAPTOP", 1},
		{"price as text", "25", 1},
		{"no match", "zzz", 0},
		{"other month only", "gold", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := repo.ListTransactions(ctx, core.ListParams{Month: "01", Search: tt.search})
			if err != nil {
				t.Fatalf("ListTransactions() error = %v", err)
			}
			if len(rows) != tt.want {
				t.Errorf("len = %d, want %d (%+v)", len(rows), tt.want, rows)
			}
		})
	}
}

func TestListTransactionsPagination(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	var rows []core.Transaction
	for i := 0; i < 23; i++ {
		rows = append(rows, core.Transaction{DateOfSale: "2022-03-10T10:00:00+05:30", ProductTitle: "item", Price: core.Float64(float64(i)), Category: "c"})
	}
	if _, err := repo.ReplaceAll(ctx, rows); err != nil {
		t.Fatalf("seed: %v", err)
	}

	seen := map[int64]bool{}
	for page := 1; page <= 3; page++ {
		got, err := repo.ListTransactions(ctx, core.ListParams{Month: "03", Page: page, PerPage: 10})
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if len(got) > 10 {
			t.Fatalf("page %d has %d rows", page, len(got))
		}
		for _, r := range got {
			if seen[r.ID] {
				t.Fatalf("duplicate id %d", r.ID)
			}
			seen[r.ID] = true
		}
	}
	if len(seen) != 23 {
		t.Errorf("pages covered %d rows, want 23", len(seen))
	}

	beyond, err := repo.ListTransactions(ctx, core.ListParams{Month: "03", Page: math.MaxInt/2 + 1, PerPage: 4})
	if err != nil {
		t.Fatalf("page beyond int range: %v", err)
	}
	if len(beyond) != 0 {
		t.Errorf("page beyond int range returned %d rows, want 0", len(beyond))
	}

	missing, err := repo.ListTransactions(ctx, core.ListParams{Month: ""})
	if err != nil {
		t.Fatalf("missing month: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("missing month returned %d rows, want 0", len(missing))
	}
}
