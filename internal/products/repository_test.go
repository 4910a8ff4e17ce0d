package products

import (
	"context"
	"testing"
	"time"

	"github.com/mritika-studio/storefront-backend/pkg/pagination"
)

func TestRepositoryProductCRUD(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := mustCreateTestCategory(t, conn, "planters")
	created := mustCreateTestProduct(t, conn, &category.ID)

	loaded, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if loaded.Slug != created.Slug {
		t.Fatalf("expected slug %s, got %s", created.Slug, loaded.Slug)
	}

	loaded.Name = "Terracotta Planter XL"
	if _, err := repo.UpdateProduct(ctx, loaded); err != nil {
		t.Fatalf("update product: %v", err)
	}

	detail, err := repo.GetProductDetail(ctx, created.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Name != "Terracotta Planter XL" {
		t.Fatalf("expected updated name, got %s", detail.Name)
	}
	if detail.Category == nil || detail.Category.ID != category.ID {
		t.Fatal("expected category preloaded")
	}

	if err := repo.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := repo.FindByID(ctx, created.ID); err == nil {
		t.Fatal("expected product gone after delete")
	}
}

func TestRepositoryFindBySlugSkipsInactive(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	active := mustCreateTestProduct(t, conn, nil)
	mustCreateTestVariant(t, conn, active.ID, decimalPtr("750"))

	inactiveVariant := mustCreateTestVariant(t, conn, active.ID, nil)
	inactiveVariant.IsActive = false
	if err := conn.Save(inactiveVariant).Error; err != nil {
		t.Fatalf("save variant: %v", err)
	}

	hidden := mustCreateTestProduct(t, conn, nil)
	hidden.IsActive = false
	if err := conn.Save(hidden).Error; err != nil {
		t.Fatalf("save product: %v", err)
	}

	loaded, err := repo.FindBySlug(ctx, active.Slug)
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if len(loaded.Variants) != 1 {
		t.Fatalf("expected only active variants, got %d", len(loaded.Variants))
	}

	if _, err := repo.FindBySlug(ctx, hidden.Slug); err == nil {
		t.Fatal("expected inactive product to be invisible by slug")
	}
}

func TestRepositoryListSummariesFiltersAndPages(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := mustCreateTestCategory(t, conn, "diyas")
	var slugs []string
	for i := 0; i < 3; i++ {
		p := mustCreateTestProduct(t, conn, &category.ID)
		slugs = append(slugs, p.Slug)
		// spread created_at so the keyset ordering is deterministic
		if err := conn.Model(p).Update("created_at", time.Now().Add(time.Duration(i)*time.Second)).Error; err != nil {
			t.Fatalf("update created_at: %v", err)
		}
	}

	hidden := mustCreateTestProduct(t, conn, &category.ID)
	hidden.IsActive = false
	if err := conn.Save(hidden).Error; err != nil {
		t.Fatalf("save product: %v", err)
	}

	page1, err := repo.ListSummaries(ctx, ListProductsInput{
		Pagination: pagination.Params{Limit: 2},
		Filters:    ProductListFilters{CategorySlug: &category.Slug},
	})
	if err != nil {
		t.Fatalf("list summaries: %v", err)
	}
	if len(page1.Products) != 2 {
		t.Fatalf("expected 2 products on first page, got %d", len(page1.Products))
	}
	if page1.NextCursor == "" {
		t.Fatal("expected next cursor on first page")
	}

	page2, err := repo.ListSummaries(ctx, ListProductsInput{
		Pagination: pagination.Params{Limit: 2, Cursor: page1.NextCursor},
		Filters:    ProductListFilters{CategorySlug: &category.Slug},
	})
	if err != nil {
		t.Fatalf("list summaries page 2: %v", err)
	}
	if len(page2.Products) != 1 {
		t.Fatalf("expected 1 product on second page, got %d", len(page2.Products))
	}
	if page2.NextCursor != "" {
		t.Fatalf("expected empty cursor at end, got %s", page2.NextCursor)
	}

	seen := map[string]bool{}
	for _, p := range append(page1.Products, page2.Products...) {
		seen[p.Slug] = true
	}
	for _, slug := range slugs {
		if !seen[slug] {
			t.Errorf("missing product %s in listing", slug)
		}
	}
	if seen[hidden.Slug] {
		t.Error("inactive product leaked into public listing")
	}
}

func TestRepositoryListSummariesSearch(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	match := mustCreateTestProduct(t, conn, nil)
	match.Name = "Handpainted Diya Set"
	if err := conn.Save(match).Error; err != nil {
		t.Fatalf("save product: %v", err)
	}
	mustCreateTestProduct(t, conn, nil)

	result, err := repo.ListSummaries(ctx, ListProductsInput{
		Pagination: pagination.Params{Limit: 10},
		Filters:    ProductListFilters{Query: "diya"},
	})
	if err != nil {
		t.Fatalf("list summaries: %v", err)
	}
	if len(result.Products) != 1 {
		t.Fatalf("expected 1 search hit, got %d", len(result.Products))
	}
	if result.Products[0].ID != match.ID {
		t.Fatal("search returned the wrong product")
	}
}
