package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/petitmarche/backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.ProductVariant{}); err != nil {
		t.Fatalf("migrate catalog: %v", err)
	}
	return db
}

func seedVariant(t *testing.T, db *gorm.DB, stock int) models.ProductVariant {
	t.Helper()
	category := models.Category{ID: uuid.New(), Name: "Epicerie", Slug: "epicerie-" + uuid.NewString()}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	product := models.Product{
		ID:         uuid.New(),
		CategoryID: category.ID,
		Name:       "Olive Oil",
		Slug:       "olive-oil-" + uuid.NewString(),
		BasePrice:  dec("12.50"),
		IsActive:   true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	variant := models.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "500ml",
		Stock:     stock,
		IsActive:  true,
	}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	return variant
}

func TestDecrementStockGuard(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)
	variant := seedVariant(t, db, 5)

	ok, err := repo.DecrementStock(ctx, variant.ID, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !ok {
		t.Fatal("expected first decrement to succeed")
	}

	// only 2 left, asking for 3 must not touch the row
	ok, err = repo.DecrementStock(ctx, variant.ID, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("expected guard to reject over-decrement")
	}

	var got models.ProductVariant
	if err := db.First(&got, "id = ?", variant.ID).Error; err != nil {
		t.Fatalf("reload variant: %v", err)
	}
	if got.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", got.Stock)
	}
}

func TestIncrementStockRestores(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)
	variant := seedVariant(t, db, 1)

	if err := repo.IncrementStock(ctx, variant.ID, 4); err != nil {
		t.Fatalf("increment: %v", err)
	}

	var got models.ProductVariant
	if err := db.First(&got, "id = ?", variant.ID).Error; err != nil {
		t.Fatalf("reload variant: %v", err)
	}
	if got.Stock != 5 {
		t.Fatalf("expected stock 5, got %d", got.Stock)
	}
}

func TestFindProductByIDPreloadsVariants(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)
	variant := seedVariant(t, db, 3)

	product, err := repo.FindProductByID(ctx, variant.ProductID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if len(product.Variants) != 1 || product.Variants[0].ID != variant.ID {
		t.Fatalf("expected preloaded variant, got %+v", product.Variants)
	}

	if _, err := repo.FindProductByID(ctx, uuid.New()); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found, got %v", err)
	}
}
