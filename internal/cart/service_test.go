package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/petitmarche/backend/internal/catalog"
	"github.com/petitmarche/backend/pkg/db/models"
	pkgerrors "github.com/petitmarche/backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	svc       Service
	db        *gorm.DB
	userID    uuid.UUID
	product   models.Product
	variant   models.ProductVariant
	simple    models.Product
	inactives models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	category := models.Category{ID: uuid.New(), Name: "Fromages", Slug: "fromages"}
	require.NoError(t, db.Create(&category).Error)

	product := models.Product{
		ID:         uuid.New(),
		CategoryID: category.ID,
		Name:       "Comte",
		Slug:       "comte",
		BasePrice:  dec("24.00"),
		IsActive:   true,
	}
	require.NoError(t, db.Create(&product).Error)

	variant := models.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "250g",
		Price:     decPtr("8.50"),
		Stock:     10,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&variant).Error)

	simple := models.Product{
		ID:         uuid.New(),
		CategoryID: category.ID,
		Name:       "Baguette",
		Slug:       "baguette",
		BasePrice:  dec("1.20"),
		IsActive:   true,
	}
	require.NoError(t, db.Create(&simple).Error)

	inactive := models.Product{
		ID:         uuid.New(),
		CategoryID: category.ID,
		Name:       "Discontinued",
		Slug:       "discontinued",
		BasePrice:  dec("9.99"),
		IsActive:   false,
	}
	require.NoError(t, db.Create(&inactive).Error)
	// gorm's default:true tag drops the zero-value false on Create
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", inactive.ID).
		Update("is_active", false).Error)

	svc, err := NewService(NewRepository(db), catalog.NewRepository(db))
	require.NoError(t, err)

	return &fixture{
		svc:       svc,
		db:        db,
		userID:    uuid.New(),
		product:   product,
		variant:   variant,
		simple:    simple,
		inactives: inactive,
	}
}

func TestFetchCreatesCartOnFirstUse(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.svc.Fetch(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, f.userID, cart.UserID)
	assert.Empty(t, cart.Items)

	again, err := f.svc.Fetch(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddItemCapturesPriceAtAddTime(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.svc.AddItem(ctx, AddItemInput{
		UserID:    f.userID,
		ProductID: f.product.ID,
		VariantID: &f.variant.ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].Price.Equal(dec("8.50")))

	// later price changes must not affect the staged line
	require.NoError(t, f.db.Model(&models.ProductVariant{}).
		Where("id = ?", f.variant.ID).
		Update("price", dec("99.00")).Error)

	cart, err = f.svc.Fetch(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, cart.Items[0].Price.Equal(dec("8.50")))
}

func TestAddItemMergesDuplicateLines(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	input := AddItemInput{UserID: f.userID, ProductID: f.product.ID, VariantID: &f.variant.ID, Quantity: 1}
	_, err := f.svc.AddItem(ctx, input)
	require.NoError(t, err)

	input.Quantity = 3
	cart, err := f.svc.AddItem(ctx, input)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestAddItemRequiresVariantWhenProductHasThem(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.AddItem(context.Background(), AddItemInput{
		UserID:    f.userID,
		ProductID: f.product.ID,
		Quantity:  1,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestAddItemVariantlessProductUsesBasePrice(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	cart, err := f.svc.AddItem(context.Background(), AddItemInput{
		UserID:    f.userID,
		ProductID: f.simple.ID,
		Quantity:  5,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].Price.Equal(dec("1.20")))
	assert.Nil(t, cart.Items[0].VariantID)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.AddItem(context.Background(), AddItemInput{
		UserID:    f.userID,
		ProductID: f.inactives.ID,
		Quantity:  1,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeProductGone))
}

func TestUpdateAndRemoveItem(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.svc.AddItem(ctx, AddItemInput{UserID: f.userID, ProductID: f.simple.ID, Quantity: 1})
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = f.svc.UpdateItemQuantity(ctx, f.userID, itemID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	_, err = f.svc.UpdateItemQuantity(ctx, f.userID, itemID, 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	cart, err = f.svc.RemoveItem(ctx, f.userID, itemID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = f.svc.RemoveItem(ctx, f.userID, uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
