package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petitmarche/backend/pkg/config"
	"github.com/petitmarche/backend/pkg/db"
	"github.com/petitmarche/backend/pkg/db/models"
	"github.com/petitmarche/backend/pkg/enums"
	"github.com/petitmarche/backend/pkg/logger"
	"github.com/petitmarche/backend/pkg/security"
)

// Seeds the demo catalog and accounts for local development. Refuses to
// run in prod.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed a prod database", nil)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	err = dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		users, err := seedUsers(tx, cfg.Password)
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		if err := seedAddresses(tx, users); err != nil {
			return fmt.Errorf("seed addresses: %w", err)
		}
		if err := seedCatalog(tx); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		return nil
	})
	if err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "seed complete")
	fmt.Println("demo accounts:")
	fmt.Println("  admin@petitmarche.fr / admin123")
	fmt.Println("  claire@example.com   / password123")
	fmt.Println("  marc@example.com     / password123")
}

type demoUser struct {
	email     string
	password  string
	firstName string
	lastName  string
	role      enums.UserRole
}

func seedUsers(tx *gorm.DB, pwCfg config.PasswordConfig) (map[string]uuid.UUID, error) {
	demo := []demoUser{
		{"admin@petitmarche.fr", "admin123", "Admin", "PetitMarche", enums.UserRoleAdmin},
		{"claire@example.com", "password123", "Claire", "Moreau", enums.UserRoleCustomer},
		{"marc@example.com", "password123", "Marc", "Dubois", enums.UserRoleCustomer},
	}

	ids := map[string]uuid.UUID{}
	for _, d := range demo {
		hash, err := security.HashPassword(d.password, pwCfg)
		if err != nil {
			return nil, err
		}
		user := models.User{
			ID:           uuid.New(),
			Email:        d.email,
			PasswordHash: hash,
			FirstName:    d.firstName,
			LastName:     d.lastName,
			Role:         d.role,
			IsActive:     true,
		}
		if err := tx.Where("email = ?", d.email).FirstOrCreate(&user).Error; err != nil {
			return nil, err
		}
		ids[d.email] = user.ID
	}
	return ids, nil
}

func seedAddresses(tx *gorm.DB, users map[string]uuid.UUID) error {
	addresses := []models.Address{
		{
			ID:         uuid.New(),
			UserID:     users["claire@example.com"],
			Type:       enums.AddressTypeShipping,
			FirstName:  "Claire",
			LastName:   "Moreau",
			Line1:      "12 rue de la Paix",
			City:       "Lyon",
			State:      "Rhone",
			PostalCode: "69001",
			Country:    "France",
			IsDefault:  true,
		},
		{
			ID:         uuid.New(),
			UserID:     users["marc@example.com"],
			Type:       enums.AddressTypeShipping,
			FirstName:  "Marc",
			LastName:   "Dubois",
			Line1:      "8 avenue des Champs",
			City:       "Paris",
			State:      "Ile-de-France",
			PostalCode: "75008",
			Country:    "France",
			IsDefault:  true,
		},
	}
	for i := range addresses {
		addr := addresses[i]
		err := tx.Where("user_id = ? AND line1 = ?", addr.UserID, addr.Line1).FirstOrCreate(&addr).Error
		if err != nil {
			return err
		}
	}
	return nil
}

type demoProduct struct {
	name      string
	slug      string
	desc      string
	sku       string
	basePrice string
	salePrice string
	category  string
	featured  bool
	images    []string
	tags      []string
	variants  []demoVariant
}

type demoVariant struct {
	name       string
	sku        string
	stock      int
	attributes string
}

func seedCatalog(tx *gorm.DB) error {
	categories := map[string]string{
		"Électronique": "electronique",
		"Vêtements":    "vetements",
		"Maison":       "maison",
		"Sport":        "sport",
		"Livres":       "livres",
	}
	categoryIDs := map[string]uuid.UUID{}
	for name, slug := range categories {
		cat := models.Category{ID: uuid.New(), Name: name, Slug: slug}
		if err := tx.Where("slug = ?", slug).FirstOrCreate(&cat).Error; err != nil {
			return err
		}
		categoryIDs[name] = cat.ID
	}

	products := []demoProduct{
		{
			name: "Samsung Galaxy S24", slug: "samsung-galaxy-s24",
			desc: "Le dernier smartphone Samsung avec IA intégrée",
			sku:  "SGS24", basePrice: "899.00", salePrice: "799.00",
			category: "Électronique", featured: true,
			images: []string{"https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=500"},
			tags:   []string{"smartphone", "samsung", "android"},
			variants: []demoVariant{
				{name: "128 Go", sku: "SGS24-128", stock: 25, attributes: `{"storage":"128GB"}`},
				{name: "256 Go", sku: "SGS24-256", stock: 15, attributes: `{"storage":"256GB"}`},
			},
		},
		{
			name: "iPad Air M2", slug: "ipad-air-m2",
			desc: "Tablette Apple avec puce M2 et écran Liquid Retina",
			sku:  "IPA-M2", basePrice: "699.00",
			category: "Électronique", featured: true,
			images: []string{"https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?w=500"},
			tags:   []string{"tablette", "apple", "m2"},
			variants: []demoVariant{
				{name: "Wi-Fi", sku: "IPA-M2-WIFI", stock: 30, attributes: `{"connectivity":"wifi"}`},
				{name: "Wi-Fi + Cellular", sku: "IPA-M2-CELL", stock: 10, attributes: `{"connectivity":"cellular"}`},
			},
		},
		{
			name: "AirPods Pro 2", slug: "airpods-pro-2",
			desc: "Écouteurs sans fil avec réduction de bruit active",
			sku:  "APP2", basePrice: "279.00", salePrice: "249.00",
			category: "Électronique",
			images:   []string{"https://images.unsplash.com/photo-1606220945770-b5b6c2c55bf1?w=500"},
			tags:     []string{"ecouteurs", "apple", "wireless"},
		},
		{
			name: "Jeans Premium", slug: "jeans-premium",
			desc: "Jeans en denim bio de qualité supérieure",
			sku:  "JEAN-PREM", basePrice: "79.99", salePrice: "59.99",
			category: "Vêtements",
			images:   []string{"https://images.unsplash.com/photo-1542272604-787c3835535d?w=500"},
			tags:     []string{"vetement", "jeans", "denim"},
			variants: []demoVariant{
				{name: "Taille 38", sku: "JEAN-PREM-38", stock: 12, attributes: `{"size":"38"}`},
				{name: "Taille 40", sku: "JEAN-PREM-40", stock: 18, attributes: `{"size":"40"}`},
				{name: "Taille 42", sku: "JEAN-PREM-42", stock: 9, attributes: `{"size":"42"}`},
			},
		},
		{
			name: "Sweat à Capuche", slug: "sweat-capuche",
			desc: "Sweat-shirt confortable en coton bio",
			sku:  "SWEAT-HOOD", basePrice: "49.99",
			category: "Vêtements",
			images:   []string{"https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=500"},
			tags:     []string{"vetement", "sweat", "confort"},
		},
		{
			name: "Canapé 3 Places", slug: "canape-3-places",
			desc: "Canapé moderne et confortable pour votre salon",
			sku:  "CANAPE-3P", basePrice: "899.99", salePrice: "749.99",
			category: "Maison", featured: true,
			images: []string{"https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=500"},
			tags:   []string{"mobilier", "canape", "salon"},
		},
		{
			name: "Vélo de Route", slug: "velo-route",
			desc: "Vélo de route professionnel, carbone",
			sku:  "VELO-ROUTE", basePrice: "1299.99", salePrice: "1099.99",
			category: "Sport", featured: true,
			images: []string{"https://images.unsplash.com/photo-1571068316344-75bc76f77890?w=500&h=500&fit=crop"},
			tags:   []string{"sport", "velo", "route"},
			variants: []demoVariant{
				{name: "Cadre M", sku: "VELO-ROUTE-M", stock: 4, attributes: `{"frame":"M"}`},
				{name: "Cadre L", sku: "VELO-ROUTE-L", stock: 3, attributes: `{"frame":"L"}`},
			},
		},
		{
			name: "Roman Policier", slug: "roman-policier",
			desc: "Roman policier captivant de l'auteur à succès",
			sku:  "ROMAN-POL", basePrice: "16.99", salePrice: "12.99",
			category: "Livres",
			images:   []string{"https://images.unsplash.com/photo-1481627834876-b7833e8f5570?w=500"},
			tags:     []string{"livre", "roman", "policier"},
		},
	}

	for _, p := range products {
		sku := p.sku
		desc := p.desc
		product := models.Product{
			ID:          uuid.New(),
			CategoryID:  categoryIDs[p.category],
			Name:        p.name,
			Slug:        p.slug,
			Description: &desc,
			SKU:         &sku,
			BasePrice:   decimal.RequireFromString(p.basePrice),
			Images:      pq.StringArray(p.images),
			Tags:        pq.StringArray(p.tags),
			IsActive:    true,
			IsFeatured:  p.featured,
		}
		if p.salePrice != "" {
			sale := decimal.RequireFromString(p.salePrice)
			product.SalePrice = &sale
		}
		if err := tx.Where("slug = ?", p.slug).FirstOrCreate(&product).Error; err != nil {
			return err
		}

		for i, v := range p.variants {
			vsku := v.sku
			variant := models.ProductVariant{
				ID:         uuid.New(),
				ProductID:  product.ID,
				Name:       v.name,
				SKU:        &vsku,
				Stock:      v.stock,
				Attributes: json.RawMessage(v.attributes),
				IsActive:   true,
				SortOrder:  i,
			}
			if err := tx.Where("sku = ?", v.sku).FirstOrCreate(&variant).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
