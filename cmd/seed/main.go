package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/CAHEKA/servisRest/pkg/config"
	"github.com/CAHEKA/servisRest/pkg/db"
	"github.com/CAHEKA/servisRest/pkg/db/models"
	"github.com/CAHEKA/servisRest/pkg/enums"
	"github.com/CAHEKA/servisRest/pkg/logger"
)

func ptr(s string) *string { return &s }

// sampleCatalog is the demo product set used for local development.
func sampleCatalog() []models.Product {
	return []models.Product{
		{
			Name:           "HP Pavilion Laptop",
			Category:       ptr("electronics"),
			Price:          decimal.RequireFromString("599.99"),
			DiscountType:   enums.DiscountTypePercentage,
			DiscountAmount: decimal.RequireFromString("10"),
			IsActive:       true,
		},
		{
			Name:         "Adidas T-shirt",
			Category:     ptr("apparel"),
			Price:        decimal.RequireFromString("29.99"),
			DiscountType: enums.DiscountTypeNone,
			IsActive:     true,
		},
		{
			Name:           "Samsung Galaxy Smartphone",
			Category:       ptr("electronics"),
			Price:          decimal.RequireFromString("799.99"),
			DiscountType:   enums.DiscountTypeFixed,
			DiscountAmount: decimal.RequireFromString("50"),
			IsActive:       true,
		},
		{
			Name:           "Levi's Jeans",
			Category:       ptr("apparel"),
			Price:          decimal.RequireFromString("69.99"),
			DiscountType:   enums.DiscountTypePercentage,
			DiscountAmount: decimal.RequireFromString("20"),
			IsActive:       true,
		},
	}
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.App.IsProd() {
		fmt.Fprintln(os.Stderr, "refusing to seed a production database")
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	seeded := 0
	for _, product := range sampleCatalog() {
		// re-running the seeder must not duplicate rows
		res := dbClient.DB().WithContext(ctx).
			Where(models.Product{Name: product.Name}).
			Attrs(product).
			FirstOrCreate(&models.Product{})
		if res.Error != nil {
			logg.Error(ctx, fmt.Sprintf("failed to seed product %q", product.Name), res.Error)
			os.Exit(1)
		}
		seeded += int(res.RowsAffected)
	}

	logg.Info(logg.WithField(ctx, "created", seeded), "sample catalog seeded")

	// keep demo carts consistent with the catalog
	if err := pruneOrphanCartItems(ctx, dbClient.DB()); err != nil {
		logg.Error(ctx, "failed to prune orphan cart items", err)
		os.Exit(1)
	}
}

// pruneOrphanCartItems drops cart rows that point at products deleted by hand
// during local development.
func pruneOrphanCartItems(ctx context.Context, gdb *gorm.DB) error {
	return gdb.WithContext(ctx).
		Where("product_id NOT IN (?)", gdb.Model(&models.Product{}).Select("id")).
		Delete(&models.CartItem{}).Error
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
