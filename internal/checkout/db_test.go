//go:build db
// +build db

package checkout

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/CAHEKA/servisRest/internal/cart"
	"github.com/CAHEKA/servisRest/internal/orders"
	"github.com/CAHEKA/servisRest/internal/products"
	"github.com/CAHEKA/servisRest/internal/users"
	"github.com/CAHEKA/servisRest/pkg/db/models"
	"github.com/CAHEKA/servisRest/pkg/enums"
	pkgerrors "github.com/CAHEKA/servisRest/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("SERVISREST_DB_DSN")
	if dsn == "" {
		t.Skip("SERVISREST_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))
	require.NoError(t, conn.Exec("CREATE SEQUENCE IF NOT EXISTS order_number_seq").Error)
	return conn
}

func TestCheckout_ConcurrentCheckoutsSerializeOnCartLock(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tx := gormTxRunner{db: db}
	cartRepo := cart.NewRepository(db)
	productRepo := products.NewRepository(db)
	orderRepo := orders.NewRepository(db)
	userRepo := users.NewRepository(db)

	cartSvc, err := cart.NewService(cartRepo, productRepo, tx)
	require.NoError(t, err)
	checkoutSvc, err := NewService(cartRepo, productRepo, orderRepo, userRepo, tx)
	require.NoError(t, err)

	user, err := userRepo.Create(ctx, &models.User{
		Username:     "race_buyer_" + uuid.NewString(),
		PasswordHash: "irrelevant",
		IsActive:     true,
	})
	require.NoError(t, err)

	product, err := productRepo.Create(ctx, &models.Product{
		Name:         "Adidas T-shirt " + uuid.NewString(),
		Price:        decimal.RequireFromString("29.99"),
		DiscountType: enums.DiscountTypeNone,
		IsActive:     true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Exec("DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE user_id = ?)", user.ID)
		db.Exec("DELETE FROM orders WHERE user_id = ?", user.ID)
		db.Exec("DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id = ?)", user.ID)
		db.Exec("DELETE FROM carts WHERE user_id = ?", user.ID)
		db.Exec("DELETE FROM products WHERE id = ?", product.ID)
		db.Exec("DELETE FROM users WHERE id = ?", user.ID)
	})

	_, err = cartSvc.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	// both transactions contend for the same cart row; the loser blocks on
	// the lock until the winner commits and must then find the cart drained
	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = checkoutSvc.Checkout(ctx, user.ID)
		}(i)
	}
	close(start)
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		rejected++
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "unexpected error: %v", err)
		assert.Contains(t, err.Error(), "cart is empty")
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orderCount).Error)
	assert.Equal(t, int64(1), orderCount)

	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).
		Where("cart_id IN (SELECT id FROM carts WHERE user_id = ?)", user.ID).
		Count(&itemCount).Error)
	assert.Equal(t, int64(0), itemCount)
}
