// Package checkout turns a priced cart into a persisted order. The whole
// transition runs in one transaction with the cart row locked, so two
// concurrent checkouts of the same cart serialize and the loser finds an
// empty cart.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CAHEKA/servisRest/internal/cart"
	"github.com/CAHEKA/servisRest/internal/orders"
	"github.com/CAHEKA/servisRest/internal/pricing"
	"github.com/CAHEKA/servisRest/internal/products"
	"github.com/CAHEKA/servisRest/internal/users"
	"github.com/CAHEKA/servisRest/pkg/db/models"
	pkgerrors "github.com/CAHEKA/servisRest/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OrderReceipt is returned to the buyer after a successful checkout.
type OrderReceipt struct {
	OrderID     uuid.UUID          `json:"order_id"`
	OrderNumber int64              `json:"order_number"`
	Total       string             `json:"total"`
	Items       []cart.CartItemDTO `json:"items"`
}

// Service executes the cart to order transition.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*OrderReceipt, error)
}

type service struct {
	carts    *cart.Repository
	products *products.Repository
	orders   *orders.Repository
	users    *users.Repository
	tx       txRunner
}

// NewService wires the checkout orchestrator.
func NewService(carts *cart.Repository, productsRepo *products.Repository, ordersRepo *orders.Repository, usersRepo *users.Repository, tx txRunner) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		carts:    carts,
		products: productsRepo,
		orders:   ordersRepo,
		users:    usersRepo,
		tx:       tx,
	}, nil
}

// Checkout prices the user's cart, persists the order with per-line
// snapshots and clears the cart, all inside a single transaction.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*OrderReceipt, error) {
	var receipt *OrderReceipt

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		if _, err := s.users.WithTx(tx).FindByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}

		userCart, err := cartRepo.FindByUserForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		summary, err := s.priceCart(ctx, tx, userCart.ID)
		if err != nil {
			return err
		}
		if len(summary.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		number, err := orderRepo.NextOrderNumber(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}

		order, err := orderRepo.Create(ctx, &models.Order{
			OrderNumber:   number,
			UserID:        userID,
			TotalPrice:    summary.TotalPrice,
			TotalDiscount: summary.TotalDiscount,
			Total:         summary.TotalPriceWithDiscount,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		snapshots := make([]models.OrderItem, 0, len(summary.Items))
		items := make([]cart.CartItemDTO, 0, len(summary.Items))
		for _, line := range summary.Items {
			snapshots = append(snapshots, models.OrderItem{
				OrderID:      order.ID,
				ProductID:    line.ProductID,
				Name:         line.Name,
				Category:     line.Category,
				Quantity:     line.Quantity,
				UnitPrice:    line.UnitPrice,
				LineDiscount: line.LineDiscount,
				LineTotal:    line.LineTotal,
			})
			items = append(items, cart.CartItemDTO{
				ProductID:    line.ProductID,
				Name:         line.Name,
				Category:     line.Category,
				Quantity:     line.Quantity,
				UnitPrice:    line.UnitPrice.StringFixed(2),
				LineDiscount: line.LineDiscount.StringFixed(2),
				LineTotal:    line.LineTotal.StringFixed(2),
			})
		}
		if err := orderRepo.CreateItems(ctx, snapshots); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		if err := cartRepo.ClearItems(ctx, userCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		receipt = &OrderReceipt{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Total:       order.Total.StringFixed(2),
			Items:       items,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// priceCart resolves the locked cart's items inside the transaction.
func (s *service) priceCart(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) (*pricing.CartSummary, error) {
	items, err := s.carts.WithTx(tx).ListItems(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	if len(items) == 0 {
		summary := pricing.SummarizeCart(nil)
		return &summary, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	rows, err := s.products.WithTx(tx).ListByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}
	byID := make(map[uuid.UUID]models.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}

	lines := make([]pricing.PricedLine, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		line, err := pricing.ResolvePrice(product, item.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	summary := pricing.SummarizeCart(lines)
	return &summary, nil
}
