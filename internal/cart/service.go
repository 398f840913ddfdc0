package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CAHEKA/servisRest/internal/pricing"
	"github.com/CAHEKA/servisRest/pkg/db/models"
	pkgerrors "github.com/CAHEKA/servisRest/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Service exposes cart mutation and read operations for a user.
type Service interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartSummaryDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartSummaryDTO, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*CartSummaryDTO, error)
}

type service struct {
	repo     *Repository
	products productLoader
	tx       txRunner
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, products productLoader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, products: products, tx: tx}, nil
}

// AddItem puts quantity units of a product into the user's cart. A missing
// quantity defaults to one unit; re-adding a product aggregates into the
// existing line. The cart is created lazily on first use.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartSummaryDTO, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.products.FindActiveByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		userCart, err := repo.FindByUserForUpdate(ctx, userID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := repo.EnsureForUser(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
			}
			userCart, err = repo.FindByUserForUpdate(ctx, userID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
			}
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		item, err := repo.FindItem(ctx, userCart.ID, productID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			_, err = repo.CreateItem(ctx, &models.CartItem{
				CartID:    userCart.ID,
				ProductID: productID,
				Quantity:  quantity,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
			}
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		default:
			if err := repo.UpdateItemQuantity(ctx, item.ID, item.Quantity+quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem takes one unit of a product out of the user's cart. The line
// item is decremented while more than one unit remains and deleted when the
// last unit is removed.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartSummaryDTO, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		userCart, err := repo.FindByUserForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		item, err := repo.FindItem(ctx, userCart.ID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		if item.Quantity > 1 {
			if err := repo.UpdateItemQuantity(ctx, item.ID, item.Quantity-1); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
			return nil
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// GetCart prices the user's cart. A user without a cart reads as an empty
// summary rather than an error.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartSummaryDTO, error) {
	userCart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return toSummaryDTO(pricing.SummarizeCart(nil)), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	summary, err := s.priceCart(ctx, userCart.ID)
	if err != nil {
		return nil, err
	}
	return toSummaryDTO(*summary), nil
}

// priceCart resolves every line item against the catalog and aggregates.
func (s *service) priceCart(ctx context.Context, cartID uuid.UUID) (*pricing.CartSummary, error) {
	items, err := s.repo.ListItems(ctx, cartID)
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
	productRows, err := s.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}
	byID := make(map[uuid.UUID]models.Product, len(productRows))
	for _, p := range productRows {
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
