package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/CAHEKA/servisRest/pkg/db/models"
	"github.com/CAHEKA/servisRest/pkg/enums"
	pkgerrors "github.com/CAHEKA/servisRest/pkg/errors"
)

// Service exposes catalog read and management operations.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
}

type service struct {
	repo *Repository
}

// NewService wires the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{repo: repo}, nil
}

// ListProducts returns all active catalog products.
func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

// GetProduct loads a single active product.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindActiveByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return toDTO(product), nil
}

// CreateProduct validates and inserts a catalog product.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	dt := input.DiscountType
	if dt == "" {
		dt = enums.DiscountTypeNone
	}
	if !dt.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown discount type %q", input.DiscountType))
	}
	if dt == enums.DiscountTypePercentage &&
		(input.DiscountAmount.IsNegative() || input.DiscountAmount.GreaterThan(decimal.NewFromInt(100))) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount must be within [0,100]")
	}
	if dt == enums.DiscountTypeFixed && input.DiscountAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fixed discount must not be negative")
	}

	product := &models.Product{
		Name:           input.Name,
		Category:       input.Category,
		Price:          input.Price,
		DiscountType:   dt,
		DiscountAmount: input.DiscountAmount,
		IsActive:       true,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return toDTO(created), nil
}
