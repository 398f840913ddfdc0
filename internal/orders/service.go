package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/CAHEKA/servisRest/pkg/errors"
)

// Service exposes read access to persisted orders.
type Service interface {
	ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo *Repository
}

// NewService wires the orders read service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	return &service{repo: repo}, nil
}

// ListOrders returns the user's order history, newest first.
func (s *service) ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

// GetOrder loads a single order owned by the user.
func (s *service) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return toDTO(order), nil
}
