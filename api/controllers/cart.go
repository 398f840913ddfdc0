package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/CAHEKA/servisRest/api/middleware"
	"github.com/CAHEKA/servisRest/api/responses"
	"github.com/CAHEKA/servisRest/api/validators"
	"github.com/CAHEKA/servisRest/internal/cart"
	pkgerrors "github.com/CAHEKA/servisRest/pkg/errors"
	"github.com/CAHEKA/servisRest/pkg/logger"
)

// AddToCartRequest is the payload for adding units of a product.
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1"`
}

// CartGet returns the caller's priced cart.
func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.GetCart(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// CartAdd puts a product into the caller's cart.
func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body AddToCartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.AddItem(r.Context(), middleware.UserIDFromContext(r.Context()), body.ProductID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// CartRemove takes one unit of a product out of the caller's cart.
func CartRemove(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		summary, err := svc.RemoveItem(r.Context(), middleware.UserIDFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
