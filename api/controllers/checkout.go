package controllers

import (
	"net/http"

	"github.com/CAHEKA/servisRest/api/middleware"
	"github.com/CAHEKA/servisRest/api/responses"
	"github.com/CAHEKA/servisRest/internal/checkout"
	pkgerrors "github.com/CAHEKA/servisRest/pkg/errors"
	"github.com/CAHEKA/servisRest/pkg/logger"
)

// CheckoutCreate turns the caller's cart into an order.
func CheckoutCreate(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Checkout(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
