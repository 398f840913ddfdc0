package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/CAHEKA/servisRest/api/middleware"
	cartsvc "github.com/CAHEKA/servisRest/internal/cart"
	pkgerrors "github.com/CAHEKA/servisRest/pkg/errors"
)

type stubCartService struct {
	summary     *cartsvc.CartSummaryDTO
	err         error
	gotUser     uuid.UUID
	gotProduct  uuid.UUID
	gotQuantity int
}

func (s *stubCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartsvc.CartSummaryDTO, error) {
	s.gotUser, s.gotProduct, s.gotQuantity = userID, productID, quantity
	return s.summary, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.CartSummaryDTO, error) {
	s.gotUser, s.gotProduct = userID, productID
	return s.summary, s.err
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartsvc.CartSummaryDTO, error) {
	s.gotUser = userID
	return s.summary, s.err
}

func emptySummary() *cartsvc.CartSummaryDTO {
	return &cartsvc.CartSummaryDTO{
		Items:                  []cartsvc.CartItemDTO{},
		TotalPrice:             "0.00",
		TotalDiscount:          "0.00",
		TotalPriceWithDiscount: "0.00",
	}
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithIdentity(req.Context(), uuid.New(), "alice", "jti-1")
	return req.WithContext(ctx)
}

func TestCartGetSuccess(t *testing.T) {
	stub := &stubCartService{summary: emptySummary()}
	handler := CartGet(stub, nil)

	req := authedRequest(http.MethodGet, "/api/v1/cart", "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.CartSummaryDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalPriceWithDiscount != "0.00" {
		t.Fatalf("unexpected total: %s", envelope.Data.TotalPriceWithDiscount)
	}
	if stub.gotUser == uuid.Nil {
		t.Fatal("expected user id from context")
	}
}

func TestCartAddValidatesBody(t *testing.T) {
	stub := &stubCartService{summary: emptySummary()}
	handler := CartAdd(stub, nil)

	req := authedRequest(http.MethodPost, "/api/v1/cart", `{"quantity": 2}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing product_id, got %d", resp.Code)
	}
}

func TestCartAddPassesPayloadThrough(t *testing.T) {
	stub := &stubCartService{summary: emptySummary()}
	handler := CartAdd(stub, nil)

	productID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/cart",
		`{"product_id":"`+productID.String()+`","quantity":3}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.gotProduct != productID || stub.gotQuantity != 3 {
		t.Fatalf("payload not forwarded: %s qty %d", stub.gotProduct, stub.gotQuantity)
	}
}

func TestCartRemoveMapsServiceError(t *testing.T) {
	stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")}
	handler := CartRemove(stub, nil)

	req := authedRequest(http.MethodDelete, "/api/v1/cart/"+uuid.NewString(), "")
	req = withURLParam(req, "productID", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCartRemoveRejectsBadProductID(t *testing.T) {
	stub := &stubCartService{summary: emptySummary()}
	handler := CartRemove(stub, nil)

	req := authedRequest(http.MethodDelete, "/api/v1/cart/not-a-uuid", "")
	req = withURLParam(req, "productID", "not-a-uuid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
