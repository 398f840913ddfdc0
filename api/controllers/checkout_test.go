package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/CAHEKA/servisRest/internal/checkout"
	pkgerrors "github.com/CAHEKA/servisRest/pkg/errors"
)

type stubCheckoutService struct {
	receipt *checkoutsvc.OrderReceipt
	err     error
	gotUser uuid.UUID
}

func (s *stubCheckoutService) Checkout(ctx context.Context, userID uuid.UUID) (*checkoutsvc.OrderReceipt, error) {
	s.gotUser = userID
	return s.receipt, s.err
}

func TestCheckoutCreateSuccess(t *testing.T) {
	receipt := &checkoutsvc.OrderReceipt{
		OrderID:     uuid.New(),
		OrderNumber: 7,
		Total:       "129.99",
	}
	stub := &stubCheckoutService{receipt: receipt}
	handler := CheckoutCreate(stub, nil)

	req := authedRequest(http.MethodPost, "/api/v1/checkout", "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data checkoutsvc.OrderReceipt `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != 7 || envelope.Data.Total != "129.99" {
		t.Fatalf("unexpected receipt: %+v", envelope.Data)
	}
	if stub.gotUser == uuid.Nil {
		t.Fatal("expected user id from context")
	}
}

func TestCheckoutCreateEmptyCart(t *testing.T) {
	stub := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}
	handler := CheckoutCreate(stub, nil)

	req := authedRequest(http.MethodPost, "/api/v1/checkout", "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Message != "cart is empty" {
		t.Fatalf("unexpected message: %s", payload.Error.Message)
	}
}
