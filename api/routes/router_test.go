package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CAHEKA/servisRest/internal/auth"
	"github.com/CAHEKA/servisRest/internal/cart"
	"github.com/CAHEKA/servisRest/internal/checkout"
	"github.com/CAHEKA/servisRest/internal/orders"
	"github.com/CAHEKA/servisRest/internal/products"
	pkgauth "github.com/CAHEKA/servisRest/pkg/auth"
	"github.com/CAHEKA/servisRest/pkg/config"
	"github.com/CAHEKA/servisRest/pkg/logger"
	"github.com/CAHEKA/servisRest/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionVerifier struct{}

func (stubSessionVerifier) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.UserDTO, error) {
	return &auth.UserDTO{ID: uuid.New(), Username: req.Username}, nil
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(ctx context.Context, ident auth.SessionIdentity, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubProductsService struct{}

func (stubProductsService) ListProducts(ctx context.Context) ([]products.ProductDTO, error) {
	return []products.ProductDTO{}, nil
}

func (stubProductsService) GetProduct(ctx context.Context, productID uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: productID}, nil
}

func (stubProductsService) CreateProduct(ctx context.Context, input products.CreateProductInput) (*products.ProductDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubCartService struct{}

func (stubCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cart.CartSummaryDTO, error) {
	return &cart.CartSummaryDTO{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cart.CartSummaryDTO, error) {
	return &cart.CartSummaryDTO{}, nil
}

func (stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cart.CartSummaryDTO, error) {
	return &cart.CartSummaryDTO{}, nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Checkout(ctx context.Context, userID uuid.UUID) (*checkout.OrderReceipt, error) {
	return &checkout.OrderReceipt{OrderID: uuid.New(), OrderNumber: 1}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) ListOrders(ctx context.Context, userID uuid.UUID) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, nil
}

func (stubOrdersService) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: orderID}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	reg := prometheus.NewRegistry()
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil, // redis is only touched by enabled rate-limit policies
		stubSessionVerifier{},
		metrics.NewHTTPMetrics(reg),
		reg,
		stubAuthService{},
		stubProductsService{},
		stubCartService{},
		stubCheckoutService{},
		stubOrdersService{},
	)
}

func mintToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "router-test",
		JTI:      uuid.NewString(),
	})
	require.NoError(t, err)
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-ServisRest-Env"))
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/api/v1/products", "/api/v1/cart", "/api/v1/orders"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterReachableWithoutJWT(t *testing.T) {
	router := newTestRouter(testConfig())

	body := strings.NewReader(`{"username":"newuser","password":"long-enough-pw"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestMetricsEndpointExposesGatheredSeries(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	warm := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	router.ServeHTTP(httptest.NewRecorder(), warm)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
