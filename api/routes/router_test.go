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

	authsvc "github.com/rohanmalik/boutique-backend/internal/auth"
	cartsvc "github.com/rohanmalik/boutique-backend/internal/cart"
	checkoutsvc "github.com/rohanmalik/boutique-backend/internal/checkout"
	"github.com/rohanmalik/boutique-backend/internal/imaging"
	mediasvc "github.com/rohanmalik/boutique-backend/internal/media"
	ordersvc "github.com/rohanmalik/boutique-backend/internal/orders"
	productsvc "github.com/rohanmalik/boutique-backend/internal/products"
	usersvc "github.com/rohanmalik/boutique-backend/internal/users"
	pkgAuth "github.com/rohanmalik/boutique-backend/pkg/auth"
	"github.com/rohanmalik/boutique-backend/pkg/auth/session"
	"github.com/rohanmalik/boutique-backend/pkg/config"
	"github.com/rohanmalik/boutique-backend/pkg/enums"
	"github.com/rohanmalik/boutique-backend/pkg/logger"
	"github.com/rohanmalik/boutique-backend/pkg/metrics"
	"github.com/rohanmalik/boutique-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.AuthResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.AuthResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return nil
}

type stubProductService struct{}

func (stubProductService) List(ctx context.Context, input productsvc.ListInput) (*productsvc.ListResult, error) {
	return &productsvc.ListResult{Products: []productsvc.View{}}, nil
}

func (stubProductService) Get(ctx context.Context, id uuid.UUID) (*productsvc.View, error) {
	return &productsvc.View{ID: id}, nil
}

func (stubProductService) AdminList(ctx context.Context, input productsvc.ListInput) (*productsvc.ListResult, error) {
	return &productsvc.ListResult{Products: []productsvc.View{}}, nil
}

func (stubProductService) AdminGet(ctx context.Context, id uuid.UUID) (*productsvc.View, error) {
	return &productsvc.View{ID: id}, nil
}

func (stubProductService) Create(ctx context.Context, input productsvc.CreateInput) (*productsvc.View, error) {
	return &productsvc.View{Name: input.Name}, nil
}

func (stubProductService) Update(ctx context.Context, id uuid.UUID, input productsvc.UpdateInput) (*productsvc.View, error) {
	return &productsvc.View{ID: id}, nil
}

func (stubProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	return &cartsvc.View{}, nil
}

func (stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.View, error) {
	return &cartsvc.View{}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, key cartsvc.VariantKey, quantity int) (*cartsvc.View, error) {
	return &cartsvc.View{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, userID uuid.UUID, key cartsvc.VariantKey) (*cartsvc.View, error) {
	return &cartsvc.View{}, nil
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Open(ctx context.Context, userID uuid.UUID) (*checkoutsvc.Session, error) {
	return checkoutsvc.NewSession(), nil
}

func (stubCheckoutService) Submit(ctx context.Context, userID uuid.UUID, form checkoutsvc.Form) (*checkoutsvc.Result, error) {
	return &checkoutsvc.Result{State: enums.CheckoutStateSuccess}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) ListMine(ctx context.Context, userID uuid.UUID) ([]ordersvc.View, error) {
	return []ordersvc.View{}, nil
}

func (stubOrdersService) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*ordersvc.View, error) {
	return &ordersvc.View{ID: orderID}, nil
}

func (stubOrdersService) List(ctx context.Context, filters ordersvc.ListFilters) (*ordersvc.ListView, error) {
	return &ordersvc.ListView{Orders: []ordersvc.View{}}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*ordersvc.View, error) {
	return &ordersvc.View{ID: orderID, Status: status}, nil
}

func (stubOrdersService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) (*ordersvc.View, error) {
	return &ordersvc.View{ID: orderID, PaymentStatus: status}, nil
}

func (stubOrdersService) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	return map[enums.OrderStatus]int64{}, nil
}

type stubUsersService struct{}

func (stubUsersService) Me(ctx context.Context, userID uuid.UUID) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: userID}, nil
}

func (stubUsersService) EmailByID(ctx context.Context, userID uuid.UUID) (string, error) {
	return "user@example.com", nil
}

func (stubUsersService) GetProfile(ctx context.Context, userID uuid.UUID) (*usersvc.ProfileDTO, error) {
	return &usersvc.ProfileDTO{}, nil
}

func (stubUsersService) UpdateProfile(ctx context.Context, userID uuid.UUID, address types.ShippingAddress) (*usersvc.ProfileDTO, error) {
	return &usersvc.ProfileDTO{}, nil
}

func (stubUsersService) List(ctx context.Context, limit, offset int) (*usersvc.UserListResult, error) {
	return &usersvc.UserListResult{}, nil
}

type stubMediaService struct{}

func (stubMediaService) Upload(ctx context.Context, input mediasvc.UploadInput) (string, error) {
	return "https://storage.googleapis.com/test/products/test.jpg", nil
}

func (stubMediaService) UploadAll(ctx context.Context, inputs []mediasvc.UploadInput) ([]string, error) {
	return nil, nil
}

func (stubMediaService) Delete(ctx context.Context, publicURL string) {}

func (stubMediaService) RenderEdit(ctx context.Context, source io.Reader, state imaging.EditState) ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
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
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		stubPinger{},
		stubSessionChecker{},
		metrics.NewHTTPMetrics(),
		stubAuthService{},
		stubProductService{},
		stubCartService{},
		stubCheckoutService{},
		stubOrdersService{},
		stubUsersService{},
		stubMediaService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.MemberRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicProductsReachableWithoutToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public products got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for cart fetch got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAdminOrderCountsRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/counts", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/counts", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin counts got %d", resp.Code)
	}
}

func TestCartAddRejectsBadJSON(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestCheckoutSubmitReachable(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"full_name":"Asha Rao","email":"asha@example.com","phone":"9876543210","address":"12 MG Road","city":"Bengaluru","state":"Karnataka","pincode":"560001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.MemberRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for checkout submit got %d", resp.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}
