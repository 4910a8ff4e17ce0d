package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/mritika-studio/storefront-backend/internal/auth"
	cartsvc "github.com/mritika-studio/storefront-backend/internal/cart"
	inquirysvc "github.com/mritika-studio/storefront-backend/internal/inquiries"
	inventorysvc "github.com/mritika-studio/storefront-backend/internal/inventory"
	notificationsvc "github.com/mritika-studio/storefront-backend/internal/notifications"
	ordersvc "github.com/mritika-studio/storefront-backend/internal/orders"
	productsvc "github.com/mritika-studio/storefront-backend/internal/products"
	usersvc "github.com/mritika-studio/storefront-backend/internal/users"
	pkgAuth "github.com/mritika-studio/storefront-backend/pkg/auth"
	"github.com/mritika-studio/storefront-backend/pkg/auth/session"
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
	"github.com/mritika-studio/storefront-backend/pkg/pagination"
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

func (stubAuthService) Register(ctx context.Context, input authsvc.RegisterInput) (*authsvc.AuthResult, error) {
	return &authsvc.AuthResult{}, nil
}

func (stubAuthService) Login(ctx context.Context, email, password string) (*authsvc.AuthResult, error) {
	return &authsvc.AuthResult{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*authsvc.AuthResult, error) {
	return &authsvc.AuthResult{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) ComputeCart(ctx context.Context, userID uuid.UUID) (*cartsvc.CartSummary, error) {
	return &cartsvc.CartSummary{Items: []cartsvc.CartItemView{}}, nil
}

func (stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) error {
	return nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	return nil
}

func (stubCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return nil
}

func (stubCartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (stubCartService) BulkAdd(ctx context.Context, entries []cartsvc.BulkEntry) []cartsvc.BulkResult {
	return nil
}

func (stubCartService) BulkClear(ctx context.Context, userIDs []uuid.UUID) []cartsvc.BulkResult {
	return nil
}

type stubProductService struct{}

func (stubProductService) ListCatalog(ctx context.Context, input productsvc.ListProductsInput) (*productsvc.ProductListResult, error) {
	return &productsvc.ProductListResult{Products: []productsvc.ProductSummary{}}, nil
}

func (stubProductService) GetBySlug(ctx context.Context, slug string) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) ListCategories(ctx context.Context, activeOnly bool) ([]productsvc.CategoryDTO, error) {
	return nil, nil
}

func (stubProductService) ListAdmin(ctx context.Context, input productsvc.ListProductsInput) (*productsvc.ProductListResult, error) {
	return &productsvc.ProductListResult{Products: []productsvc.ProductSummary{}}, nil
}

func (stubProductService) GetProduct(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) CreateProduct(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return nil
}

func (stubProductService) AddVariant(ctx context.Context, productID uuid.UUID, input productsvc.VariantInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) UpdateVariant(ctx context.Context, variantID uuid.UUID, input productsvc.UpdateVariantInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	return nil
}

func (stubProductService) CreateCategory(ctx context.Context, input productsvc.CategoryInput) (*productsvc.CategoryDTO, error) {
	return &productsvc.CategoryDTO{}, nil
}

func (stubProductService) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input productsvc.UpdateCategoryInput) (*productsvc.CategoryDTO, error) {
	return &productsvc.CategoryDTO{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Checkout(ctx context.Context, userID uuid.UUID, shipping ordersvc.ShippingInput) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrdersService) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ordersvc.OrderListResult, error) {
	return &ordersvc.OrderListResult{}, nil
}

func (stubOrdersService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrdersService) ListAllOrders(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*ordersvc.OrderListResult, error) {
	return &ordersvc.OrderListResult{}, nil
}

func (stubOrdersService) GetOrderAdmin(ctx context.Context, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

type stubUsersService struct{}

func (stubUsersService) ListUsers(ctx context.Context, filters usersvc.ListFilters, params pagination.Params) (*usersvc.UserListResult, error) {
	return &usersvc.UserListResult{}, nil
}

func (stubUsersService) GetUser(ctx context.Context, userID uuid.UUID) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}

func (stubUsersService) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}

func (stubUsersService) SetRole(ctx context.Context, actorID, userID uuid.UUID, role enums.UserRole) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}

func (stubUsersService) ResetPassword(ctx context.Context, userID uuid.UUID) (*usersvc.ResetPasswordResult, error) {
	return &usersvc.ResetPasswordResult{}, nil
}

type stubInventoryService struct{}

func (stubInventoryService) BuildOverview(ctx context.Context, threshold int) (*inventorysvc.InventoryMetrics, error) {
	return &inventorysvc.InventoryMetrics{}, nil
}

func (stubInventoryService) BuildValuation(ctx context.Context) (*inventorysvc.ValuationReport, error) {
	return &inventorysvc.ValuationReport{}, nil
}

func (stubInventoryService) AdjustStock(ctx context.Context, productID uuid.UUID, input inventorysvc.AdjustStockInput) (*inventorysvc.AdjustStockResult, error) {
	return &inventorysvc.AdjustStockResult{}, nil
}

func (stubInventoryService) ListAdjustments(ctx context.Context, productID uuid.UUID, limit int) ([]models.InventoryAdjustment, error) {
	return nil, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) Record(ctx context.Context, notificationType enums.NotificationType, title, message string, referenceID *uuid.UUID) error {
	return nil
}

func (stubNotificationsService) HasRecentOfType(ctx context.Context, notificationType enums.NotificationType, refID uuid.UUID, since time.Time) (bool, error) {
	return false, nil
}

func (stubNotificationsService) List(ctx context.Context, unreadOnly bool, params pagination.Params) (*notificationsvc.NotificationListResult, error) {
	return &notificationsvc.NotificationListResult{}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context) (int64, error) {
	return 0, nil
}

type stubInquiriesService struct{}

func (stubInquiriesService) Create(ctx context.Context, input inquirysvc.CreateInquiryInput) (*inquirysvc.InquiryDTO, error) {
	return &inquirysvc.InquiryDTO{}, nil
}

func (stubInquiriesService) List(ctx context.Context, status *enums.InquiryStatus, params pagination.Params) (*inquirysvc.InquiryListResult, error) {
	return &inquirysvc.InquiryListResult{}, nil
}

func (stubInquiriesService) Get(ctx context.Context, inquiryID uuid.UUID) (*inquirysvc.InquiryDTO, error) {
	return &inquirysvc.InquiryDTO{}, nil
}

func (stubInquiriesService) UpdateStatus(ctx context.Context, inquiryID uuid.UUID, status enums.InquiryStatus) (*inquirysvc.InquiryDTO, error) {
	return &inquirysvc.InquiryDTO{}, nil
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
	return NewRouter(Deps{
		Config:        cfg,
		Logger:        logg,
		DB:            stubPinger{},
		Sessions:      stubSessionChecker{},
		Auth:          stubAuthService{},
		Cart:          stubCartService{},
		Products:      stubProductService{},
		Orders:        stubOrdersService{},
		Users:         stubUsersService{},
		Inventory:     stubInventoryService{},
		Notifications: stubNotificationsService{},
		Inquiries:     stubInquiriesService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
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

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCustomerGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCustomerGroupAcceptsJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig())

	live := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, live)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for live got %d", resp.Code)
	}

	ready := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, ready)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for ready got %d", resp.Code)
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
