package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/HamzaHashone/ecommerce-hijaab-collection/common/errors"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/middleware"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUserID = primitive.NewObjectID()

// newRouter returns an engine that renders service errors and treats every
// request as coming from an authenticated admin.
func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(apperrors.ErrorMiddleware())
	r.Use(func(c *gin.Context) {
		middleware.SetCurrentUser(c, &middleware.AuthUser{ID: testUserID, Email: "admin@shop.test", Role: models.RoleAdmin, Status: models.StatusActive})
		c.Next()
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return serve(t, r, req)
}

func serve(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	resp := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

// --- AuthService ---

type mockAuthService struct {
	loginFn          func(ctx context.Context, req *models.LoginRequest) (*models.User, string, *apperrors.Error)
	registerFn       func(ctx context.Context, req *models.RegisterRequest) (*models.User, *apperrors.Error)
	profileFn        func(ctx context.Context, userID primitive.ObjectID) (*models.User, *apperrors.Error)
	updateProfileFn  func(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, *apperrors.Error)
	addAddressFn     func(ctx context.Context, userID primitive.ObjectID, req *models.AddressRequest) (*models.Address, *models.User, *apperrors.Error)
	updateAddressFn  func(ctx context.Context, userID primitive.ObjectID, id string, req *models.AddressRequest) (*models.User, *apperrors.Error)
	deleteAddressFn  func(ctx context.Context, userID primitive.ObjectID, id string) (*models.User, *apperrors.Error)
	forgotFn         func(ctx context.Context, email string) *apperrors.Error
	createPasswordFn func(ctx context.Context, token, password string) *apperrors.Error
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, *apperrors.Error) {
	return m.loginFn(ctx, req)
}
func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *apperrors.Error) {
	return m.registerFn(ctx, req)
}
func (m *mockAuthService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, *apperrors.Error) {
	return m.profileFn(ctx, userID)
}
func (m *mockAuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, *apperrors.Error) {
	return m.updateProfileFn(ctx, userID, req)
}
func (m *mockAuthService) AddAddress(ctx context.Context, userID primitive.ObjectID, req *models.AddressRequest) (*models.Address, *models.User, *apperrors.Error) {
	return m.addAddressFn(ctx, userID, req)
}
func (m *mockAuthService) UpdateAddress(ctx context.Context, userID primitive.ObjectID, id string, req *models.AddressRequest) (*models.User, *apperrors.Error) {
	return m.updateAddressFn(ctx, userID, id, req)
}
func (m *mockAuthService) DeleteAddress(ctx context.Context, userID primitive.ObjectID, id string) (*models.User, *apperrors.Error) {
	return m.deleteAddressFn(ctx, userID, id)
}
func (m *mockAuthService) ForgotPassword(ctx context.Context, email string) *apperrors.Error {
	return m.forgotFn(ctx, email)
}
func (m *mockAuthService) CreatePassword(ctx context.Context, token, password string) *apperrors.Error {
	return m.createPasswordFn(ctx, token, password)
}

// --- ProductService ---

type mockProductService struct {
	listFn   func(ctx context.Context, params models.ProductListParams) (*services.ProductListResult, *apperrors.Error)
	getFn    func(ctx context.Context, id string) (*models.Product, *apperrors.Error)
	createFn func(ctx context.Context, form *models.ProductForm, images []services.ImageFile) (*models.Product, *apperrors.Error)
	updateFn func(ctx context.Context, id string, form *models.ProductForm, images []services.ImageFile) (*models.Product, *apperrors.Error)
	deleteFn func(ctx context.Context, id string) (string, *apperrors.Error)
}

func (m *mockProductService) List(ctx context.Context, params models.ProductListParams) (*services.ProductListResult, *apperrors.Error) {
	return m.listFn(ctx, params)
}
func (m *mockProductService) Get(ctx context.Context, id string) (*models.Product, *apperrors.Error) {
	return m.getFn(ctx, id)
}
func (m *mockProductService) Create(ctx context.Context, form *models.ProductForm, images []services.ImageFile) (*models.Product, *apperrors.Error) {
	return m.createFn(ctx, form, images)
}
func (m *mockProductService) Update(ctx context.Context, id string, form *models.ProductForm, images []services.ImageFile) (*models.Product, *apperrors.Error) {
	return m.updateFn(ctx, id, form, images)
}
func (m *mockProductService) Delete(ctx context.Context, id string) (string, *apperrors.Error) {
	return m.deleteFn(ctx, id)
}

// --- CartService / OrderService ---

type mockCartService struct {
	getFn    func(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apperrors.Error)
	addFn    func(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error)
	updateFn func(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error)
	removeFn func(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error)
}

func (m *mockCartService) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apperrors.Error) {
	return m.getFn(ctx, userID)
}
func (m *mockCartService) Add(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error) {
	return m.addFn(ctx, userID, req)
}
func (m *mockCartService) Update(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error) {
	return m.updateFn(ctx, userID, req)
}
func (m *mockCartService) Remove(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error) {
	return m.removeFn(ctx, userID, req)
}

type mockOrderService struct {
	checkoutFn     func(ctx context.Context, userID primitive.ObjectID, key string) (*models.Order, *apperrors.Error)
	listMineFn     func(ctx context.Context, userID primitive.ObjectID) ([]models.Order, *apperrors.Error)
	listFn         func(ctx context.Context, params models.OrderListParams) (*services.OrderListResult, *apperrors.Error)
	updateStatusFn func(ctx context.Context, id string, req *models.OrderStatusRequest) (*models.Order, *apperrors.Error)
}

func (m *mockOrderService) Checkout(ctx context.Context, userID primitive.ObjectID, key string) (*models.Order, *apperrors.Error) {
	return m.checkoutFn(ctx, userID, key)
}
func (m *mockOrderService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]models.Order, *apperrors.Error) {
	return m.listMineFn(ctx, userID)
}
func (m *mockOrderService) List(ctx context.Context, params models.OrderListParams) (*services.OrderListResult, *apperrors.Error) {
	return m.listFn(ctx, params)
}
func (m *mockOrderService) UpdateStatus(ctx context.Context, id string, req *models.OrderStatusRequest) (*models.Order, *apperrors.Error) {
	return m.updateStatusFn(ctx, id, req)
}

// --- VoucherService ---

type mockVoucherService struct {
	applyFn  func(ctx context.Context, userID primitive.ObjectID, code string) (*models.ApplyVoucherResult, *apperrors.Error)
	removeFn func(ctx context.Context, userID primitive.ObjectID) *apperrors.Error
	createFn func(ctx context.Context, req *models.VoucherRequest) (*models.Voucher, *apperrors.Error)
	listFn   func(ctx context.Context, limit, skip int64) (*services.VoucherListResult, *apperrors.Error)
	getFn    func(ctx context.Context, id string) (*models.Voucher, *apperrors.Error)
	updateFn func(ctx context.Context, id string, req *models.VoucherRequest) (*models.Voucher, *apperrors.Error)
	deleteFn func(ctx context.Context, id string) *apperrors.Error
}

func (m *mockVoucherService) Apply(ctx context.Context, userID primitive.ObjectID, code string) (*models.ApplyVoucherResult, *apperrors.Error) {
	return m.applyFn(ctx, userID, code)
}
func (m *mockVoucherService) Remove(ctx context.Context, userID primitive.ObjectID) *apperrors.Error {
	return m.removeFn(ctx, userID)
}
func (m *mockVoucherService) Create(ctx context.Context, req *models.VoucherRequest) (*models.Voucher, *apperrors.Error) {
	return m.createFn(ctx, req)
}
func (m *mockVoucherService) List(ctx context.Context, limit, skip int64) (*services.VoucherListResult, *apperrors.Error) {
	return m.listFn(ctx, limit, skip)
}
func (m *mockVoucherService) Get(ctx context.Context, id string) (*models.Voucher, *apperrors.Error) {
	return m.getFn(ctx, id)
}
func (m *mockVoucherService) Update(ctx context.Context, id string, req *models.VoucherRequest) (*models.Voucher, *apperrors.Error) {
	return m.updateFn(ctx, id, req)
}
func (m *mockVoucherService) Delete(ctx context.Context, id string) *apperrors.Error {
	return m.deleteFn(ctx, id)
}

// --- UserService / SettingsService ---

type mockUserService struct {
	listFn   func(ctx context.Context, params models.UserListParams) (*services.UserListResult, *apperrors.Error)
	getFn    func(ctx context.Context, id string) (*models.User, *apperrors.Error)
	deleteFn func(ctx context.Context, id string) *apperrors.Error
	statusFn func(ctx context.Context, id, status string) (*models.User, *apperrors.Error)
}

func (m *mockUserService) List(ctx context.Context, params models.UserListParams) (*services.UserListResult, *apperrors.Error) {
	return m.listFn(ctx, params)
}
func (m *mockUserService) Get(ctx context.Context, id string) (*models.User, *apperrors.Error) {
	return m.getFn(ctx, id)
}
func (m *mockUserService) Delete(ctx context.Context, id string) *apperrors.Error {
	return m.deleteFn(ctx, id)
}
func (m *mockUserService) UpdateStatus(ctx context.Context, id, status string) (*models.User, *apperrors.Error) {
	return m.statusFn(ctx, id, status)
}

type mockSettingsService struct {
	listFn   func(ctx context.Context) ([]models.Settings, *apperrors.Error)
	createFn func(ctx context.Context, req *models.SettingsRequest) (*models.Settings, *apperrors.Error)
	updateFn func(ctx context.Context, id string, req *models.SettingsRequest) (*models.Settings, *apperrors.Error)
}

func (m *mockSettingsService) Thresholds(context.Context) models.Thresholds {
	return models.Thresholds{LowStock: models.DefaultLowStockQuantity, HighValue: models.DefaultHighValueSpend}
}
func (m *mockSettingsService) List(ctx context.Context) ([]models.Settings, *apperrors.Error) {
	return m.listFn(ctx)
}
func (m *mockSettingsService) Create(ctx context.Context, req *models.SettingsRequest) (*models.Settings, *apperrors.Error) {
	return m.createFn(ctx, req)
}
func (m *mockSettingsService) Update(ctx context.Context, id string, req *models.SettingsRequest) (*models.Settings, *apperrors.Error) {
	return m.updateFn(ctx, id, req)
}
