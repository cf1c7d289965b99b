package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketplacev1 "github.com/vladislavdragonenkov/marketplace/api/marketplace/v1"
	"github.com/vladislavdragonenkov/marketplace/internal/caller"
	grpcsvc "github.com/vladislavdragonenkov/marketplace/internal/service/grpc"
	"github.com/vladislavdragonenkov/marketplace/internal/service/httpapi"
	"github.com/vladislavdragonenkov/marketplace/internal/service/marketplace"
	"github.com/vladislavdragonenkov/marketplace/internal/storage/memory"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	entry := logger.WithField("component", "test")

	svc := marketplace.New(memory.NewStore(), marketplace.WithLogger(entry))
	return httpapi.NewRouter(grpcsvc.NewMarketplaceServer(svc, entry), caller.NewVerifier(caller.Config{}), entry)
}

type errorResponse struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, identity string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if identity != "" {
		req.Header.Set("X-Caller-Id", identity)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestGateway_OrderFlow(t *testing.T) {
	h := newRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/users", "alice", marketplacev1.RegisterRequest{Name: "Alice", Role: "seller"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = do(t, h, http.MethodPost, "/v1/users", "bob", marketplacev1.RegisterRequest{Name: "Bob", Role: "buyer"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/products", "alice", marketplacev1.CreateProductRequest{Name: "Guitar", Category: "music"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[marketplacev1.CreateProductResponse](t, rec).Product

	rec = do(t, h, http.MethodGet, "/v1/products/0", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Guitar", decode[marketplacev1.GetProductResponse](t, rec).Product.Name)

	rec = do(t, h, http.MethodPost, "/v1/listings", "alice", marketplacev1.CreateListingRequest{ProductID: product.ID, PriceMinor: 1000, Stock: 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	listing := decode[marketplacev1.CreateListingResponse](t, rec).Listing

	rec = do(t, h, http.MethodPost, "/v1/orders", "bob", marketplacev1.CreateOrderRequest{
		Items:          []marketplacev1.LineItem{{ListingID: listing.ID, Qty: 1}},
		AvailableFunds: 1000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[marketplacev1.CreateOrderResponse](t, rec).Order
	assert.Equal(t, int64(1000), order.AmountMinor)

	rec = do(t, h, http.MethodPost, "/v1/orders/0/ship", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "shipped", decode[marketplacev1.MarkShippedResponse](t, rec).Order.Status)

	rec = do(t, h, http.MethodPost, "/v1/orders/0/receive", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/orders/0", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[marketplacev1.GetOrderResponse](t, rec).Timeline, 3)

	rec = do(t, h, http.MethodGet, "/v1/me/orders", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[marketplacev1.ListMyOrdersResponse](t, rec).Orders, 1)

	rec = do(t, h, http.MethodGet, "/v1/listings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(0), decode[marketplacev1.ListListingsResponse](t, rec).Listings[0].Stock)
}

func TestGateway_ErrorMapping(t *testing.T) {
	h := newRouter(t)

	rec := do(t, h, http.MethodGet, "/v1/me/capabilities", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthenticated", decode[errorResponse](t, rec).Error.Kind)

	rec = do(t, h, http.MethodGet, "/v1/users/ghost", "bob", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotRegistered", decode[errorResponse](t, rec).Error.Kind)

	rec = do(t, h, http.MethodPost, "/v1/users", "bob", marketplacev1.RegisterRequest{Role: "admin"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "InvalidRole", decode[errorResponse](t, rec).Error.Kind)

	rec = do(t, h, http.MethodPost, "/v1/users", "bob", marketplacev1.RegisterRequest{Role: "buyer"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/products", "bob", marketplacev1.CreateProductRequest{Name: "x", Category: "other"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NotSeller", decode[errorResponse](t, rec).Error.Kind)

	rec = do(t, h, http.MethodPost, "/v1/orders/abc/ship", "bob", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/products/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/products/5", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ProductNotFound", decode[errorResponse](t, rec).Error.Kind)

	rec = do(t, h, http.MethodPost, "/v1/orders/7/cancel", "bob", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "OrderNotFound", decode[errorResponse](t, rec).Error.Kind)
}

func TestGateway_RejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	entry := logrus.New().WithField("component", "test")
	svc := marketplace.New(memory.NewStore(), marketplace.WithLogger(entry))
	h := httpapi.NewRouter(grpcsvc.NewMarketplaceServer(svc, entry), caller.NewVerifier(caller.Config{Secret: "s"}), entry)

	req := httptest.NewRequest(http.MethodGet, "/v1/me/capabilities", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthenticated", decode[errorResponse](t, rec).Error.Kind)
}
