// Package marketplacev1 описывает RPC-контракт marketplace.v1.MarketplaceService.
//
// Сообщения сериализуются JSON-кодеком (content-subtype "json"), поэтому
// контракт одинаково используется gRPC-сервером и REST-шлюзом.
package marketplacev1

import "time"

// User — учётная запись участника.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Surname    string    `json:"surname"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	ListingIDs []int64   `json:"listing_ids"`
	OrderIDs   []int64   `json:"order_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

// Product — товар каталога.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// Listing — публикация продавца.
type Listing struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	SellerID   string    `json:"seller_id"`
	PriceMinor int64     `json:"price_minor"`
	Stock      int32     `json:"stock"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// LineItem — запрошенная позиция заказа.
type LineItem struct {
	ListingID int64 `json:"listing_id"`
	Qty       int32 `json:"qty"`
}

// OrderLine — позиция созданного заказа.
type OrderLine struct {
	ListingID  int64 `json:"listing_id"`
	ProductID  int64 `json:"product_id"`
	Qty        int32 `json:"qty"`
	PriceMinor int64 `json:"price_minor"`
}

// Order — заказ.
type Order struct {
	ID                int64       `json:"id"`
	Lines             []OrderLine `json:"lines"`
	Status            string      `json:"status"`
	BuyerID           string      `json:"buyer_id"`
	SellerID          string      `json:"seller_id"`
	CancelRequestedBy string      `json:"cancel_requested_by,omitempty"`
	AmountMinor       int64       `json:"amount_minor"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// TimelineEvent — событие жизненного цикла заказа.
type TimelineEvent struct {
	Type       string    `json:"type"`
	Actor      string    `json:"actor"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type RegisterRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

type RegisterResponse struct {
	User *User `json:"user"`
}

type AddRoleRequest struct {
	Role string `json:"role"`
}

type AddRoleResponse struct {
	User *User `json:"user"`
}

type GetUserRequest struct {
	UserID string `json:"user_id"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

type GetCapabilitiesRequest struct{}

type GetCapabilitiesResponse struct {
	Identity string `json:"identity"`
	Role     string `json:"role"`
	IsSeller bool   `json:"is_seller"`
	IsBuyer  bool   `json:"is_buyer"`
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type CreateProductResponse struct {
	Product *Product `json:"product"`
}

type CreateListingRequest struct {
	ProductID  int64 `json:"product_id"`
	PriceMinor int64 `json:"price_minor"`
	Stock      int32 `json:"stock"`
}

type CreateListingResponse struct {
	Listing *Listing `json:"listing"`
}

type GetProductRequest struct {
	ProductID int64 `json:"product_id"`
}

type GetProductResponse struct {
	Product *Product `json:"product"`
}

type ListListingsRequest struct{}

type ListListingsResponse struct {
	Listings []*Listing `json:"listings"`
}

type ListMyListingsRequest struct{}

type ListMyListingsResponse struct {
	Listings []*Listing `json:"listings"`
}

type CreateOrderRequest struct {
	Items          []LineItem `json:"items"`
	AvailableFunds int64      `json:"available_funds"`
}

type CreateOrderResponse struct {
	Order *Order `json:"order"`
}

type GetOrderRequest struct {
	OrderID int64 `json:"order_id"`
}

type GetOrderResponse struct {
	Order    *Order           `json:"order"`
	Timeline []*TimelineEvent `json:"timeline"`
}

type ListMyOrdersRequest struct{}

type ListMyOrdersResponse struct {
	Orders []*Order `json:"orders"`
}

type ListOrdersRequest struct{}

type ListOrdersResponse struct {
	Orders []*Order `json:"orders"`
}

type MarkShippedRequest struct {
	OrderID int64 `json:"order_id"`
}

type MarkShippedResponse struct {
	Order *Order `json:"order"`
}

type MarkReceivedRequest struct {
	OrderID int64 `json:"order_id"`
}

type MarkReceivedResponse struct {
	Order *Order `json:"order"`
}

type RequestCancelRequest struct {
	OrderID int64 `json:"order_id"`
}

type RequestCancelResponse struct {
	Order *Order `json:"order"`
	// Outcome — recorded, completed или duplicate.
	Outcome string `json:"outcome"`
}

// ErrorDomain — домен ErrorInfo в деталях gRPC-статуса.
const ErrorDomain = "marketplace.v1"
