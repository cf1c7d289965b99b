// Package grpcsvc реализует gRPC API marketplace.v1 поверх фасада маркетплейса.
package grpcsvc

import (
	"context"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	marketplacev1 "github.com/vladislavdragonenkov/marketplace/api/marketplace/v1"
	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/service/marketplace"
)

// MarketplaceServer реализует marketplacev1.MarketplaceServiceServer.
// Идентичность вызывающей стороны ожидается в контексте (см. CallerInterceptor).
type MarketplaceServer struct {
	marketplacev1.UnimplementedMarketplaceServiceServer

	svc    *marketplace.Service
	logger *log.Entry
}

// NewMarketplaceServer конструирует сервер с зависимостями.
func NewMarketplaceServer(svc *marketplace.Service, logger *log.Entry) *MarketplaceServer {
	if logger == nil {
		logger = log.New().WithField("component", "grpc-server")
	}
	return &MarketplaceServer{svc: svc, logger: logger}
}

func (s *MarketplaceServer) fail(err error, method string) error {
	return toStatus(err, s.logger, method)
}

func requestRequired() error {
	return status.Error(codes.InvalidArgument, "request is required")
}

// Register регистрирует вызывающую сторону.
func (s *MarketplaceServer) Register(ctx context.Context, req *marketplacev1.RegisterRequest) (*marketplacev1.RegisterResponse, error) {
	if req == nil {
		return nil, requestRequired()
	}
	user, err := s.svc.Register(ctx, marketplace.RegisterInput{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
		Role:    domain.Role(req.Role),
	})
	if err != nil {
		return nil, s.fail(err, "Register")
	}
	return &marketplacev1.RegisterResponse{User: toAPIUser(user)}, nil
}

// AddRole расширяет роль вызывающей стороны.
func (s *MarketplaceServer) AddRole(ctx context.Context, req *marketplacev1.AddRoleRequest) (*marketplacev1.AddRoleResponse, error) {
	if req == nil {
		return nil, requestRequired()
	}
	user, err := s.svc.AddRole(ctx, domain.Role(req.Role))
	if err != nil {
		return nil, s.fail(err, "AddRole")
	}
	return &marketplacev1.AddRoleResponse{User: toAPIUser(user)}, nil
}

// GetUser возвращает учётную запись по идентичности.
func (s *MarketplaceServer) GetUser(ctx context.Context, req *marketplacev1.GetUserRequest) (*marketplacev1.GetUserResponse, error) {
	if req == nil || req.UserID == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id is required")
	}
	user, err := s.svc.User(ctx, req.UserID)
	if err != nil {
		return nil, s.fail(err, "GetUser")
	}
	return &marketplacev1.GetUserResponse{User: toAPIUser(user)}, nil
}

// GetCapabilities возвращает роль и возможности вызывающей стороны.
func (s *MarketplaceServer) GetCapabilities(ctx context.Context, _ *marketplacev1.GetCapabilitiesRequest) (*marketplacev1.GetCapabilitiesResponse, error) {
	caps, err := s.svc.Capabilities(ctx)
	if err != nil {
		return nil, s.fail(err, "GetCapabilities")
	}
	return &marketplacev1.GetCapabilitiesResponse{
		Identity: caps.Identity,
		Role:     string(caps.Role),
		IsSeller: caps.IsSeller,
		IsBuyer:  caps.IsBuyer,
	}, nil
}

// CreateProduct создаёт товар.
func (s *MarketplaceServer) CreateProduct(ctx context.Context, req *marketplacev1.CreateProductRequest) (*marketplacev1.CreateProductResponse, error) {
	if req == nil {
		return nil, requestRequired()
	}
	product, err := s.svc.CreateProduct(ctx, marketplace.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    domain.Category(req.Category),
	})
	if err != nil {
		return nil, s.fail(err, "CreateProduct")
	}
	return &marketplacev1.CreateProductResponse{Product: toAPIProduct(product)}, nil
}

// CreateListing создаёт публикацию.
func (s *MarketplaceServer) CreateListing(ctx context.Context, req *marketplacev1.CreateListingRequest) (*marketplacev1.CreateListingResponse, error) {
	if req == nil {
		return nil, requestRequired()
	}
	listing, err := s.svc.CreateListing(ctx, marketplace.CreateListingInput{
		ProductID:  req.ProductID,
		PriceMinor: req.PriceMinor,
		Stock:      req.Stock,
	})
	if err != nil {
		return nil, s.fail(err, "CreateListing")
	}
	return &marketplacev1.CreateListingResponse{Listing: toAPIListing(listing)}, nil
}

// GetProduct возвращает товар каталога.
func (s *MarketplaceServer) GetProduct(ctx context.Context, req *marketplacev1.GetProductRequest) (*marketplacev1.GetProductResponse, error) {
	if req == nil {
		return nil, requestRequired()
	}
	product, err := s.svc.Product(ctx, req.ProductID)
	if err != nil {
		return nil, s.fail(err, "GetProduct")
	}
	return &marketplacev1.GetProductResponse{Product: toAPIProduct(product)}, nil
}

// ListListings возвращает все публикации.
func (s *MarketplaceServer) ListListings(ctx context.Context, _ *marketplacev1.ListListingsRequest) (*marketplacev1.ListListingsResponse, error) {
	listings, err := s.svc.ListActiveListings(ctx)
	if err != nil {
		return nil, s.fail(err, "ListListings")
	}
	return &marketplacev1.ListListingsResponse{Listings: toAPIListings(listings)}, nil
}

// ListMyListings возвращает публикации вызывающего продавца.
func (s *MarketplaceServer) ListMyListings(ctx context.Context, _ *marketplacev1.ListMyListingsRequest) (*marketplacev1.ListMyListingsResponse, error) {
	listings, err := s.svc.MyListings(ctx)
	if err != nil {
		return nil, s.fail(err, "ListMyListings")
	}
	return &marketplacev1.ListMyListingsResponse{Listings: toAPIListings(listings)}, nil
}

// CreateOrder оформляет заказ.
func (s *MarketplaceServer) CreateOrder(ctx context.Context, req *marketplacev1.CreateOrderRequest) (*marketplacev1.CreateOrderResponse, error) {
	if req == nil {
		return nil, requestRequired()
	}
	order, err := s.svc.CreateOrder(ctx, marketplace.CreateOrderInput{
		Items:          toDomainItems(req.Items),
		AvailableFunds: req.AvailableFunds,
	})
	if err != nil {
		return nil, s.fail(err, "CreateOrder")
	}
	return &marketplacev1.CreateOrderResponse{Order: toAPIOrder(order)}, nil
}

// GetOrder возвращает заказ и его таймлайн.
func (s *MarketplaceServer) GetOrder(ctx context.Context, req *marketplacev1.GetOrderRequest) (*marketplacev1.GetOrderResponse, error) {
	if req == nil {
		return nil, requestRequired()
	}
	details, err := s.svc.Order(ctx, req.OrderID)
	if err != nil {
		return nil, s.fail(err, "GetOrder")
	}
	return &marketplacev1.GetOrderResponse{
		Order:    toAPIOrder(details.Order),
		Timeline: toAPITimeline(details.Timeline),
	}, nil
}

// ListMyOrders возвращает заказы вызывающей стороны.
func (s *MarketplaceServer) ListMyOrders(ctx context.Context, _ *marketplacev1.ListMyOrdersRequest) (*marketplacev1.ListMyOrdersResponse, error) {
	orders, err := s.svc.MyOrders(ctx)
	if err != nil {
		return nil, s.fail(err, "ListMyOrders")
	}
	return &marketplacev1.ListMyOrdersResponse{Orders: toAPIOrders(orders)}, nil
}

// ListOrders возвращает всю историю заказов.
func (s *MarketplaceServer) ListOrders(ctx context.Context, _ *marketplacev1.ListOrdersRequest) (*marketplacev1.ListOrdersResponse, error) {
	orders, err := s.svc.ListOrders(ctx)
	if err != nil {
		return nil, s.fail(err, "ListOrders")
	}
	return &marketplacev1.ListOrdersResponse{Orders: toAPIOrders(orders)}, nil
}

// MarkShipped отмечает отправку заказа продавцом.
func (s *MarketplaceServer) MarkShipped(ctx context.Context, req *marketplacev1.MarkShippedRequest) (*marketplacev1.MarkShippedResponse, error) {
	if req == nil {
		return nil, requestRequired()
	}
	order, err := s.svc.MarkShipped(ctx, req.OrderID)
	if err != nil {
		return nil, s.fail(err, "MarkShipped")
	}
	return &marketplacev1.MarkShippedResponse{Order: toAPIOrder(order)}, nil
}

// MarkReceived подтверждает получение заказа покупателем.
func (s *MarketplaceServer) MarkReceived(ctx context.Context, req *marketplacev1.MarkReceivedRequest) (*marketplacev1.MarkReceivedResponse, error) {
	if req == nil {
		return nil, requestRequired()
	}
	order, err := s.svc.MarkReceived(ctx, req.OrderID)
	if err != nil {
		return nil, s.fail(err, "MarkReceived")
	}
	return &marketplacev1.MarkReceivedResponse{Order: toAPIOrder(order)}, nil
}

// RequestCancel запрашивает отмену от имени вызывающей стороны.
func (s *MarketplaceServer) RequestCancel(ctx context.Context, req *marketplacev1.RequestCancelRequest) (*marketplacev1.RequestCancelResponse, error) {
	if req == nil {
		return nil, requestRequired()
	}
	result, err := s.svc.RequestCancel(ctx, req.OrderID)
	if err != nil {
		return nil, s.fail(err, "RequestCancel")
	}
	return &marketplacev1.RequestCancelResponse{
		Order:   toAPIOrder(result.Order),
		Outcome: string(result.Outcome),
	}, nil
}
