package marketplacev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName — полное имя gRPC-сервиса.
const ServiceName = "marketplace.v1.MarketplaceService"

// Полные имена методов.
const (
	MarketplaceService_Register_FullMethodName        = "/marketplace.v1.MarketplaceService/Register"
	MarketplaceService_AddRole_FullMethodName         = "/marketplace.v1.MarketplaceService/AddRole"
	MarketplaceService_GetUser_FullMethodName         = "/marketplace.v1.MarketplaceService/GetUser"
	MarketplaceService_GetCapabilities_FullMethodName = "/marketplace.v1.MarketplaceService/GetCapabilities"
	MarketplaceService_CreateProduct_FullMethodName   = "/marketplace.v1.MarketplaceService/CreateProduct"
	MarketplaceService_CreateListing_FullMethodName   = "/marketplace.v1.MarketplaceService/CreateListing"
	MarketplaceService_GetProduct_FullMethodName      = "/marketplace.v1.MarketplaceService/GetProduct"
	MarketplaceService_ListListings_FullMethodName    = "/marketplace.v1.MarketplaceService/ListListings"
	MarketplaceService_ListMyListings_FullMethodName  = "/marketplace.v1.MarketplaceService/ListMyListings"
	MarketplaceService_CreateOrder_FullMethodName     = "/marketplace.v1.MarketplaceService/CreateOrder"
	MarketplaceService_GetOrder_FullMethodName        = "/marketplace.v1.MarketplaceService/GetOrder"
	MarketplaceService_ListMyOrders_FullMethodName    = "/marketplace.v1.MarketplaceService/ListMyOrders"
	MarketplaceService_ListOrders_FullMethodName      = "/marketplace.v1.MarketplaceService/ListOrders"
	MarketplaceService_MarkShipped_FullMethodName     = "/marketplace.v1.MarketplaceService/MarkShipped"
	MarketplaceService_MarkReceived_FullMethodName    = "/marketplace.v1.MarketplaceService/MarkReceived"
	MarketplaceService_RequestCancel_FullMethodName   = "/marketplace.v1.MarketplaceService/RequestCancel"
)

// MarketplaceServiceClient — клиентский API сервиса.
type MarketplaceServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	AddRole(ctx context.Context, in *AddRoleRequest, opts ...grpc.CallOption) (*AddRoleResponse, error)
	GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error)
	GetCapabilities(ctx context.Context, in *GetCapabilitiesRequest, opts ...grpc.CallOption) (*GetCapabilitiesResponse, error)
	CreateProduct(ctx context.Context, in *CreateProductRequest, opts ...grpc.CallOption) (*CreateProductResponse, error)
	CreateListing(ctx context.Context, in *CreateListingRequest, opts ...grpc.CallOption) (*CreateListingResponse, error)
	GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*GetProductResponse, error)
	ListListings(ctx context.Context, in *ListListingsRequest, opts ...grpc.CallOption) (*ListListingsResponse, error)
	ListMyListings(ctx context.Context, in *ListMyListingsRequest, opts ...grpc.CallOption) (*ListMyListingsResponse, error)
	CreateOrder(ctx context.Context, in *CreateOrderRequest, opts ...grpc.CallOption) (*CreateOrderResponse, error)
	GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*GetOrderResponse, error)
	ListMyOrders(ctx context.Context, in *ListMyOrdersRequest, opts ...grpc.CallOption) (*ListMyOrdersResponse, error)
	ListOrders(ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error)
	MarkShipped(ctx context.Context, in *MarkShippedRequest, opts ...grpc.CallOption) (*MarkShippedResponse, error)
	MarkReceived(ctx context.Context, in *MarkReceivedRequest, opts ...grpc.CallOption) (*MarkReceivedResponse, error)
	RequestCancel(ctx context.Context, in *RequestCancelRequest, opts ...grpc.CallOption) (*RequestCancelResponse, error)
}

type marketplaceServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewMarketplaceServiceClient создаёт клиента; JSON-кодек подключается автоматически.
func NewMarketplaceServiceClient(cc grpc.ClientConnInterface) MarketplaceServiceClient {
	return &marketplaceServiceClient{cc}
}

func (c *marketplaceServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	callOpts := append([]grpc.CallOption{CallOption()}, opts...)
	return c.cc.Invoke(ctx, method, in, out, callOpts...)
}

func (c *marketplaceServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	if err := c.invoke(ctx, MarketplaceService_Register_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) AddRole(ctx context.Context, in *AddRoleRequest, opts ...grpc.CallOption) (*AddRoleResponse, error) {
	out := new(AddRoleResponse)
	if err := c.invoke(ctx, MarketplaceService_AddRole_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error) {
	out := new(GetUserResponse)
	if err := c.invoke(ctx, MarketplaceService_GetUser_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) GetCapabilities(ctx context.Context, in *GetCapabilitiesRequest, opts ...grpc.CallOption) (*GetCapabilitiesResponse, error) {
	out := new(GetCapabilitiesResponse)
	if err := c.invoke(ctx, MarketplaceService_GetCapabilities_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) CreateProduct(ctx context.Context, in *CreateProductRequest, opts ...grpc.CallOption) (*CreateProductResponse, error) {
	out := new(CreateProductResponse)
	if err := c.invoke(ctx, MarketplaceService_CreateProduct_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) CreateListing(ctx context.Context, in *CreateListingRequest, opts ...grpc.CallOption) (*CreateListingResponse, error) {
	out := new(CreateListingResponse)
	if err := c.invoke(ctx, MarketplaceService_CreateListing_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*GetProductResponse, error) {
	out := new(GetProductResponse)
	if err := c.invoke(ctx, MarketplaceService_GetProduct_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) ListListings(ctx context.Context, in *ListListingsRequest, opts ...grpc.CallOption) (*ListListingsResponse, error) {
	out := new(ListListingsResponse)
	if err := c.invoke(ctx, MarketplaceService_ListListings_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) ListMyListings(ctx context.Context, in *ListMyListingsRequest, opts ...grpc.CallOption) (*ListMyListingsResponse, error) {
	out := new(ListMyListingsResponse)
	if err := c.invoke(ctx, MarketplaceService_ListMyListings_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) CreateOrder(ctx context.Context, in *CreateOrderRequest, opts ...grpc.CallOption) (*CreateOrderResponse, error) {
	out := new(CreateOrderResponse)
	if err := c.invoke(ctx, MarketplaceService_CreateOrder_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*GetOrderResponse, error) {
	out := new(GetOrderResponse)
	if err := c.invoke(ctx, MarketplaceService_GetOrder_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) ListMyOrders(ctx context.Context, in *ListMyOrdersRequest, opts ...grpc.CallOption) (*ListMyOrdersResponse, error) {
	out := new(ListMyOrdersResponse)
	if err := c.invoke(ctx, MarketplaceService_ListMyOrders_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) ListOrders(ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	out := new(ListOrdersResponse)
	if err := c.invoke(ctx, MarketplaceService_ListOrders_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) MarkShipped(ctx context.Context, in *MarkShippedRequest, opts ...grpc.CallOption) (*MarkShippedResponse, error) {
	out := new(MarkShippedResponse)
	if err := c.invoke(ctx, MarketplaceService_MarkShipped_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) MarkReceived(ctx context.Context, in *MarkReceivedRequest, opts ...grpc.CallOption) (*MarkReceivedResponse, error) {
	out := new(MarkReceivedResponse)
	if err := c.invoke(ctx, MarketplaceService_MarkReceived_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceServiceClient) RequestCancel(ctx context.Context, in *RequestCancelRequest, opts ...grpc.CallOption) (*RequestCancelResponse, error) {
	out := new(RequestCancelResponse)
	if err := c.invoke(ctx, MarketplaceService_RequestCancel_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// MarketplaceServiceServer — серверный API сервиса.
type MarketplaceServiceServer interface {
	// Register регистрирует вызывающую сторону.
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	// AddRole расширяет роль вызывающей стороны.
	AddRole(context.Context, *AddRoleRequest) (*AddRoleResponse, error)
	// GetUser возвращает учётную запись.
	GetUser(context.Context, *GetUserRequest) (*GetUserResponse, error)
	// GetCapabilities возвращает возможности вызывающей стороны.
	GetCapabilities(context.Context, *GetCapabilitiesRequest) (*GetCapabilitiesResponse, error)
	// CreateProduct создаёт товар.
	CreateProduct(context.Context, *CreateProductRequest) (*CreateProductResponse, error)
	// CreateListing создаёт публикацию.
	CreateListing(context.Context, *CreateListingRequest) (*CreateListingResponse, error)
	// GetProduct возвращает товар каталога.
	GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error)
	// ListListings возвращает все публикации.
	ListListings(context.Context, *ListListingsRequest) (*ListListingsResponse, error)
	// ListMyListings возвращает публикации вызывающего продавца.
	ListMyListings(context.Context, *ListMyListingsRequest) (*ListMyListingsResponse, error)
	// CreateOrder оформляет заказ.
	CreateOrder(context.Context, *CreateOrderRequest) (*CreateOrderResponse, error)
	// GetOrder возвращает заказ участнику сделки.
	GetOrder(context.Context, *GetOrderRequest) (*GetOrderResponse, error)
	// ListMyOrders возвращает заказы вызывающей стороны.
	ListMyOrders(context.Context, *ListMyOrdersRequest) (*ListMyOrdersResponse, error)
	// ListOrders возвращает всю историю заказов.
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	// MarkShipped отмечает отправку заказа.
	MarkShipped(context.Context, *MarkShippedRequest) (*MarkShippedResponse, error)
	// MarkReceived подтверждает получение заказа.
	MarkReceived(context.Context, *MarkReceivedRequest) (*MarkReceivedResponse, error)
	// RequestCancel запрашивает отмену заказа.
	RequestCancel(context.Context, *RequestCancelRequest) (*RequestCancelResponse, error)
	mustEmbedUnimplementedMarketplaceServiceServer()
}

// UnimplementedMarketplaceServiceServer нужно встраивать для совместимости вперёд.
type UnimplementedMarketplaceServiceServer struct{}

func (UnimplementedMarketplaceServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}

func (UnimplementedMarketplaceServiceServer) AddRole(context.Context, *AddRoleRequest) (*AddRoleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddRole not implemented")
}

func (UnimplementedMarketplaceServiceServer) GetUser(context.Context, *GetUserRequest) (*GetUserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUser not implemented")
}

func (UnimplementedMarketplaceServiceServer) GetCapabilities(context.Context, *GetCapabilitiesRequest) (*GetCapabilitiesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCapabilities not implemented")
}

func (UnimplementedMarketplaceServiceServer) CreateProduct(context.Context, *CreateProductRequest) (*CreateProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateProduct not implemented")
}

func (UnimplementedMarketplaceServiceServer) CreateListing(context.Context, *CreateListingRequest) (*CreateListingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateListing not implemented")
}

func (UnimplementedMarketplaceServiceServer) GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProduct not implemented")
}

func (UnimplementedMarketplaceServiceServer) ListListings(context.Context, *ListListingsRequest) (*ListListingsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListListings not implemented")
}

func (UnimplementedMarketplaceServiceServer) ListMyListings(context.Context, *ListMyListingsRequest) (*ListMyListingsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMyListings not implemented")
}

func (UnimplementedMarketplaceServiceServer) CreateOrder(context.Context, *CreateOrderRequest) (*CreateOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateOrder not implemented")
}

func (UnimplementedMarketplaceServiceServer) GetOrder(context.Context, *GetOrderRequest) (*GetOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetOrder not implemented")
}

func (UnimplementedMarketplaceServiceServer) ListMyOrders(context.Context, *ListMyOrdersRequest) (*ListMyOrdersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMyOrders not implemented")
}

func (UnimplementedMarketplaceServiceServer) ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListOrders not implemented")
}

func (UnimplementedMarketplaceServiceServer) MarkShipped(context.Context, *MarkShippedRequest) (*MarkShippedResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkShipped not implemented")
}

func (UnimplementedMarketplaceServiceServer) MarkReceived(context.Context, *MarkReceivedRequest) (*MarkReceivedResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkReceived not implemented")
}

func (UnimplementedMarketplaceServiceServer) RequestCancel(context.Context, *RequestCancelRequest) (*RequestCancelResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RequestCancel not implemented")
}

func (UnimplementedMarketplaceServiceServer) mustEmbedUnimplementedMarketplaceServiceServer() {}

// RegisterMarketplaceServiceServer регистрирует реализацию сервиса.
func RegisterMarketplaceServiceServer(s grpc.ServiceRegistrar, srv MarketplaceServiceServer) {
	s.RegisterService(&MarketplaceService_ServiceDesc, srv)
}

func _MarketplaceService_Register_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RegisterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).Register(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_Register_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).Register(ctx, req.(*RegisterRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_AddRole_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddRoleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).AddRole(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_AddRole_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).AddRole(ctx, req.(*AddRoleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_GetUser_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetUserRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).GetUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_GetUser_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).GetUser(ctx, req.(*GetUserRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_GetCapabilities_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetCapabilitiesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).GetCapabilities(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_GetCapabilities_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).GetCapabilities(ctx, req.(*GetCapabilitiesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_CreateProduct_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateProductRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).CreateProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_CreateProduct_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).CreateProduct(ctx, req.(*CreateProductRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_CreateListing_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateListingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).CreateListing(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_CreateListing_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).CreateListing(ctx, req.(*CreateListingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_GetProduct_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetProductRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).GetProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_GetProduct_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).GetProduct(ctx, req.(*GetProductRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_ListListings_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListListingsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).ListListings(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_ListListings_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).ListListings(ctx, req.(*ListListingsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_ListMyListings_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListMyListingsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).ListMyListings(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_ListMyListings_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).ListMyListings(ctx, req.(*ListMyListingsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_CreateOrder_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).CreateOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_CreateOrder_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).CreateOrder(ctx, req.(*CreateOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_GetOrder_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).GetOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_GetOrder_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).GetOrder(ctx, req.(*GetOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_ListMyOrders_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListMyOrdersRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).ListMyOrders(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_ListMyOrders_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).ListMyOrders(ctx, req.(*ListMyOrdersRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_ListOrders_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListOrdersRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).ListOrders(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_ListOrders_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).ListOrders(ctx, req.(*ListOrdersRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_MarkShipped_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MarkShippedRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).MarkShipped(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_MarkShipped_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).MarkShipped(ctx, req.(*MarkShippedRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_MarkReceived_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MarkReceivedRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).MarkReceived(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_MarkReceived_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).MarkReceived(ctx, req.(*MarkReceivedRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketplaceService_RequestCancel_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RequestCancelRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServiceServer).RequestCancel(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketplaceService_RequestCancel_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServiceServer).RequestCancel(ctx, req.(*RequestCancelRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// MarketplaceService_ServiceDesc — описание сервиса для grpc.Server.
var MarketplaceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MarketplaceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    _MarketplaceService_Register_Handler,
		},
		{
			MethodName: "AddRole",
			Handler:    _MarketplaceService_AddRole_Handler,
		},
		{
			MethodName: "GetUser",
			Handler:    _MarketplaceService_GetUser_Handler,
		},
		{
			MethodName: "GetCapabilities",
			Handler:    _MarketplaceService_GetCapabilities_Handler,
		},
		{
			MethodName: "CreateProduct",
			Handler:    _MarketplaceService_CreateProduct_Handler,
		},
		{
			MethodName: "CreateListing",
			Handler:    _MarketplaceService_CreateListing_Handler,
		},
		{
			MethodName: "GetProduct",
			Handler:    _MarketplaceService_GetProduct_Handler,
		},
		{
			MethodName: "ListListings",
			Handler:    _MarketplaceService_ListListings_Handler,
		},
		{
			MethodName: "ListMyListings",
			Handler:    _MarketplaceService_ListMyListings_Handler,
		},
		{
			MethodName: "CreateOrder",
			Handler:    _MarketplaceService_CreateOrder_Handler,
		},
		{
			MethodName: "GetOrder",
			Handler:    _MarketplaceService_GetOrder_Handler,
		},
		{
			MethodName: "ListMyOrders",
			Handler:    _MarketplaceService_ListMyOrders_Handler,
		},
		{
			MethodName: "ListOrders",
			Handler:    _MarketplaceService_ListOrders_Handler,
		},
		{
			MethodName: "MarkShipped",
			Handler:    _MarketplaceService_MarkShipped_Handler,
		},
		{
			MethodName: "MarkReceived",
			Handler:    _MarketplaceService_MarkReceived_Handler,
		},
		{
			MethodName: "RequestCancel",
			Handler:    _MarketplaceService_RequestCancel_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "marketplace/v1/marketplace.proto",
}
