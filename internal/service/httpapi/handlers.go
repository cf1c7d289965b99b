package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	marketplacev1 "github.com/vladislavdragonenkov/marketplace/api/marketplace/v1"
)

type handler struct {
	srv marketplacev1.MarketplaceServiceServer
}

// reply пишет ответ или ошибку; code — статус успешного ответа.
func reply[T any](c *gin.Context, code int, resp T, err error) {
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(code, resp)
}

func bind[T any](c *gin.Context) (*T, bool) {
	req := new(T)
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return nil, false
	}
	return req, true
}

func orderID(c *gin.Context) (int64, bool) {
	return pathID(c, "order id must be an integer")
}

func pathID(c *gin.Context, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, msg)
		return 0, false
	}
	return id, true
}

func (h *handler) register(c *gin.Context) {
	req, ok := bind[marketplacev1.RegisterRequest](c)
	if !ok {
		return
	}
	resp, err := h.srv.Register(c.Request.Context(), req)
	reply(c, http.StatusCreated, resp, err)
}

func (h *handler) addRole(c *gin.Context) {
	req, ok := bind[marketplacev1.AddRoleRequest](c)
	if !ok {
		return
	}
	resp, err := h.srv.AddRole(c.Request.Context(), req)
	reply(c, http.StatusOK, resp, err)
}

func (h *handler) getUser(c *gin.Context) {
	resp, err := h.srv.GetUser(c.Request.Context(), &marketplacev1.GetUserRequest{UserID: c.Param("id")})
	reply(c, http.StatusOK, resp, err)
}

func (h *handler) capabilities(c *gin.Context) {
	resp, err := h.srv.GetCapabilities(c.Request.Context(), &marketplacev1.GetCapabilitiesRequest{})
	reply(c, http.StatusOK, resp, err)
}

func (h *handler) createProduct(c *gin.Context) {
	req, ok := bind[marketplacev1.CreateProductRequest](c)
	if !ok {
		return
	}
	resp, err := h.srv.CreateProduct(c.Request.Context(), req)
	reply(c, http.StatusCreated, resp, err)
}

func (h *handler) createListing(c *gin.Context) {
	req, ok := bind[marketplacev1.CreateListingRequest](c)
	if !ok {
		return
	}
	resp, err := h.srv.CreateListing(c.Request.Context(), req)
	reply(c, http.StatusCreated, resp, err)
}

func (h *handler) getProduct(c *gin.Context) {
	id, ok := pathID(c, "product id must be an integer")
	if !ok {
		return
	}
	resp, err := h.srv.GetProduct(c.Request.Context(), &marketplacev1.GetProductRequest{ProductID: id})
	reply(c, http.StatusOK, resp, err)
}

func (h *handler) listListings(c *gin.Context) {
	resp, err := h.srv.ListListings(c.Request.Context(), &marketplacev1.ListListingsRequest{})
	reply(c, http.StatusOK, resp, err)
}

func (h *handler) myListings(c *gin.Context) {
	resp, err := h.srv.ListMyListings(c.Request.Context(), &marketplacev1.ListMyListingsRequest{})
	reply(c, http.StatusOK, resp, err)
}

func (h *handler) createOrder(c *gin.Context) {
	req, ok := bind[marketplacev1.CreateOrderRequest](c)
	if !ok {
		return
	}
	resp, err := h.srv.CreateOrder(c.Request.Context(), req)
	reply(c, http.StatusCreated, resp, err)
}

func (h *handler) listOrders(c *gin.Context) {
	resp, err := h.srv.ListOrders(c.Request.Context(), &marketplacev1.ListOrdersRequest{})
	reply(c, http.StatusOK, resp, err)
}

func (h *handler) myOrders(c *gin.Context) {
	resp, err := h.srv.ListMyOrders(c.Request.Context(), &marketplacev1.ListMyOrdersRequest{})
	reply(c, http.StatusOK, resp, err)
}

func (h *handler) getOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	resp, err := h.srv.GetOrder(c.Request.Context(), &marketplacev1.GetOrderRequest{OrderID: id})
	reply(c, http.StatusOK, resp, err)
}

func (h *handler) markShipped(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	resp, err := h.srv.MarkShipped(c.Request.Context(), &marketplacev1.MarkShippedRequest{OrderID: id})
	reply(c, http.StatusOK, resp, err)
}

func (h *handler) markReceived(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	resp, err := h.srv.MarkReceived(c.Request.Context(), &marketplacev1.MarkReceivedRequest{OrderID: id})
	reply(c, http.StatusOK, resp, err)
}

func (h *handler) requestCancel(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	resp, err := h.srv.RequestCancel(c.Request.Context(), &marketplacev1.RequestCancelRequest{OrderID: id})
	reply(c, http.StatusOK, resp, err)
}
