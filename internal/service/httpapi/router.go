// Package httpapi — REST-шлюз к marketplace.v1 на gin.
//
// Шлюз вызывает ту же реализацию MarketplaceServiceServer, что и gRPC-сервер,
// поэтому коды ошибок и формат сообщений совпадают.
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	marketplacev1 "github.com/vladislavdragonenkov/marketplace/api/marketplace/v1"
	"github.com/vladislavdragonenkov/marketplace/internal/caller"
)

const (
	headerRequestID = "X-Request-Id"
	headerCallerID  = "X-Caller-Id"
)

// NewRouter собирает gin-роутер с маршрутами /v1.
func NewRouter(srv marketplacev1.MarketplaceServiceServer, verifier *caller.Verifier, logger *log.Entry) *gin.Engine {
	if logger == nil {
		logger = log.New().WithField("component", "http-gateway")
	}
	h := &handler{srv: srv}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger), callerIdentity(verifier, logger))

	v1 := r.Group("/v1")
	{
		v1.POST("/users", h.register)
		v1.POST("/users/me/roles", h.addRole)
		v1.GET("/users/:id", h.getUser)
		v1.GET("/me/capabilities", h.capabilities)
		v1.GET("/me/listings", h.myListings)
		v1.GET("/me/orders", h.myOrders)

		v1.POST("/products", h.createProduct)
		v1.GET("/products/:id", h.getProduct)
		v1.POST("/listings", h.createListing)
		v1.GET("/listings", h.listListings)

		v1.POST("/orders", h.createOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.POST("/orders/:id/ship", h.markShipped)
		v1.POST("/orders/:id/receive", h.markReceived)
		v1.POST("/orders/:id/cancel", h.requestCancel)
	}

	return r
}

func requestLogger(logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(headerRequestID, reqID)

		c.Next()

		entry := logger.WithFields(log.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		})
		if c.Writer.Status() >= 500 {
			entry.Error("http request failed")
			return
		}
		entry.Debug("http request")
	}
}

// callerIdentity кладёт идентичность в контекст запроса. Неверный токен
// отклоняется сразу, отсутствие идентичности проверяют сами операции.
func callerIdentity(verifier *caller.Verifier, logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		callerID := c.GetHeader(headerCallerID)
		if authorization == "" && callerID == "" {
			c.Next()
			return
		}

		identity, err := verifier.Identify(authorization, callerID)
		if err != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Warn("caller identification failed")
			abortWithError(c, err)
			return
		}
		ctx := caller.WithIdentity(c.Request.Context(), identity)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
