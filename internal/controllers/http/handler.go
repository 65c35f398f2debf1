package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/metrics"
	"pos-service/internal/repository"
	"pos-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const actorHeader = "X-Actor-ID"

type Handler struct {
	orders    *services.OrderService
	inventory *services.InventoryService
	rdb       *redis.Client
}

func NewHandler(orders *services.OrderService, inventory *services.InventoryService, rdb *redis.Client) *Handler {
	return &Handler{orders: orders, inventory: inventory, rdb: rdb}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	r.POST("/orders/:id/cancel", h.CancelOrder)
	r.POST("/stock/adjustments", h.AdjustStock)
	r.GET("/stock/movements", h.ListStockMovements)
	r.GET("/products/:id/movements", h.GetProductMovements)
	r.GET("/products/low-stock", h.LowStockReport)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// writeError maps the domain error taxonomy onto HTTP status codes. Any
// error outside the taxonomy is an unexpected data-store failure.
func writeError(c *gin.Context, err error) {
	var kinder domain.Kinder
	if !errors.As(err, &kinder) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Kind: "INTERNAL", Message: "internal server error"})
		return
	}

	status := http.StatusBadRequest
	switch kinder.Kind() {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindInsufficientStock, domain.KindInvalidOrderStatus:
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, ErrorResponse{Kind: kinder.Kind(), Message: kinder.Error()})
}

func actorID(c *gin.Context) uint64 {
	id, _ := strconv.ParseUint(c.GetHeader(actorHeader), 10, 64)
	return id
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Kind: domain.KindValidation, Message: err.Error()})
		return
	}

	in := services.CreateOrderInput{
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Discount:      req.Discount,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		Items:         make([]services.OrderItemInput, len(req.Items)),
	}
	for i, it := range req.Items {
		in.Items[i] = services.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	summary, err := h.orders.CreateOrder(c.Request.Context(), actorID(c), in)
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateOrderCaches(c)

	c.JSON(http.StatusCreated, OrderSummaryResponse{
		Order:     summary.Order,
		ItemCount: summary.ItemCount,
		Subtotal:  summary.Subtotal,
		Discount:  summary.Discount,
		Tax:       summary.Tax,
		Total:     summary.Total,
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Kind: domain.KindValidation, Message: "invalid order id"})
		return
	}

	order, svcErr := h.orders.GetOrderById(c.Request.Context(), id)
	if svcErr != nil {
		writeError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	filter := repository.OrderFilter{
		Status: domain.OrderStatus(c.Query("status")),
		Limit:  intQuery(c, "limit", 20),
		Offset: intQuery(c, "offset", 0),
	}

	cacheKey := "orders:" + c.Request.URL.RawQuery
	if h.rdb != nil {
		if b, err := h.rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var cached ListResponse
			if json.Unmarshal([]byte(b), &cached) == nil {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
	}

	orders, total, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := ListResponse{Data: orders, Total: total}
	if h.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			h.rdb.Set(c.Request.Context(), cacheKey, data, 10*time.Second)
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Kind: domain.KindValidation, Message: "invalid order id"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Kind: domain.KindValidation, Message: err.Error()})
		return
	}

	order, svcErr := h.orders.UpdateOrderStatus(c.Request.Context(), id, domain.OrderStatus(req.Status), actorID(c))
	if svcErr != nil {
		writeError(c, svcErr)
		return
	}

	h.invalidateOrderCaches(c)
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Kind: domain.KindValidation, Message: "invalid order id"})
		return
	}

	var req CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Kind: domain.KindValidation, Message: err.Error()})
			return
		}
	}

	order, svcErr := h.orders.CancelOrder(c.Request.Context(), id, req.Reason, actorID(c))
	if svcErr != nil {
		writeError(c, svcErr)
		return
	}

	h.invalidateOrderCaches(c)
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdjustStock(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Kind: domain.KindValidation, Message: err.Error()})
		return
	}

	movement, err := h.inventory.AdjustStock(c.Request.Context(), req.ProductID, req.Quantity, domain.MovementType(req.Type), req.Reason, actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

func (h *Handler) ListStockMovements(c *gin.Context) {
	filter := repository.MovementFilter{
		ProductID: uint64Query(c, "productId"),
		Type:      domain.MovementType(c.Query("type")),
		Reference: c.Query("reference"),
		TodayOnly: c.Query("today") == "true",
		Limit:     intQuery(c, "limit", 50),
		Offset:    intQuery(c, "offset", 0),
	}

	movements, total, err := h.inventory.GetStockHistory(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: movements, Total: total})
}

func (h *Handler) GetProductMovements(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Kind: domain.KindValidation, Message: "invalid product id"})
		return
	}

	filter := repository.MovementFilter{
		ProductID: id,
		Limit:     intQuery(c, "limit", 50),
		Offset:    intQuery(c, "offset", 0),
	}
	movements, total, svcErr := h.inventory.GetStockHistory(c.Request.Context(), filter)
	if svcErr != nil {
		writeError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: movements, Total: total})
}

func (h *Handler) LowStockReport(c *gin.Context) {
	report, err := h.inventory.LowStockReport(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) invalidateOrderCaches(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	ctx := context.Background()
	iter := h.rdb.Scan(ctx, 0, "orders:*", 100).Iterator()
	for iter.Next(ctx) {
		h.rdb.Del(ctx, iter.Val())
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func uint64Query(c *gin.Context, key string) uint64 {
	n, _ := strconv.ParseUint(c.Query(key), 10, 64)
	return n
}
