package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordenes/ordersys/internal/core/domain"
	"github.com/ordenes/ordersys/internal/core/service"
)

// HTTPHandler exposes the coordinator operations over REST. It is a thin
// adapter: validation of business rules stays in the domain and services.
type HTTPHandler struct {
	inventory *service.InventoryService
	orders    *service.OrderService
	clients   *service.ClientService
	notifier  *service.Notifier
}

func NewHTTPHandler(inventory *service.InventoryService, orders *service.OrderService, clients *service.ClientService, notifier *service.Notifier) *HTTPHandler {
	return &HTTPHandler{
		inventory: inventory,
		orders:    orders,
		clients:   clients,
		notifier:  notifier,
	}
}

// Register mounts all routes on the engine.
func (h *HTTPHandler) Register(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/products", h.listProducts)
	api.POST("/products", h.createProduct)
	api.POST("/stock/batch-update", h.updateStockBatch)
	api.POST("/stock/batch-restore", h.restoreStockBatch)
	api.GET("/orders", h.listOrders)
	api.POST("/orders", h.createOrder)
	api.POST("/orders/:id/cancel", h.cancelOrder)
	api.GET("/alerts", h.listAlerts)
	api.POST("/alerts/:id/read", h.markAlertRead)
	api.GET("/clients", h.listClients)
	api.POST("/clients", h.createClient)
}

func (h *HTTPHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Stock    int64           `json:"stock"`
	MinStock int64           `json:"min_stock"`
}

func (h *HTTPHandler) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.inventory.CreateProduct(c.Request.Context(), req.Name, req.Price, req.Stock, req.MinStock)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *HTTPHandler) listProducts(c *gin.Context) {
	products, err := h.inventory.GetAllProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

type batchItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required"`
}

type batchRequest struct {
	Items []batchItemRequest `json:"items" binding:"required"`
}

func (r batchRequest) toBatch() []service.BatchItem {
	items := make([]service.BatchItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = service.BatchItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return items
}

func (h *HTTPHandler) updateStockBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.inventory.UpdateStockBatch(c.Request.Context(), req.toBatch()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "applied"})
}

func (h *HTTPHandler) restoreStockBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.inventory.RestoreStockBatch(c.Request.Context(), req.toBatch()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "restored"})
}

type createOrderRequest struct {
	ClientID uuid.UUID          `json:"client_id" binding:"required"`
	Items    []batchItemRequest `json:"items" binding:"required"`
}

func (h *HTTPHandler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Unit prices are captured from the catalog at order time; the caller
	// only names products and quantities.
	products, err := h.inventory.GetAllProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	prices := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		price, ok := prices[item.ProductID]
		if !ok {
			writeError(c, domain.ErrProductNotFound)
			return
		}
		items[i] = domain.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: price}
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req.ClientID, items)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order, "total": order.Total()})
}

func (h *HTTPHandler) cancelOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if err := h.orders.CancelOrder(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *HTTPHandler) listOrders(c *gin.Context) {
	orders, err := h.orders.GetHistory(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *HTTPHandler) listAlerts(c *gin.Context) {
	alerts, err := h.notifier.GetHistory(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *HTTPHandler) markAlertRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	if err := h.notifier.MarkAsRead(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

type createClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

func (h *HTTPHandler) createClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	client, err := h.clients.CreateClient(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *HTTPHandler) listClients(c *gin.Context) {
	clients, err := h.clients.GetAllClients(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// writeError maps domain errors to HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidEmail):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrAlreadyCancelled):
		status = http.StatusConflict
	}

	body := gin.H{"error": err.Error()}
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		body["code"] = domainErr.Code
	}
	c.JSON(status, body)
}
