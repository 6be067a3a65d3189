package transport

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"lwg-storefront/internal/domain"
	"lwg-storefront/internal/middleware"
	"lwg-storefront/internal/repository"
	"lwg-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderItemRequest is a checkout line item as submitted by the client.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Qty       int    `json:"qty" validate:"required,gte=1"`
}

// CreateOrderRequest is the checkout payload. The totals are client
// arithmetic and are verified server-side, never trusted.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	DeliveryFee     decimal.Decimal    `json:"delivery_fee"`
	GrandTotal      decimal.Decimal    `json:"grand_total"`
	CustomerName    string             `json:"customer_name" validate:"required"`
	CustomerEmail   string             `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerAddress string             `json:"customer_address" validate:"required"`
	DeliveryZone    string             `json:"delivery_zone" validate:"required"`
	PaymentMethod   string             `json:"payment_method" validate:"required"`
	Notes           string             `json:"notes"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderCreatedResponse acknowledges a placed order with the fields the
// confirmation page needs.
type OrderCreatedResponse struct {
	OK    bool         `json:"ok"`
	Order OrderReceipt `json:"order"`
}

// OrderReceipt is the minimal confirmation payload.
type OrderReceipt struct {
	ID        string `json:"id"`
	Ref       string `json:"ref"`
	CreatedAt string `json:"created_at"`
}

// OrderResponse wraps a full order in the success envelope.
type OrderResponse struct {
	OK    bool          `json:"ok"`
	Order *domain.Order `json:"order"`
}

// OrderListResponse wraps an order page plus the pre-pagination total.
type OrderListResponse struct {
	OK     bool            `json:"ok"`
	Orders []*domain.Order `json:"orders"`
	Total  int             `json:"total"`
}

// OrderHandler handles HTTP requests for checkout and order tracking.
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// RegisterRoutes registers public checkout and tracking routes plus the
// admin order management routes. The lookup route is registered before the
// ref wildcard so "lookup" is never treated as a reference.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/lookup", h.Lookup)
		r.Get("/{ref}", h.GetByRef)
	})

	r.Get("/api/receipt/{ref}", h.Receipt)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/api/admin/orders", h.AdminList)
		r.Put("/api/admin/orders/{id}/status", h.UpdateStatus)
	})
}

// Create handles checkout. On success it responds 201 with the order's id,
// reference and creation time.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order data")
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, line := range req.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id in order items")
			return
		}
		items = append(items, service.OrderItemInput{ProductID: productID, Qty: line.Qty})
	}

	order, err := h.orders.Create(r.Context(), service.CreateOrderInput{
		Items:           items,
		Subtotal:        req.Subtotal,
		DeliveryFee:     req.DeliveryFee,
		GrandTotal:      req.GrandTotal,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		DeliveryZone:    domain.DeliveryZone(req.DeliveryZone),
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		Notes:           req.Notes,
	})
	if err != nil {
		switch err {
		case service.ErrNoItems, service.ErrInvalidQty, service.ErrInvalidZone,
			service.ErrInvalidPayment, service.ErrTotalMismatch, service.ErrUnknownProduct:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		}
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("ref", order.Ref),
		zap.String("grand_total", order.GrandTotal.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, OrderCreatedResponse{
		OK: true,
		Order: OrderReceipt{
			ID:        order.ID.String(),
			Ref:       order.Ref,
			CreatedAt: order.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
}

// GetByRef serves a single order by its customer-facing reference.
func (h *OrderHandler) GetByRef(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetByRef(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to fetch order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderResponse{OK: true, Order: order})
}

// Lookup finds the customer's latest order by email or phone.
func (h *OrderHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	if email == "" && phone == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "email or phone is required")
		return
	}

	orders, err := h.orders.LookupByCustomer(r.Context(), email, phone)
	if err != nil {
		h.logger.Error("Order lookup failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to look up orders")
		return
	}
	if len(orders) == 0 {
		middleware.RespondWithError(w, http.StatusNotFound, "no orders found")
		return
	}

	// Orders come back newest first; the tracking page wants the latest.
	middleware.RespondWithJSON(w, http.StatusOK, OrderResponse{OK: true, Order: orders[0]})
}

// Receipt serves a plain-text receipt for an order.
// TODO: render a proper PDF once a layout is agreed with the storefront.
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetByRef(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to fetch order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch order")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Receipt %s\n", order.Ref)
	fmt.Fprintf(&b, "Placed: %s\n", order.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "Customer: %s\n\n", order.CustomerName)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%dx %s @ %s\n", item.Qty, item.Title, item.UnitPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", order.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Delivery (%s): %s\n", order.DeliveryZone, order.DeliveryFee.StringFixed(2))
	fmt.Fprintf(&b, "Total: %s\n", order.GrandTotal.StringFixed(2))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "receipt-"+order.Ref+".txt"))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(b.String()))
}

// AdminList serves the paginated order book, newest first.
func (h *OrderHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseIntParam(query.Get("page"), 1)
	pageSize := parseIntParam(query.Get("pageSize"), repository.DefaultPageSize)

	orders, total, err := h.orders.List(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderListResponse{OK: true, Orders: orders, Total: total})
}

// UpdateStatus moves an order through its lifecycle.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid status payload")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		switch err {
		case service.ErrInvalidStatus, service.ErrInvalidTransition:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case repository.ErrOrderNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Failed to update order status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order")
		}
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, OrderResponse{OK: true, Order: order})
}
