package transport

import (
	"net/http"
	"strconv"

	"lwg-storefront/internal/domain"
	"lwg-storefront/internal/middleware"
	"lwg-storefront/internal/repository"
	"lwg-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest represents an admin catalog write.
type CreateProductRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Category    string          `json:"category" validate:"required"`
	Tags        []string        `json:"tags"`
	Featured    bool            `json:"featured"`
}

// UpdateProductRequest is a partial catalog write: absent fields are left
// untouched.
type UpdateProductRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
	Stock       *int             `json:"stock"`
	Category    *string          `json:"category"`
	Tags        *[]string        `json:"tags"`
	Featured    *bool            `json:"featured"`
}

// ProductResponse wraps a single product in the success envelope.
type ProductResponse struct {
	OK      bool            `json:"ok"`
	Product *domain.Product `json:"product"`
}

// ProductListResponse wraps a product page plus the pre-pagination total.
type ProductListResponse struct {
	OK       bool              `json:"ok"`
	Products []*domain.Product `json:"products"`
	Total    int               `json:"total"`
}

// MessageResponse is a bare success acknowledgement.
type MessageResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers public catalog reads and admin-gated writes.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{idOrSlug}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})

	r.With(authMiddleware).Get("/api/admin/products", h.AdminList)
}

// List serves the public catalog query with search, category, price and
// pagination filters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseProductFilter(w, r)
	if !ok {
		return
	}

	products, total, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{OK: true, Products: products, Total: total})
}

// AdminList serves the unfiltered catalog for the admin panel.
func (h *ProductHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	products, total, err := h.catalog.List(r.Context(), repository.ProductFilter{})
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{OK: true, Products: products, Total: total})
}

// Get serves a single product by id or slug.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "idOrSlug"))
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to fetch product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductResponse{OK: true, Product: product})
}

// Create handles an admin catalog insert.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product data")
		return
	}

	product, err := h.catalog.Create(r.Context(), service.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Stock:       req.Stock,
		Category:    domain.Category(req.Category),
		Tags:        req.Tags,
		Featured:    req.Featured,
	})
	if err != nil {
		h.respondCatalogWriteError(w, err)
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, ProductResponse{OK: true, Product: product})
}

// Update handles an admin partial update.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product data")
		return
	}

	patch := &domain.ProductPatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Stock:       req.Stock,
		Tags:        req.Tags,
		Featured:    req.Featured,
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		patch.Category = &category
	}

	product, err := h.catalog.Update(r.Context(), id, patch)
	if err != nil {
		h.respondCatalogWriteError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductResponse{OK: true, Product: product})
}

// Delete handles an admin catalog removal.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{OK: true, Message: "product deleted successfully"})
}

func (h *ProductHandler) respondCatalogWriteError(w http.ResponseWriter, err error) {
	switch err {
	case service.ErrInvalidCategory, service.ErrNegativeStock, service.ErrInvalidPrice, service.ErrEmptySlug:
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case repository.ErrSlugAlreadyExists:
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case repository.ErrProductNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	default:
		h.logger.Error("Catalog write failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save product")
	}
}

func parseProductFilter(w http.ResponseWriter, r *http.Request) (repository.ProductFilter, bool) {
	query := r.URL.Query()

	filter := repository.ProductFilter{
		Search:   query.Get("q"),
		Category: query.Get("category"),
	}

	if raw := query.Get("min"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid min price")
			return filter, false
		}
		filter.MinPrice = &min
	}

	if raw := query.Get("max"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid max price")
			return filter, false
		}
		filter.MaxPrice = &max
	}

	filter.Page = parseIntParam(query.Get("page"), 1)
	filter.PageSize = parseIntParam(query.Get("pageSize"), repository.DefaultPageSize)

	return filter, true
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
