package product

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dpereira/go-product-api/internal/api"
	"github.com/dpereira/go-product-api/internal/api/auth"
	"github.com/dpereira/go-product-api/internal/types"
)

type ProductHandler struct {
	productService ProductService
	authService    auth.AuthService
	logger         *slog.Logger
}

func NewProductHandler(productService ProductService, authService auth.AuthService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		authService:    authService,
		logger:         logger,
	}
}

func parseProductID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "productID"))
}

// CreateProduct godoc
// @Summary      Create Product
// @Description  Creates a new product owned by the authenticated user.
// @Tags         Products
// @Accept       json
// @Produce      json
// @Success      201 {object} types.Product "Created Product"
// @Failure      401 {object} map[string]interface{} "Unauthorized"
// @Failure      422 {object} map[string]interface{} "Validation Error"
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateProduct"))

	user, ok := auth.GetUserFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var req CreateProductRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := h.productService.CreateProduct(ctx, user, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create product", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create product")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, created)
}

// GetProduct returns a single product by id.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := parseProductID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	product, err := h.productService.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to fetch product", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, product)
}

// ListProducts returns every product in the catalog.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.productService.GetAllProducts(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list products", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list products")
		return
	}
	if products == nil {
		products = []types.Product{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, products)
}

// SearchProducts returns products whose name matches case-insensitively.
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	products, err := h.productService.SearchProducts(ctx, name)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to search products", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search products")
		return
	}
	if products == nil {
		products = []types.Product{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, products)
}

// UpdateProduct godoc
// @Summary      Update Product
// @Description  Fully updates a product. Only the owner may update it.
// @Tags         Products
// @Accept       json
// @Produce      json
// @Success      200 {object} types.Product "Updated Product"
// @Failure      403 {object} map[string]interface{} "Forbidden"
// @Failure      404 {object} map[string]interface{} "Not Found"
// @Security     BearerAuth
// @Router       /products/{productID} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateProduct"))

	user, ok := auth.GetUserFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	productID, err := parseProductID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var req UpdateProductRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	existing, err := h.productService.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Product not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch product", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	if err := h.authService.AuthorizeOwner(user, existing.OwnerID); err != nil {
		api.ErrorResponse(w, r, http.StatusForbidden, "You do not have permission to update this product")
		return
	}

	updated, err := h.productService.UpdateProduct(ctx, productID, req)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Product not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update product", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update product")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, updated)
}

// PatchProduct applies a partial update restricted to the permitted fields.
func (h *ProductHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "PatchProduct"))

	user, ok := auth.GetUserFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	productID, err := parseProductID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var patch types.ProductPatch
	if err := api.DecodeJSONBody(w, r, &patch); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if patch.IsEmpty() {
		api.ErrorResponse(w, r, http.StatusBadRequest, "No fields to update")
		return
	}
	if err := ValidatePatch(patch); err != nil {
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	existing, err := h.productService.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Product not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch product", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	if err := h.authService.AuthorizeOwner(user, existing.OwnerID); err != nil {
		api.ErrorResponse(w, r, http.StatusForbidden, "You do not have permission to update this product")
		return
	}

	updated, err := h.productService.PatchProduct(ctx, productID, patch)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Product not found")
			return
		}
		l.ErrorContext(ctx, "Failed to patch product", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update product")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, updated)
}

// DeleteProduct removes a product. Only the owner may delete it.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteProduct"))

	user, ok := auth.GetUserFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	productID, err := parseProductID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	ownerID, err := h.productService.GetProductOwner(ctx, productID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Product not found")
			return
		}
		l.ErrorContext(ctx, "Failed to resolve product owner", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	if err := h.authService.AuthorizeOwner(user, ownerID); err != nil {
		api.ErrorResponse(w, r, http.StatusForbidden, "You do not have permission to delete this product")
		return
	}

	if err := h.productService.DeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Product not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete product", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
