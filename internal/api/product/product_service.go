package product

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/dpereira/go-product-api/internal/types"
)

var _ ProductService = (*ProductServiceImpl)(nil)

// ProductService defines the business logic contract for product operations.
// Ownership authorization happens at the route layer before the mutating
// operations here are reached.
type ProductService interface {
	CreateProduct(ctx context.Context, owner *types.User, req CreateProductRequest) (*types.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*types.Product, error)
	GetAllProducts(ctx context.Context) ([]types.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*types.Product, error)
	PatchProduct(ctx context.Context, id uuid.UUID, patch types.ProductPatch) (*types.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SearchProducts(ctx context.Context, name string) ([]types.Product, error)
	GetProductOwner(ctx context.Context, id uuid.UUID) (string, error)
}

const (
	cacheKeyAll          = "products:all"
	cacheKeySearchPrefix = "products:search:"
)

// ProductServiceImpl provides the implementation for ProductService. Read
// paths are cached briefly; every mutation flushes the cache. User records
// are never cached here.
type ProductServiceImpl struct {
	logger *slog.Logger
	repo   ProductRepo
	cache  *gocache.Cache
}

// NewProductService creates a new product service instance.
func NewProductService(repo ProductRepo, logger *slog.Logger) *ProductServiceImpl {
	return &ProductServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  gocache.New(30*time.Second, time.Minute),
	}
}

func (s *ProductServiceImpl) CreateProduct(ctx context.Context, owner *types.User, req CreateProductRequest) (*types.Product, error) {
	l := s.logger.With(slog.String("method", "CreateProduct"), slog.String("ownerID", owner.ID))

	now := time.Now().UTC()
	product := &types.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		OwnerID:     owner.ID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.InsertProduct(ctx, product); err != nil {
		l.ErrorContext(ctx, "Failed to insert product", slog.Any("error", err))
		return nil, fmt.Errorf("error creating product: %w", err)
	}

	s.cache.Flush()
	l.InfoContext(ctx, "Product created", slog.String("productID", product.ID))
	return product, nil
}

func (s *ProductServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *ProductServiceImpl) GetAllProducts(ctx context.Context) ([]types.Product, error) {
	if cached, found := s.cache.Get(cacheKeyAll); found {
		return cached.([]types.Product), nil
	}

	products, err := s.repo.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKeyAll, products, gocache.DefaultExpiration)
	return products, nil
}

func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*types.Product, error) {
	product := &types.Product{
		ID:          id.String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.cache.Flush()
	return s.repo.GetProductByID(ctx, id)
}

func (s *ProductServiceImpl) PatchProduct(ctx context.Context, id uuid.UUID, patch types.ProductPatch) (*types.Product, error) {
	updated, err := s.repo.PatchProduct(ctx, id, patch, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.cache.Flush()
	return updated, nil
}

func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.cache.Flush()
	return nil
}

func (s *ProductServiceImpl) SearchProducts(ctx context.Context, name string) ([]types.Product, error) {
	cacheKey := cacheKeySearchPrefix + name
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]types.Product), nil
	}

	products, err := s.repo.SearchProductsByName(ctx, name)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, products, gocache.DefaultExpiration)
	return products, nil
}

func (s *ProductServiceImpl) GetProductOwner(ctx context.Context, id uuid.UUID) (string, error) {
	return s.repo.GetProductOwner(ctx, id)
}
