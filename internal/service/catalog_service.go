package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.uber.org/zap"
)

const trendingLimit = 3

// ErrCategoryNotFound means no category matched the requested name.
var ErrCategoryNotFound = errors.New("category not found")

// CatalogService serves read-mostly product and category lookups
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ListProducts returns the whole catalog
func (cs *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return cs.store.GetProducts(ctx)
}

// LatestProducts returns the newest catalog entries
func (cs *CatalogService) LatestProducts(ctx context.Context, limit int) ([]models.Product, error) {
	return cs.store.GetLatestProducts(ctx, limit)
}

// TrendingProducts ranks products by how many live carts hold them
func (cs *CatalogService) TrendingProducts(ctx context.Context) ([]models.Product, error) {
	return cs.store.GetTrendingProducts(ctx, trendingLimit)
}

// ProductsByCategory looks up a category by case-insensitive name and
// returns its products.
func (cs *CatalogService) ProductsByCategory(ctx context.Context, name string) (*models.Category, []models.Product, error) {
	category, err := cs.store.GetCategoryByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		cs.logger.Warn("Category not found", zap.String("name", name))
		return nil, nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	products, err := cs.store.GetProductsByCategory(ctx, category.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list category products: %w", err)
	}
	return category, products, nil
}

// ProductDetails returns one product with its parsed feature list
func (cs *CatalogService) ProductDetails(ctx context.Context, productID int64) (*models.Product, []string, error) {
	product, err := cs.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	return product, product.FeatureList(), nil
}
