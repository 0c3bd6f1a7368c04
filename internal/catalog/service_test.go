// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package catalog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-shop/velora/internal/catalog"
	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/internal/users/admin"
	"github.com/velora-shop/velora/internal/users/auth"
)

// # Test Fakes

type memoryProductRepository struct {
	products  map[string]*catalog.Product
	listCalls int
}

func newMemoryProductRepository(seed ...*catalog.Product) *memoryProductRepository {
	repo := &memoryProductRepository{products: make(map[string]*catalog.Product)}
	for _, product := range seed {
		clone := *product
		repo.products[product.ID] = &clone
	}
	return repo
}

func (repo *memoryProductRepository) List(_ context.Context) ([]*catalog.Product, error) {
	repo.listCalls++
	products := make([]*catalog.Product, 0, len(repo.products))
	for _, product := range repo.products {
		clone := *product
		products = append(products, &clone)
	}
	return products, nil
}

func (repo *memoryProductRepository) FindByID(_ context.Context, id string) (*catalog.Product, error) {
	product, ok := repo.products[id]
	if !ok {
		return nil, apperr.NotFound("Product")
	}
	clone := *product
	return &clone, nil
}

func (repo *memoryProductRepository) Create(_ context.Context, product *catalog.Product) error {
	for _, existing := range repo.products {
		if existing.Slug == product.Slug {
			return apperr.Conflict("A product with this name already exists")
		}
	}
	clone := *product
	repo.products[product.ID] = &clone
	return nil
}

func (repo *memoryProductRepository) UpdateStock(_ context.Context, id string, quantity int) error {
	product, ok := repo.products[id]
	if !ok {
		return apperr.NotFound("Product")
	}
	product.StockQuantity = quantity
	return nil
}

// memoryListingCache tracks cache traffic and can simulate outages.
type memoryListingCache struct {
	listing     []*catalog.Product
	failing     bool
	invalidates int
}

var errCacheDown = errors.New("cache down")

func (cache *memoryListingCache) Get(_ context.Context) ([]*catalog.Product, error) {
	if cache.failing {
		return nil, errCacheDown
	}
	if cache.listing == nil {
		return nil, apperr.NotFound("Cached catalog")
	}
	return cache.listing, nil
}

func (cache *memoryListingCache) Set(_ context.Context, products []*catalog.Product) error {
	if cache.failing {
		return errCacheDown
	}
	cache.listing = products
	return nil
}

func (cache *memoryListingCache) Invalidate(_ context.Context) error {
	cache.invalidates++
	if cache.failing {
		return errCacheDown
	}
	cache.listing = nil
	return nil
}

type memoryAuditRepository struct {
	entries []*admin.Action
}

func (repo *memoryAuditRepository) Record(_ context.Context, action *admin.Action) error {
	repo.entries = append(repo.entries, action)
	return nil
}

func newCatalogFixture(seed ...*catalog.Product) (*catalog.Service, *memoryProductRepository, *memoryListingCache, *memoryAuditRepository) {
	repo := newMemoryProductRepository(seed...)
	cache := &memoryListingCache{}
	audit := &memoryAuditRepository{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return catalog.NewService(repo, cache, audit, logger), repo, cache, audit
}

var actorAdmin = &auth.User{ID: "a1", Email: "staff@example.com", IsAdmin: true}

// # Listing

/*
TestService_ListProducts covers the cache-aside read path: miss, hit, and
degraded cache.
*/
func TestService_ListProducts(t *testing.T) {
	seed := &catalog.Product{ID: "p1", Name: "Teapot", Slug: "teapot", PriceCents: 1999, StockQuantity: 5}

	t.Run("miss_populates_cache", func(t *testing.T) {
		service, repo, cache, _ := newCatalogFixture(seed)

		products, err := service.ListProducts(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, 1, repo.listCalls)
		assert.NotNil(t, cache.listing)
	})

	t.Run("hit_skips_database", func(t *testing.T) {
		service, repo, _, _ := newCatalogFixture(seed)

		_, err := service.ListProducts(context.Background())
		require.NoError(t, err)

		products, err := service.ListProducts(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, 1, repo.listCalls)
	})

	t.Run("cache_outage_degrades_to_database", func(t *testing.T) {
		service, repo, cache, _ := newCatalogFixture(seed)
		cache.failing = true

		products, err := service.ListProducts(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, 1, repo.listCalls)
	})
}

// # Mutations

/*
TestService_CreateProduct covers slug derivation, cache invalidation, and
the audit record.
*/
func TestService_CreateProduct(t *testing.T) {
	t.Run("creates_with_derived_slug", func(t *testing.T) {
		service, repo, cache, audit := newCatalogFixture()

		product, err := service.CreateProduct(context.Background(), actorAdmin, catalog.CreateProductInput{
			Name:          "Café Grinder Pro",
			Category:      "kitchen",
			Description:   "Burr grinder",
			PriceCents:    12900,
			StockQuantity: 10,
		})
		require.NoError(t, err)

		assert.Equal(t, "cafe-grinder-pro", product.Slug)
		assert.NotEmpty(t, product.ID)

		stored, err := repo.FindByID(context.Background(), product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Café Grinder Pro", stored.Name)
		assert.Equal(t, "kitchen", stored.Category)

		assert.Equal(t, 1, cache.invalidates)
		require.Len(t, audit.entries, 1)
		assert.Equal(t, catalog.ActionCreateProduct, audit.entries[0].Action)
	})

	t.Run("duplicate_name_conflicts", func(t *testing.T) {
		existing := &catalog.Product{ID: "p1", Name: "Teapot", Slug: "teapot"}
		service, _, _, _ := newCatalogFixture(existing)

		_, err := service.CreateProduct(context.Background(), actorAdmin, catalog.CreateProductInput{
			Name: "Teapot",
		})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	})
}

/*
TestService_UpdateStock covers the write-through path, invalidation, and
the unknown-product case.
*/
func TestService_UpdateStock(t *testing.T) {
	t.Run("replaces_quantity", func(t *testing.T) {
		seed := &catalog.Product{ID: "p1", Name: "Teapot", Slug: "teapot", StockQuantity: 5}
		service, repo, cache, audit := newCatalogFixture(seed)

		product, err := service.UpdateStock(context.Background(), actorAdmin, "p1", 42, "restock")
		require.NoError(t, err)
		assert.Equal(t, 42, product.StockQuantity)

		stored, err := repo.FindByID(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, 42, stored.StockQuantity)

		assert.Equal(t, 1, cache.invalidates)
		require.Len(t, audit.entries, 1)
		assert.Equal(t, catalog.ActionUpdateStock, audit.entries[0].Action)
	})

	t.Run("unknown_product", func(t *testing.T) {
		service, _, _, _ := newCatalogFixture()

		_, err := service.UpdateStock(context.Background(), actorAdmin, "ghost", 1, "")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	})

	t.Run("audit_outage_does_not_fail_the_update", func(t *testing.T) {
		seed := &catalog.Product{ID: "p1", Name: "Teapot", Slug: "teapot", StockQuantity: 5}
		repo := newMemoryProductRepository(seed)
		cache := &memoryListingCache{}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := catalog.NewService(repo, cache, failingAuditRepository{}, logger)

		product, err := service.UpdateStock(context.Background(), actorAdmin, "p1", 7, "inventory recount")
		require.NoError(t, err)
		assert.Equal(t, 7, product.StockQuantity)
	})
}

type failingAuditRepository struct{}

func (failingAuditRepository) Record(_ context.Context, _ *admin.Action) error {
	return errors.New("audit store down")
}
