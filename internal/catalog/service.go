// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/velora-shop/velora/internal/platform/dberr"
	"github.com/velora-shop/velora/internal/users/admin"
	"github.com/velora-shop/velora/internal/users/auth"
	"github.com/velora-shop/velora/pkg/uuid"
)

// Audit action identifiers recorded for catalog mutations.
const (
	ActionCreateProduct = "create_product"
	ActionUpdateStock   = "update_stock"
)

// # Service Layer

// Service orchestrates catalog reads and stock management.
//
// # Caching
//
// The public listing is served cache-aside: a Redis hit skips PostgreSQL
// entirely, a miss repopulates the cache with a short TTL, and every
// mutation invalidates it. The cache is advisory; any cache failure
// degrades to a direct database read and a warning log.
type Service struct {
	productRepository ProductRepository
	listingCache      ListingCache
	auditRepository   admin.AuditRepository
	logger            *slog.Logger
}

// NewService constructs a new catalog [Service] with its dependencies.
func NewService(
	productRepo ProductRepository,
	cache ListingCache,
	auditRepo admin.AuditRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		productRepository: productRepo,
		listingCache:      cache,
		auditRepository:   auditRepo,
		logger:            logger,
	}
}

// # Public Reads

/*
ListProducts returns the full catalog, served from cache when possible.

Parameters:
  - context: context.Context

Returns:
  - []*Product: The full catalog
  - error: Database failures (cache failures never surface)
*/
func (service *Service) ListProducts(context context.Context) ([]*Product, error) {

	// ── 1. Cache probe ────────────────────────────────────────────────────
	cached, err := service.listingCache.Get(context)
	if err == nil {
		return cached, nil
	}
	if !dberr.IsNotFound(err) {
		service.logger.Warn("catalog_cache_get_failed", slog.String("error", err.Error()))
	}

	// ── 2. Authoritative read ─────────────────────────────────────────────
	products, err := service.productRepository.List(context)
	if err != nil {
		return nil, err
	}

	// ── 3. Repopulate (best-effort) ───────────────────────────────────────
	if err := service.listingCache.Set(context, products); err != nil {
		service.logger.Warn("catalog_cache_set_failed", slog.String("error", err.Error()))
	}

	return products, nil
}

// # Admin Mutations

// CreateProductInput describes a new catalog entry.
type CreateProductInput struct {
	Name          string
	Category      string
	Description   string
	PriceCents    int64
	StockQuantity int
	ImageURL      string
}

/*
CreateProduct adds a new product to the catalog.

Description: Derives the URL slug from the name, persists the entity, and
invalidates the cached listing.

Parameters:
  - context: context.Context
  - actor: *auth.User (live acting admin)
  - input: CreateProductInput

Returns:
  - *Product: The created entity
  - error: apperr.Conflict on duplicate slug, or storage failures
*/
func (service *Service) CreateProduct(context context.Context, actor *auth.User, input CreateProductInput) (*Product, error) {
	product := &Product{
		ID:            uuid.New(),
		Name:          input.Name,
		Slug:          MakeSlug(input.Name),
		Category:      input.Category,
		Description:   input.Description,
		PriceCents:    input.PriceCents,
		StockQuantity: input.StockQuantity,
		ImageURL:      input.ImageURL,
	}

	if err := service.productRepository.Create(context, product); err != nil {
		return nil, err
	}

	service.invalidateListing(context)
	service.recordAction(context, actor.ID, product.ID, ActionCreateProduct, map[string]any{
		FieldName: input.Name,
	})

	return product, nil
}

/*
UpdateStock replaces a product's stock quantity.

Description: The write is a single atomic statement; the cached listing is
invalidated afterwards so the storefront reflects the change within one
cache TTL at worst, immediately on the next uncached read.

Parameters:
  - context: context.Context
  - actor: *auth.User (live acting admin)
  - productID: string
  - quantity: int (non-negative, validated at the handler)
  - reason: string (free-form, recorded in the audit trail)

Returns:
  - *Product: The updated entity
  - error: apperr.NotFound or storage failures
*/
func (service *Service) UpdateStock(context context.Context, actor *auth.User, productID string, quantity int, reason string) (*Product, error) {
	if err := service.productRepository.UpdateStock(context, productID, quantity); err != nil {
		return nil, err
	}

	product, err := service.productRepository.FindByID(context, productID)
	if err != nil {
		return nil, err
	}

	service.invalidateListing(context)
	service.recordAction(context, actor.ID, product.ID, ActionUpdateStock, map[string]any{
		FieldStockQuantity: quantity,
		FieldReason:        reason,
	})

	return product, nil
}

// # Internals

// invalidateListing drops the cached listing. Best-effort: the TTL bounds
// staleness even when the delete fails.
func (service *Service) invalidateListing(context context.Context) {
	if err := service.listingCache.Invalidate(context); err != nil {
		service.logger.Warn("catalog_cache_invalidate_failed", slog.String("error", err.Error()))
	}
}

// recordAction appends to the audit trail. Best-effort, like the admin
// module's moderation trail.
func (service *Service) recordAction(context context.Context, actorID, productID, action string, details map[string]any) {
	entry := &admin.Action{
		ID:        uuid.New(),
		ActorID:   actorID,
		TargetID:  &productID,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now(),
	}

	if err := service.auditRepository.Record(context, entry); err != nil {
		service.logger.Warn("catalog_audit_record_failed",
			slog.String("action", action),
			slog.String("error", err.Error()))
	}
}
