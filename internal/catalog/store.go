// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package catalog

import "context"

// # Product Data Access

// ProductRepository defines the data access contract for products.
type ProductRepository interface {

	/*
		List returns every product ordered by name.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Product: The full catalog
		  - error: Database retrieval failures
	*/
	List(context context.Context) ([]*Product, error)

	/*
		FindByID returns the product with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Product: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Product, error)

	/*
		Create persists a brand-new product.

		Parameters:
		  - context: context.Context
		  - product: *Product

		Returns:
		  - error: apperr.Conflict on duplicate slug, or persistence failures
	*/
	Create(context context.Context, product *Product) error

	/*
		UpdateStock replaces the product's stock quantity.

		Parameters:
		  - context: context.Context
		  - id: string
		  - quantity: int (non-negative, validated by the service)

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	UpdateStock(context context.Context, id string, quantity int) error
}

// # Listing Cache

// ListingCache is the advisory cache for the full product listing.
//
// A cache failure is never fatal: Get misses fall through to the database
// and Set/Invalidate errors are logged and swallowed by the service.
type ListingCache interface {

	// Get returns the cached listing, or apperr.NotFound on a miss.
	Get(context context.Context) ([]*Product, error)

	// Set stores the listing with the configured TTL.
	Set(context context.Context, products []*Product) error

	// Invalidate drops the cached listing.
	Invalidate(context context.Context) error
}
