// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

/*
Package catalog implements the storefront's product listing and stock
management.

# Architecture

Reads go through a cache-aside Redis layer so the public listing endpoint
never hammers PostgreSQL; every stock or catalog mutation invalidates the
cached listing. Authorization for mutations runs through the [auth.Gate].
*/
package catalog

import (
	"time"

	"github.com/velora-shop/velora/pkg/slug"
)

// # Domain Entities

// Product represents a single sellable item in the storefront.
//
// # Rules
//   - Slug is derived from the name at creation time and is URL-safe.
//   - PriceCents stores money as integer cents; no floats anywhere.
//   - StockQuantity never goes below zero.
type Product struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Category      string `json:"category"`
	Description   string `json:"description,omitempty"`
	PriceCents    int64  `json:"priceCents"`
	StockQuantity int    `json:"stockQuantity"`
	ImageURL      string `json:"imageUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InStock reports whether the product can currently be sold.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// MakeSlug derives the URL-safe identifier for a product name.
func MakeSlug(name string) string {
	return slug.From(name)
}

// # Field Identifiers

// Global field names for validation and response mapping in the catalog domain.
const (
	FieldName          = "name"
	FieldCategory      = "category"
	FieldDescription   = "description"
	FieldPriceCents    = "priceCents"
	FieldStockQuantity = "stockQuantity"
	FieldImageURL      = "imageUrl"
	FieldReason        = "reason"
	FieldProduct       = "product"
	FieldProducts      = "products"
	FieldMessage       = "message"
)
