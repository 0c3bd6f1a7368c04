// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/velora-shop/velora/internal/platform/request"
	"github.com/velora-shop/velora/internal/platform/respond"
	"github.com/velora-shop/velora/internal/platform/validate"
	"github.com/velora-shop/velora/internal/users/auth"
)

// # Definitions & Constructors

// Handler implements the HTTP layer for the product catalog.
type Handler struct {
	catalogService *Service
	gate           *auth.Gate
}

// NewHandler constructs a new catalog [Handler].
func NewHandler(service *Service, gate *auth.Gate) *Handler {
	return &Handler{catalogService: service, gate: gate}
}

// Routes returns a [chi.Router] configured with the catalog endpoints.
//
// # Endpoints
//   - GET  /            : Public product listing (cached).
//   - POST /            : Add a product (admin).
//   - PUT  /{id}/stock  : Replace a product's stock quantity (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listProducts)
	router.Post("/", handler.createProduct)
	router.Put("/{id}/stock", handler.updateStock)

	return router
}

// # Request Payloads

type createProductRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	PriceCents    int64  `json:"priceCents"`
	StockQuantity int    `json:"stockQuantity"`
	ImageURL      string `json:"imageUrl"`
}

type updateStockRequest struct {
	StockQuantity *int   `json:"stockQuantity"`
	Reason        string `json:"reason"`
}

// # Endpoints

/*
ListProducts returns the full catalog. Public, no authentication.

GET /api/v1/products

Response:
  - 200: Products: The full listing (cache-aside)
*/
func (handler *Handler) listProducts(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.catalogService.ListProducts(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Serialize an empty listing as [], not null.
	if products == nil {
		products = []*Product{}
	}

	respond.OK(writer, map[string]any{FieldProducts: products})
}

/*
CreateProduct adds a new product to the catalog.

POST /api/v1/products

Request:
  - Body: createProductRequest (Name, Category, Description, PriceCents,
    StockQuantity, ImageURL)

Response:
  - 201: Confirmation message and created entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 403: ErrForbidden: Admin access required
  - 409: ErrConflict: Duplicate product name
*/
func (handler *Handler) createProduct(writer http.ResponseWriter, request *http.Request) {
	actor, err := handler.gate.Authorize(request.Context(), requestutil.Claims(request), auth.Requirement{Admin: true})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createProductRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		Required(FieldCategory, input.Category).
		Min(FieldPriceCents, int(input.PriceCents), 0).
		Min(FieldStockQuantity, input.StockQuantity, 0)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.catalogService.CreateProduct(request.Context(), actor, CreateProductInput{
		Name:          input.Name,
		Category:      input.Category,
		Description:   input.Description,
		PriceCents:    input.PriceCents,
		StockQuantity: input.StockQuantity,
		ImageURL:      input.ImageURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		FieldMessage: "Product created successfully",
		FieldProduct: product,
	})
}

/*
UpdateStock replaces a product's stock quantity.

PUT /api/v1/products/{id}/stock

Request:
  - Body: updateStockRequest (StockQuantity required and non-negative,
    Reason optional, recorded in the audit trail)

Response:
  - 200: Confirmation message and updated entity
  - 400: ErrInvalidJSON/Validation: Missing or negative quantity
  - 403: ErrForbidden: Admin access required
  - 404: ErrNotFound: Unknown product
*/
func (handler *Handler) updateStock(writer http.ResponseWriter, request *http.Request) {
	actor, err := handler.gate.Authorize(request.Context(), requestutil.Claims(request), auth.Requirement{Admin: true})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateStockRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	if input.StockQuantity == nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Min(FieldStockQuantity, *input.StockQuantity, 0)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.catalogService.UpdateStock(request.Context(), actor, requestutil.Param(request, "id"), *input.StockQuantity, input.Reason)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Stock updated successfully",
		FieldProduct: product,
	})
}
