// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

/*
Package account provides the HTTP delivery layer for the customer's own
profile.

# Security

Every endpoint requires a bearer token. Authorization is delegated to the
[auth.Gate], which re-reads the live account record so banned accounts are
cut off even while holding a still-valid token.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/velora-shop/velora/internal/platform/request"
	"github.com/velora-shop/velora/internal/platform/respond"
	"github.com/velora-shop/velora/internal/platform/validate"
	"github.com/velora-shop/velora/internal/users/auth"
)

// Handler implements the HTTP layer for profile management.
type Handler struct {
	accountService *Service
	gate           *auth.Gate
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, gate *auth.Gate) *Handler {
	return &Handler{accountService: service, gate: gate}
}

// Routes returns a [chi.Router] configured with the profile endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.getProfile)
	router.Put("/", handler.updateProfile)

	return router
}

// # Profile Endpoints

/*
GET /api/v1/profile.

Description: Retrieves the authenticated user's own profile from the live
account record.

Response:
  - 200: PublicProfile
  - 401: ErrUnauthorized: Authentication required
  - 403: Banned account
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.gate.Authorize(request.Context(), requestutil.Claims(request), auth.Requirement{})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{auth.FieldUser: user.Profile()})
}

// updateProfileRequest defines the expected JSON payload for profile updates.
type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

/*
PUT /api/v1/profile.

Description: Replaces the authenticated user's name and email.

Request:
  - Body: updateProfileRequest (Name, Email)

Response:
  - 200: Confirmation message and updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 409: ErrConflict: Email already exists
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.gate.Authorize(request.Context(), requestutil.Claims(request), auth.Requirement{})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldName, input.Name).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.accountService.UpdateProfile(request.Context(), user, UpdateProfileInput{
		Name:  input.Name,
		Email: input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		auth.FieldMessage: "Profile updated successfully",
		auth.FieldUser:    updated.Profile(),
	})
}
