// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

/*
Package admin provides the moderation and role management layer of the
storefront: the user directory, role toggles, bans, permission grants, and
super admin tooling.

# Security

Every protected endpoint authorizes through the [auth.Gate] with the role
tier it demands, so decisions always run against the live account record.
The lone public endpoint is the dedicated super admin login.
*/
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/velora-shop/velora/internal/platform/request"
	"github.com/velora-shop/velora/internal/platform/respond"
	"github.com/velora-shop/velora/internal/platform/validate"
	"github.com/velora-shop/velora/internal/users/auth"
)

// # Definitions & Constructors

// Handler implements the HTTP layer for administration.
type Handler struct {
	adminService *Service
	gate         *auth.Gate
}

// NewHandler constructs a new admin [Handler].
func NewHandler(service *Service, gate *auth.Gate) *Handler {
	return &Handler{adminService: service, gate: gate}
}

// Routes returns a [chi.Router] configured with the admin domain's endpoints.
//
// # Endpoints
//   - POST /authenticate            : Dedicated super admin login (public).
//   - GET  /users                   : User directory.
//   - PUT  /users/{id}              : Toggle the admin role.
//   - POST /users/{id}/ban          : Ban an account.
//   - POST /users/{id}/unban        : Lift a ban.
//   - PUT  /users/{id}/permissions  : Replace an admin's permission set.
//   - POST /admins                  : Provision a new admin account.
//   - POST /verify-super-admin      : Probe the caller's super admin status.
//   - POST /verify-password         : Re-confirm via a super admin password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/authenticate", handler.authenticate)

	router.Get("/users", handler.listUsers)
	router.Put("/users/{id}", handler.setAdminFlag)
	router.Post("/users/{id}/ban", handler.banUser)
	router.Post("/users/{id}/unban", handler.unbanUser)
	router.Put("/users/{id}/permissions", handler.setPermissions)
	router.Post("/admins", handler.createAdmin)
	router.Post("/verify-super-admin", handler.verifySuperAdmin)
	router.Post("/verify-password", handler.verifyPassword)

	return router
}

// # Request Payloads

type authenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type setAdminFlagRequest struct {
	IsAdmin *bool `json:"isAdmin"`
}

type banRequest struct {
	DurationMinutes *int   `json:"durationMinutes"`
	Reason          string `json:"reason"`
}

type setPermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

type createAdminRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Permissions []string `json:"permissions"`
}

type verifyPasswordRequest struct {
	Password string `json:"password"`
}

// # Public Endpoints

/*
Authenticate performs the dedicated super admin login.

POST /api/v1/admin/authenticate

Response:
  - 200: Token and account entity
  - 401: ErrUnauthorized: Invalid credentials or insufficient privileges
*/
func (handler *Handler) authenticate(writer http.ResponseWriter, request *http.Request) {
	var input authenticateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldEmail, input.Email)
	validator.Required(auth.FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.adminService.AuthenticateSuperAdmin(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		auth.FieldToken: session.Token,
		auth.FieldUser:  session.User.Profile(),
	})
}

// # Directory Endpoints

/*
ListUsers returns the full user directory for the admin dashboard.

GET /api/v1/admin/users

Response:
  - 200: Users plus the caller's own super admin flag (for the dashboard)
  - 401/403: Authentication or role failure
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	actor, err := handler.gate.Authorize(request.Context(), requestutil.Claims(request), auth.Requirement{Admin: true})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	users, err := handler.adminService.ListUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The directory needs the moderation fields (ban state, permissions),
	// so the full entity is serialized rather than the owner profile shape.
	// PasswordHash is excluded at the JSON layer.
	if users == nil {
		users = []*auth.User{}
	}

	respond.OK(writer, map[string]any{
		auth.FieldUsers: users,
		auth.FieldCurrentUser: map[string]any{
			auth.FieldIsSuperAdmin: actor.IsSuperAdmin,
		},
	})
}

/*
SetAdminFlag toggles the admin role on a target account.

PUT /api/v1/admin/users/{id}

Request:
  - Body: setAdminFlagRequest (IsAdmin, required)

Response:
  - 200: Confirmation message and updated entity
  - 403: ErrForbidden: Super admin target immunity
  - 404: ErrNotFound: Unknown target
*/
func (handler *Handler) setAdminFlag(writer http.ResponseWriter, request *http.Request) {
	actor, err := handler.gate.Authorize(request.Context(), requestutil.Claims(request), auth.Requirement{Admin: true})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setAdminFlagRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	if input.IsAdmin == nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	target, err := handler.adminService.SetAdminFlag(request.Context(), actor, requestutil.Param(request, "id"), *input.IsAdmin)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		auth.FieldMessage: "User updated successfully",
		auth.FieldUser:    target,
	})
}

// # Moderation Endpoints

/*
BanUser blocks a target account, permanently or for a bounded duration.

POST /api/v1/admin/users/{id}/ban

Request:
  - Body: banRequest (DurationMinutes optional, Reason optional)

Response:
  - 200: Confirmation message and updated entity
  - 403: ErrForbidden: Super admin target immunity
  - 404: ErrNotFound: Unknown target
*/
func (handler *Handler) banUser(writer http.ResponseWriter, request *http.Request) {
	actor, err := handler.gate.Authorize(request.Context(), requestutil.Claims(request), auth.Requirement{Admin: true})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input banRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.DurationMinutes != nil {
		validator := &validate.Validator{}
		validator.Min(auth.FieldDurationMinutes, *input.DurationMinutes, 1)
		if err := validator.Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	target, err := handler.adminService.Ban(request.Context(), actor, requestutil.Param(request, "id"), BanInput{
		DurationMinutes: input.DurationMinutes,
		Reason:          input.Reason,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		auth.FieldMessage: "User banned successfully",
		auth.FieldUser:    target,
	})
}

/*
UnbanUser lifts a target account's ban. Idempotent.

POST /api/v1/admin/users/{id}/unban

Response:
  - 200: Confirmation message and updated entity
  - 403: ErrForbidden: Super admin target immunity
  - 404: ErrNotFound: Unknown target
*/
func (handler *Handler) unbanUser(writer http.ResponseWriter, request *http.Request) {
	actor, err := handler.gate.Authorize(request.Context(), requestutil.Claims(request), auth.Requirement{Admin: true})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	target, err := handler.adminService.Unban(request.Context(), actor, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		auth.FieldMessage: "User unbanned successfully",
		auth.FieldUser:    target,
	})
}

// # Super Admin Endpoints

/*
SetPermissions replaces a target admin's permission set.

PUT /api/v1/admin/users/{id}/permissions

Request:
  - Body: setPermissionsRequest (Permissions, registry-validated)

Response:
  - 200: Confirmation message and updated entity
  - 400: ErrValidation: Unknown permission tags
  - 422: ErrUnprocessable: Target is not an admin
*/
func (handler *Handler) setPermissions(writer http.ResponseWriter, request *http.Request) {
	actor, err := handler.gate.Authorize(request.Context(), requestutil.Claims(request), auth.Requirement{SuperAdmin: true})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setPermissionsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	target, err := handler.adminService.SetPermissions(request.Context(), actor, requestutil.Param(request, "id"), input.Permissions)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		auth.FieldMessage: "Permissions updated successfully",
		auth.FieldUser:    target,
	})
}

/*
CreateAdmin provisions a new admin account.

POST /api/v1/admin/admins

Request:
  - Body: createAdminRequest (Name, Email, Password, optional Permissions)

Response:
  - 201: Confirmation message and created entity
  - 409: ErrConflict: Email already exists
*/
func (handler *Handler) createAdmin(writer http.ResponseWriter, request *http.Request) {
	actor, err := handler.gate.Authorize(request.Context(), requestutil.Claims(request), auth.Requirement{SuperAdmin: true})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createAdminRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldName, input.Name).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required(auth.FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.adminService.CreateAdmin(request.Context(), actor, CreateAdminInput{
		Name:        input.Name,
		Email:       input.Email,
		Password:    input.Password,
		Permissions: input.Permissions,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		auth.FieldMessage: "Admin created successfully",
		auth.FieldUser:    user,
	})
}

/*
VerifySuperAdmin probes the caller's super admin status.

POST /api/v1/admin/verify-super-admin

Response:
  - 200: SuperAdminVerification (flag either way, never a 403)
*/
func (handler *Handler) verifySuperAdmin(writer http.ResponseWriter, request *http.Request) {
	actor, err := handler.gate.Authorize(request.Context(), requestutil.Claims(request), auth.Requirement{})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.adminService.VerifySuperAdmin(request.Context(), actor))
}

/*
VerifyPassword re-confirms a sensitive operation with a super admin password.

POST /api/v1/admin/verify-password

Request:
  - Body: verifyPasswordRequest (Password)

Response:
  - 200: Confirmation message
  - 401: ErrUnauthorized: Invalid super admin password
*/
func (handler *Handler) verifyPassword(writer http.ResponseWriter, request *http.Request) {
	_, err := handler.gate.Authorize(request.Context(), requestutil.Claims(request), auth.Requirement{})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input verifyPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.adminService.VerifyPassword(request.Context(), input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		auth.FieldMessage: "Super admin password verified",
	})
}
