// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small provider interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Identity Only
//
// The role flags stored here reflect the account AT ISSUANCE TIME. Bans and
// role changes can happen while a token is still valid, so every
// authorization-sensitive decision re-reads the account record from the
// database (see the gate in internal/users/auth). Claims are used purely to
// identify WHO is making the request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID       string `json:"uid"`
	Email        string `json:"eml"`
	IsAdmin      bool   `json:"adm"`
	IsSuperAdmin bool   `json:"sadm,omitempty"`
}

// ErrInvalidToken is returned by [TokenService.VerifyToken] for any token
// that is malformed, expired, or carries a bad signature.
var ErrInvalidToken = errors.New("sec: invalid token")

// TokenService handles generation and verification of JWT tokens using HS256.
//
// The signing secret is provided by the environment (JWT_SECRET) and held
// only in memory.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService signing with the given secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret must not be empty")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// GenerateAccessToken creates a new signed JWT access token for a user.
//
// # Parameters
//   - userID: The ID of the account.
//   - email: The email of the account.
//   - isAdmin, isSuperAdmin: Role flags at issuance time (informational only).
//   - timeToLive: The duration before the token expires.
func (service *TokenService) GenerateAccessToken(userID, email string, isAdmin, isSuperAdmin bool, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:       userID,
		Email:        email,
		IsAdmin:      isAdmin,
		IsSuperAdmin: isSuperAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// It fails closed: a wrong algorithm, a bad signature, a malformed payload,
// or a past expiry all yield [ErrInvalidToken].
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
