// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec holds the security primitives of the portal: password hashing,
// RS256 access tokens, opaque reset tokens and the system role model.
//
// It imports nothing else from the module, so every layer may depend on it.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// clockSkew is tolerated on exp and iat between API replicas.
const clockSkew = 5 * time.Second

// ErrInvalidToken wraps every verification failure.
var ErrInvalidToken = errors.New("sec: invalid access token")

// AuthClaims is the access token payload.
//
// SessionID binds the token to one session runtime: once that session ends by
// logout or inactivity, the token is refused even though it has not expired.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID    string `json:"uid"`
	Name      string `json:"unm"`
	Role      string `json:"rol"`
	SessionID string `json:"sid"`
}

// TokenService signs and verifies access tokens with one RSA key pair.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	parser     *jwt.Parser
}

// NewTokenService loads a PEM key pair from disk.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKey, err := readKey(privateKeyPath, jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, err
	}

	publicKey, err := readKey(publicKeyPath, jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, err
	}

	return NewTokenServiceFromKey(privateKey, publicKey, issuer), nil
}

// NewTokenServiceFromKey is used by tests and by callers holding parsed keys.
func NewTokenServiceFromKey(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

func readKey[K any](path string, parse func([]byte) (K, error)) (K, error) {
	var zero K

	pem, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("sec_read_key_failed: %s: %w", path, err)
	}

	key, err := parse(pem)
	if err != nil {
		return zero, fmt.Errorf("sec_parse_key_failed: %s: %w", path, err)
	}
	return key, nil
}

// GenerateAccessToken signs a token for userID that lives for ttl and is
// valid only while sessionID is live.
func (service *TokenService) GenerateAccessToken(userID, name string, role SystemRole, sessionID string, ttl time.Duration) (string, error) {
	issuedAt := time.Now()

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		UserID:    userID,
		Name:      name,
		Role:      string(role),
		SessionID: sessionID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec_sign_token_failed: %w", err)
	}
	return signed, nil
}

// VerifyToken returns the claims of a well-signed, unexpired token from this
// issuer that names both a user and a session.
func (service *TokenService) VerifyToken(raw string) (*AuthClaims, error) {
	claims := &AuthClaims{}

	_, err := service.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return service.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.UserID == "" || claims.SessionID == "" {
		return nil, fmt.Errorf("%w: missing uid or sid", ErrInvalidToken)
	}
	return claims, nil
}
