// Package token implements JWT issuance and validation for the
// transpile-cache server's admin-only endpoints.
package token

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/czar/server/dao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "czarserver"

// Get extracts the bearer token from the request's Authorization header.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	tok := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return tok, nil
}

// Validate parses and verifies tok, looking up the subject admin account in
// db to build the signing key. The sign key mixes secret with the admin's
// password hash, so tokens issued before a password change stop validating.
func Validate(ctx context.Context, tok string, secret []byte, db dao.AdminRepository) (dao.Admin, error) {
	var admin dao.Admin

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		admin, err = db.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signKey(secret, admin), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.Admin{}, err
	}

	return admin, nil
}

// Generate issues a new bearer token for the given admin, valid for one hour.
func Generate(secret []byte, a dao.Admin) (string, error) {
	claims := &jwt.MapClaims{
		"iss": issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": a.ID.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(signKey(secret, a))
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

func signKey(secret []byte, a dao.Admin) []byte {
	var key []byte
	key = append(key, secret...)
	key = append(key, []byte(a.PasswordHash)...)
	return key
}
