package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthClient
)

// AuthHandler is middleware that extracts a JWT bearer token from a request
// and validates it against a single service-wide signing secret. gudgeon has
// no user database to look accounts up in the way tunaq's server/token.go
// does, so the token's subject claim is taken as an opaque client identifier
// and trusted once the signature and issuer check out.
//
// Keys are added to the request context before the request is passed to the
// next step in the chain. AuthClient will contain the client identifier, and
// AuthLoggedIn reports whether the request carried a valid token (only
// meaningful for optional auth; for required auth, an invalid or missing
// token short-circuits the chain with an HTTP error).
type AuthHandler struct {
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	var client string

	tok, err := getJWT(req)
	if err != nil {
		// deliberately leaving as embedded if instead of &&
		if ah.required {
			result := jsonUnauthorized("", err.Error())
			time.Sleep(ah.unauthedDelay)
			result.writeResponse(w, req)
			return
		}
	} else {
		subj, err := validateJWT(tok, ah.secret)
		if err != nil {
			// deliberately leaving as embedded if instead of &&
			if ah.required {
				result := jsonUnauthorized("", err.Error())
				time.Sleep(ah.unauthedDelay)
				result.writeResponse(w, req)
				return
			}
		} else {
			client = subj
			loggedIn = true
		}
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthClient, client)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth builds an AuthHandler that rejects any request lacking a valid
// bearer token.
func RequireAuth(secret []byte, unauthedDelay time.Duration, next http.Handler) *AuthHandler {
	return &AuthHandler{
		secret:        secret,
		unauthedDelay: unauthedDelay,
		required:      true,
		next:          next,
	}
}

// OptionalAuth builds an AuthHandler that passes requests through regardless
// of whether a valid bearer token is present, but still populates AuthClient
// and AuthLoggedIn for handlers that want to branch on it.
func OptionalAuth(secret []byte, unauthedDelay time.Duration, next http.Handler) *AuthHandler {
	return &AuthHandler{
		secret:        secret,
		unauthedDelay: unauthedDelay,
		required:      false,
		next:          next,
	}
}

// validateJWT checks tok's signature and issuer against secret and returns
// its subject claim, which callers treat as an opaque client identifier.
func validateJWT(tok string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("gudgeon"), jwt.WithLeeway(time.Minute))
	if err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("token carries no subject")
	}

	return claims.Subject, nil
}

func getJWT(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

// generateJWT issues a bearer token identifying client, signed with secret.
// It is exposed for operators to mint tokens out-of-band (there is no signup
// or login endpoint, since there are no accounts to log in to).
func generateJWT(secret []byte, client string) (string, error) {
	claims := &jwt.RegisteredClaims{
		Issuer:    "gudgeon",
		Subject:   client,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(secret)
	if err != nil {
		return "", err
	}
	return tokStr, nil
}
