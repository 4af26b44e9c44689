package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"
)

// Identity is the caller as asserted by the external identity provider.
// SportMate never issues tokens; it verifies them and mirrors the claims
// into the users table.
type Identity struct {
	Id              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageUrl string
}

const (
	tokenCookieKey = "token"

	subClaim             = "sub"
	emailClaim           = "email"
	firstNameClaim       = "first_name"
	lastNameClaim        = "last_name"
	profileImageUrlClaim = "profile_image_url"
)

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func CallerIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)

	return id, ok
}

func UserId(ctx context.Context) (string, bool) {
	id, ok := CallerIdentity(ctx)

	return id.Id, ok
}

// tokenFromRequest pulls the provider token from the session cookie or an
// Authorization bearer header.
func tokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(tokenCookieKey); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
		return token, nil
	}

	return "", fmt.Errorf("no token in request")
}

func (s *SportMateApp) extractIdentityFromToken(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %w", err)
	}

	if !token.Valid {
		return Identity{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims[subClaim].(string)
	if !ok || sub == "" {
		return Identity{}, fmt.Errorf("invalid subject claim")
	}

	id := Identity{Id: sub}
	if email, ok := claims[emailClaim].(string); ok {
		id.Email = email
	}
	if firstName, ok := claims[firstNameClaim].(string); ok {
		id.FirstName = firstName
	}
	if lastName, ok := claims[lastNameClaim].(string); ok {
		id.LastName = lastName
	}
	if imageUrl, ok := claims[profileImageUrlClaim].(string); ok {
		id.ProfileImageUrl = imageUrl
	}

	return id, nil
}
