package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ikkim/storefront-backend/config"
)

// Claims is the token payload. Name fields follow the OpenID Connect
// standard claims; role is a custom claim set by the provider.
type Claims struct {
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Role       string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates signed JWTs with either a shared HMAC secret or an
// RSA public key.
type JWTVerifier struct {
	key    interface{}
	parser *jwt.Parser
}

func NewJWTVerifier(cfg config.IdentityConfig) (*JWTVerifier, error) {
	var (
		key     interface{}
		methods []string
	)

	switch {
	case cfg.PublicKeyPEM != "":
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse identity public key: %w", err)
		}
		key = pub
		methods = []string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodRS384.Alg(), jwt.SigningMethodRS512.Alg()}
	case cfg.HMACSecret != "":
		key = []byte(cfg.HMACSecret)
		methods = []string{jwt.SigningMethodHS256.Alg()}
	default:
		return nil, errors.New("identity: either a public key or an HMAC secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &JWTVerifier{key: key, parser: jwt.NewParser(opts...)}, nil
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	first, last := claims.GivenName, claims.FamilyName
	if first == "" && last == "" && claims.Name != "" {
		first, last, _ = strings.Cut(strings.TrimSpace(claims.Name), " ")
	}

	id := &Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		Role:      claims.Role,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
