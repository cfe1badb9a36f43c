package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ikkim/storefront-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-identity"

func signHMAC(t *testing.T, claims Claims, secret string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		Email: "ada@example.com",
		Name:  "Ada Lovelace",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "https://issuer.example.com",
			Audience:  jwt.ClaimStrings{"storefront"},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func newHMACVerifier(t *testing.T) *JWTVerifier {
	v, err := NewJWTVerifier(config.IdentityConfig{
		Issuer:     "https://issuer.example.com",
		Audience:   "storefront",
		HMACSecret: testSecret,
	})
	require.NoError(t, err)
	return v
}

func TestJWTVerifier_Verify_Success(t *testing.T) {
	v := newHMACVerifier(t)

	id, err := v.Verify(context.Background(), signHMAC(t, validClaims(), testSecret))
	require.NoError(t, err)
	assert.Equal(t, "user-123", id.SubjectID)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.Equal(t, "Ada", id.FirstName)
	assert.Equal(t, "Lovelace", id.LastName)
	assert.False(t, id.ExpiresAt.IsZero())
}

func TestJWTVerifier_Verify_Failures(t *testing.T) {
	v := newHMACVerifier(t)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "https://evil.example.com"

	noSubject := validClaims()
	noSubject.Subject = ""

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"wrong secret", signHMAC(t, validClaims(), "other-secret"), ErrInvalidToken},
		{"expired", signHMAC(t, expired, testSecret), ErrExpiredToken},
		{"wrong audience", signHMAC(t, wrongAudience, testSecret), ErrInvalidToken},
		{"wrong issuer", signHMAC(t, wrongIssuer, testSecret), ErrInvalidToken},
		{"no subject", signHMAC(t, noSubject, testSecret), ErrInvalidToken},
		{"no expiry", signHMAC(t, noExpiry, testSecret), ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTVerifier_RSA(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	v, err := NewJWTVerifier(config.IdentityConfig{PublicKeyPEM: string(pubPEM)})
	require.NoError(t, err)

	claims := validClaims()
	claims.GivenName, claims.FamilyName, claims.Role = "Grace", "Hopper", "admin"
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(priv)
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "Grace", id.FirstName)
	assert.Equal(t, "Hopper", id.LastName)
	assert.Equal(t, "admin", id.Role)

	// an HMAC token is rejected by an RSA verifier
	_, err = v.Verify(context.Background(), signHMAC(t, validClaims(), testSecret))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTVerifier_RequiresKey(t *testing.T) {
	_, err := NewJWTVerifier(config.IdentityConfig{})
	assert.Error(t, err)

	_, err = NewJWTVerifier(config.IdentityConfig{PublicKeyPEM: "not pem"})
	assert.Error(t, err)
}
