package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/identity"
)

// Context keys for caller information
const (
	IdentityKey  = "identity"
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

// UserResolver maps a verified subject to the local user record.
type UserResolver interface {
	ResolveSubject(subjectID string) (*model.User, error)
}

type AuthMiddleware struct {
	verifier identity.Verifier
	users    UserResolver
}

func NewAuthMiddleware(verifier identity.Verifier, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		users:    users,
	}
}

// Authenticate verifies the bearer token and stores the identity (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "authorization header is required")
			c.Abort()
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		id, err := m.verifier.Verify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			log.Warn("Token verification failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if stderrors.Is(err, identity.ErrExpiredToken) {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "token has expired")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "invalid authentication token")
			}
			c.Abort()
			return
		}

		c.Set(IdentityKey, id)
		c.Set(UserEmailKey, id.Email)

		log.Debug("Token verified", map[string]interface{}{
			"subject_id": id.SubjectID,
		})

		c.Next()
	}
}

// ResolveUser loads the local user for the verified identity. It must run
// after Authenticate.
func (m *AuthMiddleware) ResolveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		id, ok := GetIdentity(c)
		if !ok {
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := m.users.ResolveSubject(id.SubjectID)
		if err != nil {
			if errors.KindOf(err) == errors.KindNotFound {
				log.Warn("Authenticated subject has no local user", map[string]interface{}{
					"subject_id": id.SubjectID,
				})
				errors.NotFound(c, errors.UserNotFound, "user not registered, call POST /api/v1/users/me first")
				c.Abort()
				return
			}
			log.Error("Failed to resolve user", err, map[string]interface{}{
				"subject_id": id.SubjectID,
			})
			errors.Respond(c, err, "resolve user")
			c.Abort()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserRoleKey, user.Role)

		c.Next()
	}
}

// RequireRole checks the resolved user's role
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "role information not found")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		errors.Forbidden(c, "")
		c.Abort()
	}
}

func GetIdentity(c *gin.Context) (*identity.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return nil, false
	}
	id, ok := v.(*identity.Identity)
	return id, ok
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(model.UserRole)
	return r, ok
}
