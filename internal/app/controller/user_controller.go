package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// SyncProfile creates or refreshes the local user from the verified token.
// POST /api/v1/users/me
func (ctrl *UserController) SyncProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := middleware.GetIdentity(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	user, created, err := ctrl.userService.SyncProfile(service.ProfileClaims{
		SubjectID: id.SubjectID,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Role:      id.Role,
	})
	if err != nil {
		log.Warn("Failed to sync profile", map[string]interface{}{
			"subject_id": id.SubjectID,
			"error":      err.Error(),
		})
		errors.Respond(c, err, "sync user")
		return
	}

	message := "profile updated"
	if created {
		message = "user registered"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"user":    user,
	})
}

// GET /api/v1/users/me
func (ctrl *UserController) GetProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.userService.GetProfile(userID)
	if err != nil {
		errors.Respond(c, err, "fetch user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
