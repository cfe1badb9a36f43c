package service

import (
	"errors"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProfileClaims are the verified identity claims a local user is synced from.
type ProfileClaims struct {
	SubjectID string
	Email     string
	FirstName string
	LastName  string
	Role      string
}

type UserService interface {
	SyncProfile(claims ProfileClaims) (*model.User, bool, error)
	ResolveSubject(subjectID string) (*model.User, error)
	GetProfile(userID uint) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// SyncProfile creates the local user on first sight of a subject and
// refreshes email, name and role afterwards. The bool reports creation.
func (s *userService) SyncProfile(claims ProfileClaims) (*model.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, false, ErrEmailClaimRequired
	}

	role := model.RoleCustomer
	if model.UserRole(claims.Role) == model.RoleAdmin {
		role = model.RoleAdmin
	}

	user, err := s.userRepo.FindBySubjectID(claims.SubjectID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if user == nil {
		user = &model.User{
			SubjectID: claims.SubjectID,
			Email:     email,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			Role:      role,
		}
		if err := s.userRepo.Create(user); err != nil {
			logger.Error("Failed to create user from identity", err, map[string]interface{}{
				"subject_id": claims.SubjectID,
			})
			return nil, false, err
		}
		logger.Info("User registered from identity", map[string]interface{}{
			"user_id":    user.ID,
			"subject_id": user.SubjectID,
		})
		return user, true, nil
	}

	user.Email = email
	if claims.FirstName != "" {
		user.FirstName = claims.FirstName
	}
	if claims.LastName != "" {
		user.LastName = claims.LastName
	}
	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		return nil, false, err
	}

	logger.Debug("User profile refreshed from identity", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, false, nil
}

func (s *userService) ResolveSubject(subjectID string) (*model.User, error) {
	user, err := s.userRepo.FindBySubjectID(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetProfile returns the user with addresses, wishlist and orders.
func (s *userService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByIDWithRelations(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
