package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindBySubjectID(subjectID string) (*model.User, error)
	FindByIDWithRelations(id uint) (*model.User, error)
	Update(user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"subject_id": user.SubjectID,
		"email":      user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"subject_id": user.SubjectID,
			"email":      user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id":    user.ID,
		"subject_id": user.SubjectID,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindBySubjectID(subjectID string) (*model.User, error) {
	logger.Debug("Finding user by subject ID in database", map[string]interface{}{
		"subject_id": subjectID,
	})

	var user model.User
	if err := r.db.Where("subject_id = ?", subjectID).First(&user).Error; err != nil {
		logger.Debug("User not found by subject ID in database", map[string]interface{}{
			"subject_id": subjectID,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &user, nil
}

// FindByIDWithRelations loads the user with addresses, wishlist products and
// orders.
func (r *userRepository) FindByIDWithRelations(id uint) (*model.User, error) {
	logger.Debug("Finding user with relations in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	err := r.db.
		Preload("Addresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_default DESC, id ASC")
		}).
		Preload("Wishlist.Product").
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&user, id).Error
	if err != nil {
		logger.Error("Failed to find user with relations in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
	})

	if err := r.db.Omit(clauseAssociations).Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	logger.Debug("User updated in database", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}
