package repository

import (
	"errors"

	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
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
		"username": user.Username,
		"type":     user.Type,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"username": user.Username,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return nil
}

func (r *userRepository) FindByID(id string) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		logLookupError("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	logger.Debug("Finding user by username in database", map[string]interface{}{
		"username": username,
	})

	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		logLookupError("Failed to find user by username in database", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	logger.Debug("User found by username in database", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

// logLookupError keeps expected misses out of the error log.
func logLookupError(msg string, err error, fields map[string]interface{}) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug(msg, fields)
		return
	}
	logger.Error(msg, err, fields)
}
