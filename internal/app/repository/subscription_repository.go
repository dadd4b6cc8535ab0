package repository

import (
	"errors"

	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
	"gorm.io/gorm"
)

// ErrStaleSubscription is returned when a conditional write matched no row
// because the subscription changed status concurrently.
var ErrStaleSubscription = errors.New("subscription status changed concurrently")

// SubscriptionFilter narrows listings. A nil UserID means unscoped.
type SubscriptionFilter struct {
	UserID *string
	Status string
	Page   Pagination
}

type SubscriptionRepository interface {
	Create(sub *model.Subscription) error
	FindByID(id string) (*model.Subscription, error)
	FindByEmail(email string) (*model.Subscription, error)
	FindAll(filter SubscriptionFilter) ([]model.Subscription, int64, error)
	UpdateUnlessApproved(sub *model.Subscription, updates map[string]interface{}) error
	TransitionStatus(sub *model.Subscription, from, to model.SubscriptionStatus) error
	DeleteUnlessApproved(id string) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(sub *model.Subscription) error {
	logger.Debug("Creating subscription in database", map[string]interface{}{
		"name":  sub.Name,
		"email": sub.Email,
	})

	if err := r.db.Create(sub).Error; err != nil {
		logger.Error("Failed to create subscription in database", err, map[string]interface{}{
			"email": sub.Email,
		})
		return err
	}

	logger.Debug("Subscription created in database", map[string]interface{}{
		"subscription_id": sub.ID,
	})
	return nil
}

func (r *subscriptionRepository) FindByID(id string) (*model.Subscription, error) {
	var sub model.Subscription
	if err := r.db.Where("id = ?", id).First(&sub).Error; err != nil {
		logLookupError("Failed to find subscription by ID", err, map[string]interface{}{
			"subscription_id": id,
		})
		return nil, err
	}
	return &sub, nil
}

// FindByEmail returns the oldest subscription filed under email.
func (r *subscriptionRepository) FindByEmail(email string) (*model.Subscription, error) {
	var sub model.Subscription
	if err := r.db.Where("email = ?", email).Order("created_at").Order("id").First(&sub).Error; err != nil {
		logLookupError("Failed to find subscription by email", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindAll(filter SubscriptionFilter) ([]model.Subscription, int64, error) {
	logger.Debug("Finding subscriptions", map[string]interface{}{
		"scoped": filter.UserID != nil,
		"status": filter.Status,
		"page":   filter.Page.Page,
		"limit":  filter.Page.Limit,
	})

	query := r.db.Model(&model.Subscription{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var subs []model.Subscription
	var total int64
	if err := paginate(query, filter.Page, &total, &subs); err != nil {
		logger.Error("Failed to find subscriptions", err)
		return nil, 0, err
	}
	return subs, total, nil
}

// UpdateUnlessApproved applies updates only while the row is not approved,
// so an approval racing with an edit cannot be overwritten.
func (r *subscriptionRepository) UpdateUnlessApproved(sub *model.Subscription, updates map[string]interface{}) error {
	logger.Debug("Updating subscription in database", map[string]interface{}{
		"subscription_id": sub.ID,
		"fields":          len(updates),
	})

	if len(updates) > 0 {
		result := r.db.Model(&model.Subscription{}).
			Where("id = ? AND status <> ?", sub.ID, model.SubscriptionApproved).
			Updates(updates)
		if result.Error != nil {
			logger.Error("Failed to update subscription in database", result.Error, map[string]interface{}{
				"subscription_id": sub.ID,
			})
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleSubscription
		}
	}

	return r.reload(sub)
}

// TransitionStatus moves sub from one status to another atomically.
func (r *subscriptionRepository) TransitionStatus(sub *model.Subscription, from, to model.SubscriptionStatus) error {
	logger.Debug("Transitioning subscription status", map[string]interface{}{
		"subscription_id": sub.ID,
		"from":            from,
		"to":              to,
	})

	result := r.db.Model(&model.Subscription{}).
		Where("id = ? AND status = ?", sub.ID, from).
		Update("status", to)
	if result.Error != nil {
		logger.Error("Failed to transition subscription status", result.Error, map[string]interface{}{
			"subscription_id": sub.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleSubscription
	}

	return r.reload(sub)
}

func (r *subscriptionRepository) DeleteUnlessApproved(id string) error {
	logger.Debug("Deleting subscription from database", map[string]interface{}{
		"subscription_id": id,
	})

	result := r.db.Where("id = ? AND status <> ?", id, model.SubscriptionApproved).Delete(&model.Subscription{})
	if result.Error != nil {
		logger.Error("Failed to delete subscription from database", result.Error, map[string]interface{}{
			"subscription_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleSubscription
	}
	return nil
}

func (r *subscriptionRepository) reload(sub *model.Subscription) error {
	if err := r.db.Where("id = ?", sub.ID).First(sub).Error; err != nil {
		logger.Error("Failed to reload subscription", err, map[string]interface{}{
			"subscription_id": sub.ID,
		})
		return err
	}
	return nil
}
