package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionApproved SubscriptionStatus = "approved"
	SubscriptionRejected SubscriptionStatus = "rejected"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionPending, SubscriptionApproved, SubscriptionRejected:
		return true
	}
	return false
}

// Subscription is a request to be listed as a store. Anonymous requests
// carry no user_id.
type Subscription struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`
	StoreProfile
	UserID    *string            `gorm:"type:varchar(36);index" json:"user_id"`
	User      *User              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Status    SubscriptionStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	CreatedAt time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = SubscriptionPending
	}
	return s.Products.Validate()
}

func (s *Subscription) IsApproved() bool {
	return s.Status == SubscriptionApproved
}

func (s *Subscription) IsPending() bool {
	return s.Status == SubscriptionPending
}

// OwnedBy reports whether userID submitted the subscription.
func (s *Subscription) OwnedBy(userID string) bool {
	return s.UserID != nil && *s.UserID == userID
}
