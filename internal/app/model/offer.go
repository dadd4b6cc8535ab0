package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Offer struct {
	ID                 string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title              string    `gorm:"type:varchar(100);not null" json:"title"`
	Description        string    `gorm:"type:text" json:"description"`
	DiscountPercentage int       `gorm:"not null" json:"discount_percentage"`
	Image              string    `gorm:"type:varchar(255)" json:"image"`
	ValidUntil         time.Time `gorm:"not null;index" json:"valid_until"`
	StoreID            string    `gorm:"type:varchar(36);index;not null" json:"store_id"`
	Store              *Store    `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"-"`
	IsActive           bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt          time.Time `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Filled from the owning store on read, not persisted.
	StoreName *string `gorm:"-" json:"store_name"`
}

func (Offer) TableName() string {
	return "offers"
}

func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// ExpiredAt reports whether the offer is past valid_until at now.
func (o *Offer) ExpiredAt(now time.Time) bool {
	return !now.Before(o.ValidUntil)
}
