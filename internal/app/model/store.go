package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const productDelimiter = ","

var (
	ErrInvalidProductTag = errors.New("product tags must not contain ','")
	ErrEmptyProductTag   = errors.New("product tags must not be empty")
)

// ProductList is an ordered list of product tags persisted as one
// comma-delimited TEXT column.
type ProductList []string

// Validate rejects tags that would not survive the round trip through
// the delimited encoding.
func (p ProductList) Validate() error {
	for _, tag := range p {
		if strings.TrimSpace(tag) == "" {
			return ErrEmptyProductTag
		}
		if strings.Contains(tag, productDelimiter) {
			return fmt.Errorf("%w: %q", ErrInvalidProductTag, tag)
		}
	}
	return nil
}

func (p ProductList) Value() (driver.Value, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return strings.Join(p, productDelimiter), nil
}

func (p *ProductList) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		raw = ""
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("failed to scan ProductList from %T", value)
	}

	if raw == "" {
		*p = ProductList{}
		return nil
	}
	*p = strings.Split(raw, productDelimiter)
	return nil
}

func (ProductList) GormDataType() string {
	return "text"
}

// MarshalJSON writes an empty list as [] instead of null.
func (p ProductList) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(p))
}

// StoreProfile holds the descriptive fields shared by stores and
// subscription requests.
type StoreProfile struct {
	Name        string      `gorm:"type:varchar(100);not null" json:"name"`
	Sector      string      `gorm:"type:varchar(50);not null;index" json:"sector"`
	City        string      `gorm:"type:varchar(50);not null;index" json:"city"`
	Location    string      `gorm:"type:varchar(100);not null" json:"location"`
	Image       string      `gorm:"type:varchar(255)" json:"image"`
	Description string      `gorm:"type:text" json:"description"`
	Address     string      `gorm:"type:text;not null" json:"address"`
	Phone       string      `gorm:"type:varchar(20);not null" json:"phone"`
	Email       string      `gorm:"type:varchar(100);not null" json:"email"`
	Products    ProductList `gorm:"type:text" json:"products"`
}

type Store struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`
	StoreProfile
	OwnerID   string    `gorm:"type:varchar(36);index;not null" json:"owner_id"`
	Owner     *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return s.Products.Validate()
}
