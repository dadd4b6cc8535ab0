package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/repository"
	apperrors "github.com/zhwaweb/zhwaweb-admin/internal/errors"
)

const staticPrefix = "/static/"

type UserResponse struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Type      model.UserRole `json:"type"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

type StoreResponse struct {
	ID string `json:"id"`
	model.StoreProfile
	OwnerID   string    `json:"owner_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SubscriptionResponse struct {
	ID string `json:"id"`
	model.StoreProfile
	UserID    *string                  `json:"user_id"`
	Status    model.SubscriptionStatus `json:"status"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// Presenter shapes models for the wire. With local storage the image
// column holds a bare file name served under /static/.
type Presenter struct {
	localImages bool
}

func NewPresenter(localImages bool) *Presenter {
	return &Presenter{localImages: localImages}
}

func (p *Presenter) image(value string) string {
	if !p.localImages || value == "" {
		return value
	}
	if strings.HasPrefix(value, "/") || strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return staticPrefix + value
}

func (p *Presenter) profile(profile model.StoreProfile) model.StoreProfile {
	profile.Image = p.image(profile.Image)
	if profile.Products == nil {
		profile.Products = model.ProductList{}
	}
	return profile
}

func (p *Presenter) User(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Type:      u.Type,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (p *Presenter) Store(s *model.Store) StoreResponse {
	return StoreResponse{
		ID:           s.ID,
		StoreProfile: p.profile(s.StoreProfile),
		OwnerID:      s.OwnerID,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (p *Presenter) Stores(stores []model.Store) []StoreResponse {
	out := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		out = append(out, p.Store(&stores[i]))
	}
	return out
}

func (p *Presenter) Offers(offers []model.Offer) []model.Offer {
	if offers == nil {
		return []model.Offer{}
	}
	return offers
}

func (p *Presenter) Subscription(s *model.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:           s.ID,
		StoreProfile: p.profile(s.StoreProfile),
		UserID:       s.UserID,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (p *Presenter) Subscriptions(subs []model.Subscription) []SubscriptionResponse {
	out := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, p.Subscription(&subs[i]))
	}
	return out
}

// pageParams reads page and limit, rejecting out-of-range values.
func pageParams(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "page must be an integer >= 1")
		return 0, 0, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(repository.DefaultPageLimit)))
	if err != nil || limit < 1 || limit > repository.MaxPageLimit {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "limit must be an integer between 1 and 100")
		return 0, 0, false
	}
	return page, limit, true
}

// listBody is the paginated envelope keyed by resource name.
func listBody(key string, items interface{}, total int64, page, limit int) gin.H {
	return gin.H{
		key:     items,
		"total": total,
		"page":  page,
		"limit": limit,
	}
}
