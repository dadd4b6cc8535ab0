package service

import (
	"errors"
	"time"

	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/repository"
	"github.com/zhwaweb/zhwaweb-admin/internal/authz"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOfferNotFound   = errors.New("offer not found")
	ErrInvalidDiscount = errors.New("discount_percentage must be between 0 and 100")
)

type OfferInput struct {
	Title              string
	Description        string
	DiscountPercentage int
	Image              string
	ValidUntil         time.Time
	StoreID            string
}

type OfferMutation struct {
	Title              *string
	Description        *string
	DiscountPercentage *int
	Image              *string
	ValidUntil         *time.Time
	IsActive           *bool
}

type OfferListOptions struct {
	Search     string
	StoreID    string
	ActiveOnly bool
	Page       int
	Limit      int
}

type OfferService interface {
	List(p *model.User, opts OfferListOptions) ([]model.Offer, int64, error)
	Get(p *model.User, id string) (*model.Offer, error)
	Create(p *model.User, input OfferInput) (*model.Offer, error)
	Update(p *model.User, id string, input OfferMutation) (*model.Offer, error)
	Delete(p *model.User, id string) error
	DeactivateExpired(now time.Time) (int64, error)
}

type offerService struct {
	offerRepo repository.OfferRepository
	storeRepo repository.StoreRepository
	engine    *authz.Engine
}

func NewOfferService(offerRepo repository.OfferRepository, storeRepo repository.StoreRepository, engine *authz.Engine) OfferService {
	return &offerService{
		offerRepo: offerRepo,
		storeRepo: storeRepo,
		engine:    engine,
	}
}

func validDiscount(pct int) bool {
	return pct >= 0 && pct <= 100
}

func (s *offerService) List(p *model.User, opts OfferListOptions) ([]model.Offer, int64, error) {
	scope, err := s.engine.OfferScope(p)
	if err != nil {
		return nil, 0, err
	}

	return s.offerRepo.FindAll(repository.OfferFilter{
		OwnerID:    scope.Owner(),
		StoreID:    opts.StoreID,
		Search:     opts.Search,
		ActiveOnly: opts.ActiveOnly,
		Page:       repository.Pagination{Page: opts.Page, Limit: opts.Limit},
	})
}

// owningStore returns the offer's store, or nil when it no longer exists.
func (s *offerService) owningStore(storeID string) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return store, nil
}

func (s *offerService) Get(p *model.User, id string) (*model.Offer, error) {
	offer, err := s.offerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}

	store, err := s.owningStore(offer.StoreID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.AuthorizeOffer(p, store); err != nil {
		logger.Warn("Offer access denied", map[string]interface{}{
			"offer_id": id,
			"user_id":  principalID(p),
		})
		return nil, err
	}
	return offer, nil
}

func (s *offerService) Create(p *model.User, input OfferInput) (*model.Offer, error) {
	logger.Info("Creating offer", map[string]interface{}{
		"store_id": input.StoreID,
		"title":    input.Title,
	})

	store, err := s.owningStore(input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	if err := s.engine.AuthorizeOffer(p, store); err != nil {
		return nil, err
	}
	if !validDiscount(input.DiscountPercentage) {
		return nil, ErrInvalidDiscount
	}

	offer := &model.Offer{
		Title:              input.Title,
		Description:        input.Description,
		DiscountPercentage: input.DiscountPercentage,
		Image:              input.Image,
		ValidUntil:         input.ValidUntil.UTC(),
		StoreID:            store.ID,
		IsActive:           true,
	}
	if err := s.offerRepo.Create(offer); err != nil {
		return nil, err
	}

	logger.Info("Offer created", map[string]interface{}{
		"offer_id": offer.ID,
		"store_id": store.ID,
	})
	return offer, nil
}

func (s *offerService) Update(p *model.User, id string, input OfferMutation) (*model.Offer, error) {
	offer, err := s.Get(p, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.DiscountPercentage != nil {
		if !validDiscount(*input.DiscountPercentage) {
			return nil, ErrInvalidDiscount
		}
		updates["discount_percentage"] = *input.DiscountPercentage
	}
	if input.Image != nil {
		updates["image"] = *input.Image
	}
	if input.ValidUntil != nil {
		updates["valid_until"] = input.ValidUntil.UTC()
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.offerRepo.Update(offer, updates); err != nil {
		return nil, err
	}

	logger.Info("Offer updated", map[string]interface{}{
		"offer_id": id,
		"fields":   len(updates),
	})
	return offer, nil
}

func (s *offerService) Delete(p *model.User, id string) error {
	if _, err := s.Get(p, id); err != nil {
		return err
	}

	if err := s.offerRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfferNotFound
		}
		return err
	}

	logger.Info("Offer deleted", map[string]interface{}{
		"offer_id": id,
		"user_id":  p.ID,
	})
	return nil
}

// DeactivateExpired is run by the scheduler; it bypasses the engine.
func (s *offerService) DeactivateExpired(now time.Time) (int64, error) {
	n, err := s.offerRepo.DeactivateExpired(now.UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("Expired offers deactivated", map[string]interface{}{
			"count": n,
		})
	}
	return n, nil
}
