package repository

import (
	"time"

	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
	"gorm.io/gorm"
)

// OfferFilter narrows offer listings. A nil OwnerID means unscoped;
// otherwise only offers of stores owned by *OwnerID match.
type OfferFilter struct {
	OwnerID    *string
	StoreID    string
	Search     string
	ActiveOnly bool
	Page       Pagination
}

type OfferRepository interface {
	Create(offer *model.Offer) error
	FindByID(id string) (*model.Offer, error)
	FindAll(filter OfferFilter) ([]model.Offer, int64, error)
	FindRecent(ownerID *string, limit int) ([]model.Offer, error)
	Counts(ownerID *string) (Counts, error)
	Update(offer *model.Offer, updates map[string]interface{}) error
	Delete(id string) error
	DeactivateExpired(now time.Time) (int64, error)
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(offer *model.Offer) error {
	logger.Debug("Creating offer in database", map[string]interface{}{
		"title":    offer.Title,
		"store_id": offer.StoreID,
	})

	if err := r.db.Create(offer).Error; err != nil {
		logger.Error("Failed to create offer in database", err, map[string]interface{}{
			"store_id": offer.StoreID,
		})
		return err
	}

	if err := r.attachStoreNames([]*model.Offer{offer}); err != nil {
		return err
	}

	logger.Debug("Offer created in database", map[string]interface{}{
		"offer_id": offer.ID,
		"store_id": offer.StoreID,
	})
	return nil
}

func (r *offerRepository) FindByID(id string) (*model.Offer, error) {
	logger.Debug("Finding offer by ID", map[string]interface{}{
		"offer_id": id,
	})

	var offer model.Offer
	if err := r.db.Where("id = ?", id).First(&offer).Error; err != nil {
		logLookupError("Failed to find offer by ID", err, map[string]interface{}{
			"offer_id": id,
		})
		return nil, err
	}

	if err := r.attachStoreNames([]*model.Offer{&offer}); err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) scoped(ownerID *string) *gorm.DB {
	query := r.db.Model(&model.Offer{})
	if ownerID != nil {
		query = query.Where("store_id IN (?)", r.db.Model(&model.Store{}).Select("id").Where("owner_id = ?", *ownerID))
	}
	return query
}

func (r *offerRepository) FindAll(filter OfferFilter) ([]model.Offer, int64, error) {
	logger.Debug("Finding offers", map[string]interface{}{
		"scoped":      filter.OwnerID != nil,
		"store_id":    filter.StoreID,
		"search":      filter.Search,
		"active_only": filter.ActiveOnly,
		"page":        filter.Page.Page,
		"limit":       filter.Page.Limit,
	})

	query := r.scoped(filter.OwnerID)
	if filter.StoreID != "" {
		query = query.Where("store_id = ?", filter.StoreID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	var offers []model.Offer
	var total int64
	if err := paginate(query, filter.Page, &total, &offers); err != nil {
		logger.Error("Failed to find offers", err)
		return nil, 0, err
	}
	if err := r.attachStoreNames(offerPtrs(offers)); err != nil {
		return nil, 0, err
	}

	logger.Debug("Offers retrieved", map[string]interface{}{
		"count": len(offers),
		"total": total,
	})
	return offers, total, nil
}

func (r *offerRepository) FindRecent(ownerID *string, limit int) ([]model.Offer, error) {
	var offers []model.Offer
	if err := r.scoped(ownerID).Order("created_at DESC").Limit(limit).Find(&offers).Error; err != nil {
		logger.Error("Failed to find recent offers", err)
		return nil, err
	}
	if err := r.attachStoreNames(offerPtrs(offers)); err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *offerRepository) Counts(ownerID *string) (Counts, error) {
	var counts Counts
	if err := r.scoped(ownerID).Count(&counts.Total).Error; err != nil {
		logger.Error("Failed to count offers", err)
		return Counts{}, err
	}
	if err := r.scoped(ownerID).Where("is_active = ?", true).Count(&counts.Active).Error; err != nil {
		logger.Error("Failed to count active offers", err)
		return Counts{}, err
	}
	return counts, nil
}

func (r *offerRepository) Update(offer *model.Offer, updates map[string]interface{}) error {
	logger.Debug("Updating offer in database", map[string]interface{}{
		"offer_id": offer.ID,
		"fields":   len(updates),
	})

	if len(updates) > 0 {
		if err := r.db.Model(&model.Offer{}).Where("id = ?", offer.ID).Updates(updates).Error; err != nil {
			logger.Error("Failed to update offer in database", err, map[string]interface{}{
				"offer_id": offer.ID,
			})
			return err
		}
	}

	if err := r.db.Where("id = ?", offer.ID).First(offer).Error; err != nil {
		logger.Error("Failed to reload offer", err, map[string]interface{}{
			"offer_id": offer.ID,
		})
		return err
	}
	return r.attachStoreNames([]*model.Offer{offer})
}

func (r *offerRepository) Delete(id string) error {
	logger.Debug("Deleting offer from database", map[string]interface{}{
		"offer_id": id,
	})

	result := r.db.Where("id = ?", id).Delete(&model.Offer{})
	if result.Error != nil {
		logger.Error("Failed to delete offer from database", result.Error, map[string]interface{}{
			"offer_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeactivateExpired flips is_active off for active offers whose
// valid_until is at or before now.
func (r *offerRepository) DeactivateExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Offer{}).
		Where("is_active = ? AND valid_until <= ?", true, now).
		Update("is_active", false)
	if result.Error != nil {
		logger.Error("Failed to deactivate expired offers", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// attachStoreNames fills StoreName from the owning stores with one query.
func (r *offerRepository) attachStoreNames(offers []*model.Offer) error {
	if len(offers) == 0 {
		return nil
	}

	ids := make([]string, 0, len(offers))
	seen := make(map[string]bool, len(offers))
	for _, o := range offers {
		if !seen[o.StoreID] {
			seen[o.StoreID] = true
			ids = append(ids, o.StoreID)
		}
	}

	type storeName struct {
		ID   string
		Name string
	}
	var rows []storeName
	if err := r.db.Model(&model.Store{}).Select("id, name").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		logger.Error("Failed to load store names for offers", err)
		return err
	}

	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	for _, o := range offers {
		if name, ok := names[o.StoreID]; ok {
			n := name
			o.StoreName = &n
		} else {
			o.StoreName = nil
		}
	}
	return nil
}

func offerPtrs(offers []model.Offer) []*model.Offer {
	ptrs := make([]*model.Offer, len(offers))
	for i := range offers {
		ptrs[i] = &offers[i]
	}
	return ptrs
}
