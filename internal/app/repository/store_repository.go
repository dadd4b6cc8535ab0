package repository

import (
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
	"gorm.io/gorm"
)

// StoreFilter narrows store listings. A nil OwnerID means unscoped.
type StoreFilter struct {
	OwnerID *string
	Search  string
	City    string
	Sector  string
	Page    Pagination
}

// Counts is a total/active pair used by the dashboard.
type Counts struct {
	Total  int64
	Active int64
}

type StoreRepository interface {
	Create(store *model.Store) error
	FindByID(id string) (*model.Store, error)
	FindAll(filter StoreFilter) ([]model.Store, int64, error)
	ListAll(ownerID *string) ([]model.Store, error)
	FindRecent(ownerID *string, limit int) ([]model.Store, error)
	CountByOwner(ownerID string) (int64, error)
	Counts(ownerID *string) (Counts, error)
	Update(store *model.Store, updates map[string]interface{}) error
	Delete(id string) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":     store.Name,
		"owner_id": store.OwnerID,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name":     store.Name,
			"owner_id": store.OwnerID,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"owner_id": store.OwnerID,
	})
	return nil
}

func (r *storeRepository) FindByID(id string) (*model.Store, error) {
	logger.Debug("Finding store by ID", map[string]interface{}{
		"store_id": id,
	})

	var store model.Store
	if err := r.db.Where("id = ?", id).First(&store).Error; err != nil {
		logLookupError("Failed to find store by ID", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) scoped(ownerID *string) *gorm.DB {
	query := r.db.Model(&model.Store{})
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}
	return query
}

func (r *storeRepository) FindAll(filter StoreFilter) ([]model.Store, int64, error) {
	logger.Debug("Finding stores", map[string]interface{}{
		"scoped": filter.OwnerID != nil,
		"search": filter.Search,
		"city":   filter.City,
		"sector": filter.Sector,
		"page":   filter.Page.Page,
		"limit":  filter.Page.Limit,
	})

	query := r.scoped(filter.OwnerID)
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Sector != "" {
		query = query.Where("sector = ?", filter.Sector)
	}

	var stores []model.Store
	var total int64
	if err := paginate(query, filter.Page, &total, &stores); err != nil {
		logger.Error("Failed to find stores", err)
		return nil, 0, err
	}

	logger.Debug("Stores retrieved", map[string]interface{}{
		"count": len(stores),
		"total": total,
	})
	return stores, total, nil
}

func (r *storeRepository) ListAll(ownerID *string) ([]model.Store, error) {
	var stores []model.Store
	if err := r.scoped(ownerID).Order("created_at DESC").Find(&stores).Error; err != nil {
		logger.Error("Failed to list stores", err)
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) FindRecent(ownerID *string, limit int) ([]model.Store, error) {
	var stores []model.Store
	if err := r.scoped(ownerID).Order("created_at DESC").Limit(limit).Find(&stores).Error; err != nil {
		logger.Error("Failed to find recent stores", err)
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) CountByOwner(ownerID string) (int64, error) {
	var count int64
	if err := r.scoped(&ownerID).Count(&count).Error; err != nil {
		logger.Error("Failed to count stores by owner", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return 0, err
	}
	return count, nil
}

func (r *storeRepository) Counts(ownerID *string) (Counts, error) {
	var counts Counts
	if err := r.scoped(ownerID).Count(&counts.Total).Error; err != nil {
		logger.Error("Failed to count stores", err)
		return Counts{}, err
	}
	if err := r.scoped(ownerID).Where("is_active = ?", true).Count(&counts.Active).Error; err != nil {
		logger.Error("Failed to count active stores", err)
		return Counts{}, err
	}
	return counts, nil
}

// Update applies column updates and reloads store.
func (r *storeRepository) Update(store *model.Store, updates map[string]interface{}) error {
	logger.Debug("Updating store in database", map[string]interface{}{
		"store_id": store.ID,
		"fields":   len(updates),
	})

	if len(updates) > 0 {
		if err := r.db.Model(&model.Store{}).Where("id = ?", store.ID).Updates(updates).Error; err != nil {
			logger.Error("Failed to update store in database", err, map[string]interface{}{
				"store_id": store.ID,
			})
			return err
		}
	}

	if err := r.db.Where("id = ?", store.ID).First(store).Error; err != nil {
		logger.Error("Failed to reload store", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}
	return nil
}

// Delete removes the store and its offers in one transaction.
func (r *storeRepository) Delete(id string) error {
	logger.Debug("Deleting store from database", map[string]interface{}{
		"store_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		offers := tx.Where("store_id = ?", id).Delete(&model.Offer{})
		if offers.Error != nil {
			return offers.Error
		}

		result := tx.Where("id = ?", id).Delete(&model.Store{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		logger.Debug("Store offers removed", map[string]interface{}{
			"store_id": id,
			"offers":   offers.RowsAffected,
		})
		return nil
	})
	if err != nil {
		logLookupError("Failed to delete store from database", err, map[string]interface{}{
			"store_id": id,
		})
		return err
	}

	logger.Debug("Store deleted from database", map[string]interface{}{
		"store_id": id,
	})
	return nil
}
