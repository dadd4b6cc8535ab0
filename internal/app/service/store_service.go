package service

import (
	"errors"

	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/repository"
	"github.com/zhwaweb/zhwaweb-admin/internal/authz"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
	"gorm.io/gorm"
)

var ErrStoreNotFound = errors.New("store not found")

// ProfileMutation is a partial update of the descriptive fields. Nil
// fields are left unchanged.
type ProfileMutation struct {
	Name        *string
	Sector      *string
	City        *string
	Location    *string
	Image       *string
	Description *string
	Address     *string
	Phone       *string
	Email       *string
	Products    *[]string
}

// columns converts the mutation to a column map, validating product tags.
func (m ProfileMutation) columns() (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	set := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}
	set("name", m.Name)
	set("sector", m.Sector)
	set("city", m.City)
	set("location", m.Location)
	set("image", m.Image)
	set("description", m.Description)
	set("address", m.Address)
	set("phone", m.Phone)
	set("email", m.Email)

	if m.Products != nil {
		products := model.ProductList(*m.Products)
		if err := products.Validate(); err != nil {
			return nil, err
		}
		updates["products"] = products
	}
	return updates, nil
}

func principalID(p *model.User) string {
	if p == nil {
		return ""
	}
	return p.ID
}

type StoreMutation struct {
	ProfileMutation
	IsActive *bool
}

type StoreListOptions struct {
	Search string
	City   string
	Sector string
	Page   int
	Limit  int
}

type StoreService interface {
	List(p *model.User, opts StoreListOptions) ([]model.Store, int64, error)
	Get(p *model.User, id string) (*model.Store, error)
	Create(p *model.User, profile model.StoreProfile) (*model.Store, error)
	Update(p *model.User, id string, input StoreMutation) (*model.Store, error)
	Delete(p *model.User, id string) error
}

type storeService struct {
	storeRepo repository.StoreRepository
	engine    *authz.Engine
}

func NewStoreService(storeRepo repository.StoreRepository, engine *authz.Engine) StoreService {
	return &storeService{
		storeRepo: storeRepo,
		engine:    engine,
	}
}

func (s *storeService) List(p *model.User, opts StoreListOptions) ([]model.Store, int64, error) {
	scope, err := s.engine.StoreScope(p)
	if err != nil {
		return nil, 0, err
	}

	return s.storeRepo.FindAll(repository.StoreFilter{
		OwnerID: scope.Owner(),
		Search:  opts.Search,
		City:    opts.City,
		Sector:  opts.Sector,
		Page:    repository.Pagination{Page: opts.Page, Limit: opts.Limit},
	})
}

// load resolves existence before any permission check.
func (s *storeService) load(id string) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

func (s *storeService) Get(p *model.User, id string) (*model.Store, error) {
	store, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.AuthorizeStore(p, store); err != nil {
		logger.Warn("Store access denied", map[string]interface{}{
			"store_id": id,
			"user_id":  principalID(p),
		})
		return nil, err
	}
	return store, nil
}

// Create makes p the owner. The one-store check and the insert are not
// atomic; two concurrent creates by the same owner can both pass.
func (s *storeService) Create(p *model.User, profile model.StoreProfile) (*model.Store, error) {
	if p == nil {
		return nil, authz.ErrForbidden
	}
	logger.Info("Creating store", map[string]interface{}{
		"name":     profile.Name,
		"owner_id": p.ID,
	})

	if err := profile.Products.Validate(); err != nil {
		return nil, err
	}

	owned := int64(0)
	if !p.IsAdmin() {
		n, err := s.storeRepo.CountByOwner(p.ID)
		if err != nil {
			return nil, err
		}
		owned = n
	}
	if err := s.engine.AuthorizeStoreCreate(p, owned); err != nil {
		logger.Warn("Store creation rejected", map[string]interface{}{
			"owner_id": p.ID,
			"owned":    owned,
		})
		return nil, err
	}

	if profile.Products == nil {
		profile.Products = model.ProductList{}
	}
	store := &model.Store{
		StoreProfile: profile,
		OwnerID:      p.ID,
		IsActive:     true,
	}
	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}

	logger.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"owner_id": p.ID,
	})
	return store, nil
}

func (s *storeService) Update(p *model.User, id string, input StoreMutation) (*model.Store, error) {
	store, err := s.Get(p, id)
	if err != nil {
		return nil, err
	}

	updates, err := input.columns()
	if err != nil {
		return nil, err
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.storeRepo.Update(store, updates); err != nil {
		return nil, err
	}

	logger.Info("Store updated", map[string]interface{}{
		"store_id": id,
		"user_id":  p.ID,
		"fields":   len(updates),
	})
	return store, nil
}

// Delete removes the store together with its offers.
func (s *storeService) Delete(p *model.User, id string) error {
	if _, err := s.Get(p, id); err != nil {
		return err
	}

	if err := s.storeRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return err
	}

	logger.Info("Store deleted", map[string]interface{}{
		"store_id": id,
		"user_id":  p.ID,
	})
	return nil
}
