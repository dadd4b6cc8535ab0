package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/service"
	"github.com/zhwaweb/zhwaweb-admin/internal/middleware"
)

type StoreController struct {
	storeService service.StoreService
	presenter    *Presenter
}

func NewStoreController(storeService service.StoreService, presenter *Presenter) *StoreController {
	return &StoreController{
		storeService: storeService,
		presenter:    presenter,
	}
}

// ProfileRequest is the full descriptive payload for create.
type ProfileRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Sector      string   `json:"sector" binding:"required,max=50"`
	City        string   `json:"city" binding:"required,max=50"`
	Location    string   `json:"location" binding:"required,max=100"`
	Image       string   `json:"image" binding:"max=255"`
	Description string   `json:"description"`
	Address     string   `json:"address" binding:"required"`
	Phone       string   `json:"phone" binding:"required,max=20"`
	Email       string   `json:"email" binding:"required,max=100"`
	Products    []string `json:"products"`
}

func (r ProfileRequest) toProfile() model.StoreProfile {
	products := model.ProductList(r.Products)
	if products == nil {
		products = model.ProductList{}
	}
	return model.StoreProfile{
		Name:        r.Name,
		Sector:      r.Sector,
		City:        r.City,
		Location:    r.Location,
		Image:       r.Image,
		Description: r.Description,
		Address:     r.Address,
		Phone:       r.Phone,
		Email:       r.Email,
		Products:    products,
	}
}

// ProfileUpdateRequest is a partial update; absent fields stay unchanged.
type ProfileUpdateRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=100"`
	Sector      *string   `json:"sector" binding:"omitempty,max=50"`
	City        *string   `json:"city" binding:"omitempty,max=50"`
	Location    *string   `json:"location" binding:"omitempty,max=100"`
	Image       *string   `json:"image" binding:"omitempty,max=255"`
	Description *string   `json:"description"`
	Address     *string   `json:"address"`
	Phone       *string   `json:"phone" binding:"omitempty,max=20"`
	Email       *string   `json:"email" binding:"omitempty,max=100"`
	Products    *[]string `json:"products"`
}

func (r ProfileUpdateRequest) toMutation() service.ProfileMutation {
	return service.ProfileMutation{
		Name:        r.Name,
		Sector:      r.Sector,
		City:        r.City,
		Location:    r.Location,
		Image:       r.Image,
		Description: r.Description,
		Address:     r.Address,
		Phone:       r.Phone,
		Email:       r.Email,
		Products:    r.Products,
	}
}

type StoreUpdateRequest struct {
	ProfileUpdateRequest
	IsActive *bool `json:"is_active"`
}

// ListStores GET /stores
func (ctrl *StoreController) ListStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	user, ok := currentPrincipal(c)
	if !ok {
		return
	}
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}

	stores, total, err := ctrl.storeService.List(user, service.StoreListOptions{
		Search: c.Query("search"),
		City:   c.Query("city"),
		Sector: c.Query("sector"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}

	log.Debug("Stores listed", map[string]interface{}{
		"count": len(stores),
		"total": total,
	})
	c.JSON(http.StatusOK, listBody("stores", ctrl.presenter.Stores(stores), total, page, limit))
}

// GetStore GET /stores/:id
func (ctrl *StoreController) GetStore(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	store, err := ctrl.storeService.Get(user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}
	c.JSON(http.StatusOK, ctrl.presenter.Store(store))
}

// CreateStore POST /stores
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := ctrl.storeService.Create(user, req.toProfile())
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}
	c.JSON(http.StatusOK, ctrl.presenter.Store(store))
}

// UpdateStore PUT /stores/:id
func (ctrl *StoreController) UpdateStore(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req StoreUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := ctrl.storeService.Update(user, c.Param("id"), service.StoreMutation{
		ProfileMutation: req.toMutation(),
		IsActive:        req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}
	c.JSON(http.StatusOK, ctrl.presenter.Store(store))
}

// DeleteStore DELETE /stores/:id
func (ctrl *StoreController) DeleteStore(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := ctrl.storeService.Delete(user, c.Param("id")); err != nil {
		respondServiceError(c, err, "store")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Store deleted successfully",
	})
}
