package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/repository"
	"github.com/zhwaweb/zhwaweb-admin/internal/authz"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
)

const recentLimit = 5

type DashboardStats struct {
	TotalStores  int64
	ActiveStores int64
	TotalOffers  int64
	ActiveOffers int64
	RecentStores []model.Store
	RecentOffers []model.Offer
}

type DashboardService interface {
	Stats(p *model.User) (*DashboardStats, error)
	ExportStores(p *model.User) (*bytes.Buffer, error)
}

type dashboardService struct {
	storeRepo repository.StoreRepository
	offerRepo repository.OfferRepository
	engine    *authz.Engine
}

func NewDashboardService(storeRepo repository.StoreRepository, offerRepo repository.OfferRepository, engine *authz.Engine) DashboardService {
	return &dashboardService{
		storeRepo: storeRepo,
		offerRepo: offerRepo,
		engine:    engine,
	}
}

// Stats aggregates over the records p may see.
func (s *dashboardService) Stats(p *model.User) (*DashboardStats, error) {
	storeScope, err := s.engine.StoreScope(p)
	if err != nil {
		return nil, err
	}
	offerScope, err := s.engine.OfferScope(p)
	if err != nil {
		return nil, err
	}

	stores, err := s.storeRepo.Counts(storeScope.Owner())
	if err != nil {
		return nil, err
	}
	offers, err := s.offerRepo.Counts(offerScope.Owner())
	if err != nil {
		return nil, err
	}
	recentStores, err := s.storeRepo.FindRecent(storeScope.Owner(), recentLimit)
	if err != nil {
		return nil, err
	}
	recentOffers, err := s.offerRepo.FindRecent(offerScope.Owner(), recentLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalStores:  stores.Total,
		ActiveStores: stores.Active,
		TotalOffers:  offers.Total,
		ActiveOffers: offers.Active,
		RecentStores: recentStores,
		RecentOffers: recentOffers,
	}, nil
}

var exportHeader = []interface{}{
	"ID", "Name", "Sector", "City", "Location", "Address", "Phone", "Email",
	"Products", "Owner ID", "Active", "Created At",
}

// ExportStores writes the stores p may see to an xlsx workbook.
func (s *dashboardService) ExportStores(p *model.User) (*bytes.Buffer, error) {
	scope, err := s.engine.StoreScope(p)
	if err != nil {
		return nil, err
	}
	stores, err := s.storeRepo.ListAll(scope.Owner())
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Stores"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	for i, store := range stores {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			store.ID,
			store.Name,
			store.Sector,
			store.City,
			store.Location,
			store.Address,
			store.Phone,
			store.Email,
			strings.Join(store.Products, ", "),
			store.OwnerID,
			store.IsActive,
			store.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render store export", err)
		return nil, err
	}

	logger.Info("Store export generated", map[string]interface{}{
		"user_id": p.ID,
		"rows":    len(stores),
	})
	return buf, nil
}
