package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardController struct {
	dashboardService service.DashboardService
	presenter        *Presenter
}

func NewDashboardController(dashboardService service.DashboardService, presenter *Presenter) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		presenter:        presenter,
	}
}

// GetStats GET /dashboard/stats
func (ctrl *DashboardController) GetStats(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	stats, err := ctrl.dashboardService.Stats(user)
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_stores":  stats.TotalStores,
		"active_stores": stats.ActiveStores,
		"total_offers":  stats.TotalOffers,
		"active_offers": stats.ActiveOffers,
		"recent_stores": ctrl.presenter.Stores(stats.RecentStores),
		"recent_offers": ctrl.presenter.Offers(stats.RecentOffers),
	})
}

// ExportStores GET /dashboard/export
func (ctrl *DashboardController) ExportStores(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	buf, err := ctrl.dashboardService.ExportStores(user)
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}

	filename := fmt.Sprintf("stores-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
