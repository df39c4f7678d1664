package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voxgeo/server/dashboard"
	"github.com/voxgeo/server/geo"
	"github.com/voxgeo/server/repository"
)

// DashboardHandler serves the war-room KPIs and map overlay computed server side.
type DashboardHandler struct {
	store  repository.Store
	center geo.Place
}

func NewDashboardHandler(store repository.Store, center geo.Place) *DashboardHandler {
	return &DashboardHandler{store: store, center: center}
}

func (h *DashboardHandler) records(c *gin.Context) (recordSet, dashboard.Filters) {
	return loadRecords(c.Request.Context(), h.store, strings.TrimSpace(c.Query("survey_id"))), bindFilters(c)
}

// Summary handles GET /api/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	set, f := h.records(c)
	c.JSON(http.StatusOK, dashboard.Summarize(set.Records, f, set.Pair, set.Seed...))
}

// Map handles GET /api/dashboard/map
func (h *DashboardHandler) Map(c *gin.Context) {
	set, f := h.records(c)
	c.JSON(http.StatusOK, geo.BuildOverlay(dashboard.Apply(set.Records, f), h.center))
}

// MapGeoJSON handles GET /api/dashboard/map.geojson
func (h *DashboardHandler) MapGeoJSON(c *gin.Context) {
	set, f := h.records(c)
	overlay := geo.BuildOverlay(dashboard.Apply(set.Records, f), h.center)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, geo.FeatureCollection(overlay))
}
