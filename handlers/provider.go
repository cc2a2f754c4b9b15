package handlers

import (
	"net/http"
	"strconv"

	"servicehub/config"
	"servicehub/models"
	"servicehub/services/provider"
	"servicehub/services/stats"
	"servicehub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const fallbackRadiusKm = 10.0

type ProviderHandler struct {
	Service provider.ProviderService
	Stats   stats.StatsService
}

func NewProviderHandler(svc provider.ProviderService, statsSvc stats.StatsService) *ProviderHandler {
	return &ProviderHandler{Service: svc, Stats: statsSvc}
}

// NearbyProvidersHandler serves GET /api/providers/nearby?lat=&lng=&radius=&category=.
func (h *ProviderHandler) NearbyProvidersHandler(c *gin.Context) {
	if c.Query("lat") == "" || c.Query("lng") == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing location", "lat and lng are required")
		return
	}
	lat, ok := floatQuery(c, "lat", 0)
	if !ok {
		return
	}
	lng, ok := floatQuery(c, "lng", 0)
	if !ok {
		return
	}
	defaultRadius := config.AppConfig.DefaultSearchRadiusKm
	if defaultRadius <= 0 {
		defaultRadius = fallbackRadiusKm
	}
	radius, ok := floatQuery(c, "radius", defaultRadius)
	if !ok {
		return
	}

	results, err := h.Service.FindNearby(c.Request.Context(), models.NewGeoPoint(lng, lat), radius, models.ProviderCategory(c.Query("category")))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(results), "providers": results})
}

// ListProvidersHandler serves GET /api/providers.
func (h *ProviderHandler) ListProvidersHandler(c *gin.Context) {
	filter := models.ProviderFilter{Category: models.ProviderCategory(c.Query("category"))}
	var ok bool
	if filter.MinRating, ok = floatQuery(c, "minRating", 0); !ok {
		return
	}
	if filter.MaxPrice, ok = floatQuery(c, "maxPrice", 0); !ok {
		return
	}
	if raw := c.Query("verified"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid query parameter", "verified must be true or false")
			return
		}
		filter.Verified = &v
	}

	providers, err := h.Service.ListProviders(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(providers), "providers": providers})
}

// GetProviderHandler serves GET /api/providers/:id.
func (h *ProviderHandler) GetProviderHandler(c *gin.Context) {
	detail, err := h.Service.GetProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ProviderStatsHandler serves GET /api/providers/:id/stats.
func (h *ProviderHandler) ProviderStatsHandler(c *gin.Context) {
	view, err := h.Stats.GetProviderStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RegisterProviderHandler serves POST /api/providers/register.
func (h *ProviderHandler) RegisterProviderHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var reg models.ProviderRegistration
	if !bindJSON(c, &reg) {
		return
	}
	p, err := h.Service.RegisterProvider(c.Request.Context(), actor.ID, reg)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("Provider profile created", zap.String("providerId", p.ID))
	c.JSON(http.StatusCreated, p)
}

// UpdateProfileHandler serves PUT /api/providers/profile.
func (h *ProviderHandler) UpdateProfileHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var update models.ProviderProfileUpdate
	if !bindJSON(c, &update) {
		return
	}
	p, err := h.Service.UpdateProfile(c.Request.Context(), actor.ID, update)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DashboardStatsHandler serves GET /api/providers/dashboard/stats.
func (h *ProviderHandler) DashboardStatsHandler(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	view, err := h.Service.GetDashboardStats(c.Request.Context(), actor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// VerifyProviderHandler serves PUT /api/providers/verify/:id (admin only).
func (h *ProviderHandler) VerifyProviderHandler(c *gin.Context) {
	p, err := h.Service.VerifyProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
