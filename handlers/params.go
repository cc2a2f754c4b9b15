package handlers

import (
	"net/http"
	"strconv"

	"servicehub/middleware"
	"servicehub/models"
	"servicehub/utils"

	"github.com/gin-gonic/gin"
)

// floatQuery parses an optional float query parameter.
func floatQuery(c *gin.Context, name string, def float64) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid query parameter", name+" must be a number")
		return 0, false
	}
	return v, true
}

// mustActor returns the authenticated actor or aborts with 401.
func mustActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "no authenticated account")
	}
	return actor, ok
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}
