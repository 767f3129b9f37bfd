package handlers

import (
	"net/http"

	"aircon_control/internal/comfort"
	"aircon_control/internal/service"

	"github.com/gin-gonic/gin"
)

// ComfortRequest is a temperature/humidity pair to assess.
type ComfortRequest struct {
	TempC *float64 `json:"temp_c" binding:"required" example:"30"`
	RH    *float64 `json:"rh" binding:"required" example:"70"`
}

// @Summary      Assess comfort
// @Description  Discomfort index, heat index, enthalpy and cooling load for a reading.
// @Tags         comfort
// @Accept       json
// @Produce      json
// @Param        body  body      ComfortRequest  true  "Reading"
// @Success      200   {object}  comfort.Report
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/comfort [post]
// @Security     BearerAuth
func (h *Handler) assessComfort(c *gin.Context) {
	var req ComfortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if *req.RH < 0 || *req.RH > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rh must be within [0, 100]"})
		return
	}
	c.JSON(http.StatusOK, comfort.Assess(*req.TempC, *req.RH))
}

// @Summary      Comfort of the latest reading
// @Tags         comfort
// @Produce      json
// @Success      200  {object}  service.ComfortSnapshot
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/comfort/latest [get]
// @Security     BearerAuth
func (h *Handler) latestComfort(c *gin.Context) {
	snap, err := h.services.Monitoring.Comfort(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "failed to load comfort", "comfort_latest_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      List sensor readings
// @Tags         comfort
// @Produce      json
// @Param        from   query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"
// @Param        to     query   string  false  "End of range; date-only treated as end of day"
// @Param        limit  query   int     false  "Maximum number of readings"  minimum(1)  maximum(5000)
// @Success      200    {object}  map[string]interface{}  "count, readings"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/readings [get]
// @Security     BearerAuth
func (h *Handler) getReadings(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}
	limit, ok := parseLimitQuery(c)
	if !ok {
		return
	}

	readings, err := h.services.Readings.List(c.Request.Context(), service.ReadingFilter{From: from, To: to, Limit: limit})
	if err != nil {
		h.respondServiceError(c, "failed to load readings", "readings_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}
