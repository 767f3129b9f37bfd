package handlers

import (
	"errors"
	"net/http"

	"aircon_control/internal/control"
	"aircon_control/internal/models"
	"aircon_control/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK           = "ok"
	statusStarted      = "started"
	statusSkipped      = "skipped"
	statusStopped      = "stopped"
	statusApplied      = "applied"
	statusPoweredOff   = "powered_off"
	errGetState        = "failed to load state"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// serviceErrorStatus maps service errors to HTTP status codes.
func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCommand),
		errors.Is(err, service.ErrInvalidReading),
		errors.Is(err, service.ErrInvalidFilter),
		errors.Is(err, control.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoReadings):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDispatchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError answers with the mapped status; 5xx details stay in the log.
func (h *Handler) respondServiceError(c *gin.Context, userMsg, logKey string, err error) {
	code := serviceErrorStatus(err)
	if code < http.StatusInternalServerError {
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	h.logAndJSONError(c, code, userMsg, logKey, err)
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	st, err := h.services.Monitoring.GetState(ctx)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// DecisionRequest documents the payload of POST /aircon/auto.
type DecisionRequest struct {
	// Room temperature in °C
	T float64 `json:"T" example:"30"`
	// Relative humidity in %
	RH float64 `json:"RH" example:"70"`
	// Last known device state; omitted fields fall back to defaults
	StateNow *control.DeviceState `json:"state_now,omitempty"`
}

// RunRequest is a sensor reading submitted over HTTP.
type RunRequest struct {
	SensorID string   `json:"sensor_id" example:"living-room"`
	TempC    *float64 `json:"temp_c" binding:"required" example:"30"`
	RH       *float64 `json:"rh" binding:"required" example:"70"`
}

// ControlRequest is a manual device command.
type ControlRequest struct {
	// 1 = on, 0 = off
	Switch *int `json:"switch" binding:"required" example:"1"`
	// Setpoint in °C
	Setpoint *int `json:"setpoint" binding:"required" example:"24"`
	// cool | dry | wind | auto | heat
	Mode string `json:"mode" binding:"required" example:"cool"`
	// auto | 1 | 2 | 3 | 4 | max
	FanMode      string `json:"fanMode" binding:"required" example:"auto"`
	OptionalMode string `json:"optionalMode,omitempty" example:"off"`
	Duration     int    `json:"duration,omitempty" example:"0"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Decide auto-control command
// @Description  Pure decision: returns "skip" or the command to send, without touching the device.
// @Tags         aircon
// @Accept       json
// @Produce      json
// @Param        body  body      DecisionRequest  true  "Reading and device state"
// @Success      200   {object}  control.Command  "command, or the JSON string \"skip\""
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/aircon/auto [post]
// @Security     BearerAuth
func (h *Handler) decideAuto(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	req, err := control.ParseRequest(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.services.AutoControl.Decide(req))
}

// @Summary      Run auto control for a reading
// @Description  Stores the reading, decides and dispatches the command; a command restarts the auto session.
// @Tags         aircon
// @Accept       json
// @Produce      json
// @Param        body  body      RunRequest  true  "Sensor reading"
// @Success      200   {object}  map[string]interface{}  "status, di, decision, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/aircon/auto/run [post]
// @Security     BearerAuth
func (h *Handler) runAuto(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	d, err := h.services.AutoControl.Run(c.Request.Context(), models.SensorReading{
		SensorID: req.SensorID,
		TempC:    *req.TempC,
		RH:       *req.RH,
	})
	if err != nil {
		h.respondServiceError(c, "auto control failed", "auto_control_run_failed", err)
		return
	}
	status := statusStarted
	if d.Skipped() {
		status = statusSkipped
	}
	h.respondWithStatusAndState(c, status, gin.H{"di": d.DI, "decision": d})
}

// @Summary      Stop auto control
// @Tags         aircon
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/aircon/auto/stop [post]
// @Security     BearerAuth
func (h *Handler) stopAuto(c *gin.Context) {
	if err := h.services.AutoControl.StopAuto(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to stop auto control", "auto_control_stop_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusStopped, gin.H{})
}

// @Summary      Manual control
// @Description  Sends a command to the unit and ends any active auto session.
// @Tags         aircon
// @Accept       json
// @Produce      json
// @Param        body  body      ControlRequest  true  "Command"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/aircon/control [post]
// @Security     BearerAuth
func (h *Handler) controlAircon(c *gin.Context) {
	var req ControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	cmd := control.Command{
		Switch:       *req.Switch,
		Setpoint:     *req.Setpoint,
		Mode:         control.Mode(req.Mode),
		FanMode:      control.FanMode(req.FanMode),
		OptionalMode: req.OptionalMode,
		Duration:     req.Duration,
	}
	if err := h.services.Aircon.Apply(c.Request.Context(), cmd); err != nil {
		h.respondServiceError(c, "failed to control aircon", "aircon_control_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusApplied, gin.H{})
}

// @Summary      Power off
// @Tags         aircon
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/aircon/off [post]
// @Security     BearerAuth
func (h *Handler) powerOff(c *gin.Context) {
	if err := h.services.Aircon.PowerOff(c.Request.Context()); err != nil {
		h.respondServiceError(c, "failed to power off", "aircon_power_off_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusPoweredOff, gin.H{})
}

// @Summary      Get aircon state
// @Tags         aircon
// @Produce      json
// @Success      200  {object}  models.AirconState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/aircon/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "aircon_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
