package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ortiurbani/orti-api/internal/api/handler/v1/request"
	"github.com/ortiurbani/orti-api/internal/api/handler/v1/response"
	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/i18n"
)

type WeatherService interface {
	Record(ctx context.Context, w domain.WeatherReading) (domain.WeatherReading, error)
	List(ctx context.Context, gardenID uint, limit int) ([]domain.WeatherReading, error)
	Latest(ctx context.Context, gardenID uint) (domain.WeatherReading, error)
}

type WeatherHandler struct {
	svc WeatherService
}

func NewWeatherHandler(svc WeatherService) *WeatherHandler {
	return &WeatherHandler{
		svc: svc,
	}
}

// queryLimit reads the optional ?limit parameter; zero lets the service
// apply its default.
func queryLimit(ctx *gin.Context) (int, bool) {
	v := ctx.Query("limit")
	if v == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(v)
	if err == nil && limit < 0 {
		err = errors.New("must not be negative")
	}
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid limit: %w", err)))
		return 0, false
	}

	return limit, true
}

// HandleRecordWeather godoc
// @Summary      Record a weather reading for a garden
// @Tags         weather
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "garden ID"
// @Param        request  body       request.WeatherRequest true "request body"
// @Success      201      {object}   domain.WeatherReading
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orti/{id}/meteo [post]
// @Security BearerAuth
func (h *WeatherHandler) HandleRecordWeather(ctx *gin.Context) {
	gardenID, ok := parseID(ctx, "id", "garden")
	if !ok {
		return
	}

	var req request.WeatherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	w, err := h.svc.Record(ctx.Request.Context(), req.WeatherReading(gardenID))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRecordWeather -> h.svc.Record", "garden", gardenID, err)
		return
	}

	ctx.JSON(http.StatusCreated, w)
}

// HandleListWeather godoc
// @Summary      List weather readings of a garden, newest first
// @Tags         weather
// @Produce      json
// @Param        id       path       int  true   "garden ID"
// @Param        limit    query      int  false  "maximum number of readings"
// @Success      200      {array}    domain.WeatherReading
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orti/{id}/meteo [get]
// @Security BearerAuth
func (h *WeatherHandler) HandleListWeather(ctx *gin.Context) {
	gardenID, ok := parseID(ctx, "id", "garden")
	if !ok {
		return
	}
	limit, ok := queryLimit(ctx)
	if !ok {
		return
	}

	ws, err := h.svc.List(ctx.Request.Context(), gardenID, limit)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListWeather -> h.svc.List", "garden", gardenID, err)
		return
	}

	ctx.JSON(http.StatusOK, ws)
}

// HandleLatestWeather godoc
// @Summary      Latest weather reading of a garden
// @Tags         weather
// @Produce      json
// @Param        id       path       int  true  "garden ID"
// @Success      200      {object}   domain.WeatherReading
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orti/{id}/meteo/ultimo [get]
// @Security BearerAuth
func (h *WeatherHandler) HandleLatestWeather(ctx *gin.Context) {
	gardenID, ok := parseID(ctx, "id", "garden")
	if !ok {
		return
	}

	w, err := h.svc.Latest(ctx.Request.Context(), gardenID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleLatestWeather -> h.svc.Latest", "weather reading", gardenID, err)
		return
	}

	ctx.JSON(http.StatusOK, w)
}

type SensorService interface {
	Register(ctx context.Context, sensor domain.Sensor) (domain.Sensor, error)
	Get(ctx context.Context, id uint) (domain.Sensor, error)
	List(ctx context.Context, gardenID uint) ([]domain.Sensor, error)
	Delete(ctx context.Context, id uint) error
	Record(ctx context.Context, r domain.SensorReading) (domain.SensorReading, error)
	Readings(ctx context.Context, sensorID uint, limit int) ([]domain.SensorReading, error)
}

type SensorHandler struct {
	svc SensorService
}

func NewSensorHandler(svc SensorService) *SensorHandler {
	return &SensorHandler{
		svc: svc,
	}
}

// HandleRegisterSensor godoc
// @Summary      Register a sensor in a garden
// @Tags         sensors
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "garden ID"
// @Param        request  body       request.SensorRequest true "request body"
// @Success      201      {object}   domain.Sensor
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orti/{id}/sensori [post]
// @Security BearerAuth
func (h *SensorHandler) HandleRegisterSensor(ctx *gin.Context) {
	gardenID, ok := parseID(ctx, "id", "garden")
	if !ok {
		return
	}

	var req request.SensorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	s, err := h.svc.Register(ctx.Request.Context(), req.Sensor(gardenID))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRegisterSensor -> h.svc.Register", "garden", gardenID, err)
		return
	}

	ctx.JSON(http.StatusCreated, s)
}

// HandleListSensors godoc
// @Summary      List the sensors of a garden
// @Tags         sensors
// @Produce      json
// @Param        id       path       int  true  "garden ID"
// @Success      200      {array}    domain.Sensor
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orti/{id}/sensori [get]
// @Security BearerAuth
func (h *SensorHandler) HandleListSensors(ctx *gin.Context) {
	gardenID, ok := parseID(ctx, "id", "garden")
	if !ok {
		return
	}

	ss, err := h.svc.List(ctx.Request.Context(), gardenID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListSensors -> h.svc.List", "garden", gardenID, err)
		return
	}

	ctx.JSON(http.StatusOK, ss)
}

// HandleDeleteSensor godoc
// @Summary      Delete a sensor and its readings
// @Tags         sensors
// @Produce      json
// @Param        id       path       int  true  "sensor ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sensori/{id} [delete]
// @Security BearerAuth
func (h *SensorHandler) HandleDeleteSensor(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "sensor")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteSensor -> h.svc.Delete", "sensor", id, err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: i18n.T(ctx, i18n.MsgDeleted, "sensore")})
}

// HandleRecordReading godoc
// @Summary      Record a sensor reading
// @Description  The reading is also pushed to every live subscriber of the sensor.
// @Tags         sensors
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "sensor ID"
// @Param        request  body       request.SensorReadingRequest true "request body"
// @Success      201      {object}   domain.SensorReading
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sensori/{id}/letture [post]
// @Security BearerAuth
func (h *SensorHandler) HandleRecordReading(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "sensor")
	if !ok {
		return
	}

	var req request.SensorReadingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	r, err := h.svc.Record(ctx.Request.Context(), req.SensorReading(id))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRecordReading -> h.svc.Record", "sensor", id, err)
		return
	}

	ctx.JSON(http.StatusCreated, r)
}

// HandleListReadings godoc
// @Summary      List the readings of a sensor, newest first
// @Tags         sensors
// @Produce      json
// @Param        id       path       int  true   "sensor ID"
// @Param        limit    query      int  false  "maximum number of readings"
// @Success      200      {array}    domain.SensorReading
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sensori/{id}/letture [get]
// @Security BearerAuth
func (h *SensorHandler) HandleListReadings(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "sensor")
	if !ok {
		return
	}
	limit, ok := queryLimit(ctx)
	if !ok {
		return
	}

	rs, err := h.svc.Readings(ctx.Request.Context(), id, limit)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListReadings -> h.svc.Readings", "sensor", id, err)
		return
	}

	ctx.JSON(http.StatusOK, rs)
}
