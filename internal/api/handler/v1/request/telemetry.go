package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ortiurbani/orti-api/internal/domain"
)

type WeatherRequest struct {
	Temperature   float64    `json:"temperatura"`
	Humidity      float64    `json:"umidita"`
	Precipitation float64    `json:"precipitazioni"`
	Wind          float64    `json:"vento"`
	RecordedAt    *time.Time `json:"rilevato_il"`
}

func (req *WeatherRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Temperature, validation.Min(-60.0), validation.Max(60.0)),
		validation.Field(&req.Humidity, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&req.Precipitation, validation.Min(0.0)),
		validation.Field(&req.Wind, validation.Min(0.0)),
	)
}

func (req *WeatherRequest) WeatherReading(gardenID uint) domain.WeatherReading {
	w := domain.WeatherReading{
		GardenID:      gardenID,
		Temperature:   req.Temperature,
		Humidity:      req.Humidity,
		Precipitation: req.Precipitation,
		Wind:          req.Wind,
	}
	if req.RecordedAt != nil {
		w.RecordedAt = req.RecordedAt.UTC()
	}

	return w
}

type SensorRequest struct {
	Name string `json:"nome"`
	Type string `json:"tipo" example:"umidita_suolo"`
	Unit string `json:"unita"`
}

func (req *SensorRequest) Validate() error {
	types := make([]any, 0, len(domain.SensorTypes))
	for _, t := range domain.SensorTypes {
		types = append(types, string(t))
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Type, validation.Required, validation.In(types...)),
		validation.Field(&req.Unit, validation.Length(0, 20)),
	)
}

func (req *SensorRequest) Sensor(gardenID uint) domain.Sensor {
	return domain.Sensor{
		GardenID: gardenID,
		Name:     req.Name,
		Type:     domain.SensorType(req.Type),
		Unit:     req.Unit,
	}
}

type SensorReadingRequest struct {
	Value      *float64   `json:"valore"`
	RecordedAt *time.Time `json:"rilevato_il"`
}

func (req *SensorReadingRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Value, validation.NotNil),
	)
}

func (req *SensorReadingRequest) SensorReading(sensorID uint) domain.SensorReading {
	r := domain.SensorReading{SensorID: sensorID}
	if req.Value != nil {
		r.Value = *req.Value
	}
	if req.RecordedAt != nil {
		r.RecordedAt = req.RecordedAt.UTC()
	}

	return r
}
