package repository

import (
	"context"
	"fmt"

	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
)

type TelemetryDAO interface {
	InsertWeather(ctx context.Context, r dao.WeatherReading) (dao.WeatherReading, error)
	FindWeather(ctx context.Context, gardenID uint, limit int) ([]dao.WeatherReading, error)
	FindLatestWeather(ctx context.Context, gardenID uint) (dao.WeatherReading, error)
	DeleteWeatherByGarden(ctx context.Context, gardenID uint) (int64, error)
	InsertSensor(ctx context.Context, s dao.Sensor) (dao.Sensor, error)
	FindSensorByID(ctx context.Context, id uint) (dao.Sensor, error)
	FindSensors(ctx context.Context, gardenID uint) ([]dao.Sensor, error)
	DeleteSensor(ctx context.Context, id uint) error
	DeleteSensorsByGarden(ctx context.Context, gardenID uint) (int64, error)
	InsertSensorReading(ctx context.Context, r dao.SensorReading) (dao.SensorReading, error)
	FindSensorReadings(ctx context.Context, sensorID uint, limit int) ([]dao.SensorReading, error)
}

type TelemetryRepository struct {
	dao TelemetryDAO
}

func NewTelemetryRepository(dao TelemetryDAO) *TelemetryRepository {
	return &TelemetryRepository{
		dao: dao,
	}
}

func (r *TelemetryRepository) CreateWeather(ctx context.Context, w domain.WeatherReading) (domain.WeatherReading, error) {
	created, err := r.dao.InsertWeather(ctx, dao.WeatherReading{
		GardenID:      w.GardenID,
		Temperature:   w.Temperature,
		Humidity:      w.Humidity,
		Precipitation: w.Precipitation,
		Wind:          w.Wind,
		RecordedAt:    w.RecordedAt,
	})
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("r.dao.InsertWeather -> %w", err)
	}

	return weatherToDomain(created), nil
}

func (r *TelemetryRepository) FindWeather(ctx context.Context, gardenID uint, limit int) ([]domain.WeatherReading, error) {
	found, err := r.dao.FindWeather(ctx, gardenID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindWeather -> %w", err)
	}

	ws := make([]domain.WeatherReading, 0, len(found))
	for _, w := range found {
		ws = append(ws, weatherToDomain(w))
	}

	return ws, nil
}

func (r *TelemetryRepository) FindLatestWeather(ctx context.Context, gardenID uint) (domain.WeatherReading, error) {
	found, err := r.dao.FindLatestWeather(ctx, gardenID)
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("r.dao.FindLatestWeather -> %w", err)
	}

	return weatherToDomain(found), nil
}

func (r *TelemetryRepository) DeleteWeatherByGarden(ctx context.Context, gardenID uint) (int64, error) {
	n, err := r.dao.DeleteWeatherByGarden(ctx, gardenID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteWeatherByGarden -> %w", err)
	}

	return n, nil
}

func (r *TelemetryRepository) CreateSensor(ctx context.Context, s domain.Sensor) (domain.Sensor, error) {
	created, err := r.dao.InsertSensor(ctx, dao.Sensor{
		GardenID: s.GardenID,
		Name:     s.Name,
		Type:     string(s.Type),
		Unit:     s.Unit,
	})
	if err != nil {
		return domain.Sensor{}, fmt.Errorf("r.dao.InsertSensor -> %w", err)
	}

	return sensorToDomain(created), nil
}

func (r *TelemetryRepository) FindSensorByID(ctx context.Context, id uint) (domain.Sensor, error) {
	found, err := r.dao.FindSensorByID(ctx, id)
	if err != nil {
		return domain.Sensor{}, fmt.Errorf("r.dao.FindSensorByID -> %w", err)
	}

	return sensorToDomain(found), nil
}

func (r *TelemetryRepository) FindSensors(ctx context.Context, gardenID uint) ([]domain.Sensor, error) {
	found, err := r.dao.FindSensors(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSensors -> %w", err)
	}

	ss := make([]domain.Sensor, 0, len(found))
	for _, s := range found {
		ss = append(ss, sensorToDomain(s))
	}

	return ss, nil
}

func (r *TelemetryRepository) DeleteSensor(ctx context.Context, id uint) error {
	if err := r.dao.DeleteSensor(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteSensor -> %w", err)
	}

	return nil
}

func (r *TelemetryRepository) DeleteSensorsByGarden(ctx context.Context, gardenID uint) (int64, error) {
	n, err := r.dao.DeleteSensorsByGarden(ctx, gardenID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteSensorsByGarden -> %w", err)
	}

	return n, nil
}

func (r *TelemetryRepository) CreateSensorReading(ctx context.Context, sr domain.SensorReading) (domain.SensorReading, error) {
	created, err := r.dao.InsertSensorReading(ctx, dao.SensorReading{
		SensorID:   sr.SensorID,
		Value:      sr.Value,
		RecordedAt: sr.RecordedAt,
	})
	if err != nil {
		return domain.SensorReading{}, fmt.Errorf("r.dao.InsertSensorReading -> %w", err)
	}

	return sensorReadingToDomain(created), nil
}

func (r *TelemetryRepository) FindSensorReadings(ctx context.Context, sensorID uint, limit int) ([]domain.SensorReading, error) {
	found, err := r.dao.FindSensorReadings(ctx, sensorID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSensorReadings -> %w", err)
	}

	rs := make([]domain.SensorReading, 0, len(found))
	for _, sr := range found {
		rs = append(rs, sensorReadingToDomain(sr))
	}

	return rs, nil
}

func weatherToDomain(w dao.WeatherReading) domain.WeatherReading {
	return domain.WeatherReading{
		ID:            w.ID,
		GardenID:      w.GardenID,
		Temperature:   w.Temperature,
		Humidity:      w.Humidity,
		Precipitation: w.Precipitation,
		Wind:          w.Wind,
		RecordedAt:    w.RecordedAt,
	}
}

func sensorToDomain(s dao.Sensor) domain.Sensor {
	return domain.Sensor{
		ID:        s.ID,
		GardenID:  s.GardenID,
		Name:      s.Name,
		Type:      domain.SensorType(s.Type),
		Unit:      s.Unit,
		CreatedAt: s.CreatedAt,
	}
}

func sensorReadingToDomain(sr dao.SensorReading) domain.SensorReading {
	return domain.SensorReading{
		ID:         sr.ID,
		SensorID:   sr.SensorID,
		Value:      sr.Value,
		RecordedAt: sr.RecordedAt,
	}
}
