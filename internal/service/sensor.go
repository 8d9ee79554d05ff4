package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ortiurbani/orti-api/internal/domain"
)

var ErrInvalidSensorType = fmt.Errorf("%w: unknown sensor type", domain.ErrValidation)

type SensorRepository interface {
	CreateSensor(ctx context.Context, s domain.Sensor) (domain.Sensor, error)
	FindSensorByID(ctx context.Context, id uint) (domain.Sensor, error)
	FindSensors(ctx context.Context, gardenID uint) ([]domain.Sensor, error)
	DeleteSensor(ctx context.Context, id uint) error
	CreateSensorReading(ctx context.Context, r domain.SensorReading) (domain.SensorReading, error)
	FindSensorReadings(ctx context.Context, sensorID uint, limit int) ([]domain.SensorReading, error)
}

// Publisher fans new readings out to live subscribers.
type Publisher interface {
	Publish(reading domain.SensorReading)
}

type SensorService struct {
	repo      SensorRepository
	gardens   GardenFinder
	publisher Publisher
	now       func() time.Time
}

func NewSensorService(repo SensorRepository, gardens GardenFinder, publisher Publisher) *SensorService {
	return &SensorService{
		repo:      repo,
		gardens:   gardens,
		publisher: publisher,
		now:       utcNow,
	}
}

func (s *SensorService) Register(ctx context.Context, sensor domain.Sensor) (domain.Sensor, error) {
	if !slices.Contains(domain.SensorTypes, sensor.Type) {
		return domain.Sensor{}, ErrInvalidSensorType
	}
	if _, err := s.gardens.FindByID(ctx, sensor.GardenID); err != nil {
		return domain.Sensor{}, fmt.Errorf("s.gardens.FindByID -> %w", err)
	}

	created, err := s.repo.CreateSensor(ctx, sensor)
	if err != nil {
		return domain.Sensor{}, fmt.Errorf("s.repo.CreateSensor -> %w", err)
	}

	return created, nil
}

func (s *SensorService) Get(ctx context.Context, id uint) (domain.Sensor, error) {
	sensor, err := s.repo.FindSensorByID(ctx, id)
	if err != nil {
		return domain.Sensor{}, fmt.Errorf("s.repo.FindSensorByID -> %w", err)
	}

	return sensor, nil
}

func (s *SensorService) List(ctx context.Context, gardenID uint) ([]domain.Sensor, error) {
	if _, err := s.gardens.FindByID(ctx, gardenID); err != nil {
		return nil, fmt.Errorf("s.gardens.FindByID -> %w", err)
	}

	ss, err := s.repo.FindSensors(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindSensors -> %w", err)
	}

	return ss, nil
}

func (s *SensorService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DeleteSensor(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteSensor -> %w", err)
	}

	return nil
}

// Record stores a reading and publishes it to the sensor's live feed.
func (s *SensorService) Record(ctx context.Context, r domain.SensorReading) (domain.SensorReading, error) {
	if _, err := s.repo.FindSensorByID(ctx, r.SensorID); err != nil {
		return domain.SensorReading{}, fmt.Errorf("s.repo.FindSensorByID -> %w", err)
	}
	if r.RecordedAt.IsZero() {
		r.RecordedAt = s.now()
	}

	created, err := s.repo.CreateSensorReading(ctx, r)
	if err != nil {
		return domain.SensorReading{}, fmt.Errorf("s.repo.CreateSensorReading -> %w", err)
	}
	s.publisher.Publish(created)

	return created, nil
}

func (s *SensorService) Readings(ctx context.Context, sensorID uint, limit int) ([]domain.SensorReading, error) {
	if _, err := s.repo.FindSensorByID(ctx, sensorID); err != nil {
		return nil, fmt.Errorf("s.repo.FindSensorByID -> %w", err)
	}

	rs, err := s.repo.FindSensorReadings(ctx, sensorID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindSensorReadings -> %w", err)
	}

	return rs, nil
}
