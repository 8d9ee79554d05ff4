package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type WeatherReading struct {
	ID            uint `gorm:"primaryKey"`
	GardenID      uint `gorm:"not null;index"`
	Temperature   float64
	Humidity      float64
	Precipitation float64
	Wind          float64
	RecordedAt    time.Time `gorm:"not null;index"`
}

type Sensor struct {
	ID        uint   `gorm:"primaryKey"`
	GardenID  uint   `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	Type      string `gorm:"not null"`
	Unit      string
	CreatedAt time.Time
}

type SensorReading struct {
	ID         uint      `gorm:"primaryKey"`
	SensorID   uint      `gorm:"not null;index"`
	Value      float64   `gorm:"not null"`
	RecordedAt time.Time `gorm:"not null;index"`
}

type TelemetryDAO struct {
	db *gorm.DB
}

func NewTelemetryDAO(db *gorm.DB) *TelemetryDAO {
	return &TelemetryDAO{
		db: db,
	}
}

func (d *TelemetryDAO) InsertWeather(ctx context.Context, r WeatherReading) (WeatherReading, error) {
	return insert(ctx, d.db, r)
}

func (d *TelemetryDAO) FindWeather(ctx context.Context, gardenID uint, limit int) ([]WeatherReading, error) {
	var rs []WeatherReading

	err := conn(ctx, d.db).Where("garden_id = ?", gardenID).
		Order("recorded_at DESC, id DESC").Limit(limit).Find(&rs).Error
	if err != nil {
		return nil, translate(err)
	}

	return rs, nil
}

func (d *TelemetryDAO) FindLatestWeather(ctx context.Context, gardenID uint) (WeatherReading, error) {
	var r WeatherReading

	err := conn(ctx, d.db).Where("garden_id = ?", gardenID).Order("recorded_at DESC, id DESC").First(&r).Error
	if err != nil {
		return WeatherReading{}, translate(err)
	}

	return r, nil
}

func (d *TelemetryDAO) DeleteWeatherByGarden(ctx context.Context, gardenID uint) (int64, error) {
	result := conn(ctx, d.db).Where("garden_id = ?", gardenID).Delete(&WeatherReading{})
	return result.RowsAffected, translate(result.Error)
}

func (d *TelemetryDAO) InsertSensor(ctx context.Context, s Sensor) (Sensor, error) {
	return insert(ctx, d.db, s)
}

func (d *TelemetryDAO) FindSensorByID(ctx context.Context, id uint) (Sensor, error) {
	return first[Sensor](ctx, d.db, id)
}

func (d *TelemetryDAO) FindSensors(ctx context.Context, gardenID uint) ([]Sensor, error) {
	var ss []Sensor
	if err := conn(ctx, d.db).Where("garden_id = ?", gardenID).Order("id").Find(&ss).Error; err != nil {
		return nil, translate(err)
	}

	return ss, nil
}

func (d *TelemetryDAO) DeleteSensor(ctx context.Context, id uint) error {
	if err := conn(ctx, d.db).Where("sensor_id = ?", id).Delete(&SensorReading{}).Error; err != nil {
		return translate(err)
	}

	return deleteByID[Sensor](ctx, d.db, id)
}

func (d *TelemetryDAO) DeleteSensorsByGarden(ctx context.Context, gardenID uint) (int64, error) {
	sensorIDs := conn(ctx, d.db).Model(&Sensor{}).Select("id").Where("garden_id = ?", gardenID)
	if err := conn(ctx, d.db).Where("sensor_id IN (?)", sensorIDs).Delete(&SensorReading{}).Error; err != nil {
		return 0, translate(err)
	}

	result := conn(ctx, d.db).Where("garden_id = ?", gardenID).Delete(&Sensor{})
	return result.RowsAffected, translate(result.Error)
}

func (d *TelemetryDAO) InsertSensorReading(ctx context.Context, r SensorReading) (SensorReading, error) {
	return insert(ctx, d.db, r)
}

func (d *TelemetryDAO) FindSensorReadings(ctx context.Context, sensorID uint, limit int) ([]SensorReading, error) {
	var rs []SensorReading

	err := conn(ctx, d.db).Where("sensor_id = ?", sensorID).
		Order("recorded_at DESC, id DESC").Limit(limit).Find(&rs).Error
	if err != nil {
		return nil, translate(err)
	}

	return rs, nil
}
