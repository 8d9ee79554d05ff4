package domain

import "time"

type WeatherReading struct {
	ID            uint      `json:"id"`
	GardenID      uint      `json:"orto_id"`
	Temperature   float64   `json:"temperatura"`
	Humidity      float64   `json:"umidita"`
	Precipitation float64   `json:"precipitazioni"`
	Wind          float64   `json:"vento"`
	RecordedAt    time.Time `json:"rilevato_il"`
}

type SensorType string

const (
	SensorTemperature  SensorType = "temperatura"
	SensorSoilMoisture SensorType = "umidita_suolo"
	SensorLight        SensorType = "luminosita"
	SensorPH           SensorType = "ph"
)

var SensorTypes = []SensorType{SensorTemperature, SensorSoilMoisture, SensorLight, SensorPH}

type Sensor struct {
	ID        uint       `json:"id"`
	GardenID  uint       `json:"orto_id"`
	Name      string     `json:"nome"`
	Type      SensorType `json:"tipo"`
	Unit      string     `json:"unita"`
	CreatedAt time.Time  `json:"created_at"`
}

type SensorReading struct {
	ID         uint      `json:"id"`
	SensorID   uint      `json:"sensore_id"`
	Value      float64   `json:"valore"`
	RecordedAt time.Time `json:"rilevato_il"`
}
