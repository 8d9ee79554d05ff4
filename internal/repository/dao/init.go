package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Municipality{},
		&Association{},
		&Garden{},
		&Plot{},
		&GardenAssignment{},
		&PlotAssignment{},
		&Notice{},
		&Tender{},
		&WeatherReading{},
		&Sensor{},
		&SensorReading{},
	)
}

// DropTables is used by tests and the integration suite to start from an empty schema.
func DropTables(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&SensorReading{},
		&Sensor{},
		&WeatherReading{},
		&Tender{},
		&Notice{},
		&PlotAssignment{},
		&GardenAssignment{},
		&Plot{},
		&Garden{},
		&Association{},
		&Municipality{},
		&User{},
	)
}
