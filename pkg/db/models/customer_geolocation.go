package models

import "time"

// CustomerGeolocation is one candidate map point per customer row. The
// engine keeps only the first row per customer_unique_id when it builds a
// snapshot.
type CustomerGeolocation struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerUniqueID string    `gorm:"column:customer_unique_id;type:text;not null;index"`
	Lat              float64   `gorm:"column:geolocation_lat;not null"`
	Lng              float64   `gorm:"column:geolocation_lng;not null"`
	City             string    `gorm:"column:geolocation_city;type:text"`
	State            string    `gorm:"column:geolocation_state;type:text"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the warehouse table name.
func (CustomerGeolocation) TableName() string {
	return "customer_geolocations"
}
