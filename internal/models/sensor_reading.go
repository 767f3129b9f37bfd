package models

import "time"

// SensorReading is one temperature/humidity sample.
type SensorReading struct {
	ID         int64     `json:"id,omitempty"`
	SensorID   string    `json:"sensor_id"`
	TempC      float64   `json:"temp_c"`
	RH         float64   `json:"rh"`
	RecordedAt time.Time `json:"recorded_at"`
}
