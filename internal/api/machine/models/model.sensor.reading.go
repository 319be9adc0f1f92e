package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SensorReading định nghĩa một điểm dữ liệu cảm biến của máy.
// Dữ liệu cũ hơn 90 ngày tự hết hạn qua TTL index.
type SensorReading struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID  string             `json:"tenantId" bson:"tenantId" index:"single"`
	MachineID primitive.ObjectID `json:"machineId" bson:"machineId" index:"single"`
	Metric    string             `json:"metric" bson:"metric"` // temperatura, vibracion, presion, rpm
	Value     float64            `json:"value" bson:"value"`
	Unit      string             `json:"unit" bson:"unit"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp" index:"ttl:7776000"`
}
