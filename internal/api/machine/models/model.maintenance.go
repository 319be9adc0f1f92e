package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Maintenance định nghĩa một lệnh bảo trì
// Status: pendiente, en_proceso, completada, cancelada
type Maintenance struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID     string              `json:"tenantId" bson:"tenantId" index:"single"`
	MachineID    primitive.ObjectID  `json:"machineId" bson:"machineId" index:"single"`
	TechnicianID *primitive.ObjectID `json:"technicianId,omitempty" bson:"technicianId,omitempty"`
	Type         string              `json:"type" bson:"type"` // preventivo, correctivo
	Status       string              `json:"status" bson:"status" index:"single"`
	Cost         float64             `json:"cost" bson:"cost"` // Chi phí (USD)
	Hours        float64             `json:"hours" bson:"hours"`
	ScheduledAt  time.Time           `json:"scheduledAt" bson:"scheduledAt" index:"single,order:-1"`
	CompletedAt  *time.Time          `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}
