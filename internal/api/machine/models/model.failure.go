package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Failure định nghĩa một sự cố máy được ghi nhận
type Failure struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID    string             `json:"tenantId" bson:"tenantId" index:"single;compound:tenant_reported"`
	MachineID   primitive.ObjectID `json:"machineId" bson:"machineId" index:"single"`
	FailureType string             `json:"failureType" bson:"failureType"` // mecanica, electrica, hidraulica, ...
	Severity    string             `json:"severity" bson:"severity"`       // baja, media, alta, critica
	Description string             `json:"description" bson:"description"`
	Downtime    float64            `json:"downtimeHours" bson:"downtimeHours"` // Số giờ máy dừng do sự cố
	ReportedAt  time.Time          `json:"reportedAt" bson:"reportedAt" index:"compound:tenant_reported,order:-1"`
	ResolvedAt  *time.Time         `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
}
