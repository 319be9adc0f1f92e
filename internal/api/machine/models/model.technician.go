package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Technician định nghĩa một kỹ thuật viên bảo trì
type Technician struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID  string             `json:"tenantId" bson:"tenantId" index:"single"`
	Name      string             `json:"name" bson:"name"`
	Specialty string             `json:"specialty" bson:"specialty"` // mecanica, electrica, instrumentacion
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
