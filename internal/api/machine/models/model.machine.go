// Package models - các model vận hành của ingenio (máy móc, sự cố, bảo trì, cảm biến).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Machine định nghĩa một máy trong ingenio
// Status dùng giá trị chuẩn: operational, stopped, maintenance
type Machine struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID  string             `json:"tenantId" bson:"tenantId" index:"single"`
	Name      string             `json:"name" bson:"name"`
	Code      string             `json:"code" bson:"code" index:"unique"`
	Status    string             `json:"status" bson:"status" index:"single"`
	Area      string             `json:"area" bson:"area"` // Khu vực trong nhà máy (molienda, calderas, ...)
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
