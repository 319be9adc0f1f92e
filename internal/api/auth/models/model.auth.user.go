// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole định nghĩa vai trò của người dùng trong hệ thống.
// Bộ vai trò là tập đóng: mọi giá trị khác bốn giá trị dưới đây là không hợp lệ.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN" // Quản trị toàn hệ thống, xem được mọi báo cáo
	RoleAdmin      UserRole = "ADMIN"      // Quản trị ingenio
	RoleTecnico    UserRole = "TECNICO"    // Kỹ thuật viên bảo trì
	RoleLector     UserRole = "LECTOR"     // Chỉ xem
)

// IsValid kiểm tra vai trò có thuộc tập vai trò được hỗ trợ không
func (r UserRole) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleTecnico, RoleLector:
		return true
	}
	return false
}

// User định nghĩa mô hình người dùng
// Mỗi user thuộc đúng một ingenio (TenantID) và có đúng một vai trò
type User struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email" index:"unique"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
	Role         UserRole           `json:"role" bson:"role" index:"single"`
	TenantID     string             `json:"tenantId" bson:"tenantId" index:"single"`
	IsBlock      bool               `json:"-" bson:"isBlock"`
	CreatedAt    int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt    int64              `json:"updatedAt" bson:"updatedAt"`
}
