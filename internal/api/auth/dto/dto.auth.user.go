package authdto

import (
	models "ingenio_api/internal/api/auth/models"
)

// UserLoginInput đầu vào đăng nhập bằng email và mật khẩu
type UserLoginInput struct {
	Email    string `json:"email" validate:"required,email,no_xss"`
	Password string `json:"password" validate:"required"`
}

// UserLoginOutput kết quả đăng nhập, gồm token và thông tin người dùng
type UserLoginOutput struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// UserProfile thông tin người dùng trả về cho client (không gồm mật khẩu)
type UserProfile struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
	TenantID string          `json:"tenantId"`
}

// ToProfile chuyển User model sang UserProfile
func ToProfile(u *models.User) UserProfile {
	return UserProfile{
		ID:       u.ID.Hex(),
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		TenantID: u.TenantID,
	}
}
