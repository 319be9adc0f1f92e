package middleware

import (
	"context"
	"strings"
	"sync"
	"time"

	models "ingenio_api/internal/api/auth/models"
	authsvc "ingenio_api/internal/api/auth/service"
	"ingenio_api/internal/common"
	"ingenio_api/internal/logger"
	"ingenio_api/internal/utility"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthManager quản lý xác thực người dùng
type AuthManager struct {
	UserService *authsvc.UserService
	Cache       *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

// newAuthManager khởi tạo một instance mới của AuthManager (private constructor)
func newAuthManager() (*AuthManager, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}
	return &AuthManager{
		UserService: userService,
		// Cache user 5 phút, dọn dẹp mỗi 10 phút
		Cache: utility.NewCache(5*time.Minute, 10*time.Minute),
	}, nil
}

// getUser lấy user từ cache hoặc database
func (am *AuthManager) getUser(ctx context.Context, userID string) (*models.User, error) {
	cacheKey := "auth_user:" + userID
	if cached, found := am.Cache.Get(cacheKey); found {
		return cached.(*models.User), nil
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}
	user, err := am.UserService.FindOneById(ctx, objID)
	if err != nil {
		return nil, err
	}

	am.Cache.Set(cacheKey, user)
	return user, nil
}

// AuthMiddleware middleware xác thực cho Fiber.
// requireRoles: danh sách vai trò được phép; rỗng = chỉ cần đăng nhập.
func AuthMiddleware(requireRoles ...models.UserRole) fiber.Handler {
	authManager := GetAuthManager()

	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("[AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		claims, err := authManager.UserService.ParseToken(parts[1])
		if err != nil {
			HandleErrorResponse(c, err)
			return nil
		}

		// Kiểm tra user còn tồn tại và không bị block
		user, err := authManager.getUser(c.Context(), claims.Subject)
		if err != nil {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		if user.IsBlock {
			HandleErrorResponse(c, common.NewError(common.ErrCodeAuthCredentials, "Cuenta bloqueada", common.StatusForbidden, nil))
			return nil
		}

		// Kiểm tra vai trò nếu route yêu cầu
		if len(requireRoles) > 0 {
			allowed := false
			for _, role := range requireRoles {
				if user.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				logger.GetAppLogger().WithFields(logrus.Fields{
					"user_id": claims.Subject,
					"role":    user.Role,
					"path":    c.Path(),
				}).Warn("[AUTH] Role not allowed")
				HandleErrorResponse(c, common.NewError(common.ErrCodeAuthRole, common.MsgForbidden, common.StatusForbidden, nil))
				return nil
			}
		}

		// Lưu thông tin user vào context cho các handler phía sau
		c.Locals("user_id", claims.Subject)
		c.Locals("user_role", string(user.Role))
		c.Locals("tenant_id", user.TenantID)

		return c.Next()
	}
}
