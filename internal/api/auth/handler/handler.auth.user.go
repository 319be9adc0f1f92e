package authhdl

import (
	"fmt"

	authdto "ingenio_api/internal/api/auth/dto"
	authsvc "ingenio_api/internal/api/auth/service"
	"ingenio_api/internal/api/middleware"
	"ingenio_api/internal/common"
	"ingenio_api/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler xử lý các request xác thực người dùng
type UserHandler struct {
	userService *authsvc.UserService
}

// NewUserHandler tạo instance mới của UserHandler
func NewUserHandler() (*UserHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	return &UserHandler{
		userService: userService,
	}, nil
}

// HandleLogin xử lý đăng nhập bằng email và mật khẩu
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	var input authdto.UserLoginInput
	if err := middleware.ParseRequestBody(c, &input); err != nil {
		middleware.HandleErrorResponse(c, err)
		return nil
	}

	output, err := h.userService.Login(c.Context(), &input)
	if err != nil {
		logger.LogAuth("login_failed", c, map[string]interface{}{"email": input.Email})
		middleware.HandleErrorResponse(c, err)
		return nil
	}

	logger.LogAuth("login", c, map[string]interface{}{"email": input.Email})
	middleware.HandleSuccessResponse(c, output)
	return nil
}

// HandleGetProfile lấy thông tin profile của người dùng đang đăng nhập
func (h *UserHandler) HandleGetProfile(c fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		middleware.HandleErrorResponse(c, common.ErrTokenMissing)
		return nil
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		middleware.HandleErrorResponse(c, common.NewError(common.ErrCodeValidationFormat, "Invalid user ID", common.StatusBadRequest, err))
		return nil
	}

	user, err := h.userService.FindOneById(c.Context(), objID)
	if err != nil {
		middleware.HandleErrorResponse(c, err)
		return nil
	}

	middleware.HandleSuccessResponse(c, authdto.ToProfile(user))
	return nil
}
