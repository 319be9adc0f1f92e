// Package authsvc - service người dùng (User) và xác thực.
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdto "ingenio_api/internal/api/auth/dto"
	models "ingenio_api/internal/api/auth/models"
	"ingenio_api/internal/common"
	"ingenio_api/internal/global"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL thời gian sống của access token
const TokenTTL = 24 * time.Hour

// Claims là payload của JWT access token
type Claims struct {
	Role     models.UserRole `json:"role"`
	TenantID string          `json:"tenantId"`
	jwt.RegisteredClaims
}

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	collection *mongo.Collection
	jwtSecret  []byte
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}
	return &UserService{
		collection: collection,
		jwtSecret:  []byte(global.MongoDB_ServerConfig.JwtSecret),
	}, nil
}

// Login xác thực email + mật khẩu và phát hành access token
func (s *UserService) Login(ctx context.Context, input *authdto.UserLoginInput) (*authdto.UserLoginOutput, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Không phân biệt "không tồn tại" và "sai mật khẩu" trong phản hồi
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ConvertMongoError(err)
	}

	if user.IsBlock {
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Cuenta bloqueada", common.StatusForbidden, nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		logrus.WithFields(logrus.Fields{"email": input.Email}).Warn("Login: sai mật khẩu")
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "No se pudo generar el token", common.StatusInternalServerError, err)
	}

	return &authdto.UserLoginOutput{
		Token: token,
		User:  authdto.ToProfile(&user),
	}, nil
}

// issueToken phát hành JWT HS256 chứa role và tenantId của user
func (s *UserService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:     user.Role,
		TenantID: user.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken xác thực chữ ký token và trả về claims
func (s *UserService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}

// FindOneById tìm người dùng theo ID
func (s *UserService) FindOneById(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return &user, nil
}

// EnsureAdminUser đảm bảo tài khoản admin mặc định tồn tại (dùng khi INITMODE).
// Nếu email đã tồn tại thì không làm gì.
func (s *UserService) EnsureAdminUser(ctx context.Context, email string, password string, tenantID string) error {
	if password == "" {
		return common.NewError(common.ErrCodeValidationInput, "Falta la contraseña del administrador", common.StatusBadRequest, nil)
	}

	count, err := s.collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	user := models.User{
		Name:         "Administrador",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleSuperAdmin,
		TenantID:     tenantID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		return common.ConvertMongoError(err)
	}
	logrus.WithFields(logrus.Fields{"email": email}).Info("EnsureAdminUser: đã tạo tài khoản admin mặc định")
	return nil
}
