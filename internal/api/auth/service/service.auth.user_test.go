// Package authsvc - test vòng đời JWT: phát hành và xác thực claims.
package authsvc

import (
	"errors"
	"testing"
	"time"

	models "ingenio_api/internal/api/auth/models"
	"ingenio_api/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUserService(secret string) *UserService {
	return &UserService{jwtSecret: []byte(secret)}
}

func TestIssueAndParseToken(t *testing.T) {
	svc := testUserService("secreto-de-test")
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Role:     models.RoleTecnico,
		TenantID: "ingenio-1",
	}

	token, err := svc.issueToken(user)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != user.ID.Hex() {
		t.Errorf("Subject = %s, muốn %s", claims.Subject, user.ID.Hex())
	}
	if claims.Role != models.RoleTecnico {
		t.Errorf("Role = %s, muốn TECNICO", claims.Role)
	}
	if claims.TenantID != "ingenio-1" {
		t.Errorf("TenantID = %s", claims.TenantID)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := testUserService("secreto-a").issueToken(&models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	if _, err := testUserService("secreto-b").ParseToken(token); !errors.Is(err, common.ErrTokenInvalid) {
		t.Errorf("token ký bằng secret khác phải trả ErrTokenInvalid, có %v", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	svc := testUserService("secreto-de-test")

	// Token hết hạn trong quá khứ
	now := time.Now().Add(-48 * time.Hour)
	claims := Claims{
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   primitive.NewObjectID().Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.jwtSecret)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	if _, err := svc.ParseToken(token); !errors.Is(err, common.ErrTokenExpired) {
		t.Errorf("token hết hạn phải trả ErrTokenExpired, có %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	svc := testUserService("secreto-de-test")
	if _, err := svc.ParseToken("no-es-un-jwt"); !errors.Is(err, common.ErrTokenInvalid) {
		t.Errorf("chuỗi rác phải trả ErrTokenInvalid, có %v", err)
	}
}

func TestUserRole_IsValid(t *testing.T) {
	for _, role := range []models.UserRole{models.RoleSuperAdmin, models.RoleAdmin, models.RoleTecnico, models.RoleLector} {
		if !role.IsValid() {
			t.Errorf("vai trò %s phải hợp lệ", role)
		}
	}
	if models.UserRole("GERENTE").IsValid() {
		t.Error("vai trò ngoài tập đóng không được hợp lệ")
	}
}
