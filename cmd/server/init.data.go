package main

import (
	"context"

	authsvc "ingenio_api/internal/api/auth/service"
	"ingenio_api/internal/global"
	"ingenio_api/internal/logger"
)

// InitDefaultData seed dữ liệu mặc định khi INITMODE=true
func InitDefaultData() {
	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	if !cfg.InitMode {
		log.Info("INITMODE disabled, skipping default data")
		return
	}

	log.Info("🔄 [INIT] Starting InitDefaultData...")

	userService, err := authsvc.NewUserService()
	if err != nil {
		log.Fatalf("Failed to initialize user service: %v", err)
	}

	// Tài khoản admin mặc định (SUPERADMIN, không gắn tenant)
	if err := userService.EnsureAdminUser(context.Background(), cfg.AdminEmail, cfg.AdminPassword, ""); err != nil {
		log.Fatalf("Failed to initialize admin user: %v", err)
	}
	log.Info("✅ [INIT] Admin user initialized")

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
