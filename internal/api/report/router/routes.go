// Package router đăng ký các route thuộc domain report.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"ingenio_api/internal/api/middleware"
	reporthdl "ingenio_api/internal/api/report/handler"
	apirouter "ingenio_api/internal/api/router"
)

// Register đăng ký tất cả route report lên v1.
// Mọi route đều yêu cầu xác thực; RBAC theo từng báo cáo do orchestrator quyết định.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	reportHandler, err := reporthdl.NewReportHandler()
	if err != nil {
		return fmt.Errorf("failed to create report handler: %w", err)
	}

	authOnlyMiddleware := middleware.AuthMiddleware()
	authMiddlewares := []fiber.Handler{authOnlyMiddleware}

	apirouter.RegisterRouteWithMiddleware(v1, "/reports", "POST", "/query", authMiddlewares, reportHandler.HandleQuery)
	// /catalog phải đăng ký trước /:id để không bị route param nuốt mất
	apirouter.RegisterRouteWithMiddleware(v1, "/reports", "GET", "/catalog", authMiddlewares, reportHandler.HandleCatalog)
	apirouter.RegisterRouteWithMiddleware(v1, "/reports", "GET", "/:id", authMiddlewares, reportHandler.HandleExecuteDirect)

	return nil
}
