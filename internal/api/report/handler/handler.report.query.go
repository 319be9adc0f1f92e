package reporthdl

import (
	"fmt"

	authmodels "ingenio_api/internal/api/auth/models"
	"ingenio_api/internal/api/middleware"
	reportdto "ingenio_api/internal/api/report/dto"
	models "ingenio_api/internal/api/report/models"
	reportsvc "ingenio_api/internal/api/report/service"
	"ingenio_api/internal/common"
	"ingenio_api/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// ReportHandler xử lý các request truy vấn báo cáo
type ReportHandler struct {
	queryService *reportsvc.QueryService
}

// NewReportHandler tạo instance mới của ReportHandler
func NewReportHandler() (*ReportHandler, error) {
	queryService, err := reportsvc.GetDefaultQueryService()
	if err != nil {
		return nil, fmt.Errorf("failed to get query service: %v", err)
	}
	return &ReportHandler{
		queryService: queryService,
	}, nil
}

// callerFromLocals đọc identity do AuthMiddleware gắn vào context
func callerFromLocals(c fiber.Ctx) models.ReportContext {
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("user_role").(string)
	tenantID, _ := c.Locals("tenant_id").(string)
	return models.ReportContext{
		UserID:   userID,
		Role:     authmodels.UserRole(role),
		TenantID: tenantID,
	}
}

// HandleQuery xử lý truy vấn ngôn ngữ tự nhiên: dispatch -> RBAC -> execute
func (h *ReportHandler) HandleQuery(c fiber.Ctx) error {
	var input reportdto.QueryRequest
	if err := middleware.ParseRequestBody(c, &input); err != nil {
		middleware.HandleErrorResponse(c, err)
		return nil
	}

	caller := callerFromLocals(c)
	response := h.queryService.ProcessUserQuery(c.Context(), caller, input.Query)

	reportID := ""
	if response.Debug != nil {
		reportID = response.Debug.ReportID
	}
	logger.LogReportQuery(reportID, response.Type, c, map[string]interface{}{
		"query_length": len(input.Query),
	})

	middleware.HandleSuccessResponse(c, response)
	return nil
}

// HandleCatalog trả về danh sách báo cáo khả dụng cho UI
func (h *ReportHandler) HandleCatalog(c fiber.Ctx) error {
	middleware.HandleSuccessResponse(c, h.queryService.Catalog())
	return nil
}

// HandleExecuteDirect thực thi một báo cáo theo id, params lấy từ query string
func (h *ReportHandler) HandleExecuteDirect(c fiber.Ctx) error {
	reportID := c.Params("id")
	if reportID == "" {
		middleware.HandleErrorResponse(c, common.ErrRequiredField)
		return nil
	}

	params := models.ReportParams{}
	if v := c.Query("startDate"); v != "" {
		params["startDate"] = v
	}
	if v := c.Query("endDate"); v != "" {
		params["endDate"] = v
	}
	if v := c.Query("machineId"); v != "" {
		params["machineId"] = v
	}

	caller := callerFromLocals(c)
	output, err := h.queryService.ExecuteDirect(c.Context(), caller, reportID, params)
	if err != nil {
		logger.LogReportQuery(reportID, "error", c, nil)
		middleware.HandleErrorResponse(c, err)
		return nil
	}

	logger.LogReportQuery(reportID, "success", c, nil)
	middleware.HandleSuccessResponse(c, output)
	return nil
}
