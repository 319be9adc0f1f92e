package reportsvc

import (
	"context"
	"errors"
	"fmt"

	aisvc "ingenio_api/internal/api/ai/service"
	reportdto "ingenio_api/internal/api/report/dto"
	models "ingenio_api/internal/api/report/models"
	"ingenio_api/internal/common"
	"ingenio_api/internal/logger"

	"github.com/sirupsen/logrus"
)

// Các message cố định trả cho người dùng (orchestrator không bao giờ lộ lỗi nội bộ)
const (
	msgNoReport          = "Lo siento, no tengo un reporte específico para esa consulta. Prueba preguntando por el estado de las máquinas, las fallas recientes o los costos de mantenimiento."
	msgReportUnavailable = "Entendí tu intención, pero el reporte solicitado no está disponible temporalmente."
	msgInternalError     = "Ocurrió un error interno al generar los datos del reporte."
)

// IntentDispatcher là contract mà orchestrator cần từ dispatcher.
// Interface để test inject fake.
type IntentDispatcher interface {
	Decide(ctx context.Context, query string) aisvc.Decision
}

// QueryService là orchestrator: điểm vào duy nhất biến (caller, query)
// thành đúng một trong ba biến thể WIDGET | TEXT | ERROR.
type QueryService struct {
	registry   *ReportRegistry
	dispatcher IntentDispatcher
}

// NewQueryService tạo orchestrator
func NewQueryService(registry *ReportRegistry, dispatcher IntentDispatcher) *QueryService {
	return &QueryService{registry: registry, dispatcher: dispatcher}
}

// ProcessUserQuery chạy pipeline tuyến tính:
// dispatch → kiểm tra tồn tại (anti-hallucination) → RBAC → execute.
// Bước nào fail thì short-circuit về response terminal; RBAC không thể bỏ qua.
func (s *QueryService) ProcessUserQuery(ctx context.Context, caller models.ReportContext, query string) *reportdto.QueryResponse {
	// Bước 1: dispatch ý định
	decision := s.dispatcher.Decide(ctx, query)
	if decision.ReportID == nil {
		return &reportdto.QueryResponse{Type: reportdto.ResponseText, Message: msgNoReport}
	}
	reportID := *decision.ReportID

	// Bước 2: kiểm tra tồn tại trong registry.
	// Oracle không bao giờ được tin về sự tồn tại của báo cáo.
	report, err := s.registry.Get(reportID)
	if err != nil {
		logger.GetAppLogger().WithFields(logrus.Fields{
			"report_id": reportID,
			"user_id":   caller.UserID,
			"query":     truncateQuery(query),
		}).Warn("Orchestrator: oracle trả về id không tồn tại (có thể hallucination)")
		return &reportdto.QueryResponse{Type: reportdto.ResponseText, Message: msgReportUnavailable}
	}

	// Bước 3: RBAC allow-list, mặc định deny
	if !report.Definition.AllowsRole(caller.Role) {
		logger.GetAuditLogger().WithFields(logrus.Fields{
			"report_id": reportID,
			"user_id":   caller.UserID,
			"role":      caller.Role,
		}).Warn("Orchestrator: truy cập báo cáo bị từ chối")
		return &reportdto.QueryResponse{
			Type:    reportdto.ResponseError,
			Message: fmt.Sprintf("No tienes permisos suficientes (%s) para ver el reporte: %s", caller.Role, report.Definition.Name),
		}
	}

	// Bước 4-5: thực thi và gói WIDGET
	output, err := report.Execute(ctx, caller, decision.Params)
	if err != nil {
		// Log đầy đủ server-side, người dùng chỉ nhận message chung
		entry := logger.GetErrorLogger().WithFields(logrus.Fields{
			"report_id": reportID,
			"user_id":   caller.UserID,
		})
		if errors.Is(err, common.ErrInvalidDefinition) {
			entry.WithError(err).Error("Orchestrator: definition không hợp lệ lúc thực thi")
		} else {
			entry.WithError(err).Error("Orchestrator: thực thi báo cáo thất bại")
		}
		return &reportdto.QueryResponse{Type: reportdto.ResponseError, Message: msgInternalError}
	}

	return &reportdto.QueryResponse{
		Type:    reportdto.ResponseWidget,
		Payload: output,
		Debug: &reportdto.DebugInfo{
			ReportID: reportID,
			AIParams: decision.Params,
		},
	}
}

// ExecuteDirect thực thi một báo cáo đã biết id (endpoint GET /reports/:id),
// qua cùng đường RBAC với pipeline hỏi đáp.
func (s *QueryService) ExecuteDirect(ctx context.Context, caller models.ReportContext, reportID string, params models.ReportParams) (*models.NormalizedOutput, error) {
	report, err := s.registry.Get(reportID)
	if err != nil {
		return nil, err
	}
	if !report.Definition.AllowsRole(caller.Role) {
		logger.GetAuditLogger().WithFields(logrus.Fields{
			"report_id": reportID,
			"user_id":   caller.UserID,
			"role":      caller.Role,
		}).Warn("ExecuteDirect: truy cập báo cáo bị từ chối")
		return nil, common.ErrUnauthorizedReport
	}
	output, err := report.Execute(ctx, caller, params)
	if err != nil {
		logger.GetErrorLogger().WithFields(logrus.Fields{
			"report_id": reportID,
			"user_id":   caller.UserID,
		}).WithError(err).Error("ExecuteDirect: thực thi báo cáo thất bại")
		return nil, common.ErrExecutionFailed
	}
	return output, nil
}

// Catalog trả về danh sách báo cáo cho UI và cho prompt của oracle
func (s *QueryService) Catalog() []CatalogEntry {
	return s.registry.ListExecutable()
}

func truncateQuery(q string) string {
	if len(q) <= 200 {
		return q
	}
	return q[:200] + "..."
}

// Instance dùng chung, được gán một lần khi khởi động server
var defaultQueryService *QueryService

// SetDefaultQueryService gán instance dùng chung cho các handler
func SetDefaultQueryService(s *QueryService) {
	defaultQueryService = s
}

// GetDefaultQueryService trả về instance dùng chung, lỗi nếu chưa khởi tạo
func GetDefaultQueryService() (*QueryService, error) {
	if defaultQueryService == nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Servicio de reportes no inicializado", common.StatusInternalServerError, nil)
	}
	return defaultQueryService, nil
}
