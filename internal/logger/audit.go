package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// AuditAction log một hành động audit
type AuditAction struct {
	Action       string                 `json:"action"`        // Tên hành động (ví dụ: "report_query", "auth_login")
	UserID       string                 `json:"user_id"`       // ID người dùng thực hiện
	UserRole     string                 `json:"user_role"`     // Vai trò của người dùng
	TenantID     string                 `json:"tenant_id"`     // ID ingenio (tenant)
	ResourceID   string                 `json:"resource_id"`   // ID tài nguyên bị ảnh hưởng (ví dụ: report ID)
	ResourceType string                 `json:"resource_type"` // Loại tài nguyên (ví dụ: "report", "user")
	IP           string                 `json:"ip"`            // IP address
	UserAgent    string                 `json:"user_agent"`    // User agent
	Details      map[string]interface{} `json:"details"`       // Chi tiết bổ sung
	Timestamp    time.Time              `json:"timestamp"`     // Thời gian
}

// LogAction log một hành động audit
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	auditLogger := GetAuditLogger()

	if details == nil {
		details = make(map[string]interface{})
	}

	audit := AuditAction{
		Action:    action,
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
		Details:   details,
		Timestamp: time.Now(),
	}

	// Lấy thông tin người dùng từ context nếu có
	if userID := c.Locals("user_id"); userID != nil {
		if uid, ok := userID.(string); ok {
			audit.UserID = uid
		}
	}
	if userRole := c.Locals("user_role"); userRole != nil {
		if role, ok := userRole.(string); ok {
			audit.UserRole = role
		}
	}
	if tenantID := c.Locals("tenant_id"); tenantID != nil {
		if tid, ok := tenantID.(string); ok {
			audit.TenantID = tid
		}
	}

	// Lấy request ID
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		audit.Details["request_id"] = requestID
	}

	auditLogger.WithFields(logrus.Fields{
		"action":        audit.Action,
		"user_id":       audit.UserID,
		"user_role":     audit.UserRole,
		"tenant_id":     audit.TenantID,
		"resource_id":   audit.ResourceID,
		"resource_type": audit.ResourceType,
		"ip":            audit.IP,
		"user_agent":    audit.UserAgent,
		"details":       audit.Details,
		"timestamp":     audit.Timestamp,
	}).Info("Audit log")
}

// LogAuth log các thao tác authentication
func LogAuth(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["auth_action"] = action

	LogAction("auth_"+action, c, details)
}

// LogReportQuery log một truy vấn báo cáo qua ngôn ngữ tự nhiên
// outcome: "widget", "text" hoặc "error" theo kết quả orchestration
func LogReportQuery(reportID string, outcome string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["resource_type"] = "report"
	details["report_id"] = reportID
	details["outcome"] = outcome

	LogAction("report_query", c, details)
}

// LogPermissionDenied log một truy cập báo cáo bị từ chối do thiếu quyền
func LogPermissionDenied(reportID string, role string, c fiber.Ctx) {
	LogAction("report_permission_denied", c, map[string]interface{}{
		"resource_type": "report",
		"report_id":     reportID,
		"denied_role":   role,
	})
}

// WithRequest trả về một entry của app logger kèm thông tin request
// Dùng cho các log có ngữ cảnh HTTP nhưng không phải audit
func WithRequest(c fiber.Ctx) *logrus.Entry {
	fields := logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	}
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		fields["request_id"] = requestID
	}
	if userID := c.Locals("user_id"); userID != nil {
		fields["user_id"] = userID
	}
	return GetAppLogger().WithFields(fields)
}
