package models

import (
	"time"

	authmodels "ingenio_api/internal/api/auth/models"
)

// ReportContext là ngữ cảnh của một lần thực thi báo cáo.
// Orchestrator dựng mới cho mỗi request từ caller đã xác thực; không bao giờ lưu lại.
type ReportContext struct {
	UserID   string              `json:"userId"`
	Role     authmodels.UserRole `json:"role"`
	TenantID string              `json:"tenantId,omitempty"`
}

// ReportParams là bộ tham số tự do do dispatcher hoặc caller cung cấp.
// Dữ liệu không đáng tin: chỉ đọc qua các key mà definition chấp nhận.
type ReportParams map[string]interface{}

// Meta mô tả cách render payload
type Meta struct {
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	VisualizationType VisualizationType `json:"visualizationType"`
	Units             string            `json:"units,omitempty"`
	XKey              string            `json:"xKey"`
	YKeys             []string          `json:"yKeys"`
	Colors            []string          `json:"colors,omitempty"`
}

// Row là một dòng dữ liệu đã chuẩn hóa của payload
type Row map[string]interface{}

// NormalizedOutput là kết quả chuẩn hóa của engine, sẵn sàng cho chart
type NormalizedOutput struct {
	Meta        Meta      `json:"meta"`
	Data        []Row     `json:"data"`
	GeneratedAt time.Time `json:"generatedAt"`
}
