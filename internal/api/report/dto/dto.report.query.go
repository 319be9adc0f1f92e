package reportdto

import (
	models "ingenio_api/internal/api/report/models"
)

// Loại response của pipeline hỏi đáp: đúng một trong ba
const (
	ResponseWidget = "WIDGET" // Payload chart + debug
	ResponseText   = "TEXT"   // Trả lời hội thoại, không có báo cáo
	ResponseError  = "ERROR"  // Thông báo lỗi cho người dùng
)

// QueryRequest là câu hỏi ngôn ngữ tự nhiên từ dashboard
type QueryRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
}

// DebugInfo là metadata chẩn đoán kèm theo WIDGET (không dành cho người dùng cuối)
type DebugInfo struct {
	ReportID string                 `json:"reportId"`
	AIParams map[string]interface{} `json:"aiParams"`
}

// QueryResponse là một trong ba biến thể WIDGET | TEXT | ERROR
type QueryResponse struct {
	Type    string                   `json:"type"`
	Message string                   `json:"message,omitempty"`
	Payload *models.NormalizedOutput `json:"payload,omitempty"`
	Debug   *DebugInfo               `json:"debug,omitempty"`
}
