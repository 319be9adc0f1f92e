package aisvc

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ingenio_api/internal/logger"

	"github.com/sirupsen/logrus"
)

// CatalogEntry là một báo cáo mà oracle được phép chọn
type CatalogEntry struct {
	ID          string
	Name        string
	Description string
}

// Decision là kết quả của dispatcher.
// ReportID nil = không có báo cáo phù hợp (đường TEXT của orchestrator).
// Output KHÔNG đáng tin: sự tồn tại của id do orchestrator kiểm tra.
type Decision struct {
	ReportID *string                `json:"reportId"`
	Params   map[string]interface{} `json:"params"`
}

// closedDecision là kết quả fail-closed: không báo cáo, không params
func closedDecision() Decision {
	return Decision{ReportID: nil, Params: map[string]interface{}{}}
}

// Dispatcher dịch câu hỏi tự do thành Decision qua oracle.
// Mọi lỗi (oracle không khả dụng, timeout, JSON hỏng) đều fail CLOSED
// về {reportId: null} — không bao giờ trả lỗi lên caller.
type Dispatcher struct {
	oracle  Oracle
	catalog func() []CatalogEntry
	timeout time.Duration
}

// NewDispatcher tạo dispatcher. oracle nil = luôn fail-closed (chạy không có API key).
func NewDispatcher(oracle Oracle, catalog func() []CatalogEntry, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{oracle: oracle, catalog: catalog, timeout: timeout}
}

// Decide chọn báo cáo và trích params từ câu hỏi của người dùng
func (d *Dispatcher) Decide(ctx context.Context, query string) Decision {
	if d.oracle == nil {
		return closedDecision()
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	prompt := d.buildPrompt(query)
	text, err := d.oracle.Generate(ctx, prompt)
	if err != nil {
		logger.GetAppLogger().WithError(err).Warn("Dispatcher: oracle không khả dụng, fail closed")
		return closedDecision()
	}

	text = stripCodeFences(text)
	if text == "" {
		logger.GetAppLogger().Warn("Dispatcher: oracle trả về rỗng, fail closed")
		return closedDecision()
	}

	var decision Decision
	if err := json.Unmarshal([]byte(text), &decision); err != nil {
		logger.GetAppLogger().WithFields(logrus.Fields{
			"response": truncate(text, 300),
		}).WithError(err).Warn("Dispatcher: response oracle không parse được, fail closed")
		return closedDecision()
	}

	if decision.Params == nil {
		decision.Params = map[string]interface{}{}
	}
	return decision
}

// buildPrompt lắp system prompt cố định + catalog + câu hỏi
func (d *Dispatcher) buildPrompt(query string) string {
	var b strings.Builder
	b.WriteString("Eres un enrutador de reportes para una plataforma de mantenimiento industrial.\n")
	b.WriteString("Tu única tarea es elegir el reporte del catálogo que responde la consulta del usuario.\n\n")
	b.WriteString("Catálogo de reportes disponibles:\n")
	for _, entry := range d.catalog() {
		b.WriteString("- ")
		b.WriteString(entry.ID)
		b.WriteString(": ")
		b.WriteString(entry.Description)
		b.WriteString("\n")
	}
	b.WriteString("\nResponde SOLO con un objeto JSON con esta forma exacta:\n")
	b.WriteString(`{"reportId": "<id del catálogo o null>", "params": {}}` + "\n\n")
	b.WriteString("Reglas:\n")
	b.WriteString("- Si ninguna entrada del catálogo responde la consulta, usa \"reportId\": null.\n")
	b.WriteString("- Nunca inventes un id que no esté en el catálogo.\n")
	b.WriteString("- Si la consulta menciona fechas o periodos, extráelos en params como startDate/endDate en formato ISO-8601 (YYYY-MM-DD).\n")
	b.WriteString("- Si la consulta menciona una máquina específica por id, inclúyelo en params como machineId.\n\n")
	b.WriteString("Ejemplos:\n")
	b.WriteString("Consulta: \"¿cómo están las máquinas?\" → {\"reportId\": \"MACHINE_STATUS_SUMMARY\", \"params\": {}}\n")
	b.WriteString("Consulta: \"hola, ¿quién eres?\" → {\"reportId\": null, \"params\": {}}\n\n")
	b.WriteString("Consulta del usuario: ")
	b.WriteString(query)
	return b.String()
}

// stripCodeFences gỡ fence markdown ```json ... ``` nếu oracle trả kèm
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
