package reportsvc

import (
	"context"

	models "ingenio_api/internal/api/report/models"
	"ingenio_api/internal/common"
	"ingenio_api/internal/registry"
)

// GeneratorFunc là hàm sinh dữ liệu của một báo cáo.
// Báo cáo khai báo và báo cáo viết tay đều quy về dạng này.
type GeneratorFunc func(ctx context.Context, rctx models.ReportContext, params models.ReportParams) (*models.NormalizedOutput, error)

// Report là một báo cáo thực thi được: definition + generator.
// Caller không phân biệt được báo cáo khai báo hay viết tay.
type Report struct {
	Definition *models.ReportDefinition
	generate   GeneratorFunc
}

// Execute chạy báo cáo với context và params của request hiện tại
func (r *Report) Execute(ctx context.Context, rctx models.ReportContext, params models.ReportParams) (*models.NormalizedOutput, error) {
	return r.generate(ctx, rctx, params)
}

// CatalogEntry là một dòng catalog đưa cho oracle và UI
type CatalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ReportRegistry giữ toàn bộ báo cáo thực thi được, populate một lần lúc khởi động
type ReportRegistry struct {
	reports *registry.Registry[*Report]
}

// NewReportRegistry tạo registry rỗng
func NewReportRegistry() *ReportRegistry {
	return &ReportRegistry{
		reports: registry.NewRegistry[*Report](),
	}
}

// RegisterDeclarative đăng ký một báo cáo khai báo, chạy qua engine
func (rr *ReportRegistry) RegisterDeclarative(def *models.ReportDefinition, engine *Engine) error {
	report := &Report{
		Definition: def,
		generate: func(ctx context.Context, rctx models.ReportContext, params models.ReportParams) (*models.NormalizedOutput, error) {
			return engine.Execute(ctx, def, rctx, params)
		},
	}
	_, err := rr.reports.Register(def.ID, report)
	return err
}

// RegisterCustom đăng ký một báo cáo viết tay sau cùng interface với báo cáo khai báo
func (rr *ReportRegistry) RegisterCustom(def *models.ReportDefinition, gen GeneratorFunc) error {
	_, err := rr.reports.Register(def.ID, &Report{Definition: def, generate: gen})
	return err
}

// Get tìm báo cáo theo id; không có → ErrReportNotFound
func (rr *ReportRegistry) Get(id string) (*Report, error) {
	report, exist := rr.reports.Get(id)
	if !exist {
		return nil, common.ErrReportNotFound
	}
	return report, nil
}

// ListExecutable trả về catalog {id, name, description} theo thứ tự id ổn định
func (rr *ReportRegistry) ListExecutable() []CatalogEntry {
	keys := rr.reports.Keys()
	entries := make([]CatalogEntry, 0, len(keys))
	for _, id := range keys {
		report, exist := rr.reports.Get(id)
		if !exist {
			continue
		}
		entries = append(entries, CatalogEntry{
			ID:          report.Definition.ID,
			Name:        report.Definition.Name,
			Description: report.Definition.Description,
		})
	}
	return entries
}
