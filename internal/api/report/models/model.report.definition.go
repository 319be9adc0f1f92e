// Package models - model định nghĩa báo cáo khai báo (ReportDefinition) thuộc domain report.
package models

import (
	"fmt"
	"sort"

	authmodels "ingenio_api/internal/api/auth/models"
)

// VisualizationType là loại trực quan hóa của báo cáo.
// Tập đóng: PIE, BAR, LINE, KPI.
type VisualizationType string

const (
	VizPie  VisualizationType = "PIE"
	VizBar  VisualizationType = "BAR"
	VizLine VisualizationType = "LINE"
	VizKpi  VisualizationType = "KPI"
)

// IsValid kiểm tra loại trực quan hóa có được hỗ trợ không
func (v VisualizationType) IsValid() bool {
	switch v {
	case VizPie, VizBar, VizLine, VizKpi:
		return true
	}
	return false
}

// AggregationOp là toán tử gộp trên một field.
// Tập đóng: sum, avg, count.
type AggregationOp string

const (
	AggSum   AggregationOp = "sum"
	AggAvg   AggregationOp = "avg"
	AggCount AggregationOp = "count"
)

// IsValid kiểm tra toán tử gộp có được hỗ trợ không
func (op AggregationOp) IsValid() bool {
	switch op {
	case AggSum, AggAvg, AggCount:
		return true
	}
	return false
}

// TimeRange là cửa sổ thời gian lùi về trước tính từ thời điểm thực thi.
// Hours và Days cộng dồn với nhau.
type TimeRange struct {
	Hours int `json:"hours,omitempty"`
	Days  int `json:"days,omitempty"`
}

// JoinSpec khai báo lookup sang collection phụ để thay raw key bằng label người đọc được
type JoinSpec struct {
	Model  string `json:"model"`  // Tên collection phụ
	Select string `json:"select"` // Field chứa label (mặc định "name")
}

// Formatters chứa các mapping format tĩnh của báo cáo
type Formatters struct {
	// Name map giá trị thô của groupByField sang label hiển thị.
	// Có độ ưu tiên cao hơn joins.
	Name map[string]string `json:"name,omitempty"`
}

// ReportDefinition là đặc tả khai báo của một báo cáo.
// Load một lần lúc khởi động, bất biến suốt vòng đời process.
type ReportDefinition struct {
	ID                string                   `json:"id" validate:"required"`
	Name              string                   `json:"name" validate:"required"`
	Description       string                   `json:"description"`
	Model             string                   `json:"model" validate:"required"`
	VisualizationType VisualizationType        `json:"visualizationType" validate:"required"`
	GroupByField      string                   `json:"groupByField"`
	Aggregations      map[string]AggregationOp `json:"aggregations,omitempty"`
	FilterByTenant    bool                     `json:"filterByTenant"`
	TimestampField    string                   `json:"timestampField,omitempty"`
	TimeRange         *TimeRange               `json:"timeRange,omitempty"`
	Joins             map[string]JoinSpec      `json:"joins,omitempty"`
	Formatters        Formatters               `json:"formatters,omitempty"`
	Colors            map[string]string        `json:"colors,omitempty"`
	Units             string                   `json:"units,omitempty"`
	RequiredRoles     []authmodels.UserRole    `json:"requiredRoles" validate:"required,min=1"`
}

// Validate kiểm tra tính hợp lệ cấu trúc của definition.
// knownModels là tập tên collection đã đăng ký; mọi model/join phải nằm trong đó.
// Gọi lúc load định nghĩa: vi phạm nào cũng chặn process khởi động.
func (d *ReportDefinition) Validate(knownModels map[string]bool) error {
	if d.ID == "" {
		return fmt.Errorf("definition thiếu id")
	}
	if d.Model == "" {
		return fmt.Errorf("definition %s: thiếu model", d.ID)
	}
	if !knownModels[d.Model] {
		return fmt.Errorf("definition %s: model %q chưa được đăng ký", d.ID, d.Model)
	}
	if !d.VisualizationType.IsValid() {
		return fmt.Errorf("definition %s: visualizationType %q không được hỗ trợ", d.ID, d.VisualizationType)
	}
	for field, op := range d.Aggregations {
		if !op.IsValid() {
			return fmt.Errorf("definition %s: toán tử %q trên field %q không được hỗ trợ", d.ID, op, field)
		}
	}
	// BAR/LINE bắt buộc có ít nhất một aggregation; KPI được phép rỗng (mặc định count)
	switch d.VisualizationType {
	case VizBar, VizLine:
		if len(d.Aggregations) == 0 {
			return fmt.Errorf("definition %s: %s cần ít nhất một aggregation", d.ID, d.VisualizationType)
		}
	case VizPie:
		if len(d.Aggregations) != 1 {
			return fmt.Errorf("definition %s: PIE cần đúng một aggregation", d.ID)
		}
	}
	if len(d.RequiredRoles) == 0 {
		return fmt.Errorf("definition %s: requiredRoles rỗng", d.ID)
	}
	for _, role := range d.RequiredRoles {
		if !role.IsValid() {
			return fmt.Errorf("definition %s: vai trò %q không hợp lệ", d.ID, role)
		}
	}
	if d.TimeRange != nil && d.TimestampField == "" {
		return fmt.Errorf("definition %s: timeRange cần timestampField", d.ID)
	}
	for field, join := range d.Joins {
		if join.Model == "" {
			return fmt.Errorf("definition %s: join trên %q thiếu model", d.ID, field)
		}
		if !knownModels[join.Model] {
			return fmt.Errorf("definition %s: join model %q chưa được đăng ký", d.ID, join.Model)
		}
	}
	return nil
}

// MetricNames trả về danh sách tên metric (field có aggregation) theo thứ tự ổn định
func (d *ReportDefinition) MetricNames() []string {
	names := make([]string, 0, len(d.Aggregations))
	for field := range d.Aggregations {
		names = append(names, field)
	}
	sort.Strings(names)
	return names
}

// OrderedColors trả về các giá trị màu theo thứ tự ổn định (sort theo key)
func (d *ReportDefinition) OrderedColors() []string {
	if len(d.Colors) == 0 {
		return nil
	}
	keys := make([]string, 0, len(d.Colors))
	for k := range d.Colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	colors := make([]string, 0, len(keys))
	for _, k := range keys {
		colors = append(colors, d.Colors[k])
	}
	return colors
}

// AllowsRole kiểm tra vai trò có nằm trong allow-list của báo cáo không (mặc định deny)
func (d *ReportDefinition) AllowsRole(role authmodels.UserRole) bool {
	for _, r := range d.RequiredRoles {
		if r == role {
			return true
		}
	}
	return false
}
