// Package models - test validate cấu trúc của ReportDefinition.
package models

import (
	"testing"

	authmodels "ingenio_api/internal/api/auth/models"
)

func validDef() *ReportDefinition {
	return &ReportDefinition{
		ID:                "TEST_REPORT",
		Name:              "Test",
		Model:             "machines",
		VisualizationType: VizBar,
		GroupByField:      "status",
		Aggregations:      map[string]AggregationOp{"_id": AggCount},
		RequiredRoles:     []authmodels.UserRole{authmodels.RoleAdmin},
	}
}

func known() map[string]bool {
	return map[string]bool{"machines": true, "failures": true}
}

func TestReportDefinitionValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(d *ReportDefinition)
		wantErr bool
	}{
		{"hợp lệ", func(d *ReportDefinition) {}, false},
		{"thiếu id", func(d *ReportDefinition) { d.ID = "" }, true},
		{"thiếu model", func(d *ReportDefinition) { d.Model = "" }, true},
		{"model chưa đăng ký", func(d *ReportDefinition) { d.Model = "inventario" }, true},
		{"visualizationType lạ", func(d *ReportDefinition) { d.VisualizationType = "TABLE" }, true},
		{"toán tử lạ", func(d *ReportDefinition) { d.Aggregations = map[string]AggregationOp{"cost": "median"} }, true},
		{"BAR không aggregation", func(d *ReportDefinition) { d.Aggregations = nil }, true},
		{"KPI không aggregation", func(d *ReportDefinition) {
			d.VisualizationType = VizKpi
			d.Aggregations = nil
		}, false},
		{"PIE đúng một aggregation", func(d *ReportDefinition) { d.VisualizationType = VizPie }, false},
		{"PIE hai aggregation", func(d *ReportDefinition) {
			d.VisualizationType = VizPie
			d.Aggregations = map[string]AggregationOp{"_id": AggCount, "cost": AggSum}
		}, true},
		{"requiredRoles rỗng", func(d *ReportDefinition) { d.RequiredRoles = nil }, true},
		{"vai trò lạ", func(d *ReportDefinition) { d.RequiredRoles = []authmodels.UserRole{"GERENTE"} }, true},
		{"timeRange không timestampField", func(d *ReportDefinition) { d.TimeRange = &TimeRange{Days: 7} }, true},
		{"timeRange có timestampField", func(d *ReportDefinition) {
			d.TimestampField = "reportedAt"
			d.TimeRange = &TimeRange{Days: 7}
		}, false},
		{"join model chưa đăng ký", func(d *ReportDefinition) {
			d.Joins = map[string]JoinSpec{"machineId": {Model: "inventario"}}
		}, true},
		{"join thiếu model", func(d *ReportDefinition) {
			d.Joins = map[string]JoinSpec{"machineId": {Select: "name"}}
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDef()
			tc.mutate(d)
			err := d.Validate(known())
			if tc.wantErr && err == nil {
				t.Error("muốn lỗi, có nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("không muốn lỗi, có %v", err)
			}
		})
	}
}

func TestOrderedColors(t *testing.T) {
	d := validDef()
	d.Colors = map[string]string{
		"stopped":     "#ef4444",
		"maintenance": "#f59e0b",
		"operational": "#22c55e",
	}
	colors := d.OrderedColors()
	// Sort theo key: maintenance, operational, stopped
	want := []string{"#f59e0b", "#22c55e", "#ef4444"}
	if len(colors) != len(want) {
		t.Fatalf("OrderedColors = %v", colors)
	}
	for i := range want {
		if colors[i] != want[i] {
			t.Errorf("colors[%d] = %s, muốn %s", i, colors[i], want[i])
		}
	}

	d.Colors = nil
	if d.OrderedColors() != nil {
		t.Error("không có colors phải trả nil")
	}
}

func TestAllowsRole(t *testing.T) {
	d := validDef()
	d.RequiredRoles = []authmodels.UserRole{authmodels.RoleSuperAdmin, authmodels.RoleAdmin}

	if !d.AllowsRole(authmodels.RoleAdmin) {
		t.Error("ADMIN phải được phép")
	}
	if d.AllowsRole(authmodels.RoleLector) {
		t.Error("LECTOR không nằm trong allow-list, mặc định deny")
	}
	if d.AllowsRole("") {
		t.Error("vai trò rỗng không bao giờ được phép")
	}
}

func TestMetricNames_StableOrder(t *testing.T) {
	d := validDef()
	d.Aggregations = map[string]AggregationOp{
		"hours": AggAvg,
		"_id":   AggCount,
		"cost":  AggSum,
	}
	names := d.MetricNames()
	if len(names) != 3 || names[0] != "_id" || names[1] != "cost" || names[2] != "hours" {
		t.Errorf("MetricNames = %v, muốn [_id cost hours]", names)
	}
}
