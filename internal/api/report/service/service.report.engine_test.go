// Package reportsvc - test engine khai báo với fake DataStore.
package reportsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	authmodels "ingenio_api/internal/api/auth/models"
	models "ingenio_api/internal/api/report/models"
	"ingenio_api/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore là DataStore trong bộ nhớ cho test engine
type fakeStore struct {
	rows      []GroupRow
	err       error
	lastQuery GroupQuery

	labels    map[string]string // stringifyKey(id) -> label
	lookupErr error
	lookups   int
}

func (f *fakeStore) GroupAggregate(ctx context.Context, q GroupQuery) ([]GroupRow, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeStore) LookupLabel(ctx context.Context, model string, id interface{}, selectField string) (string, bool, error) {
	f.lookups++
	if f.lookupErr != nil {
		return "", false, f.lookupErr
	}
	label, ok := f.labels[stringifyKey(id)]
	return label, ok, nil
}

func fptr(v float64) *float64 {
	return &v
}

func machineStatusDef() *models.ReportDefinition {
	return &models.ReportDefinition{
		ID:                "MACHINE_STATUS_SUMMARY",
		Name:              "Estado de máquinas",
		Model:             "machines",
		VisualizationType: models.VizPie,
		GroupByField:      "status",
		Aggregations:      map[string]models.AggregationOp{"_id": models.AggCount},
		Formatters: models.Formatters{Name: map[string]string{
			"operational": "Operativas",
			"stopped":     "Detenidas",
		}},
		Colors: map[string]string{
			"operational": "#22c55e",
			"stopped":     "#ef4444",
		},
		RequiredRoles: []authmodels.UserRole{authmodels.RoleLector},
	}
}

func TestEngineExecute_PieAppliesFormattersAndColors(t *testing.T) {
	store := &fakeStore{rows: []GroupRow{
		{Key: "stopped", Values: map[string]*float64{"_id": fptr(3)}},
		{Key: "operational", Values: map[string]*float64{"_id": fptr(7)}},
	}}
	engine := NewEngine(store)

	out, err := engine.Execute(context.Background(), machineStatusDef(), models.ReportContext{}, nil)
	if err != nil {
		t.Fatalf("Execute trả lỗi: %v", err)
	}
	if len(out.Data) != 2 {
		t.Fatalf("muốn 2 rows, có %d", len(out.Data))
	}

	// Thứ tự ổn định theo key thô: operational trước stopped
	first := out.Data[0]
	if first["label"] != "Operativas" {
		t.Errorf("label row đầu = %v, muốn Operativas", first["label"])
	}
	if first["value"] != float64(7) {
		t.Errorf("value row đầu = %v, muốn 7", first["value"])
	}
	if first["fill"] != "#22c55e" {
		t.Errorf("fill row đầu = %v, muốn #22c55e", first["fill"])
	}
	second := out.Data[1]
	if second["label"] != "Detenidas" || second["value"] != float64(3) {
		t.Errorf("row thứ hai = %v, muốn Detenidas/3", second)
	}

	if out.Meta.XKey != "label" {
		t.Errorf("PIE meta.XKey = %q, muốn label", out.Meta.XKey)
	}
	if len(out.Meta.YKeys) != 1 || out.Meta.YKeys[0] != "value" {
		t.Errorf("PIE meta.YKeys = %v, muốn [value]", out.Meta.YKeys)
	}
	if len(out.Meta.Colors) != 2 {
		t.Errorf("meta.Colors = %v, muốn 2 màu", out.Meta.Colors)
	}
}

func TestEngineExecute_LabelPrecedence(t *testing.T) {
	idKnown := primitive.NewObjectID()
	idUnknown := primitive.NewObjectID()

	def := &models.ReportDefinition{
		ID:                "TOP_FAILURES_BY_MACHINE",
		Name:              "Fallas por máquina",
		Model:             "failures",
		VisualizationType: models.VizBar,
		GroupByField:      "machineId",
		Aggregations:      map[string]models.AggregationOp{"_id": models.AggCount},
		Joins: map[string]models.JoinSpec{
			"machineId": {Model: "machines", Select: "name"},
		},
		RequiredRoles: []authmodels.UserRole{authmodels.RoleAdmin},
	}

	store := &fakeStore{
		rows: []GroupRow{
			{Key: idKnown, Values: map[string]*float64{"_id": fptr(4)}},
			{Key: idUnknown, Values: map[string]*float64{"_id": fptr(2)}},
			{Key: nil, Values: map[string]*float64{"_id": fptr(1)}},
		},
		labels: map[string]string{idKnown.Hex(): "Molino 3"},
	}
	engine := NewEngine(store)

	out, err := engine.Execute(context.Background(), def, models.ReportContext{}, nil)
	if err != nil {
		t.Fatalf("Execute trả lỗi: %v", err)
	}

	got := map[string]bool{}
	for _, row := range out.Data {
		got[row["label"].(string)] = true
	}
	if !got["Molino 3"] {
		t.Errorf("join lookup không được áp dụng, labels: %v", got)
	}
	if !got[idUnknown.Hex()] {
		t.Errorf("lookup miss phải fallback về raw hex, labels: %v", got)
	}
	if !got["Sin asignar"] {
		t.Errorf("nhóm null phải có label 'Sin asignar', labels: %v", got)
	}
}

func TestEngineExecute_FormatterBeatsJoin(t *testing.T) {
	id := primitive.NewObjectID()
	def := &models.ReportDefinition{
		ID:                "X",
		Name:              "X",
		Model:             "failures",
		VisualizationType: models.VizBar,
		GroupByField:      "machineId",
		Aggregations:      map[string]models.AggregationOp{"_id": models.AggCount},
		Joins:             map[string]models.JoinSpec{"machineId": {Model: "machines"}},
		Formatters:        models.Formatters{Name: map[string]string{id.Hex(): "Etiqueta fija"}},
		RequiredRoles:     []authmodels.UserRole{authmodels.RoleAdmin},
	}
	store := &fakeStore{
		rows:   []GroupRow{{Key: id, Values: map[string]*float64{"_id": fptr(1)}}},
		labels: map[string]string{id.Hex(): "Desde join"},
	}
	engine := NewEngine(store)

	out, err := engine.Execute(context.Background(), def, models.ReportContext{}, nil)
	if err != nil {
		t.Fatalf("Execute trả lỗi: %v", err)
	}
	if out.Data[0]["label"] != "Etiqueta fija" {
		t.Errorf("formatter phải thắng join, label = %v", out.Data[0]["label"])
	}
	if store.lookups != 0 {
		t.Errorf("formatter khớp thì không được gọi lookup, lookups = %d", store.lookups)
	}
}

func TestEngineExecute_TenantFilterAndTimeWindow(t *testing.T) {
	def := &models.ReportDefinition{
		ID:                "SENSOR_AVG_BY_METRIC",
		Name:              "Sensores",
		Model:             "sensor_readings",
		VisualizationType: models.VizLine,
		GroupByField:      "metric",
		Aggregations:      map[string]models.AggregationOp{"value": models.AggAvg},
		FilterByTenant:    true,
		TimestampField:    "timestamp",
		TimeRange:         &models.TimeRange{Hours: 24},
		RequiredRoles:     []authmodels.UserRole{authmodels.RoleTecnico},
	}
	store := &fakeStore{}
	engine := NewEngine(store)

	_, err := engine.Execute(context.Background(), def, models.ReportContext{TenantID: "ingenio-1"}, nil)
	if err != nil {
		t.Fatalf("Execute trả lỗi: %v", err)
	}

	if store.lastQuery.Filter["tenantId"] != "ingenio-1" {
		t.Errorf("filter tenantId = %v, muốn ingenio-1", store.lastQuery.Filter["tenantId"])
	}

	rc, ok := store.lastQuery.Filter["timestamp"].(RangeCondition)
	if !ok {
		t.Fatalf("filter timestamp không phải RangeCondition: %v", store.lastQuery.Filter["timestamp"])
	}
	gte, ok := rc.Gte.(time.Time)
	if !ok {
		t.Fatalf("Gte không phải time.Time: %v", rc.Gte)
	}
	want := time.Now().Add(-24 * time.Hour)
	if gte.Before(want.Add(-time.Minute)) || gte.After(want.Add(time.Minute)) {
		t.Errorf("Gte = %v, muốn khoảng %v", gte, want)
	}
	if rc.Lte != nil {
		t.Errorf("Lte phải nil khi không có endDate, có %v", rc.Lte)
	}
}

func TestEngineExecute_ParamsOverrideWindow(t *testing.T) {
	def := &models.ReportDefinition{
		ID:                "X",
		Name:              "X",
		Model:             "failures",
		VisualizationType: models.VizBar,
		GroupByField:      "machineId",
		Aggregations:      map[string]models.AggregationOp{"_id": models.AggCount},
		TimestampField:    "reportedAt",
		TimeRange:         &models.TimeRange{Days: 30},
		RequiredRoles:     []authmodels.UserRole{authmodels.RoleAdmin},
	}
	store := &fakeStore{}
	engine := NewEngine(store)

	machineID := primitive.NewObjectID()
	params := models.ReportParams{
		"startDate": "2026-01-01",
		"endDate":   "2026-02-01T00:00:00Z",
		"machineId": machineID.Hex(),
	}
	_, err := engine.Execute(context.Background(), def, models.ReportContext{}, params)
	if err != nil {
		t.Fatalf("Execute trả lỗi: %v", err)
	}

	rc := store.lastQuery.Filter["reportedAt"].(RangeCondition)
	gte := rc.Gte.(time.Time)
	if gte.Year() != 2026 || gte.Month() != time.January || gte.Day() != 1 {
		t.Errorf("startDate param phải ghi đè cửa sổ mặc định, Gte = %v", gte)
	}
	if rc.Lte == nil {
		t.Error("endDate param phải set Lte")
	}
	if store.lastQuery.Filter["machineId"] != machineID {
		t.Errorf("machineId phải được convert sang ObjectID, có %v", store.lastQuery.Filter["machineId"])
	}
}

func TestEngineExecute_IgnoresMalformedParams(t *testing.T) {
	def := &models.ReportDefinition{
		ID:                "X",
		Name:              "X",
		Model:             "failures",
		VisualizationType: models.VizBar,
		GroupByField:      "machineId",
		Aggregations:      map[string]models.AggregationOp{"_id": models.AggCount},
		TimestampField:    "reportedAt",
		RequiredRoles:     []authmodels.UserRole{authmodels.RoleAdmin},
	}
	store := &fakeStore{}
	engine := NewEngine(store)

	params := models.ReportParams{
		"startDate": "no-es-una-fecha",
		"machineId": "tampoco-un-objectid",
		"$where":    "1 == 1", // key lạ không bao giờ vào filter
	}
	_, err := engine.Execute(context.Background(), def, models.ReportContext{}, params)
	if err != nil {
		t.Fatalf("params rác không được làm Execute fail: %v", err)
	}
	if len(store.lastQuery.Filter) != 0 {
		t.Errorf("params rác phải bị bỏ qua hết, filter = %v", store.lastQuery.Filter)
	}
}

func TestEngineExecute_KpiImplicitCount(t *testing.T) {
	def := &models.ReportDefinition{
		ID:                "ACTIVE_FAILURES_KPI",
		Name:              "Fallas activas",
		Model:             "failures",
		VisualizationType: models.VizKpi,
		RequiredRoles:     []authmodels.UserRole{authmodels.RoleLector},
	}
	store := &fakeStore{rows: []GroupRow{
		{Key: nil, Values: map[string]*float64{"_id": fptr(5)}},
	}}
	engine := NewEngine(store)

	out, err := engine.Execute(context.Background(), def, models.ReportContext{}, nil)
	if err != nil {
		t.Fatalf("Execute trả lỗi: %v", err)
	}

	if store.lastQuery.GroupBy != "" {
		t.Errorf("KPI phải gộp toàn bộ về một nhóm, GroupBy = %q", store.lastQuery.GroupBy)
	}
	if op := store.lastQuery.Aggregations["_id"]; op != models.AggCount {
		t.Errorf("KPI không khai báo aggregation phải mặc định count, có %v", store.lastQuery.Aggregations)
	}
	if len(out.Data) != 1 {
		t.Fatalf("KPI phải trả đúng 1 row, có %d", len(out.Data))
	}
	if out.Data[0]["label"] != "Fallas activas" || out.Data[0]["value"] != float64(5) {
		t.Errorf("row KPI = %v", out.Data[0])
	}
}

func TestEngineExecute_KpiEmptyResultIsZero(t *testing.T) {
	def := &models.ReportDefinition{
		ID:                "ACTIVE_FAILURES_KPI",
		Name:              "Fallas activas",
		Model:             "failures",
		VisualizationType: models.VizKpi,
		RequiredRoles:     []authmodels.UserRole{authmodels.RoleLector},
	}
	engine := NewEngine(&fakeStore{})

	out, err := engine.Execute(context.Background(), def, models.ReportContext{}, nil)
	if err != nil {
		t.Fatalf("Execute trả lỗi: %v", err)
	}
	if len(out.Data) != 1 {
		t.Fatalf("KPI không có dữ liệu vẫn phải trả 1 row, có %d", len(out.Data))
	}
	if out.Data[0]["value"] != float64(0) {
		t.Errorf("KPI rỗng phải có value 0, có %v", out.Data[0]["value"])
	}
}

func TestEngineExecute_BarKeepsNullAvg(t *testing.T) {
	def := &models.ReportDefinition{
		ID:                "MAINTENANCE_COST_BY_TYPE",
		Name:              "Costos",
		Model:             "maintenances",
		VisualizationType: models.VizBar,
		GroupByField:      "type",
		Aggregations: map[string]models.AggregationOp{
			"cost":  models.AggSum,
			"hours": models.AggAvg,
		},
		RequiredRoles: []authmodels.UserRole{authmodels.RoleAdmin},
	}
	store := &fakeStore{rows: []GroupRow{
		{Key: "Preventivo", Values: map[string]*float64{"cost": fptr(1200), "hours": nil}},
	}}
	engine := NewEngine(store)

	out, err := engine.Execute(context.Background(), def, models.ReportContext{}, nil)
	if err != nil {
		t.Fatalf("Execute trả lỗi: %v", err)
	}

	row := out.Data[0]
	if got := row["cost"].(*float64); got == nil || *got != 1200 {
		t.Errorf("cost = %v, muốn 1200", row["cost"])
	}
	// avg trên tập không có giá trị số giữ nguyên null, không ép về 0
	if got := row["hours"].(*float64); got != nil {
		t.Errorf("hours phải là null, có %v", *got)
	}

	if out.Meta.XKey != "type" {
		t.Errorf("BAR meta.XKey = %q, muốn groupByField", out.Meta.XKey)
	}
	if len(out.Meta.YKeys) != 2 || out.Meta.YKeys[0] != "cost" || out.Meta.YKeys[1] != "hours" {
		t.Errorf("BAR meta.YKeys = %v, muốn [cost hours]", out.Meta.YKeys)
	}
}

func TestEngineExecute_DeterministicOrder(t *testing.T) {
	def := machineStatusDef()
	store := &fakeStore{rows: []GroupRow{
		{Key: "c", Values: map[string]*float64{"_id": fptr(1)}},
		{Key: "a", Values: map[string]*float64{"_id": fptr(2)}},
		{Key: "b", Values: map[string]*float64{"_id": fptr(3)}},
	}}
	engine := NewEngine(store)

	for i := 0; i < 3; i++ {
		out, err := engine.Execute(context.Background(), def, models.ReportContext{}, nil)
		if err != nil {
			t.Fatalf("Execute trả lỗi: %v", err)
		}
		labels := []string{}
		for _, row := range out.Data {
			labels = append(labels, row["label"].(string))
		}
		if labels[0] != "a" || labels[1] != "b" || labels[2] != "c" {
			t.Fatalf("lần chạy %d: thứ tự không ổn định: %v", i, labels)
		}
	}
}

func TestEngineExecute_ErrorMapping(t *testing.T) {
	def := machineStatusDef()

	engine := NewEngine(&fakeStore{err: common.ErrInvalidDefinition})
	if _, err := engine.Execute(context.Background(), def, models.ReportContext{}, nil); !errors.Is(err, common.ErrInvalidDefinition) {
		t.Errorf("lỗi model không tồn tại phải giữ nguyên ErrInvalidDefinition, có %v", err)
	}

	engine = NewEngine(&fakeStore{err: errors.New("socket timeout")})
	if _, err := engine.Execute(context.Background(), def, models.ReportContext{}, nil); !errors.Is(err, common.ErrExecutionFailed) {
		t.Errorf("lỗi hạ tầng phải map về ErrExecutionFailed, có %v", err)
	}

	bad := machineStatusDef()
	bad.VisualizationType = "TABLE"
	engine = NewEngine(&fakeStore{})
	if _, err := engine.Execute(context.Background(), bad, models.ReportContext{}, nil); !errors.Is(err, common.ErrInvalidDefinition) {
		t.Errorf("visualizationType lạ phải trả ErrInvalidDefinition, có %v", err)
	}
}
