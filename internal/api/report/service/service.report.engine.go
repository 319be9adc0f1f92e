package reportsvc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	models "ingenio_api/internal/api/report/models"
	"ingenio_api/internal/common"
	"ingenio_api/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// labelNull là label mặc định cho nhóm có key null
const labelNull = "Sin asignar"

// Engine diễn giải một ReportDefinition thành NormalizedOutput,
// không chứa code riêng cho bất kỳ báo cáo nào.
type Engine struct {
	store DataStore
}

// NewEngine tạo engine với DataStore được inject
func NewEngine(store DataStore) *Engine {
	return &Engine{store: store}
}

// Execute chạy definition với context + params và trả về payload chuẩn hóa.
//
// Thứ tự xử lý: dựng filter (tenant → cửa sổ thời gian → params ad-hoc) →
// gộp nhóm qua DataStore (mỗi metric tính độc lập theo nhóm) → resolve label
// (formatters > join > raw) → shape row theo visualizationType → meta.
func (e *Engine) Execute(ctx context.Context, def *models.ReportDefinition, rctx models.ReportContext, params models.ReportParams) (*models.NormalizedOutput, error) {
	if !def.VisualizationType.IsValid() {
		return nil, common.ErrInvalidDefinition
	}

	filter := e.buildFilter(def, rctx, params)

	groupBy := def.GroupByField
	aggs := def.Aggregations
	if def.VisualizationType == models.VizKpi {
		// KPI là một con số duy nhất: gộp toàn bộ rows làm một nhóm.
		// Không khai báo aggregation = đếm số row khớp filter.
		groupBy = ""
		if len(aggs) == 0 {
			aggs = map[string]models.AggregationOp{"_id": models.AggCount}
		}
	}

	rows, err := e.store.GroupAggregate(ctx, GroupQuery{
		Model:        def.Model,
		Filter:       filter,
		GroupBy:      groupBy,
		Aggregations: aggs,
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidDefinition) {
			return nil, common.ErrInvalidDefinition
		}
		logger.GetErrorLogger().WithFields(logrus.Fields{
			"report_id": def.ID,
			"model":     def.Model,
		}).WithError(err).Error("Engine: lỗi truy vấn gộp nhóm")
		return nil, common.ErrExecutionFailed
	}

	// Thứ tự output ổn định: sort theo key thô đã stringify
	sort.SliceStable(rows, func(i, j int) bool {
		return stringifyKey(rows[i].Key) < stringifyKey(rows[j].Key)
	})

	metricNames := metricNamesOf(aggs)
	data := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		rawStr := stringifyKey(row.Key)
		label, err := e.resolveLabel(ctx, def, row.Key, rawStr)
		if err != nil {
			logger.GetErrorLogger().WithFields(logrus.Fields{
				"report_id": def.ID,
				"raw_key":   rawStr,
			}).WithError(err).Error("Engine: lỗi lookup label")
			return nil, common.ErrExecutionFailed
		}

		switch def.VisualizationType {
		case models.VizPie:
			out := models.Row{"label": label, "value": deref(row.Values[metricNames[0]])}
			if fill, ok := def.Colors[rawStr]; ok {
				out["fill"] = fill
			}
			data = append(data, out)
		case models.VizKpi:
			data = append(data, models.Row{"label": def.Name, "value": deref(row.Values[metricNames[0]])})
		default: // BAR, LINE
			out := models.Row{"label": label}
			for _, metric := range metricNames {
				out[metric] = row.Values[metric]
			}
			data = append(data, out)
		}
	}

	// KPI không có row nào khớp vẫn trả về một row giá trị 0
	if def.VisualizationType == models.VizKpi && len(data) == 0 {
		data = append(data, models.Row{"label": def.Name, "value": float64(0)})
	}

	return &models.NormalizedOutput{
		Meta:        e.buildMeta(def, metricNames),
		Data:        data,
		GeneratedAt: time.Now(),
	}, nil
}

// buildFilter dựng predicate từ definition, context và params ad-hoc.
// Params không đáng tin: chỉ các key được chấp nhận (startDate, endDate, machineId)
// mới đi vào filter, giá trị không parse được thì bỏ qua.
func (e *Engine) buildFilter(def *models.ReportDefinition, rctx models.ReportContext, params models.ReportParams) map[string]interface{} {
	filter := map[string]interface{}{}

	if def.FilterByTenant && rctx.TenantID != "" {
		filter["tenantId"] = rctx.TenantID
	}

	if def.TimestampField != "" {
		var gte, lte interface{}

		if def.TimeRange != nil {
			window := time.Duration(def.TimeRange.Hours)*time.Hour +
				time.Duration(def.TimeRange.Days)*24*time.Hour
			gte = time.Now().Add(-window)
		}

		// Khoảng thời gian tường minh từ params ghi đè cửa sổ mặc định
		if t, ok := paramTime(params, "startDate"); ok {
			gte = t
		}
		if t, ok := paramTime(params, "endDate"); ok {
			lte = t
		}

		if gte != nil || lte != nil {
			filter[def.TimestampField] = RangeCondition{Gte: gte, Lte: lte}
		}
	}

	if raw, ok := params["machineId"]; ok {
		if s, ok := raw.(string); ok {
			if objID, err := primitive.ObjectIDFromHex(s); err == nil {
				filter["machineId"] = objID
			} else {
				logger.GetAppLogger().WithFields(logrus.Fields{
					"report_id": def.ID,
					"machineId": s,
				}).Debug("Engine: machineId không hợp lệ, bỏ qua")
			}
		}
	}

	return filter
}

// paramTime đọc một param thời gian dạng ISO-8601; không parse được → bỏ qua
func paramTime(params models.ReportParams, key string) (time.Time, bool) {
	raw, ok := params[key]
	if !ok {
		return time.Time{}, false
	}
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	logger.GetAppLogger().WithFields(logrus.Fields{"param": key, "value": s}).Debug("Engine: param thời gian không hợp lệ, bỏ qua")
	return time.Time{}, false
}

// resolveLabel theo thứ tự ưu tiên: formatters.name > join lookup > raw stringify
func (e *Engine) resolveLabel(ctx context.Context, def *models.ReportDefinition, raw interface{}, rawStr string) (string, error) {
	if label, ok := def.Formatters.Name[rawStr]; ok {
		return label, nil
	}
	if raw == nil {
		// Nhóm null không join được, dùng label mặc định
		return labelNull, nil
	}
	if join, ok := def.Joins[def.GroupByField]; ok {
		selectField := join.Select
		if selectField == "" {
			selectField = "name"
		}
		label, found, err := e.store.LookupLabel(ctx, join.Model, raw, selectField)
		if err != nil {
			return "", err
		}
		if found {
			return label, nil
		}
	}
	return rawStr, nil
}

// buildMeta lắp meta theo visualizationType
func (e *Engine) buildMeta(def *models.ReportDefinition, metricNames []string) models.Meta {
	meta := models.Meta{
		Title:             def.Name,
		Description:       def.Description,
		VisualizationType: def.VisualizationType,
		Units:             def.Units,
		Colors:            def.OrderedColors(),
	}
	switch def.VisualizationType {
	case models.VizPie, models.VizKpi:
		meta.XKey = "label"
		meta.YKeys = []string{"value"}
	default:
		meta.XKey = def.GroupByField
		meta.YKeys = metricNames
	}
	return meta
}

// metricNamesOf trả về tên metric theo thứ tự ổn định
func metricNamesOf(aggs map[string]models.AggregationOp) []string {
	names := make([]string, 0, len(aggs))
	for field := range aggs {
		names = append(names, field)
	}
	sort.Strings(names)
	return names
}

// stringifyKey chuyển group key thô về string ổn định để so sánh, format và tra formatters
func stringifyKey(key interface{}) string {
	switch v := key.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case primitive.ObjectID:
		return v.Hex()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// deref mở *float64 về giá trị JSON: nil giữ nguyên null
func deref(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
