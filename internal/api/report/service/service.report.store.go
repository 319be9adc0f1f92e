// Package reportsvc - engine, registry và orchestrator của domain report.
package reportsvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	models "ingenio_api/internal/api/report/models"
	"ingenio_api/internal/common"
	"ingenio_api/internal/logger"
	"ingenio_api/internal/registry"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// RangeCondition là điều kiện khoảng trên một field (thường là field thời gian).
// Gte/Lte nil = không chặn phía đó.
type RangeCondition struct {
	Gte interface{}
	Lte interface{}
}

// GroupQuery mô tả một truy vấn gộp nhóm cho DataStore
type GroupQuery struct {
	Model        string                           // Tên collection
	Filter       map[string]interface{}           // field -> giá trị bằng hoặc RangeCondition
	GroupBy      string                           // Field gộp nhóm; rỗng = một nhóm duy nhất
	Aggregations map[string]models.AggregationOp // field -> toán tử
}

// GroupRow là kết quả của một nhóm
// Values theo metric; nil = không xác định (avg trên tập không có giá trị số)
type GroupRow struct {
	Key    interface{}
	Values map[string]*float64
}

// DataStore là khả năng truy vấn mà engine cần: gộp nhóm có điều kiện
// và lookup label theo id. Interface để test thay bằng fake store.
type DataStore interface {
	GroupAggregate(ctx context.Context, q GroupQuery) ([]GroupRow, error)
	LookupLabel(ctx context.Context, model string, id interface{}, selectField string) (string, bool, error)
}

// MongoDataStore hiện thực DataStore trên MongoDB, resolve collection qua registry
type MongoDataStore struct {
	collections *registry.Registry[*mongo.Collection]
}

// NewMongoDataStore tạo MongoDataStore từ registry collection đã nạp lúc khởi động
func NewMongoDataStore(collections *registry.Registry[*mongo.Collection]) *MongoDataStore {
	return &MongoDataStore{collections: collections}
}

// metricKey đặt tên field tạm trong group stage (tránh đụng "_id" và dấu chấm)
func metricKey(field string) string {
	return "agg_" + strings.ReplaceAll(field, ".", "_")
}

// GroupAggregate chạy pipeline $match + $group + $sort trên collection của q.Model
func (s *MongoDataStore) GroupAggregate(ctx context.Context, q GroupQuery) ([]GroupRow, error) {
	collection, exist := s.collections.Get(q.Model)
	if !exist {
		return nil, common.ErrInvalidDefinition
	}

	match := bson.M{}
	for field, cond := range q.Filter {
		if rc, ok := cond.(RangeCondition); ok {
			rangeCond := bson.M{}
			if rc.Gte != nil {
				rangeCond["$gte"] = rc.Gte
			}
			if rc.Lte != nil {
				rangeCond["$lte"] = rc.Lte
			}
			if len(rangeCond) > 0 {
				match[field] = rangeCond
			}
			continue
		}
		match[field] = cond
	}

	var groupID interface{}
	if q.GroupBy != "" {
		groupID = "$" + q.GroupBy
	}

	groupStage := bson.M{"_id": groupID}
	for field, op := range q.Aggregations {
		key := metricKey(field)
		switch op {
		case models.AggCount:
			groupStage[key] = bson.M{"$sum": 1}
		case models.AggSum:
			groupStage[key] = bson.M{"$sum": "$" + field}
		case models.AggAvg:
			groupStage[key] = bson.M{"$avg": "$" + field}
		default:
			return nil, common.ErrInvalidDefinition
		}
	}

	pipe := []bson.D{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: groupStage}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	start := time.Now()
	cursor, err := collection.Aggregate(ctx, pipe)
	logger.GetPerformanceLogger().WithFields(logrus.Fields{
		"model":       q.Model,
		"group_by":    q.GroupBy,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("GroupAggregate pipeline")
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	rows := []GroupRow{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, common.ConvertMongoError(err)
		}
		row := GroupRow{
			Key:    doc["_id"],
			Values: make(map[string]*float64, len(q.Aggregations)),
		}
		for field := range q.Aggregations {
			row.Values[field] = toFloatPtr(doc[metricKey(field)])
		}
		rows = append(rows, row)
	}
	if err := cursor.Err(); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	return rows, nil
}

// LookupLabel tìm một document theo _id và trả về giá trị string của selectField
func (s *MongoDataStore) LookupLabel(ctx context.Context, model string, id interface{}, selectField string) (string, bool, error) {
	collection, exist := s.collections.Get(model)
	if !exist {
		return "", false, common.ErrInvalidDefinition
	}

	var doc bson.M
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", false, nil
		}
		return "", false, common.ConvertMongoError(err)
	}

	if value, ok := doc[selectField]; ok {
		if s, ok := value.(string); ok {
			return s, true, nil
		}
		return fmt.Sprintf("%v", value), true, nil
	}
	return "", false, nil
}

// toFloatPtr chuyển giá trị bson số về *float64; nil hoặc không phải số → nil
func toFloatPtr(v interface{}) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int32:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	}
	return nil
}
