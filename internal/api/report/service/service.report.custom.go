package reportsvc

import (
	"context"
	"errors"
	"time"

	authmodels "ingenio_api/internal/api/auth/models"
	models "ingenio_api/internal/api/report/models"
	"ingenio_api/internal/common"
	"ingenio_api/internal/logger"
)

// backlogStatusLabels label hiển thị cho trạng thái backlog
var backlogStatusLabels = map[string]string{
	"pendiente":  "Pendientes",
	"en_proceso": "En proceso",
}

// MaintenanceBacklogDefinition là definition của báo cáo viết tay MAINTENANCE_BACKLOG.
// Đăng ký cạnh các báo cáo khai báo, cùng contract Execute.
func MaintenanceBacklogDefinition() *models.ReportDefinition {
	return &models.ReportDefinition{
		ID:                "MAINTENANCE_BACKLOG",
		Name:              "Backlog de mantenimiento",
		Description:       "Órdenes de mantenimiento pendientes y en proceso, con costo estimado acumulado.",
		Model:             "maintenances",
		VisualizationType: models.VizBar,
		GroupByField:      "status",
		Aggregations: map[string]models.AggregationOp{
			"_id":  models.AggCount,
			"cost": models.AggSum,
		},
		FilterByTenant: true,
		RequiredRoles:  []authmodels.UserRole{authmodels.RoleSuperAdmin, authmodels.RoleAdmin, authmodels.RoleTecnico},
	}
}

// NewMaintenanceBacklogGenerator tạo generator viết tay cho MAINTENANCE_BACKLOG.
// Khác báo cáo khai báo: chỉ lấy trạng thái chưa đóng và tự shape row,
// chứng minh seam registry cho báo cáo không khai báo được.
func NewMaintenanceBacklogGenerator(store DataStore) GeneratorFunc {
	def := MaintenanceBacklogDefinition()

	return func(ctx context.Context, rctx models.ReportContext, params models.ReportParams) (*models.NormalizedOutput, error) {
		filter := map[string]interface{}{
			"status": map[string]interface{}{"$in": []string{"pendiente", "en_proceso"}},
		}
		if rctx.TenantID != "" {
			filter["tenantId"] = rctx.TenantID
		}

		rows, err := store.GroupAggregate(ctx, GroupQuery{
			Model:        def.Model,
			Filter:       filter,
			GroupBy:      "status",
			Aggregations: def.Aggregations,
		})
		if err != nil {
			if errors.Is(err, common.ErrInvalidDefinition) {
				return nil, common.ErrInvalidDefinition
			}
			logger.GetErrorLogger().WithError(err).Error("MaintenanceBacklog: lỗi truy vấn")
			return nil, common.ErrExecutionFailed
		}

		data := make([]models.Row, 0, len(rows))
		for _, row := range rows {
			rawStr := stringifyKey(row.Key)
			label, ok := backlogStatusLabels[rawStr]
			if !ok {
				label = rawStr
			}
			data = append(data, models.Row{
				"label": label,
				"_id":   row.Values["_id"],
				"cost":  row.Values["cost"],
			})
		}

		return &models.NormalizedOutput{
			Meta: models.Meta{
				Title:             def.Name,
				Description:       def.Description,
				VisualizationType: def.VisualizationType,
				Units:             "órdenes / USD",
				XKey:              def.GroupByField,
				YKeys:             []string{"_id", "cost"},
			},
			Data:        data,
			GeneratedAt: time.Now(),
		}, nil
	}
}
