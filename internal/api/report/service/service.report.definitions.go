package reportsvc

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	models "ingenio_api/internal/api/report/models"
	"ingenio_api/internal/global"
	"ingenio_api/internal/logger"

	"github.com/sirupsen/logrus"
)

//go:embed definitions.json
var embeddedDefinitions []byte

// LoadDefinitions đọc và validate bộ định nghĩa báo cáo.
// overridePath rỗng = dùng bộ định nghĩa embedded. Bất kỳ definition nào không
// hợp lệ đều trả lỗi để chặn process khởi động — không để fail theo từng request.
func LoadDefinitions(overridePath string, knownModels map[string]bool) ([]*models.ReportDefinition, error) {
	data := embeddedDefinitions
	source := "embedded"
	if overridePath != "" {
		fileData, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("không đọc được file định nghĩa báo cáo %s: %w", overridePath, err)
		}
		data = fileData
		source = overridePath
	}

	var defs []*models.ReportDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("định nghĩa báo cáo (%s) không phải JSON hợp lệ: %w", source, err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("định nghĩa báo cáo (%s) rỗng", source)
	}

	seen := map[string]bool{}
	for _, def := range defs {
		if seen[def.ID] {
			return nil, fmt.Errorf("định nghĩa báo cáo trùng id: %s", def.ID)
		}
		seen[def.ID] = true
		if global.Validate != nil {
			if err := global.Validate.Struct(def); err != nil {
				return nil, fmt.Errorf("định nghĩa báo cáo %s không hợp lệ: %w", def.ID, err)
			}
		}
		if err := def.Validate(knownModels); err != nil {
			return nil, err
		}
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"source": source,
		"count":  len(defs),
	}).Info("Đã load và validate bộ định nghĩa báo cáo")
	return defs, nil
}
