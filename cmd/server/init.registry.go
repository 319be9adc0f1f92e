package main

import (
	"context"
	"time"

	"ingenio_api/config"
	aisvc "ingenio_api/internal/api/ai/service"
	reportsvc "ingenio_api/internal/api/report/service"
	"ingenio_api/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

func InitRegistry() {
	// Khởi tạo registry và đăng ký các collections
	err := InitCollections(global.MongoDB_Session, global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")

	// Khởi tạo report engine + registry báo cáo + oracle dispatcher.
	// Definition lỗi phải chặn server khởi động, không để chết lúc runtime.
	if err := InitReportStack(global.MongoDB_ServerConfig); err != nil {
		logrus.Fatalf("Failed to initialize report stack: %v", err)
	}
	logrus.Info("Initialized report stack")
}

// InitCollections khởi tạo và đăng ký các collections MongoDB
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)
	colNames := []string{
		global.MongoDB_ColNames.Users,
		global.MongoDB_ColNames.Machines,
		global.MongoDB_ColNames.Failures,
		global.MongoDB_ColNames.Maintenances,
		global.MongoDB_ColNames.Technicians,
		global.MongoDB_ColNames.SensorReadings,
	}

	for _, name := range colNames {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}

		if registered {
			logrus.Infof("Collection %s registered successfully", name)
		} else {
			logrus.Errorf("Collection %s already registered", name)
		}
	}

	return nil
}

// InitReportStack dựng toàn bộ pipeline báo cáo: store -> engine -> definitions
// -> registry báo cáo -> oracle -> dispatcher -> query service.
func InitReportStack(cfg *config.Configuration) error {
	store := reportsvc.NewMongoDataStore(global.RegistryCollections)
	engine := reportsvc.NewEngine(store)

	knownModels := map[string]bool{
		global.MongoDB_ColNames.Machines:       true,
		global.MongoDB_ColNames.Failures:       true,
		global.MongoDB_ColNames.Maintenances:   true,
		global.MongoDB_ColNames.Technicians:    true,
		global.MongoDB_ColNames.SensorReadings: true,
	}

	defs, err := reportsvc.LoadDefinitions(cfg.ReportDefinitionsPath, knownModels)
	if err != nil {
		return err
	}

	reportRegistry := reportsvc.NewReportRegistry()
	for _, def := range defs {
		if err := reportRegistry.RegisterDeclarative(def, engine); err != nil {
			return err
		}
	}

	// Báo cáo viết tay đăng ký sau cùng interface với báo cáo khai báo
	backlogDef := reportsvc.MaintenanceBacklogDefinition()
	if err := backlogDef.Validate(knownModels); err != nil {
		return err
	}
	if err := reportRegistry.RegisterCustom(backlogDef, reportsvc.NewMaintenanceBacklogGenerator(store)); err != nil {
		return err
	}

	// Oracle Gemini: thiếu API key thì dispatcher chạy fail-closed, server vẫn lên
	var oracle aisvc.Oracle
	if cfg.GeminiAPIKey == "" {
		logrus.Warn("GEMINI_API_KEY chưa cấu hình, dispatcher sẽ luôn trả về fail-closed")
	} else {
		geminiOracle, err := aisvc.NewGeminiOracle(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logrus.Warnf("Failed to initialize Gemini oracle, dispatcher sẽ luôn trả về fail-closed: %v", err)
		} else {
			oracle = geminiOracle
		}
	}

	catalog := func() []aisvc.CatalogEntry {
		entries := reportRegistry.ListExecutable()
		out := make([]aisvc.CatalogEntry, 0, len(entries))
		for _, e := range entries {
			out = append(out, aisvc.CatalogEntry{ID: e.ID, Name: e.Name, Description: e.Description})
		}
		return out
	}

	timeout := time.Duration(cfg.OracleTimeoutSeconds) * time.Second
	dispatcher := aisvc.NewDispatcher(oracle, catalog, timeout)

	reportsvc.SetDefaultQueryService(reportsvc.NewQueryService(reportRegistry, dispatcher))
	return nil
}
