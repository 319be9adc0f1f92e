package main

import (
	"context"

	"ingenio_api/config"
	authmodels "ingenio_api/internal/api/auth/models"
	machinemodels "ingenio_api/internal/api/machine/models"
	"ingenio_api/internal/database"
	"ingenio_api/internal/global"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Users = "users"
	global.MongoDB_ColNames.Machines = "machines"
	global.MongoDB_ColNames.Failures = "failures"
	global.MongoDB_ColNames.Maintenances = "maintenances"
	global.MongoDB_ColNames.Technicians = "technicians"
	global.MongoDB_ColNames.SensorReadings = "sensor_readings"

	logrus.Info("Initialized collection names") // Ghi log thông báo đã khởi tạo tên các collection
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators: no_xss, exists, ...)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	// Khởi tạo db và collections nếu chưa có
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections") // Ghi log thông báo đã đảm bảo database và các collection

	// Khởi tạo các index cho các collection
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Users), authmodels.User{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Machines), machinemodels.Machine{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Failures), machinemodels.Failure{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Maintenances), machinemodels.Maintenance{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Technicians), machinemodels.Technician{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.SensorReadings), machinemodels.SensorReading{})
}
