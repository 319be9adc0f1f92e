package global

import (
	"ingenio_api/config"
	"ingenio_api/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Users          string // Tên collection cho người dùng
	Machines       string // Tên collection cho máy móc trong ingenio
	Failures       string // Tên collection cho sự cố máy
	Maintenances   string // Tên collection cho lệnh bảo trì
	Technicians    string // Tên collection cho kỹ thuật viên
	SensorReadings string // Tên collection cho dữ liệu cảm biến
}

// Các biến toàn cục
var Validate *validator.Validate               // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client              // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName    // Tên các collection, gán lúc khởi động server

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
