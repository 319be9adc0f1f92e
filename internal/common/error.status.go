// Package common chứa taxonomy lỗi và các hằng số status dùng chung toàn ứng dụng.
package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK        = 200 // Thành công
	StatusCreated   = 201 // Tạo mới thành công
	StatusNoContent = 204 // Thành công nhưng không có nội dung trả về

	// Client Error Codes (4xx)
	StatusBadRequest      = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized    = 401 // Chưa xác thực
	StatusForbidden       = 403 // Không có quyền truy cập
	StatusNotFound        = 404 // Không tìm thấy tài nguyên
	StatusConflict        = 409 // Xung đột dữ liệu
	StatusTooManyRequests = 429 // Quá nhiều yêu cầu

	// Server Error Codes (5xx)
	StatusInternalServerError = 500 // Lỗi server
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
)

// Response Messages — thông điệp cho client của dashboard (tiếng Tây Ban Nha, ngôn ngữ sản phẩm)
const (
	MsgSuccess = "Operación exitosa"

	MsgBadRequest      = "Solicitud inválida"
	MsgUnauthorized    = "Por favor inicia sesión"
	MsgForbidden       = "No tienes permisos para acceder a este recurso"
	MsgNotFound        = "Recurso no encontrado"
	MsgTooManyRequests = "Demasiadas solicitudes, intenta de nuevo más tarde"
	MsgInternalError   = "Error interno del sistema"

	// Token Messages
	MsgTokenMissing = "Falta el token de autenticación"
	MsgTokenInvalid = "Token inválido"
	MsgTokenExpired = "La sesión ha expirado"

	// Validation Messages
	MsgValidationError = "Datos inválidos"
	MsgDatabaseError   = "Error al interactuar con la base de datos"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: AUTH_001)
	Category    string // Phân loại lỗi (ví dụ: Authentication)
	SubCategory string // Phân loại con (ví dụ: Token)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Lỗi hệ thống nội bộ",
	}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Lỗi liên quan đến token",
	}

	ErrCodeAuthCredentials = ErrorCode{
		Code:        "AUTH_002",
		Category:    "Authentication",
		SubCategory: "Credentials",
		Description: "Lỗi thông tin đăng nhập",
	}

	ErrCodeAuthRole = ErrorCode{
		Code:        "AUTH_003",
		Category:    "Authentication",
		SubCategory: "Role",
		Description: "Lỗi liên quan đến vai trò người dùng",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Dữ liệu đầu vào không hợp lệ",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Định dạng dữ liệu không hợp lệ",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "General",
		Description: "Lỗi cơ sở dữ liệu chung",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Lỗi kết nối cơ sở dữ liệu",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_003",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Lỗi truy vấn cơ sở dữ liệu",
	}

	// Report Errors (RPT_xxx) — engine báo cáo khai báo
	ErrCodeReportNotFound = ErrorCode{
		Code:        "RPT_001",
		Category:    "Report",
		SubCategory: "Registry",
		Description: "Report id không tồn tại trong registry",
	}

	ErrCodeReportDefinition = ErrorCode{
		Code:        "RPT_002",
		Category:    "Report",
		SubCategory: "Definition",
		Description: "Định nghĩa báo cáo không hợp lệ (enum đóng bị vi phạm, thiếu trường bắt buộc)",
	}

	ErrCodeReportExecution = ErrorCode{
		Code:        "RPT_003",
		Category:    "Report",
		SubCategory: "Execution",
		Description: "Lỗi khi chạy aggregation hoặc join lookup",
	}

	ErrCodeReportAccess = ErrorCode{
		Code:        "RPT_004",
		Category:    "Report",
		SubCategory: "Access",
		Description: "Vai trò của người gọi không nằm trong requiredRoles",
	}

	// Oracle Errors (ORC_xxx) — dispatcher AI
	ErrCodeOracle = ErrorCode{
		Code:        "ORC_001",
		Category:    "Oracle",
		SubCategory: "General",
		Description: "Oracle không khả dụng hoặc trả về kết quả không parse được",
	}

	// Rate Limit Errors (RTL_xxx)
	ErrCodeRateLimit = ErrorCode{
		Code:        "RTL_001",
		Category:    "RateLimit",
		SubCategory: "General",
		Description: "Vượt quá giới hạn request cho phép",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Is kiểm tra xem error có phải là target error không (hỗ trợ errors.Is)
func (e *Error) Is(target error) bool {
	targetErr, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code.Code == targetErr.Code.Code && e.Message == targetErr.Message
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Custom errors
var (
	// Authentication Errors
	ErrInvalidCredentials = NewError(ErrCodeAuthCredentials, "Credenciales incorrectas", StatusUnauthorized, nil)
	ErrTokenExpired       = NewError(ErrCodeAuthToken, MsgTokenExpired, StatusUnauthorized, nil)
	ErrTokenInvalid       = NewError(ErrCodeAuthToken, MsgTokenInvalid, StatusUnauthorized, nil)
	ErrTokenMissing       = NewError(ErrCodeAuthToken, MsgTokenMissing, StatusUnauthorized, nil)
	ErrUserNotFound       = NewError(ErrCodeAuthCredentials, "Usuario no encontrado", StatusNotFound, nil)

	// Validation Errors
	ErrInvalidInput  = NewError(ErrCodeValidationInput, MsgValidationError, StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Formato de datos inválido", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Falta información obligatoria", StatusBadRequest, nil)

	// Database Errors
	ErrNotFound   = NewError(ErrCodeDatabaseQuery, MsgNotFound, StatusNotFound, nil)
	ErrDuplicate  = NewError(ErrCodeDatabaseQuery, "El dato ya existe", StatusConflict, nil)
	ErrConnection = NewError(ErrCodeDatabaseConnection, MsgDatabaseError, StatusServiceUnavailable, nil)

	// Report Errors — phân biệt rõ bốn nhánh lỗi của pipeline báo cáo:
	// id không tồn tại / định nghĩa hỏng / không có quyền / chạy thất bại.
	ErrReportNotFound     = NewError(ErrCodeReportNotFound, "Reporte no registrado", StatusNotFound, nil)
	ErrInvalidDefinition  = NewError(ErrCodeReportDefinition, "Definición de reporte inválida", StatusInternalServerError, nil)
	ErrUnauthorizedReport = NewError(ErrCodeReportAccess, "Sin permisos para este reporte", StatusForbidden, nil)
	ErrExecutionFailed    = NewError(ErrCodeReportExecution, "Error al generar los datos del reporte", StatusInternalServerError, nil)

	// Oracle Errors — dispatcher không bao giờ propagate các lỗi này lên caller,
	// chúng chỉ dùng nội bộ để log trước khi fail-closed.
	ErrOracleUnavailable = NewError(ErrCodeOracle, "Oracle AI no disponible", StatusServiceUnavailable, nil)
	ErrOracleMalformed   = NewError(ErrCodeOracle, "Respuesta del oracle no válida", StatusInternalServerError, nil)
)

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// Không convert ErrNotFound — giữ nguyên để caller phân biệt với lỗi hạ tầng
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}

	// Kiểm tra các loại lỗi MongoDB cụ thể
	var mongoErr mongo.CommandError
	if errors.As(err, &mongoErr) {
		switch {
		case mongoErr.Code >= 100 && mongoErr.Code < 200:
			return NewError(ErrCodeDatabaseConnection, MsgDatabaseError, StatusServiceUnavailable, err)
		default:
			return NewError(ErrCodeDatabaseQuery, MsgDatabaseError, StatusInternalServerError, err)
		}
	}

	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return NewError(ErrCodeDatabaseConnection, MsgDatabaseError, StatusServiceUnavailable, err)
	}

	// Nếu không tìm thấy lỗi cụ thể, trả về lỗi hệ thống chung
	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err)
}
