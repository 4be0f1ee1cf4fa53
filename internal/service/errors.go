package service

// ErrorCode phân loại lỗi nghiệp vụ để tầng API (REST lẫn hub) ánh xạ sang
// mã trạng thái tương ứng mà không phải so khớp chuỗi thông báo.
type ErrorCode string

const (
	CodeNotFound     ErrorCode = "not_found"
	CodeConflict     ErrorCode = "conflict"
	CodeValidation   ErrorCode = "validation"
	CodeUnauthorized ErrorCode = "unauthorized"
	CodeSystem       ErrorCode = "system"
)

// BusinessError là lỗi nghiệp vụ có thể trả thẳng về client. Lỗi hạ tầng
// (mất kết nối DB, lỗi SQL...) KHÔNG được bọc vào đây — chúng đi lên dưới
// dạng error thường và tầng API trả về thông báo chung chung.
type BusinessError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *BusinessError) Error() string {
	return e.Message
}

func ErrNotFound(message string) *BusinessError {
	return &BusinessError{Code: CodeNotFound, Message: message}
}

func ErrConflict(message string) *BusinessError {
	return &BusinessError{Code: CodeConflict, Message: message}
}

func ErrValidation(message string) *BusinessError {
	return &BusinessError{Code: CodeValidation, Message: message}
}

func ErrUnauthorized(message string) *BusinessError {
	return &BusinessError{Code: CodeUnauthorized, Message: message}
}
