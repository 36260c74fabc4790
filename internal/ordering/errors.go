package ordering

import "net/http"

type ErrorCode string

const (
	CodeValidation            ErrorCode = "VALIDATION_ERROR"
	CodeHotelNotFound         ErrorCode = "HOTEL_NOT_FOUND"
	CodeItemNotFound          ErrorCode = "ITEM_NOT_FOUND"
	CodeOrderNotFound         ErrorCode = "ORDER_NOT_FOUND"
	CodeTableCapacityExceeded ErrorCode = "TABLE_CAPACITY_EXCEEDED"
	CodeActiveOrderConflict   ErrorCode = "ACTIVE_ORDER_CONFLICT"
	CodePersistence           ErrorCode = "PERSISTENCE_ERROR"
)

type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message, StatusCode: http.StatusBadRequest}
}

func NewHotelNotFoundError() *Error {
	return &Error{Code: CodeHotelNotFound, Message: "hotel not found", StatusCode: http.StatusNotFound}
}

func NewItemNotFoundError(message string) *Error {
	return &Error{Code: CodeItemNotFound, Message: message, StatusCode: http.StatusNotFound}
}

func NewOrderNotFoundError() *Error {
	return &Error{Code: CodeOrderNotFound, Message: "order not found", StatusCode: http.StatusNotFound}
}

func NewTableCapacityExceededError(table string) *Error {
	return &Error{
		Code:       CodeTableCapacityExceeded,
		Message:    "table " + table + " has reached its active order limit",
		StatusCode: http.StatusTooManyRequests,
	}
}

func NewActiveOrderConflictError(message string) *Error {
	return &Error{Code: CodeActiveOrderConflict, Message: message, StatusCode: http.StatusConflict}
}

func NewPersistenceError(err error) *Error {
	return &Error{Code: CodePersistence, Message: err.Error(), StatusCode: http.StatusInternalServerError}
}
