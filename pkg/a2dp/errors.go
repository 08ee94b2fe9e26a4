package a2dp

import "fmt"

// ErrorCode определяет типизированные коды ошибок A2DP слоя.
// Позволяет классифицировать ошибки по категориям и выбирать стратегию
// повтора на вызывающей стороне.
type ErrorCode int

const (
	// ErrorCodeUnavailable - требуемый хэндл или операция IPC сервиса
	// не привязаны. Постоянное состояние до переподключения.
	ErrorCodeUnavailable ErrorCode = iota + 2000
	// ErrorCodeInvalidState - операция недопустима в текущем состоянии
	// жизненного цикла. Немедленный повтор бессмысленен.
	ErrorCodeInvalidState
	// ErrorCodeBusy - временное состояние (например, suspend);
	// повтор допустим после возобновления.
	ErrorCodeBusy
	// ErrorCodeLoadFailure - динамическая привязка IPC сервиса не удалась
	ErrorCodeLoadFailure
	// ErrorCodeHardwareRejected - запись в mixer control или IPC вызов
	// вернули код отказа
	ErrorCodeHardwareRejected
	// ErrorCodeNotFound - ожидаемый mixer control отсутствует в профиле
	// железа. Признак рассогласования профиля, не временная ошибка.
	ErrorCodeNotFound
)

// String возвращает строковое представление кода ошибки
func (code ErrorCode) String() string {
	switch code {
	case ErrorCodeUnavailable:
		return "Unavailable"
	case ErrorCodeInvalidState:
		return "InvalidState"
	case ErrorCodeBusy:
		return "Busy"
	case ErrorCodeLoadFailure:
		return "LoadFailure"
	case ErrorCodeHardwareRejected:
		return "HardwareRejected"
	case ErrorCodeNotFound:
		return "NotFound"
	default:
		return fmt.Sprintf("Unknown(%d)", int(code))
	}
}

// Error базовая структура ошибок A2DP слоя.
// Предоставляет типизированный код, контекстную информацию и
// возможность обертывания других ошибок.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
	Wrapped error
}

// Error реализует интерфейс error
func (e *Error) Error() string {
	return fmt.Sprintf("[a2dp:%s] %s", e.Code, e.Message)
}

// Unwrap возвращает обернутую ошибку, поддерживая errors.Unwrap
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is поддерживает errors.Is, позволяя сравнивать ошибки по коду
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// newError создает ошибку с кодом и форматированным сообщением
func newError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// wrapError оборачивает существующую ошибку в Error
func wrapError(code ErrorCode, err error, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Wrapped: err,
	}
}

// HasErrorCode проверяет, содержит ли цепочка ошибок указанный код
func HasErrorCode(err error, code ErrorCode) bool {
	var a2dpErr *Error
	if AsError(err, &a2dpErr) {
		return a2dpErr.Code == code
	}
	return false
}

// AsError пытается привести ошибку к *Error
func AsError(err error, target **Error) bool {
	if err == nil {
		return false
	}
	if a2dpErr, ok := err.(*Error); ok {
		*target = a2dpErr
		return true
	}
	return false
}
