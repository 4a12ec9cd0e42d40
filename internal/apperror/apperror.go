package apperror

import (
	"errors"
	"net/http"
)

// Kind 业务错误类型
type Kind int

const (
	KindUnauthorized Kind = iota + 1
	KindForbidden
	KindNotFound
	KindConflict
	KindValidation
	KindInvalidHierarchy
)

// String 返回错误码
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindInvalidHierarchy:
		return "INVALID_HIERARCHY"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus 对应的HTTP状态码
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindInvalidHierarchy:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// 各类型的默认消息
var defaultMessages = map[Kind]string{
	KindUnauthorized:     "認証が必要です",
	KindForbidden:        "アクセス権限がありません",
	KindNotFound:         "リソースが見つかりません",
	KindConflict:         "データが競合しています",
	KindValidation:       "入力値が不正です",
	KindInvalidHierarchy: "タスクの階層制限を超えています",
}

// Error 业务错误
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Code 错误码
func (e *Error) Code() string {
	return e.Kind.String()
}

// HTTPStatus HTTP状态码
func (e *Error) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// New 创建业务错误，message为空时使用默认消息
func New(kind Kind, message string) *Error {
	if message == "" {
		message = defaultMessages[kind]
	}
	return &Error{Kind: kind, Message: message}
}

func Unauthorized(message string) *Error     { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error        { return New(KindForbidden, message) }
func NotFound(message string) *Error         { return New(KindNotFound, message) }
func Conflict(message string) *Error         { return New(KindConflict, message) }
func Validation(message string) *Error       { return New(KindValidation, message) }
func InvalidHierarchy(message string) *Error { return New(KindInvalidHierarchy, message) }

// As 从错误链中取出业务错误
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf 返回错误类型，非业务错误返回0
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return 0
}

// Is 判断错误是否为指定类型
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
