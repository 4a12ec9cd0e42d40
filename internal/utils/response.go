package utils

import (
	"net/http"

	"pm-go/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Response 统一响应格式
type Response struct {
	Code    int         `json:"code"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "OK",
		Data:    data,
	})
}

// SuccessWithMessage 成功响应(带消息)
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Created 201响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "Created",
		Data:    data,
	})
}

// NoContent 204响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, code int, errCode string, message string) {
	c.JSON(code, Response{
		Code:    code,
		Error:   errCode,
		Message: message,
	})
}

// BadRequest 400错误
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, apperror.KindValidation.String(), message)
}

// Unauthorized 401错误
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, apperror.KindUnauthorized.String(), message)
}

// Forbidden 403错误
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, apperror.KindForbidden.String(), message)
}

// NotFound 404错误
func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, apperror.KindNotFound.String(), message)
}

// InternalError 500错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

// HandleError 将service层错误转换为HTTP响应，非业务错误统一返回500
func HandleError(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		ErrorResponse(c, appErr.HTTPStatus(), appErr.Code(), appErr.Message)
		return
	}

	_ = c.Error(err)
	if log, ok := c.Get("logger"); ok {
		if entry, ok := log.(*logrus.Entry); ok {
			entry.WithError(err).Error("unexpected error")
		}
	}
	InternalError(c, "サーバーエラーが発生しました")
}
