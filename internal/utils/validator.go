package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"pm-go/internal/dto"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout 日期格式 YYYY-MM-DD
const DateLayout = "2006-01-02"

var (
	validate    *validator.Validate
	initOnce    sync.Once
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// InitValidator 初始化验证器，并注册到gin的binding引擎
func InitValidator() {
	initOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		registerCustom(validate)

		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustom(v)
		}
	})
}

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("password", validatePassword)
	_ = v.RegisterValidation("date", validateDate)

	v.RegisterCustomTypeFunc(nullableValue,
		dto.Nullable[string]{},
		dto.Nullable[uint64]{},
		dto.Nullable[float64]{},
	)

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// nullableValue 未设置或为null时返回nil，使omitempty生效
func nullableValue(field reflect.Value) interface{} {
	if n, ok := field.Interface().(interface{ Interface() interface{} }); ok {
		return n.Interface()
	}
	return nil
}

// GetValidator 获取验证器实例
func GetValidator() *validator.Validate {
	InitValidator()
	return validate
}

// validatePassword 密码策略校验
func validatePassword(fl validator.FieldLevel) bool {
	return ValidatePasswordPolicy(fl.Field().String())
}

// validateDate YYYY-MM-DD 且为实际存在的日期
func validateDate(fl validator.FieldLevel) bool {
	return IsValidDate(fl.Field().String())
}

// IsValidDate 判断是否为合法的 YYYY-MM-DD 日期
func IsValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidateStruct 验证结构体
func ValidateStruct(s interface{}) error {
	if err := GetValidator().Struct(s); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// FormatValidationError 格式化验证错误
func FormatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		param := e.Param()

		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("%sは必須です", field)
		case "min":
			message = fmt.Sprintf("%sは%s以上で入力してください", field, param)
		case "max":
			message = fmt.Sprintf("%sは%s以下で入力してください", field, param)
		case "gt", "gte":
			message = fmt.Sprintf("%sの値が不正です", field)
		case "email":
			message = "有効なメールアドレスを入力してください"
		case "oneof":
			message = fmt.Sprintf("%sは%sのいずれかを指定してください", field, param)
		case "password":
			message = "パスワードは8文字以上で、英字と数字をそれぞれ1文字以上含めてください"
		case "date":
			message = fmt.Sprintf("%sは YYYY-MM-DD 形式の存在する日付で入力してください", field)
		default:
			message = fmt.Sprintf("%sの検証に失敗しました: %s", field, e.Tag())
		}

		messages = append(messages, message)
	}

	return errors.New(strings.Join(messages, "; "))
}
