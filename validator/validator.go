package validator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator 结构体校验接口
type Validator interface {
	// Struct 校验结构体
	Struct(s any) error
	// StructCtx 带上下文校验结构体
	StructCtx(ctx context.Context, s any) error
	// GetValidator 获取底层的 validator 实例
	GetValidator() *validator.Validate
}

// validatorImpl 校验器实现
type validatorImpl struct {
	validator *validator.Validate
	trans     ut.Translator
}

// Validate 全局校验器实例
var (
	Validate Validator
	once     sync.Once
)

func init() {
	once.Do(func() {
		Validate = New()
	})
}

// New 创建新的校验器实例
func New() Validator {
	v := &validatorImpl{
		validator: validator.New(),
	}

	// 初始化英文翻译器
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	if trans, found := uni.GetTranslator("en"); found {
		v.trans = trans
		_ = en_translations.RegisterDefaultTranslations(v.validator, trans)
	}

	return v
}

// Struct 校验结构体
func (v *validatorImpl) Struct(s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}

	return v.translateError(v.validator.Struct(s))
}

// StructCtx 带上下文校验结构体
func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}

	return v.translateError(v.validator.StructCtx(ctx, s))
}

// GetValidator 获取底层的 validator 实例
func (v *validatorImpl) GetValidator() *validator.Validate {
	return v.validator
}

// translateError 翻译校验错误
func (v *validatorImpl) translateError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || v.trans == nil {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fe.Translate(v.trans))
	}

	return errors.New(strings.Join(messages, "; "))
}
