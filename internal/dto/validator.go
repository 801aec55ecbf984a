package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"qlink-go/pkg/utils"
)

// RegisterCustomValidators 向 gin 的 validator 引擎注册自定义校验标签。
// 在路由装配前调用一次。
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("shortalias", func(fl validator.FieldLevel) bool {
			return utils.ValidateAlias(fl.Field().String()) == nil
		})
	}
}
