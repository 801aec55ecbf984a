package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qlink-go/internal/apperrors"
	"qlink-go/internal/i18n"
	"qlink-go/response"
)

// GlobalErrorMiddleware 全局错误中间件：把 handler 链上挂到
// c.Errors 的 AppError 统一映射为 HTTP 状态 + JSON 响应。
// Message 是消息 ID 时按请求语言解析，否则原样返回
func GlobalErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// 如果有错误发生
		if len(c.Errors) > 0 {
			for _, err := range c.Errors {
				var appErr *apperrors.AppError
				if errors.As(err.Err, &appErr) {
					message := i18n.T(c.Request.Context(), appErr.Message, nil)
					c.AbortWithStatusJSON(appErr.Code, response.Error(message))
					return
				}
			}

			// 默认处理未定义的错误
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error("internal server error"))
			return
		}
	}
}
