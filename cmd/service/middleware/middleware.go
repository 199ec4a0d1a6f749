package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/newsradar-ai/newsradar/app/core"
	"github.com/newsradar-ai/newsradar/app/response"
	"github.com/newsradar-ai/newsradar/pkg/errors"
	"github.com/newsradar-ai/newsradar/pkg/i18n"
	"github.com/newsradar-ai/newsradar/pkg/security"
)

const (
	AUTH_TOKEN_HEADER_KEY = "Authorization"

	TOKEN_CLAIMS_KEY = "claims"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

func Cors(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// Authorization 校验 Bearer token，未配置 encrypt_key 时跳过鉴权
func Authorization(core *core.Core) gin.HandlerFunc {
	tracePrefix := "middleware.Authorization"
	return func(c *gin.Context) {
		secret := core.Cfg().Security.EncryptKey
		if secret == "" {
			return
		}

		raw := strings.TrimPrefix(c.Request.Header.Get(AUTH_TOKEN_HEADER_KEY), "Bearer ")
		if raw == "" {
			response.APIError(c, errors.New(tracePrefix, i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		claims, err := security.ParseAccessToken(secret, raw)
		if err != nil {
			response.APIError(c, errors.New(tracePrefix+".ParseAccessToken", i18n.ERROR_INVALID_TOKEN, err).Code(http.StatusUnauthorized))
			return
		}

		c.Set(TOKEN_CLAIMS_KEY, claims)
	}
}
