package handlers

import (
	"fmt"
	"strings"

	"vegaaccounts/backend/pkg/config"

	"github.com/gin-gonic/gin"
)

// buildTokenLink monta o link absoluto enviado por e-mail, com o valor do
// token como parâmetro de path. Usa EXTERNAL_BASE_URL quando configurada;
// caso contrário, o scheme e host da própria requisição.
func buildTokenLink(c *gin.Context, path string) (link string, host string) {
	host = c.Request.Host

	base := config.Cfg.ExternalBaseURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, host)
	}

	return strings.TrimSuffix(base, "/") + path, host
}
