package router

import (
	"testing"

	"vegaaccounts/backend/internal/settings"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func routePaths(r *gin.Engine) map[string]bool {
	paths := make(map[string]bool)
	for _, route := range r.Routes() {
		paths[route.Method+" "+route.Path] = true
	}
	return paths
}

func withActivationSetting(t *testing.T, enabled bool) {
	t.Helper()
	previous := settings.Default
	snap := settings.DefaultSettings()
	snap.ActivateAccount = enabled
	settings.Default = settings.NewStaticResolver(snap)
	t.Cleanup(func() { settings.Default = previous })
}

func TestSetupRouter_ActivationEnabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withActivationSetting(t, true)

	paths := routePaths(SetupRouter(zap.NewNop()))

	assert.True(t, paths["POST /sign-up/"])
	assert.True(t, paths["POST /password-reset/"])
	assert.True(t, paths["POST /password-reset/confirm/:token/"])
	assert.True(t, paths["GET /account/activate/:token/"])
	assert.True(t, paths["POST /account/activate/resend/"])
	assert.True(t, paths["POST /auth/login"])
	assert.True(t, paths["GET /health"])
	assert.True(t, paths["GET /metrics"])
	assert.True(t, paths["GET /api/v1/me"])
	assert.True(t, paths["POST /api/v1/settings/reload"])
}

func TestSetupRouter_ActivationDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withActivationSetting(t, false)

	paths := routePaths(SetupRouter(zap.NewNop()))

	// Rotas de ativação ausentes da tabela, não apenas retornando erro.
	assert.False(t, paths["GET /account/activate/:token/"])
	assert.False(t, paths["POST /account/activate/resend/"])

	// O restante do módulo continua registrado normalmente.
	assert.True(t, paths["POST /sign-up/"])
	assert.True(t, paths["POST /password-reset/"])
	assert.True(t, paths["POST /password-reset/confirm/:token/"])
}
