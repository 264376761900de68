package router

import (
	"net/http"
	"time"

	"vegaaccounts/backend/internal/auth"
	"vegaaccounts/backend/internal/database"
	"vegaaccounts/backend/internal/handlers"
	vgmiddleware "vegaaccounts/backend/internal/middleware"
	"vegaaccounts/backend/internal/settings"
	vglog "vegaaccounts/backend/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter configura e retorna uma instância do Gin Engine.
// As rotas de ativação só existem quando a feature está habilitada — a
// checagem acontece uma vez aqui, na composição da tabela de rotas, e não
// por requisição dentro dos handlers.
func SetupRouter(log *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(vgmiddleware.Metrics())
	router.Use(vgmiddleware.GinZap(log, time.RFC3339, true))
	router.Use(vgmiddleware.GinRecovery(log, true))

	// Endpoint para métricas Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rotas de Saúde
	router.GET("/health", healthCheckHandler)

	setupAccountRoutes(router)
	setupAuthRoutes(router)
	setupV1Routes(router)

	return router
}

func healthCheckHandler(c *gin.Context) {
	sqlDB, err := database.DB.DB()
	if err != nil {
		vglog.L.Error("Erro ao obter a instância do DB para o health check", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database instance error"})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		vglog.L.Error("Falha no ping do banco de dados durante o health check", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database ping failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "connected",
	})
}

func setupAccountRoutes(r *gin.Engine) {
	r.POST("/sign-up/", handlers.SignUpHandler)

	// Fluxo de reset de senha, sempre disponível.
	r.POST("/password-reset/", handlers.ForgotPasswordHandler)
	r.POST("/password-reset/confirm/:token/", handlers.ResetPasswordConfirmHandler)

	// Fluxo de ativação, condicionado ao snapshot de settings no startup.
	if settings.Default.Current().ActivateAccount {
		accountRoutes := r.Group("/account")
		{
			accountRoutes.GET("/activate/:token/", handlers.ActivateAccountHandler)
			accountRoutes.POST("/activate/resend/", handlers.ResendActivationHandler)
		}
	}
}

func setupAuthRoutes(r *gin.Engine) {
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/login", handlers.LoginHandler)
	}
}

func setupV1Routes(r *gin.Engine) {
	apiV1 := r.Group("/api/v1")
	apiV1.Use(auth.AuthMiddleware())
	{
		apiV1.GET("/me", func(c *gin.Context) {
			userID, _ := c.Get("userID")
			userEmail, _ := c.Get("userEmail")
			username, _ := c.Get("username")
			c.JSON(http.StatusOK, gin.H{
				"user_id":  userID,
				"email":    userEmail,
				"username": username,
			})
		})
		apiV1.POST("/settings/reload", handlers.ReloadSettingsHandler)
	}
}
