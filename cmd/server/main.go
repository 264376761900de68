package main

import (
	"vegaaccounts/backend/internal/auth"
	"vegaaccounts/backend/internal/database"
	"vegaaccounts/backend/internal/notifications"
	"vegaaccounts/backend/internal/router"
	"vegaaccounts/backend/internal/settings"
	"vegaaccounts/backend/pkg/config"
	vglog "vegaaccounts/backend/pkg/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// config e logger já foram inicializados pelos init() dos pacotes;
	// daqui pra frente qualquer falha de configuração é fatal.
	log := vglog.L

	if err := auth.InitializeJWT(); err != nil {
		log.Fatal("Falha ao inicializar JWT", zap.Error(err))
	}

	if err := database.ConnectDB(config.DatabaseDSN()); err != nil {
		log.Fatal("Falha ao conectar ao banco de dados", zap.Error(err))
	}

	if err := database.MigrateDB(config.DatabaseURL()); err != nil {
		log.Fatal("Falha ao aplicar migrações", zap.Error(err))
	}

	// Settings de domínio: defaults + overrides da tabela app_settings.
	// Chave desconhecida ou valor mal tipado impedem o serviço de subir.
	if err := settings.Init(database.GetDB()); err != nil {
		log.Fatal("Falha ao carregar settings do módulo de contas", zap.Error(err))
	}

	notifications.InitEmailService(settings.Default.Current().EmailFrom)
	notifications.InitDispatcher(settings.Default)

	if config.Cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.SetupRouter(log)

	addr := ":" + config.Cfg.Port
	log.Info("Servidor de contas iniciando", zap.String("addr", addr), zap.String("version", config.Cfg.AppVersion))
	if err := r.Run(addr); err != nil {
		log.Fatal("Falha ao iniciar o servidor HTTP", zap.Error(err))
	}
}
