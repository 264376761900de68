package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig detém a configuração de processo da aplicação.
// Configurações de domínio (lifetimes de token, templates de e-mail, etc.)
// vivem no resolver de settings, que pode ser recarregado em runtime.
type AppConfig struct {
	Port              string
	AppVersion        string
	Environment       string // "development", "staging", "production"
	JWTSecret         string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	EnableDBSSL       bool
	AWSRegion         string
	AWSSESEmailSender string
	ExternalBaseURL   string // base para links de ativação/reset; vazio = usar o host da requisição
}

var Cfg AppConfig

// LoadConfig carrega a configuração da aplicação de variáveis de ambiente.
func LoadConfig() {
	// Carregar .env para desenvolvimento local, ignorar erro se não existir (para produção)
	if err := godotenv.Load(); err != nil {
		log.Println("Aviso: Arquivo .env não encontrado ou erro ao carregar:", err)
	}

	Cfg.Port = getEnv("PORT", "8080")
	Cfg.AppVersion = getEnv("APP_VERSION", "dev")
	Cfg.Environment = getEnv("ENVIRONMENT", "development")
	Cfg.JWTSecret = getEnv("JWT_SECRET_KEY", "a_very_secure_secret_key_please_change_me_32_chars_long")

	Cfg.DBHost = getEnv("DB_HOST", "localhost")
	Cfg.DBPort = getEnv("DB_PORT", "5432")
	Cfg.DBUser = getEnv("DB_USER", "vega_user")
	Cfg.DBPassword = getEnv("DB_PASSWORD", "vega_pass")
	Cfg.DBName = getEnv("DB_NAME", "vega_accounts_db")
	Cfg.EnableDBSSL = getEnvAsBool("DB_SSL_ENABLE", false)

	Cfg.AWSRegion = getEnv("AWS_REGION", "")
	Cfg.AWSSESEmailSender = getEnv("AWS_SES_EMAIL_SENDER", "")
	Cfg.ExternalBaseURL = getEnv("EXTERNAL_BASE_URL", "")

	log.Printf("Configuração carregada para o ambiente: %s", Cfg.Environment)
}

// DatabaseDSN monta a string de conexão Postgres a partir da configuração carregada.
func DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		Cfg.DBHost, Cfg.DBPort, Cfg.DBUser, Cfg.DBPassword, Cfg.DBName, sslMode())
}

// DatabaseURL monta a URL de conexão usada pelo golang-migrate.
func DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		Cfg.DBUser, Cfg.DBPassword, Cfg.DBHost, Cfg.DBPort, Cfg.DBName, sslMode())
}

func sslMode() string {
	if Cfg.EnableDBSSL {
		return "require"
	}
	return "disable"
}

// getEnv retorna o valor de uma variável de ambiente ou um valor default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsBool retorna o valor booleano de uma variável de ambiente ou um valor default.
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Aviso: Variável de ambiente booleana '%s' com valor inválido '%s', usando default: %t", key, valStr, defaultValue)
		return defaultValue
	}
	return valBool
}

func init() {
	LoadConfig() // Carregar config automaticamente na inicialização do pacote
}
