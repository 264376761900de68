package settings

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"vegaaccounts/backend/internal/models"
	vglog "vegaaccounts/backend/pkg/log"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Chaves reconhecidas na tabela app_settings. Qualquer outra chave presente
// no banco é um erro de configuração e impede a inicialização.
const (
	KeyActivateAccount            = "ACTIVATE_ACCOUNT"
	KeyActivationTokenLifetime    = "ACTIVATION_TOKEN_LIFETIME"
	KeyActivationEmailTemplate    = "ACTIVATION_EMAIL_TEMPLATE"
	KeyActivationEmailSubject     = "ACTIVATION_EMAIL_SUBJECT"
	KeyPasswordResetTokenLifetime = "PASSWORD_RESET_TOKEN_LIFETIME"
	KeyPasswordResetEmailTemplate = "PASSWORD_RESET_EMAIL_TEMPLATE"
	KeyPasswordResetEmailSubject  = "PASSWORD_RESET_EMAIL_SUBJECT"
	KeyEmailFrom                  = "EMAIL_FROM"
)

// Settings é o snapshot tipado e imutável da configuração do módulo de contas.
// Um snapshot nunca é mutado depois de publicado; Reload monta um novo e troca
// o ponteiro atomicamente.
type Settings struct {
	ActivateAccount            bool
	ActivationTokenLifetime    time.Duration
	ActivationEmailTemplate    string
	ActivationEmailSubject     string
	PasswordResetTokenLifetime time.Duration
	PasswordResetEmailTemplate string
	PasswordResetEmailSubject  string
	EmailFrom                  string
}

// Lifetime retorna o lifetime configurado para o purpose dado.
// O despacho é pelo purpose explícito, nunca por identidade de tipo.
func (s *Settings) Lifetime(purpose models.TokenPurpose) time.Duration {
	switch purpose {
	case models.PurposeActivation:
		return s.ActivationTokenLifetime
	case models.PurposePasswordReset:
		return s.PasswordResetTokenLifetime
	}
	return 0
}

// EmailTemplate retorna o identificador de template para o purpose dado.
func (s *Settings) EmailTemplate(purpose models.TokenPurpose) string {
	if purpose == models.PurposeActivation {
		return s.ActivationEmailTemplate
	}
	return s.PasswordResetEmailTemplate
}

// EmailSubject retorna o assunto de e-mail para o purpose dado.
func (s *Settings) EmailSubject(purpose models.TokenPurpose) string {
	if purpose == models.PurposeActivation {
		return s.ActivationEmailSubject
	}
	return s.PasswordResetEmailSubject
}

func defaultSettings() Settings {
	return Settings{
		ActivateAccount:            true,
		ActivationTokenLifetime:    1 * time.Hour,
		ActivationEmailTemplate:    "activation_email",
		ActivationEmailSubject:     "Activate your account",
		PasswordResetTokenLifetime: 1 * time.Hour,
		PasswordResetEmailTemplate: "password_reset_email",
		PasswordResetEmailSubject:  "Password reset instructions",
		EmailFrom:                  "change@me.com",
	}
}

// Resolver carrega defaults + overrides da tabela app_settings e publica
// snapshots imutáveis. Reload é all-or-nothing: leitores veem sempre o
// snapshot antigo ou o novo, nunca um estado intermediário.
type Resolver struct {
	db      *gorm.DB
	current atomic.Pointer[Settings]
}

// Default é o resolver global da aplicação, populado por Init no startup.
var Default *Resolver

// Init cria o resolver global. Falha de carga (chave desconhecida, valor
// mal tipado) é fatal para quem chama — a aplicação não deve subir.
func Init(db *gorm.DB) error {
	r, err := NewResolver(db)
	if err != nil {
		return err
	}
	Default = r
	return nil
}

// NewStaticResolver retorna um resolver fixo no snapshot dado, sem banco por
// trás. Usado em testes e em composições que não têm a tabela app_settings.
func NewStaticResolver(s Settings) *Resolver {
	r := &Resolver{}
	r.current.Store(&s)
	return r
}

// DefaultSettings retorna uma cópia dos defaults embutidos.
func DefaultSettings() Settings {
	return defaultSettings()
}

// NewResolver constrói um resolver e carrega o primeiro snapshot.
func NewResolver(db *gorm.DB) (*Resolver, error) {
	r := &Resolver{db: db}
	if err := r.Reload(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

// Current retorna o snapshot ativo.
func (r *Resolver) Current() *Settings {
	return r.current.Load()
}

// Reload remonta o snapshot a partir dos defaults + linhas de app_settings
// e o troca atomicamente. Em caso de erro o snapshot anterior permanece ativo.
func (r *Resolver) Reload(ctx context.Context) error {
	snap, err := r.load(ctx)
	if err != nil {
		return err
	}
	r.current.Store(snap)
	vglog.L.Info("Settings do módulo de contas carregadas.",
		zap.Bool("activate_account", snap.ActivateAccount),
		zap.Duration("activation_token_lifetime", snap.ActivationTokenLifetime),
		zap.Duration("password_reset_token_lifetime", snap.PasswordResetTokenLifetime))
	return nil
}

func (r *Resolver) load(ctx context.Context) (*Settings, error) {
	snap := defaultSettings()

	var rows []models.AppSetting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load app_settings: %w", err)
	}

	for _, row := range rows {
		if err := applyOverride(&snap, row.Key, row.Value); err != nil {
			return nil, err
		}
	}

	return &snap, nil
}

// applyOverride valida e aplica um override individual. Chave desconhecida ou
// valor que não converte para o tipo do default são erros de configuração.
func applyOverride(s *Settings, key, value string) error {
	switch key {
	case KeyActivateAccount:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return typeError(key, value, "bool")
		}
		s.ActivateAccount = v
	case KeyActivationTokenLifetime:
		d, err := time.ParseDuration(value)
		if err != nil {
			return typeError(key, value, "duration")
		}
		s.ActivationTokenLifetime = d
	case KeyPasswordResetTokenLifetime:
		d, err := time.ParseDuration(value)
		if err != nil {
			return typeError(key, value, "duration")
		}
		s.PasswordResetTokenLifetime = d
	case KeyActivationEmailTemplate:
		s.ActivationEmailTemplate = value
	case KeyActivationEmailSubject:
		s.ActivationEmailSubject = value
	case KeyPasswordResetEmailTemplate:
		s.PasswordResetEmailTemplate = value
	case KeyPasswordResetEmailSubject:
		s.PasswordResetEmailSubject = value
	case KeyEmailFrom:
		s.EmailFrom = value
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}
	return nil
}

func typeError(key, value, want string) error {
	return fmt.Errorf("setting %s: value %q is not a valid %s", key, value, want)
}
