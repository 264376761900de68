package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User representa uma conta de usuário gerenciada por este serviço.
// Contas criadas com ativação habilitada nascem com IsActive=false e só
// são ativadas pela consumação de um ActivationToken válido.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate gera o UUID da conta antes do INSERT.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// AppSetting armazena overrides de configuração do módulo de contas no banco.
// Isso permite ajustar lifetimes de token, templates e remetente de e-mail
// sem reiniciar a aplicação (ver internal/settings).
type AppSetting struct {
	gorm.Model
	Key   string `gorm:"type:varchar(100);uniqueIndex;not null"` // A chave da configuração (ex: "ACTIVATION_TOKEN_LIFETIME")
	Value string `gorm:"type:text;not null"`
}
