package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenPurpose identifica qual fluxo um token serve. O purpose é carregado
// junto com o token por toda a engine; é ele que decide tabela, lifetime e
// template de e-mail — nunca a identidade de tipo.
type TokenPurpose string

const (
	PurposeActivation    TokenPurpose = "activation"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// TokenValueLength é o comprimento fixo do valor opaco de um token.
const TokenValueLength = 55

// TableName retorna a tabela que persiste tokens deste purpose.
// Cada purpose tem sua própria tabela; dentro dela, user_id é único —
// no máximo um token por (purpose, usuário).
func (p TokenPurpose) TableName() string {
	switch p {
	case PurposeActivation:
		return "activation_tokens"
	case PurposePasswordReset:
		return "password_reset_tokens"
	}
	return ""
}

// Valid reporta se o purpose é um dos conhecidos.
func (p TokenPurpose) Valid() bool {
	return p == PurposeActivation || p == PurposePasswordReset
}

// Token é o registro persistido de um token de ativação ou de reset de senha.
// A mesma struct serve as duas tabelas; o purpose que acompanha cada operação
// do store seleciona a tabela correta.
type Token struct {
	ID        uint       `gorm:"primarykey"`
	Value     string     `gorm:"type:varchar(55);index;not null"`
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	ExpiresAt *time.Time // nulo até o token ser configurado por IssueOrRefresh
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reporta se o token já passou da validade. É um predicado derivado,
// nunca um estado armazenado. Um token ainda sem expiração configurada é
// tratado como expirado — ele nunca deve validar.
func (t *Token) Expired(now time.Time) bool {
	if t.ExpiresAt == nil {
		return true
	}
	return !now.Before(*t.ExpiresAt)
}
