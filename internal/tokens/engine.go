package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vegaaccounts/backend/internal/models"
	"vegaaccounts/backend/internal/settings"
	vgmetrics "vegaaccounts/backend/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Outcome é o resultado tipado de uma validação de token. Distingue
// "não encontrado" de "encontrado mas expirado" para que a camada HTTP
// responda 404 e 400 corretamente.
type Outcome int

const (
	OutcomeValid Outcome = iota
	OutcomeNotFound
	OutcomeExpired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeExpired:
		return "expired"
	}
	return "unknown"
}

// Engine orquestra o ciclo de vida dos tokens: emissão/renovação, validação
// e consumo. Não agenda nada por conta própria; cada operação roda síncrona
// dentro da requisição que a disparou.
type Engine struct {
	store    *Store
	gen      *Generator
	resolver *settings.Resolver
	now      func() time.Time
}

// NewEngine monta uma engine sobre o banco e o resolver de settings dados.
func NewEngine(db *gorm.DB, resolver *settings.Resolver) *Engine {
	return &Engine{
		store:    NewStore(db),
		gen:      NewGenerator(resolver),
		resolver: resolver,
		now:      time.Now,
	}
}

// Store expõe o store subjacente (necessário para o Delete idempotente em
// fluxos que consomem o token fora da engine).
func (e *Engine) Store() *Store {
	return e.store
}

// IssueOrRefresh garante exatamente um token ativo para (purpose, userID):
// reusa a linha existente se houver, e sempre sobrescreve valor e expiração.
// Um token expirado é renovado no lugar, nunca duplicado.
func (e *Engine) IssueOrRefresh(ctx context.Context, purpose models.TokenPurpose, userID uuid.UUID) (*models.Token, error) {
	token, err := e.store.GetOrCreate(ctx, purpose, userID)
	if err != nil {
		return nil, err
	}

	value, err := e.gen.GenerateValue()
	if err != nil {
		return nil, err
	}
	expiresAt := e.gen.ExpiryFor(purpose, e.now())

	token.Value = value
	token.ExpiresAt = &expiresAt

	if err := e.store.Save(ctx, purpose, token); err != nil {
		return nil, err
	}

	vgmetrics.TokensIssuedCounter.WithLabelValues(string(purpose)).Inc()
	return token, nil
}

// Validate busca o token pelo valor e checa a expiração. Um token expirado é
// deixado no lugar — a única transição produtiva a partir daí é um novo
// IssueOrRefresh sobre a mesma linha.
func (e *Engine) Validate(ctx context.Context, purpose models.TokenPurpose, value string) (*models.Token, Outcome, error) {
	token, err := e.store.FindByValue(ctx, purpose, value)
	if errors.Is(err, ErrTokenNotFound) {
		return nil, OutcomeNotFound, nil
	}
	if err != nil {
		return nil, OutcomeNotFound, err
	}

	if token.Expired(e.now()) {
		return token, OutcomeExpired, nil
	}
	return token, OutcomeValid, nil
}

// Consume deleta o token após o efeito colateral (ativação, troca de senha)
// ter sido aplicado com sucesso. Chamar Consume antes do efeito queimaria um
// token válido à toa; a ordem é responsabilidade do caller.
func (e *Engine) Consume(ctx context.Context, purpose models.TokenPurpose, token *models.Token) error {
	if token == nil {
		return fmt.Errorf("cannot consume a nil token")
	}
	if err := e.store.Delete(ctx, purpose, token); err != nil {
		return err
	}
	vgmetrics.TokensConsumedCounter.WithLabelValues(string(purpose)).Inc()
	return nil
}
