package tokens

import (
	"context"
	"errors"
	"fmt"

	"vegaaccounts/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTokenNotFound indica que nenhum token corresponde à busca.
var ErrTokenNotFound = errors.New("token not found")

// Store persiste registros de token, uma tabela por purpose.
// A serialização de GetOrCreate entre processos concorrentes vem do índice
// único em user_id no banco, não de lock em memória.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) table(ctx context.Context, purpose models.TokenPurpose) *gorm.DB {
	return s.db.WithContext(ctx).Table(purpose.TableName())
}

// GetOrCreate retorna o token existente para (purpose, userID), criando um
// registro vazio (sem valor/expiração) se necessário. Duas chamadas
// simultâneas para a mesma chave resolvem pela unique constraint: quem perde
// a corrida recebe gorm.ErrDuplicatedKey e relê a linha do vencedor.
func (s *Store) GetOrCreate(ctx context.Context, purpose models.TokenPurpose, userID uuid.UUID) (*models.Token, error) {
	if !purpose.Valid() {
		return nil, fmt.Errorf("unknown token purpose: %q", purpose)
	}

	var token models.Token
	err := s.table(ctx, purpose).Where("user_id = ?", userID).Take(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch token: %w", err)
	}

	token = models.Token{UserID: userID}
	err = s.table(ctx, purpose).Create(&token).Error
	if err == nil {
		return &token, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Outro processo criou a linha entre o Take e o Create.
		token = models.Token{}
		if err := s.table(ctx, purpose).Where("user_id = ?", userID).Take(&token).Error; err != nil {
			return nil, fmt.Errorf("failed to re-fetch token after conflict: %w", err)
		}
		return &token, nil
	}
	return nil, fmt.Errorf("failed to create token: %w", err)
}

// FindByValue busca um token pelo valor exato. Retorna ErrTokenNotFound se
// não houver correspondência.
func (s *Store) FindByValue(ctx context.Context, purpose models.TokenPurpose, value string) (*models.Token, error) {
	if value == "" {
		// Linhas recém-criadas têm valor vazio; nunca devem ser encontráveis.
		return nil, ErrTokenNotFound
	}

	var token models.Token
	err := s.table(ctx, purpose).Where("value = ?", value).Take(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up token by value: %w", err)
	}
	return &token, nil
}

// Save persiste as mutações do token (novo valor, nova expiração).
func (s *Store) Save(ctx context.Context, purpose models.TokenPurpose, token *models.Token) error {
	if err := s.table(ctx, purpose).Save(token).Error; err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Delete remove o registro do token. Idempotente: deletar um token que já
// foi removido não é erro.
func (s *Store) Delete(ctx context.Context, purpose models.TokenPurpose, token *models.Token) error {
	result := s.table(ctx, purpose).Where("id = ?", token.ID).Delete(&models.Token{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete token: %w", result.Error)
	}
	// result.RowsAffected == 0 significa que outro caminho já consumiu o
	// token; tratar como no-op.
	return nil
}
