package tokens

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"vegaaccounts/backend/internal/models"
	"vegaaccounts/backend/internal/settings"
)

// tokenAlphabet é o alfabeto de 62 símbolos de onde valores de token são
// sorteados uniformemente.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generator produz valores de token imprevisíveis e calcula expirações a
// partir dos lifetimes configurados no resolver.
type Generator struct {
	resolver *settings.Resolver
}

func NewGenerator(resolver *settings.Resolver) *Generator {
	return &Generator{resolver: resolver}
}

// GenerateValue gera um valor aleatório de 55 caracteres alfanuméricos usando
// crypto/rand. Cada posição é sorteada de forma independente e uniforme.
func (g *Generator) GenerateValue() (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, models.TokenValueLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate token value: %w", err)
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// ExpiryFor calcula now + lifetime(purpose). O lifetime é resolvido no
// momento da chamada, no snapshot atual do resolver — um Reload entre
// requisições passa a valer imediatamente.
func (g *Generator) ExpiryFor(purpose models.TokenPurpose, now time.Time) time.Time {
	return now.Add(g.resolver.Current().Lifetime(purpose))
}
