package permissions

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
)

const (
	tokenLength = 24
	tokenChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Token is a kayttaja_tunniste: an invitation token for a person who has no account yet.
type Token struct {
	ID        uuid.UUID
	Value     string
	CreatedAt time.Time
	SentAt    *time.Time
	Role      Role
}

// HankeUser is a hanke_kayttaja: a named person of a hanke, reachable by email.
type HankeUser struct {
	ID           uuid.UUID
	HankeID      int
	Name         string
	Email        string
	PermissionID *int
	TokenID      *uuid.UUID
}

// NewToken creates a view-only token with a random value.
func NewToken(now time.Time) (Token, error) {
	value, err := randomToken()
	if err != nil {
		return Token{}, err
	}
	return Token{
		ID:        uuid.New(),
		Value:     value,
		CreatedAt: now.UTC(),
		Role:      RoleView,
	}, nil
}

func randomToken() (string, error) {
	max := big.NewInt(int64(len(tokenChars)))
	buf := make([]byte, tokenLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tokenChars[n.Int64()]
	}
	return string(buf), nil
}
