package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/merkato/fincore/internal/domain"
)

// Claims represents the internal credential JWT claims
type Claims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}

// CredentialManager mints and verifies the short-lived internal system
// credential that sanctions an approval skip.
type CredentialManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewCredentialManager creates a new credential manager
func NewCredentialManager(secretKey string, tokenDuration time.Duration) *CredentialManager {
	return &CredentialManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Mint generates a new internal credential for a service
func (m *CredentialManager) Mint(service string) (string, error) {
	claims := Claims{
		Service: service,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifyInternalCredential verifies a credential token. Any failure
// other than expiry maps to ErrCredentialInvalid.
func (m *CredentialManager) VerifyInternalCredential(tokenString string) error {
	_, err := m.verify(tokenString)
	return err
}

// Verify verifies a credential token and returns its claims
func (m *CredentialManager) Verify(tokenString string) (*Claims, error) {
	return m.verify(tokenString)
}

func (m *CredentialManager) verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrCredentialExpired
		}
		return nil, domain.ErrCredentialInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrCredentialInvalid
	}

	if claims.Service == "" {
		return nil, domain.ErrCredentialInvalid
	}

	return claims, nil
}
