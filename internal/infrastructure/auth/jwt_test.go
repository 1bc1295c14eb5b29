package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/merkato/fincore/internal/domain"
	"github.com/merkato/fincore/internal/infrastructure/auth"
)

func TestCredentialManagerMintAndVerify(t *testing.T) {
	t.Parallel()

	manager := auth.NewCredentialManager("super-secret", time.Minute)

	token, err := manager.Mint("reinvestment-worker")
	if err != nil {
		t.Fatalf("failed to mint credential: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("expected credential to verify, got %v", err)
	}

	if claims.Service != "reinvestment-worker" {
		t.Fatalf("expected service claim to survive, got %+v", claims)
	}

	if err := manager.VerifyInternalCredential(token); err != nil {
		t.Fatalf("expected credential to pass gate check, got %v", err)
	}
}

func TestCredentialManagerVerifyErrors(t *testing.T) {
	t.Parallel()

	manager := auth.NewCredentialManager("secret", time.Minute)

	expiredClaims := auth.Claims{
		Service: "batch-import",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
			NotBefore: jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	}

	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	if err := manager.VerifyInternalCredential(expiredToken); err != domain.ErrCredentialExpired {
		t.Fatalf("expected ErrCredentialExpired, got %v", err)
	}

	otherManager := auth.NewCredentialManager("other-secret", time.Minute)
	if err := otherManager.VerifyInternalCredential(expiredToken); err != domain.ErrCredentialInvalid {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}

	if err := manager.VerifyInternalCredential("not-a-token"); err != domain.ErrCredentialInvalid {
		t.Fatalf("expected failure for malformed token, got %v", err)
	}

	missingService := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	anonToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, missingService).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if err := manager.VerifyInternalCredential(anonToken); err != domain.ErrCredentialInvalid {
		t.Fatalf("expected missing service claim to be rejected, got %v", err)
	}
}
