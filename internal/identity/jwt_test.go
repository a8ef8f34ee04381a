package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateToken_WithJTI(t *testing.T) {
	secret := "test-secret"

	tok, err := GenerateToken(secret, "user-1", "a@example.com", "admin", 24*time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tok.Value == "" || tok.JTI == "" {
		t.Fatal("Expected token and JTI to be generated")
	}

	claims, err := ParseToken(secret, tok.Value)
	if err != nil {
		t.Fatalf("Expected no error parsing token, got %v", err)
	}
	if claims.ID != tok.JTI {
		t.Errorf("Expected JTI %s, got %s", tok.JTI, claims.ID)
	}
	if claims.Sub != "user-1" || claims.Email != "a@example.com" || claims.Role != "admin" {
		t.Errorf("Unexpected claims %+v", claims)
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	if _, err := ParseToken("test-secret", "invalid.token.here"); err == nil {
		t.Error("Expected error for invalid token")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, _ := GenerateToken("secret-a", "user-1", "a@example.com", "student", time.Hour)
	if _, err := ParseToken("secret-b", tok.Value); err == nil {
		t.Error("Expected error for token signed with another secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	c := Claims{
		Sub: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("s"))

	if _, err := ParseToken("s", signed); err == nil {
		t.Error("Expected error for expired token")
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	c := Claims{Sub: "user-1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, c).SignedString([]byte("s"))

	if _, err := ParseToken("s", signed); err == nil {
		t.Error("Expected HS512 token to be rejected")
	}
}
