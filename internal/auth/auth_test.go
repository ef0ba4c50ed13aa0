package auth

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	keys, err := NewKeys("test-secret")
	if err != nil {
		t.Fatalf("NewKeys failed: %v", err)
	}

	token, err := keys.GenerateToken("user-123", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := keys.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("subject = %q, want user-123", claims.Subject)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("role = %q, want %q", claims.Role, RoleAdmin)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	keys, _ := NewKeys("secret-a")
	other, _ := NewKeys("secret-b")

	token, err := keys.GenerateToken("user-123", RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret should be rejected")
	}
}

func TestNewKeysRequiresSecret(t *testing.T) {
	if _, err := NewKeys(""); err == nil {
		t.Error("empty secret should be rejected")
	}
}
