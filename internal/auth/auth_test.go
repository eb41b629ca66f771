package auth

import "testing"

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService("test_secret", "admin", "admin123")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestVerify(t *testing.T) {
	svc := newTestService(t)

	if !svc.Verify("admin", "admin123") {
		t.Error("expected configured credentials to verify")
	}
	if svc.Verify("admin", "wrong") {
		t.Error("expected wrong password to fail")
	}
	if svc.Verify("root", "admin123") {
		t.Error("expected wrong username to fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("expected username admin, got %q", claims.Username)
	}
	if claims.Role != RoleSuperAdmin {
		t.Errorf("expected role %s, got %q", RoleSuperAdmin, claims.Role)
	}
}

func TestValidateToken_WrongKey(t *testing.T) {
	svc := newTestService(t)
	other, err := NewService("other_secret", "admin", "admin123")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, err := other.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("expected token signed with another key to fail")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("expected garbage token to fail")
	}
}
